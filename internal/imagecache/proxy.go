package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// maxImageSize caps how much of a remote image is fetched.
const maxImageSize = 20 * 1024 * 1024

var (
	ErrHostNotAllowed = errors.New("image host not allowed")
	ErrNotImage       = errors.New("remote file is not a supported image")
)

// Proxy serves remote images from the local Store, fetching them on first use
// from allow-listed hosts.
type Proxy struct {
	store  Store
	client *http.Client
	hosts  map[string]bool
	group  singleflight.Group
	logger *slog.Logger
}

func NewProxy(store Store, hosts []string, timeout time.Duration, logger *slog.Logger) *Proxy {
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = true
		}
	}
	return &Proxy{
		store:  store,
		client: &http.Client{Timeout: timeout},
		hosts:  allowed,
		logger: logger,
	}
}

// Allowed reports whether src is an http(s) URL on an allow-listed host.
func (p *Proxy) Allowed(src string) bool {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return p.hosts[strings.ToLower(u.Hostname())]
}

// Open returns the image at src and its MIME type, fetching and storing it
// when no local copy exists.
func (p *Proxy) Open(ctx context.Context, src string) (io.ReadCloser, string, error) {
	if !p.Allowed(src) {
		return nil, "", ErrHostNotAllowed
	}
	key := Key(src)

	rc, mimeType, err := p.store.Get(ctx, key)
	if err == nil {
		return rc, mimeType, nil
	}
	if !errors.Is(err, ErrNotFound) {
		p.logger.Warn("image cache read failed, fetching", "src", src, "error", err)
	}

	type fetched struct {
		data     []byte
		mimeType string
	}
	// Shared with concurrent viewers of src; bounded by the client timeout.
	shared := context.WithoutCancel(ctx)
	res, err, _ := p.group.Do(key, func() (any, error) {
		data, mimeType, err := p.fetch(shared, src)
		if err != nil {
			return nil, err
		}
		if perr := p.store.Put(shared, key, mimeType, bytes.NewReader(data)); perr != nil {
			p.logger.Warn("image cache write failed", "src", src, "error", perr)
		}
		return fetched{data, mimeType}, nil
	})
	if err != nil {
		return nil, "", err
	}
	f := res.(fetched)
	return io.NopCloser(bytes.NewReader(f.data)), f.mimeType, nil
}

func (p *Proxy) fetch(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("image larger than %d bytes", maxImageSize)
	}
	mimeType, ok := DetectImageMIME(data)
	if !ok {
		return nil, "", ErrNotImage
	}
	return data, mimeType, nil
}

// Evict drops the local copy of src, if any.
func (p *Proxy) Evict(ctx context.Context, src string) error {
	if err := p.store.Delete(ctx, Key(src)); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// URL is the dashboard path serving src through the proxy. Sources the proxy
// will not fetch are returned unchanged.
func (p *Proxy) URL(src string) string {
	if src == "" || !p.Allowed(src) {
		return src
	}
	return "/media?src=" + url.QueryEscape(src)
}
