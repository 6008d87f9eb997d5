package backend

import (
	"context"
	"net/http"

	"github.com/edulife/edulife-admin/internal/domain"
)

func (c *Client) GetSiteSettings(ctx context.Context, token string) (*domain.SiteSettings, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "GET /admin/site-settings",
		path:     "/admin/site-settings",
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	settings := &domain.SiteSettings{}
	if err := decodeData(env, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSiteSetting replaces one settings section. value is the section's
// JSON encoding; heroImage is only meaningful for the "hero" key.
func (c *Client) UpdateSiteSetting(ctx context.Context, token, key string, value []byte, heroImage *File) (string, error) {
	req, err := multipartRequest(http.MethodPost, "POST /admin/site-settings", "/admin/site-settings", token,
		[]formField{{"key", key}, {"value", string(value)}},
		[]fileField{{"heroImage", heroImage}})
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
