package web

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/imagecache"
)

const maxUploadSize = 50 * 1024 * 1024 // 50 MB

var errNotImage = errors.New("not an image")

// notImageMessage is shown when an upload is not a JPEG, PNG, GIF or WebP.
const notImageMessage = "Only image files are allowed"

// parseForm parses multipart and urlencoded bodies alike.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// formImage returns the image uploaded under field, or nil when the input
// was left empty.
func (s *Server) formImage(r *http.Request, field string) (*backend.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	return s.readUpload(headers[0])
}

// formImages returns every image uploaded under field.
func (s *Server) formImages(r *http.Request, field string) ([]*backend.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var files []*backend.File
	for _, fh := range r.MultipartForm.File[field] {
		if fh.Size == 0 {
			continue
		}
		f, err := s.readUpload(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (s *Server) readUpload(fh *multipart.FileHeader) (*backend.File, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	mimeType, ok := imagecache.DetectImageMIME(data)
	if !ok {
		return nil, errNotImage
	}
	return &backend.File{Name: fh.Filename, ContentType: mimeType, Data: data}, nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
