package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/edulife/edulife-admin/internal/domain"
)

func (c *Client) ListGallery(ctx context.Context, token string) ([]domain.Photo, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "GET /admin/gallery",
		path:     "/admin/gallery",
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	var photos []domain.Photo
	if err := decodeData(env, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// UploadGallery sends every file in one request under the repeated "files" field.
func (c *Client) UploadGallery(ctx context.Context, token string, files []*File) (string, error) {
	if len(files) == 0 {
		return "", errors.New("no files to upload")
	}
	parts := make([]fileField, 0, len(files))
	for _, f := range files {
		parts = append(parts, fileField{name: "files", file: f})
	}
	req, err := multipartRequest(http.MethodPost, "POST /admin/gallery", "/admin/gallery", token, nil, parts)
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) DeleteGalleryPhoto(ctx context.Context, token string, id int64) (string, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "DELETE /admin/gallery/{id}",
		path:     fmt.Sprintf("/admin/gallery/%d", id),
		token:    token,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ReorderGallery moves photo id to newPosition (zero-based).
func (c *Client) ReorderGallery(ctx context.Context, token string, id int64, newPosition int) (string, error) {
	req, err := jsonRequest(http.MethodPost, "POST /admin/gallery/reorder", "/admin/gallery/reorder", token,
		struct {
			ID          int64 `json:"id"`
			NewPosition int   `json:"newPosition"`
		}{id, newPosition})
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
