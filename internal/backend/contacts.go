package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edulife/edulife-admin/internal/domain"
)

// ListContacts returns one page of contact-form submissions. page and limit
// are only sent when positive so the backend applies its own defaults.
func (c *Client) ListContacts(ctx context.Context, token string, page, limit int) (*domain.ContactPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/admin/contact-forms"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	env, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "GET /admin/contact-forms",
		path:     path,
		token:    token,
	})
	if err != nil {
		return nil, err
	}

	result := &domain.ContactPage{}
	if err := decodeData(env, &result.Contacts); err != nil {
		return nil, err
	}
	if len(env.Meta) > 0 && string(env.Meta) != "null" {
		meta, err := decodeMeta(env.Meta)
		if err != nil {
			return nil, err
		}
		result.Meta = meta
	}
	return result, nil
}

func (c *Client) UpdateContactNote(ctx context.Context, token string, id int64, note string) (string, error) {
	req, err := jsonRequest(http.MethodPut, "PUT /admin/contact-forms/{id}/note",
		fmt.Sprintf("/admin/contact-forms/%d/note", id), token, map[string]string{"note": note})
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// decodeMeta accepts page and limit as numbers or numeric strings; the
// backend echoes query parameters back verbatim.
func decodeMeta(raw json.RawMessage) (*domain.PageMeta, error) {
	var m struct {
		Page       json.Number `json:"page"`
		Limit      json.Number `json:"limit"`
		Total      json.Number `json:"total"`
		TotalPages json.Number `json:"totalPages"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode meta: %w", err)
	}
	return &domain.PageMeta{
		Page:       numberOrZero(m.Page),
		Limit:      numberOrZero(m.Limit),
		Total:      numberOrZero(m.Total),
		TotalPages: numberOrZero(m.TotalPages),
	}, nil
}

func numberOrZero(n json.Number) int {
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return 0
	}
	return v
}
