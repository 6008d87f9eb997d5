package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edulife/edulife-admin/internal/domain"
)

// EventInput is the editable part of an event. Icon is optional.
type EventInput struct {
	Title    string
	Time     string
	Location string
	Date     string
	Icon     *File
}

func (in EventInput) fields() []formField {
	return []formField{
		{"title", in.Title},
		{"time", in.Time},
		{"location", in.Location},
		{"date", in.Date},
	}
}

func (c *Client) ListEvents(ctx context.Context, token string) ([]domain.Event, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "GET /admin/events",
		path:     "/admin/events",
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	var events []domain.Event
	if err := decodeData(env, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, in EventInput) (string, error) {
	req, err := multipartRequest(http.MethodPost, "POST /admin/events", "/admin/events", token,
		in.fields(), []fileField{{"icon", in.Icon}})
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) UpdateEvent(ctx context.Context, token string, id int64, in EventInput) (string, error) {
	req, err := multipartRequest(http.MethodPut, "PUT /admin/events/{id}", fmt.Sprintf("/admin/events/%d", id), token,
		in.fields(), []fileField{{"icon", in.Icon}})
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) DeleteEvent(ctx context.Context, token string, id int64) (string, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "DELETE /admin/events/{id}",
		path:     fmt.Sprintf("/admin/events/%d", id),
		token:    token,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
