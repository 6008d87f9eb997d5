package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edulife/edulife-admin/internal/domain"
)

type TeacherInput struct {
	Name           string
	Subject        string
	Qualification  string
	ProfilePicture *File
}

func (in TeacherInput) fields() []formField {
	return []formField{
		{"name", in.Name},
		{"subject", in.Subject},
		{"qualification", in.Qualification},
	}
}

// ListTeachers reads the public teacher list; the token is sent anyway so the
// backend can apply admin visibility rules if it has any.
func (c *Client) ListTeachers(ctx context.Context, token string) ([]domain.Teacher, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "GET /teachers",
		path:     "/teachers",
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	var teachers []domain.Teacher
	if err := decodeData(env, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (c *Client) CreateTeacher(ctx context.Context, token string, in TeacherInput) (string, error) {
	req, err := multipartRequest(http.MethodPost, "POST /admin/teachers", "/admin/teachers", token,
		in.fields(), []fileField{{"profilePicture", in.ProfilePicture}})
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) UpdateTeacher(ctx context.Context, token string, id int64, in TeacherInput) (string, error) {
	req, err := multipartRequest(http.MethodPut, "PUT /admin/teachers/{id}", fmt.Sprintf("/admin/teachers/%d", id), token,
		in.fields(), []fileField{{"profilePicture", in.ProfilePicture}})
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) DeleteTeacher(ctx context.Context, token string, id int64) (string, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: "DELETE /admin/teachers/{id}",
		path:     fmt.Sprintf("/admin/teachers/%d", id),
		token:    token,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
