package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/edulife/edulife-admin/internal/domain"
)

// LoginResult is what a successful login returns.
type LoginResult struct {
	Message     string
	AccessToken string
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req, err := jsonRequest(http.MethodPost, "POST /auth/login", "/auth/login", "",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := decodeData(env, &data); err != nil {
		return nil, err
	}
	if data.AccessToken == "" {
		return nil, errors.New("login response carried no access token")
	}
	return &LoginResult{Message: env.Message, AccessToken: data.AccessToken}, nil
}

// Me returns the administrator the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	env, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: "GET /auth/me",
		path:     "/auth/me",
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	user := &domain.User{}
	if err := decodeData(env, user); err != nil {
		return nil, err
	}
	return user, nil
}
