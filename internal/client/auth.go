package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/ghaggin/taskboard/internal/model"
	"go.uber.org/zap"
)

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.postCredentials(ctx, "/api/login", username, password)
}

// Register creates the account; the server logs it in straight away.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.postCredentials(ctx, "/api/register", username, password)
}

// postCredentials bypasses Do: a 401 here is a wrong password, not a
// missing session.
func (c *Client) postCredentials(ctx context.Context, path, username, password string) error {
	b, err := json.Marshal(credentialsBody{Username: username, Password: password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	if err := decode(resp, nil); err != nil {
		return err
	}

	if err := c.saveSession(); err != nil {
		c.log.Warn("failed saving session", zap.String("path", c.session), zap.Error(err))
	}
	return nil
}

// Logout is best effort. Failures are logged and otherwise ignored.
func (c *Client) Logout(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/logout"), nil)
	if err != nil {
		c.log.Warn("logout failed", zap.Error(err))
		return
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("logout failed", zap.Error(err))
		return
	}
	if err := decode(resp, nil); err != nil {
		c.log.Warn("logout failed", zap.Error(err))
		return
	}

	if err := c.saveSession(); err != nil {
		c.log.Warn("failed saving session", zap.String("path", c.session), zap.Error(err))
	}
}

type meBody struct {
	User model.PublicUser `json:"user"`
}

func (c *Client) Me(ctx context.Context) (*model.PublicUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/me"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	var me meBody
	if err := decode(resp, &me); err != nil {
		return nil, err
	}
	return &me.User, nil
}
