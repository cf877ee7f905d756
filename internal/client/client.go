package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Credentials struct {
	Username string
	Password string
	Register bool
}

// Prompter collects credentials from the user. lastErr is the failure of
// the previous attempt and nil on the first call. Returning
// ErrPromptCancelled ends the flow.
type Prompter interface {
	Prompt(ctx context.Context, lastErr error) (Credentials, error)
}

type Client struct {
	base     *url.URL
	http     *http.Client
	prompter Prompter
	log      *zap.Logger

	session string
	auth    singleflight.Group
}

type Option func(*Client)

// WithSessionFile keeps the session cookie in path between runs.
func WithSessionFile(path string) Option {
	return func(c *Client) {
		c.session = path
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, prompter Prompter, log *zap.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		base:     base,
		http:     &http.Client{},
		prompter: prompter,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}

	if c.session != "" {
		if err := c.loadSession(); err != nil {
			c.log.Warn("failed loading saved session", zap.String("path", c.session), zap.Error(err))
		}
	}

	return c, nil
}

func (c *Client) url(path string) string {
	return c.base.String() + path
}

// ForgetSession drops the session cookie held by the client.
func (c *Client) ForgetSession() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.http.Jar = jar
	return c.saveSession()
}

// Do sends req. On a 401 it runs the login prompt and, once a session is
// obtained, sends req one more time.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	discard(resp)
	c.log.Debug("request needs a session", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	if err := c.authenticate(req.Context()); err != nil {
		return nil, err
	}

	retry, err := rewind(req)
	if err != nil {
		return nil, err
	}
	return c.http.Do(retry)
}

// authenticate waits for the shared prompt flow to resolve.
func (c *Client) authenticate(ctx context.Context) error {
	done := c.auth.DoChan("authenticate", func() (interface{}, error) {
		return nil, c.promptUntilAuthenticated(context.WithoutCancel(ctx))
	})

	select {
	case res := <-done:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) promptUntilAuthenticated(ctx context.Context) error {
	var lastErr error
	for {
		creds, err := c.prompter.Prompt(ctx, lastErr)
		if errors.Is(err, ErrPromptCancelled) {
			return ErrAuthenticationRequired
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAuthenticationRequired, err)
		}

		if creds.Register {
			lastErr = c.Register(ctx, creds.Username, creds.Password)
		} else {
			lastErr = c.Login(ctx, creds.Username, creds.Password)
		}
		if lastErr == nil {
			return nil
		}
		c.log.Info("authentication attempt failed", zap.String("username", creds.Username), zap.Error(lastErr))
	}
}

func rewind(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, errBodyNotReplayable
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

type errorBody struct {
	Error string `json:"error"`
}

// decode reads a JSON response into out, or a StatusError for non-2xx.
func decode(resp *http.Response, out any) error {
	defer discard(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &StatusError{Code: resp.StatusCode, Message: eb.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
