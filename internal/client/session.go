package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c *Client) loadSession() error {
	b, err := os.ReadFile(c.session)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var saved []savedCookie
	if err := json.Unmarshal(b, &saved); err != nil {
		return err
	}

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, s := range saved {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"})
	}
	c.http.Jar.SetCookies(c.base, cookies)
	return nil
}

// saveSession writes the cookies for the server to the session file, if
// one is configured.
func (c *Client) saveSession() error {
	if c.session == "" {
		return nil
	}

	var saved []savedCookie
	for _, ck := range c.http.Jar.Cookies(c.base) {
		saved = append(saved, savedCookie{Name: ck.Name, Value: ck.Value})
	}

	b, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.session), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.session, b, 0o600)
}
