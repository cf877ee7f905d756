package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ghaggin/taskboard/internal/model"
)

// TaskInput is the form sent on create and update. Empty strings leave
// the server side value untouched on update.
type TaskInput struct {
	Title      string
	DueDate    string
	Completed  *bool
	Attachment string // local file path
}

func (c *Client) ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	q := url.Values{"filter": {string(filter)}}
	var tasks []model.Task
	if err := c.send(ctx, http.MethodGet, "/api/tasks?"+q.Encode(), nil, "", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	if err := c.send(ctx, http.MethodGet, taskPath(id, ""), nil, "", &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	body, contentType, err := in.encode()
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := c.send(ctx, http.MethodPost, "/api/tasks", body, contentType, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int, in TaskInput) (*model.Task, error) {
	body, contentType, err := in.encode()
	if err != nil {
		return nil, err
	}

	var task model.Task
	if err := c.send(ctx, http.MethodPut, taskPath(id, ""), body, contentType, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ToggleTask(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	if err := c.send(ctx, http.MethodPatch, taskPath(id, "/toggle"), nil, "", &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, taskPath(id, ""), nil, "", nil)
}

func taskPath(id int, suffix string) string {
	return "/api/tasks/" + strconv.Itoa(id) + suffix
}

// send builds a replayable request and runs it through Do.
func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), r)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (in TaskInput) encode() ([]byte, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fields := map[string]string{
		"title":   in.Title,
		"dueDate": in.DueDate,
	}
	if in.Completed != nil {
		fields["completed"] = strconv.FormatBool(*in.Completed)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if in.Attachment != "" {
		if err := attachFile(mw, in.Attachment); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func attachFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	fw, err := mw.CreateFormFile("attachment", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}
