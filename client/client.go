// Package client is a typed Go consumer for the e-library HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrNotAuthenticated is returned when a mutation is attempted without a
// bearer token. Callers must log in (or SetToken) first.
var ErrNotAuthenticated = errors.New("client: not authenticated")

// APIError carries the server's structured error body.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithToken(tok string) Option {
	return func(c *Client) { c.token = tok }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) SetToken(tok string) { c.token = tok }

type loginData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	Role     struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"role"`
}

// Login authenticates and remembers the bearer token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*loginData, error) {
	var out struct {
		Data loginData `json:"data"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Data.Token
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if method != http.MethodGet && c.token == "" && !isPublicPath(path) {
		return ErrNotAuthenticated
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// FormFile names one multipart file part.
type FormFile struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// doForm sends a multipart form, used by the book and register endpoints.
func (c *Client) doForm(ctx context.Context, method, path string, fields map[string]string, files []FormFile, out any) error {
	if c.token == "" && !isPublicPath(path) {
		return ErrNotAuthenticated
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isPublicPath(path string) bool {
	switch {
	case strings.HasPrefix(path, "/login"),
		strings.HasPrefix(path, "/register"),
		strings.HasPrefix(path, "/verify-otp"),
		strings.HasPrefix(path, "/resend-otp"),
		strings.HasPrefix(path, "/payment/notification"):
		return true
	}
	return false
}
