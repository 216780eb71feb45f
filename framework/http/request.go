package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20 // 1 MB

// ErrEmptyBody is returned by Bind and Values for a JSON request without a body.
var ErrEmptyBody = errors.New("empty request body")

// Request wraps *http.Request with a few input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes a JSON request body into v.
func (req *Request) Bind(v any) error {
	body, err := req.body()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}

// Values returns the submitted fields as a flat map. JSON bodies must be an
// object of strings; anything else is read as a url-encoded or multipart form.
// Repeated form keys keep their first value.
func (req *Request) Values() (map[string]string, error) {
	if req.IsJSON() {
		out := make(map[string]string)
		if err := req.Bind(&out); err != nil {
			return nil, err
		}
		return out, nil
	}

	if err := req.raw.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	out := make(map[string]string, len(req.raw.PostForm))
	for k, v := range req.raw.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

func (req *Request) body() ([]byte, error) {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(io.LimitReader(req.raw.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}

// ── Headers ──────────────────────────────────────────────────────────────────

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request body is JSON.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.ContentType(), "application/json")
}
