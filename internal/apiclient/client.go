// Package apiclient talks to the remote idea analysis API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/ideaval/pkg/api"
)

// ErrEmptyIdea is returned, without any request, for a blank idea.
var ErrEmptyIdea = errors.New("idea is empty")

// RequestError is a non-2xx response from the API.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API %d: %s", e.StatusCode, e.Body)
}

// Client posts ideas to <base>/validate.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds each request; zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Validate submits idea and returns the normalized result. The idea is sent
// exactly as given; only the blank check trims it.
func (c *Client) Validate(ctx context.Context, idea string) (api.ValidationResult, error) {
	if strings.TrimSpace(idea) == "" {
		return api.ValidationResult{}, ErrEmptyIdea
	}
	start := time.Now()
	res, err := c.validate(ctx, idea)
	if err != nil {
		c.log.Error("validate idea failed",
			zap.String("url", c.baseURL+"/validate"),
			zap.Duration("dur", time.Since(start)),
			zap.Error(err))
		return api.ValidationResult{}, err
	}
	c.log.Debug("validate idea", zap.Duration("dur", time.Since(start)))
	return res, nil
}

func (c *Client) validate(ctx context.Context, idea string) (api.ValidationResult, error) {
	body, err := json.Marshal(api.ValidateRequest{StartupIdea: idea})
	if err != nil {
		return api.ValidationResult{}, err
	}
	respBody, code, err := c.execRequest(ctx, http.MethodPost, c.baseURL+"/validate", body)
	if err != nil {
		return api.ValidationResult{}, fmt.Errorf("validate request: %w", err)
	}
	if code < 200 || code >= 300 {
		return api.ValidationResult{}, &RequestError{StatusCode: code, Body: string(respBody)}
	}
	res, err := api.DecodeValidationResult(respBody)
	if err != nil {
		return api.ValidationResult{}, fmt.Errorf("validate response: %w", err)
	}
	return res, nil
}

func (c *Client) execRequest(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}
