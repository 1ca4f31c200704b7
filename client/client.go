// Package client talks to the appointment resource over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariebrainware/appointment-manager/config"
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/ariebrainware/appointment-manager/util"
	"go.uber.org/zap"
)

const defaultUserAgent = "appointment-manager/1.0"

// Config controls how the client behaves.
type Config struct {
	// BaseURL is the collection endpoint, e.g. http://localhost:5000/appointments.
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
	UserAgent  string
}

// Client performs the four operations of the appointment resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
}

// New creates a Client. An empty BaseURL falls back to config.DefaultAPIURL.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base URL must be http or https, got %q", baseURL)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No timeout: requests are bounded only by the caller's context.
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// BaseURL returns the collection endpoint the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// List returns every appointment in the store.
func (c *Client) List(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := c.do(ctx, "list", http.MethodGet, c.baseURL, "", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Appointment{}
	}
	return out, nil
}

// Create posts appt without its identifier and returns the stored record.
func (c *Client) Create(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	var out model.Appointment
	err := c.do(ctx, "create", http.MethodPost, c.baseURL, "", appt.WithoutID(), &out)
	return out, err
}

// Update replaces the record id with appt.
func (c *Client) Update(ctx context.Context, id string, appt model.Appointment) (model.Appointment, error) {
	var out model.Appointment
	err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), id, appt, &out)
	return out, err
}

// Delete removes the record id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), id, nil, nil)
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, target, id string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &ValidationError{Op: op, Msg: "encode request", Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &ValidationError{Op: op, Msg: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.String("url", target), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Msg: "read response", Err: err}
	}
	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, id, resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ValidationError{Op: op, StatusCode: resp.StatusCode, Msg: "decode response", Err: err}
	}
	return nil
}

// statusError maps a non-2xx reply to the client error taxonomy, using the
// store's error envelope for the message when present.
func statusError(op, id string, status int, raw []byte) error {
	msg := http.StatusText(status)
	var envelope util.APIResponse
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch {
		case envelope.Msg != "":
			msg = envelope.Msg
		case envelope.Error != "":
			msg = envelope.Error
		}
	}

	switch {
	case status == http.StatusNotFound:
		return &NotFoundError{Op: op, ID: id}
	case status >= 500:
		return &NetworkError{Op: op, StatusCode: status, Msg: msg, Err: errors.New(msg)}
	default:
		return &ValidationError{Op: op, StatusCode: status, Msg: msg}
	}
}
