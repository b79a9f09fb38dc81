// Package livingapps is the REST client of the hosted low-code record store.
package livingapps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

type Config struct {
	BaseURL string
	APIKey  string
	Apps    refs.AppIDs
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	apps    refs.AppIDs
	http    *http.Client
	log     *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = refs.DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		apps:    cfg.Apps,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// Store exposes the five apps through the store boundary.
func (c *Client) Store() *store.Store {
	return &store.Store{
		Employees: &collection[models.EmployeeFields]{c: c, app: c.apps.Employees},
		Tools:     &collection[models.ToolFields]{c: c, app: c.apps.Tools},
		Locations: &collection[models.LocationFields]{c: c, app: c.apps.Locations},
		Checkouts: &collection[models.CheckoutFields]{c: c, app: c.apps.Checkouts},
		Returns:   &collection[models.ReturnFields]{c: c, app: c.apps.Returns},
	}
}

// APIError is a non-2xx answer of the store.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("livingapps %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return store.ErrNotFound
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("livingapps %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.log.Debug("livingapps call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
