// Package remote talks to a hosted PostgREST endpoint (the Supabase REST
// dialect) as a table.Backend.
package remote

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

	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/table"
)

// ErrNotConfigured is returned when the URL or key is missing or still a
// placeholder.
var ErrNotConfigured = errors.New("remote backend not configured")

// Config holds PostgREST connection settings.
type Config struct {
	URL     string // project URL; requests go to URL + "/rest/v1"
	AnonKey string
	Token   string // optional bearer token; AnonKey is used when empty
	Timeout time.Duration
}

// Configured reports whether cfg points at a real project.
func (c Config) Configured() bool {
	return c.URL != "" && c.AnonKey != "" &&
		!strings.Contains(c.URL, "placeholder") && c.AnonKey != "placeholder-key"
}

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Method string
	Table  string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Table, e.Code, e.Body)
}

// Client implements table.Backend over PostgREST.
type Client struct {
	base   string
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

var _ table.Backend = (*Client)(nil)

// New returns a Client. It fails with ErrNotConfigured for empty or
// placeholder settings.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(zap.String("component", "remote")),
	}, nil
}

func (c *Client) Get(ctx context.Context, tbl string, q table.Query) ([]table.Row, error) {
	params := filterParams(q.Where)
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprint(q.Limit))
	}

	var rows []table.Row
	if err := c.do(ctx, http.MethodGet, tbl, params, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Post(ctx context.Context, tbl string, row table.Row) ([]table.Row, error) {
	var rows []table.Row
	if err := c.do(ctx, http.MethodPost, tbl, nil, row, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Update(ctx context.Context, tbl string, where table.Predicate, patch table.Row) error {
	return c.do(ctx, http.MethodPatch, tbl, filterParams(where), patch, nil)
}

func (c *Client) Delete(ctx context.Context, tbl string, where table.Predicate) error {
	return c.do(ctx, http.MethodDelete, tbl, filterParams(where), nil, nil)
}

// filterParams renders a predicate as PostgREST horizontal filters,
// e.g. user_id=eq.abc.
func filterParams(where table.Predicate) url.Values {
	params := url.Values{}
	for _, cond := range where {
		params.Add(cond.Column, string(cond.Op)+"."+formatValue(cond.Value))
	}
	return params
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func (c *Client) do(ctx context.Context, method, tbl string, params url.Values, body any, out any) error {
	u := c.base + "/" + url.PathEscape(tbl)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", tbl, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	token := c.cfg.Token
	if token == "" {
		token = c.cfg.AnonKey
	}
	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Prefer", "return=representation")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, tbl, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("table", tbl),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Table: tbl, Code: resp.StatusCode, Body: errorMessage(msg)}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", tbl, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", tbl, err)
	}
	return nil
}

// errorMessage extracts the message field from a PostgREST error body,
// falling back to the raw text.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(body))
}
