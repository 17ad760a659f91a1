// Package gateway talks to the external classification service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
)

const (
	DefaultTimeout     = 5000 * time.Millisecond
	DefaultBulkTimeout = 60 * time.Second

	maxBodyBytes  = 8 << 20
	maxErrorBytes = 512
)

// ErrEmptyInput is returned by the explicit-action calls for blank input.
var ErrEmptyInput = errors.New("input is empty")

// Analyzer is the single-item contract used by the live monitor.
type Analyzer interface {
	Submit(ctx context.Context, text string, threshold float64) (classifier.Result, bool)
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Server error %d", e.StatusCode)
}

// Client is a RequestGateway over HTTP.
type Client struct {
	baseURL     string
	timeout     time.Duration
	bulkTimeout time.Duration
	httpClient  *http.Client
	log         *slog.Logger
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout bounds every single-item Submit call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBulkTimeout bounds file, URL and health calls.
func WithBulkTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.bulkTimeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for diagnostics; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client for the classifier at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		timeout:     DefaultTimeout,
		bulkTimeout: DefaultBulkTimeout,
		httpClient:  &http.Client{},
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit classifies text. Blank text returns no result without a request.
// Every failure (timeout, cancellation, transport error, non-2xx, malformed
// body) also returns no result; it is logged, never surfaced.
func (c *Client) Submit(ctx context.Context, text string, threshold float64) (classifier.Result, bool) {
	if strings.TrimSpace(text) == "" {
		return classifier.Result{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqID := uuid.NewString()
	body, err := c.postJSON(ctx, "/analyze", reqID, classifier.Request{Text: text, Threshold: threshold})
	if err != nil {
		c.logFailure(ctx, reqID, "/analyze", err)
		return classifier.Result{}, false
	}
	res, err := classifier.DecodeResult(body)
	if err != nil {
		c.log.Warn("malformed classifier response", "request_id", reqID, "error", err)
		return classifier.Result{}, false
	}
	return res, true
}

// AnalyzeFile uploads a .txt, .csv or .json file for bulk classification.
func (c *Client) AnalyzeFile(ctx context.Context, name string, content io.Reader, threshold float64) (*classifier.BulkResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.bulkTimeout)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	q := url.Values{"threshold": []string{strconv.FormatFloat(threshold, 'f', -1, 64)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-file?"+q.Encode(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	body, err := c.do(req)
	if err != nil {
		c.logFailure(ctx, reqID, "/analyze-file", err)
		return nil, describe(ctx, err)
	}
	var out classifier.BulkResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unexpected response from classifier: %w", err)
	}
	return &out, nil
}

// AnalyzeURL asks the classifier to fetch and classify a web page.
// A missing scheme defaults to https.
func (c *Client) AnalyzeURL(ctx context.Context, rawURL string, threshold float64) (*classifier.URLResult, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return nil, ErrEmptyInput
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	ctx, cancel := context.WithTimeout(ctx, c.bulkTimeout)
	defer cancel()

	reqID := uuid.NewString()
	body, err := c.postJSON(ctx, "/analyze-url", reqID, classifier.URLRequest{URL: u, Threshold: threshold})
	if err != nil {
		c.logFailure(ctx, reqID, "/analyze-url", err)
		return nil, describe(ctx, err)
	}
	var out classifier.URLResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unexpected response from classifier: %w", err)
	}
	if out.FetchStatus == 0 {
		out.FetchStatus = http.StatusOK
	}
	return &out, nil
}

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (*classifier.Health, error) {
	ctx, cancel := context.WithTimeout(ctx, c.bulkTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, describe(ctx, err)
	}
	var out classifier.Health
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unexpected response from classifier: %w", err)
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path, reqID string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	return c.do(req)
}

// do sends req and returns the body of a 2xx response or an *APIError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(body)}
}

var detailPath = jp.MustParseString("$.detail")

// errorDetail pulls the human-readable "detail" field out of an error body.
func errorDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	doc, err := oj.Parse(body)
	if err != nil {
		return ""
	}
	for _, v := range detailPath.Get(doc) {
		if s, ok := v.(string); ok {
			if len(s) > maxErrorBytes {
				cut := maxErrorBytes
				for cut > 0 && !utf8.RuneStart(s[cut]) {
					cut--
				}
				s = s[:cut]
			}
			return s
		}
	}
	return ""
}

func describe(ctx context.Context, err error) error {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("classifier did not respond in time: %w", err)
	default:
		return fmt.Errorf("classifier unreachable: %w", err)
	}
}

func (c *Client) logFailure(ctx context.Context, reqID, path string, err error) {
	if errors.Is(ctx.Err(), context.Canceled) {
		c.log.Debug("classifier request cancelled", "request_id", reqID, "path", path)
		return
	}
	attrs := []any{"request_id", reqID, "path", path, "error", err}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, "status", apiErr.StatusCode)
	}
	c.log.Warn("classifier request failed", attrs...)
}
