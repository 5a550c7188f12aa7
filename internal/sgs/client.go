// Package sgs provides a client for the Banco Central do Brasil SGS
// time-series API, the source of reference rates.
package sgs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public SGS endpoint.
	DefaultBaseURL = "https://api.bcb.gov.br"

	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	userAgent      = "calculadora-bacen/1.0"
)

var (
	// ErrNotFound means the series has no observation in the period.
	ErrNotFound = errors.New("sgs: no observation in period")
	// ErrAmbiguous means the period holds more than one observation.
	ErrAmbiguous = errors.New("sgs: more than one observation in period")
)

// RemoteError is a transport failure or an error payload from the API.
// Message holds the remote explanation when the payload carried one.
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("sgs: status %d: %s", e.Status, e.Message)
	case e.Message != "":
		return "sgs: " + e.Message
	case e.Err != nil:
		return fmt.Sprintf("sgs: request failed: %v", e.Err)
	default:
		return fmt.Sprintf("sgs: unexpected status %d", e.Status)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Observation is one dated value of a series.
type Observation struct {
	Date  time.Time `json:"date"`
	Value rate.Rate `json:"value"`
}

type rawObservation struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// Client fetches series observations over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the public SGS API unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns every observation of series code within p.
func (c *Client) Fetch(ctx context.Context, code int, p Period) ([]Observation, error) {
	if code < 1 {
		return nil, fmt.Errorf("sgs: invalid series code %d", code)
	}

	q := url.Values{}
	q.Set("formato", "json")
	q.Set("dataInicial", p.From.Format(DateLayout))
	q.Set("dataFinal", p.To.Format(DateLayout))
	path := fmt.Sprintf("/dados/serie/bcdata.sgs.%d/dados?%s", code, q.Encode())

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var raw []rawObservation
	if err := json.Unmarshal(body, &raw); err != nil {
		// Some failures come back as 200 with an error object.
		if msg := remoteMessage(body); msg != "" {
			return nil, &RemoteError{Status: http.StatusOK, Message: msg}
		}
		return nil, fmt.Errorf("sgs: parsing observations: %w", err)
	}

	out := make([]Observation, 0, len(raw))
	for _, r := range raw {
		d, err := time.Parse(DateLayout, r.Data)
		if err != nil {
			return nil, fmt.Errorf("sgs: parsing observation date %q: %w", r.Data, err)
		}
		v, err := rate.FromString(r.Valor)
		if err != nil {
			return nil, fmt.Errorf("sgs: parsing observation value: %w", err)
		}
		out = append(out, Observation{Date: d, Value: v})
	}

	c.logger.Debug("sgs lookup",
		zap.Int("code", code),
		zap.String("period", p.String()),
		zap.Int("observations", len(out)),
	)
	return out, nil
}

// FetchSingle returns the only observation of code within p. Zero
// observations yield ErrNotFound and several yield ErrAmbiguous.
func (c *Client) FetchSingle(ctx context.Context, code int, p Period) (Observation, error) {
	obs, err := c.Fetch(ctx, code, p)
	if err != nil {
		return Observation{}, err
	}
	switch len(obs) {
	case 0:
		return Observation{}, ErrNotFound
	case 1:
		return obs[0], nil
	default:
		return Observation{}, fmt.Errorf("%w (%d)", ErrAmbiguous, len(obs))
	}
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("sgs: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RemoteError{Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("sgs response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Status: resp.StatusCode, Message: remoteMessage(body)}
	}
	return body, nil
}

// remoteMessage pulls a human explanation out of an SGS error payload.
func remoteMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	parsed := gjson.ParseBytes(body)
	for _, path := range []string{"message", "error", "erro", "mensagem", "error.message"} {
		if v := parsed.Get(path); v.Exists() && v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}
