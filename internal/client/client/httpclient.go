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

	"github.com/dmitrijs2005/urguide/internal/common"
	"github.com/dmitrijs2005/urguide/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/time/rate"
)

const instrumentationName = "github.com/dmitrijs2005/urguide/internal/client/client"

// HTTPClient implements Client over HTTP/JSON. It performs exactly one
// network call per Request unless retries were enabled with WithRetry.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	limiter    *rate.Limiter
	meter      metric.Meter

	retries   uint64
	retryBase time.Duration

	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithRetry enables up to attempts retries of GET requests that failed with
// ErrUnavailable, using exponential backoff starting at base. Mutating
// requests are never retried.
func WithRetry(attempts uint64, base time.Duration) Option {
	return func(c *HTTPClient) {
		c.retries = attempts
		c.retryBase = base
	}
}

// WithRateLimit limits outbound requests to perSecond with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *HTTPClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMeter records request counts and latencies on m.
func WithMeter(m metric.Meter) Option {
	return func(c *HTTPClient) { c.meter = m }
}

// NewHTTPClient builds a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.New("empty base url")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logging.Nop(),
		meter:      noop.NewMeterProvider().Meter(instrumentationName),
		retryBase:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	c.requests, err = c.meter.Int64Counter("urguide.client.requests",
		metric.WithDescription("Number of API requests by method and status"),
	)
	if err != nil {
		return nil, err
	}
	c.latency, err = c.meter.Float64Histogram("urguide.client.request.duration",
		metric.WithDescription("Duration of API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Request sends one API request. For GET the payload is encoded as query
// parameters and must be nil, url.Values, map[string]string or
// map[string]any; for POST and DELETE it is sent as a JSON body.
//
// A 2xx response returns the decoded top-level object. Any other status
// returns an *APIError; transport failures wrap ErrUnavailable.
func (c *HTTPClient) Request(ctx context.Context, token, path string, payload any, method string) (Envelope, error) {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	if method != http.MethodGet || c.retries == 0 {
		return c.do(ctx, token, path, payload, method)
	}

	var env Envelope
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		e, err := c.do(ctx, token, path, payload, method)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				c.logger.Debug(ctx, "retrying api call", "path", path, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		env = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *HTTPClient) do(ctx context.Context, token, path string, payload any, method string) (Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := c.newRequest(ctx, token, path, payload, method)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "api call", "method", method, "path", path,
		"request_id", req.Header.Get(common.RequestIDHeaderName))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, method, 0, start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.record(ctx, method, resp.StatusCode, start)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, body)
		c.logger.Warn(ctx, "api error", "method", method, "path", path,
			"status", resp.StatusCode, "messages", apiErr.Messages)
		return nil, apiErr
	}

	env := Envelope{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	c.logger.Debug(ctx, "api response", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))
	return env, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, token, path string, payload any, method string) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var body io.Reader
	if method == http.MethodGet {
		q, err := queryValues(payload)
		if err != nil {
			return nil, err
		}
		if len(q) > 0 {
			target += "?" + q.Encode()
		}
	} else {
		if payload == nil {
			payload = struct{}{}
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	return req, nil
}

func queryValues(payload any) (url.Values, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return p, nil
	case map[string]string:
		q := url.Values{}
		for k, v := range p {
			q.Set(k, v)
		}
		return q, nil
	case map[string]any:
		q := url.Values{}
		for k, v := range p {
			q.Set(k, fmt.Sprint(v))
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unsupported query payload %T", payload)
	}
}

func (c *HTTPClient) record(ctx context.Context, method string, status int, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
	)
	c.requests.Add(ctx, 1, attrs)
	c.latency.Record(ctx, time.Since(start).Seconds(), attrs)
}

// Close releases idle connections held by the underlying transport.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

var _ Client = (*HTTPClient)(nil)
