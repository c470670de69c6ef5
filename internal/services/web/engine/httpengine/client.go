// Package httpengine implements engine.Engine over the auth engine's JSON
// HTTP API.
package httpengine

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

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// BasePath is where the engine mounts its routes.
const BasePath = "/api/auth"

// DefaultTimeout bounds one engine round trip.
const DefaultTimeout = 5 * time.Second

const (
	tracerName = "github.com/louisbranch/spawnbot/internal/services/web/engine/httpengine"
	// maxResponseBytes bounds decoded engine responses.
	maxResponseBytes = 1 << 20
)

var _ engine.Engine = (*Client)(nil)

// Client calls the auth engine over HTTP.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds every request made with the default transport client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout, Transport: c.http.Transport}
		}
	}
}

// WithMetrics sets the engine latency metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracerProvider sets the provider used for client spans.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// WithPropagator sets the propagator injecting trace context into requests.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(c *Client) {
		if propagator != nil {
			c.propagator = propagator
		}
	}
}

// New builds a client for the engine served at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("engine base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse engine base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("engine base URL %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("engine base URL %q has no host", baseURL)
	}
	parsed.Path = strings.TrimSuffix(strings.TrimSuffix(parsed.Path, "/"), BasePath)
	c := &Client{
		baseURL:    parsed,
		http:       &http.Client{Timeout: DefaultTimeout},
		tracer:     otel.Tracer(tracerName),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// call describes one engine round trip.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	return c.do(ctx, call{op: op, method: http.MethodGet, path: path, query: query, out: out})
}

func (c *Client) post(ctx context.Context, op, path string, body any, out any) error {
	return c.do(ctx, call{op: op, method: http.MethodPost, path: path, body: body, out: out})
}

func (c *Client) endpoint(path string, query url.Values) string {
	target := *c.baseURL
	target.Path = target.Path + BasePath + path
	target.RawQuery = query.Encode()
	return target.String()
}

func (c *Client) do(ctx context.Context, rt call) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "httpengine."+rt.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", rt.method),
			attribute.String("url.path", BasePath+rt.path),
		),
	)
	started := time.Now()
	status := 0
	defer func() {
		c.metrics.ObserveEngineRequest(rt.op, status, time.Since(started))
		if status > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
		span.End()
	}()

	var payload io.Reader
	if rt.body != nil {
		raw, err := json.Marshal(rt.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", rt.op, err)
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, rt.method, c.endpoint(rt.path, rt.query), payload)
	if err != nil {
		return fmt.Errorf("build %s request: %w", rt.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := engine.CredentialFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if info, ok := engine.ClientInfoFromContext(ctx); ok {
		if info.UserAgent != "" {
			req.Header.Set("User-Agent", info.UserAgent)
		}
		if info.IPAddress != "" {
			req.Header.Set("X-Forwarded-For", info.IPAddress)
		}
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", rt.op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", rt.op, err)
	}
	if status >= 500 {
		return fmt.Errorf("%s: engine status %d: %s", rt.op, status, strings.TrimSpace(string(body)))
	}
	if status < 200 || status > 299 {
		return rejection(status, body)
	}
	if rt.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, rt.out); err != nil {
		return fmt.Errorf("decode %s response: %w", rt.op, err)
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// rejection decodes a 4xx engine error body. Bodies that are not JSON keep
// the status and lose the message.
func rejection(status int, body []byte) *engine.Error {
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return engine.Reject(status, "", "")
	}
	return engine.Reject(status, strings.TrimSpace(decoded.Code), strings.TrimSpace(decoded.Message))
}

// Ping checks that the engine answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "ping", "/ok", nil, nil)
}
