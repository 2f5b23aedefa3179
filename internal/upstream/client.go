// Package upstream issues requests to the backend API using one fixed protocol:
// a single round trip, a JSON envelope decoded regardless of status, tagged
// reads memoized in the cache registry and tag invalidation after mutations.
package upstream

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-dashboard/internal/cache"
	"github.com/noah-isme/gema-dashboard/internal/correlation"
	"github.com/noah-isme/gema-dashboard/internal/observability"
	"github.com/noah-isme/gema-dashboard/internal/session"
)

// Operation describes one backend call.
type Operation struct {
	Name           string
	Method         string
	Path           string
	Auth           bool
	Body           interface{}
	ReadTag        string
	InvalidateTags []string
}

// Client performs operations against the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Registry
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewClient builds a client for baseURL. The registry may be nil, which disables memoization.
func NewClient(baseURL string, httpClient *http.Client, registry *cache.Registry, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		cache:   registry,
		logger:  logger.With().Str("component", "upstream_client").Logger(),
		tracer:  otel.Tracer("github.com/noah-isme/gema-dashboard/internal/upstream"),
	}
}

// Path joins escaped segments into an API path.
func Path(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return "/" + strings.Join(escaped, "/")
}

// Do performs the operation and returns the success envelope or an *Error.
func (c *Client) Do(ctx context.Context, op Operation) (Envelope, error) {
	ctx, span := c.tracer.Start(ctx, "upstream."+op.Name, trace.WithAttributes(
		attribute.String("http.method", op.Method),
		attribute.String("upstream.path", op.Path),
		attribute.Bool("upstream.auth", op.Auth),
	))
	defer span.End()

	envelope, cached, err := c.do(ctx, op)
	span.SetAttributes(attribute.Bool("upstream.cached", cached))

	outcome := "success"
	if err != nil {
		outcome = "error"
		if upstreamErr, ok := AsError(err); ok {
			outcome = string(upstreamErr.Kind)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	if cached {
		outcome = "cached"
	}
	observability.UpstreamRequests().WithLabelValues(op.Name, outcome).Inc()

	return envelope, err
}

func (c *Client) do(ctx context.Context, op Operation) (Envelope, bool, error) {
	token := ""
	if op.Auth {
		var err error
		token, err = session.TokenFromContext(ctx)
		if err != nil {
			return Envelope{}, false, unauthenticated(op.Name)
		}
	}

	cacheKey := ""
	var generation int64
	if c.cache != nil && op.ReadTag != "" && op.Method == http.MethodGet {
		cacheKey = c.cacheKey(op, token)
		if body, ok := c.cache.Get(ctx, cacheKey); ok {
			if envelope, err := parseEnvelope(body); err == nil && envelope.Success {
				return envelope, true, nil
			}
		}

		var ok bool
		if generation, ok = c.cache.Generation(ctx, op.ReadTag); !ok {
			cacheKey = ""
		}
	}

	req, err := c.newRequest(ctx, op, token)
	if err != nil {
		return Envelope{}, false, &Error{Kind: KindTransport, Operation: op.Name, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.UpstreamLatency().WithLabelValues(op.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn().Err(err).Str("operation", op.Name).Msg("backend request failed")
		return Envelope{}, false, &Error{Kind: KindTransport, Operation: op.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, false, &Error{Kind: KindTransport, Operation: op.Name, Status: resp.StatusCode, Err: err}
	}

	envelope, err := parseEnvelope(body)
	if err != nil {
		c.logger.Warn().Err(err).Str("operation", op.Name).Int("status", resp.StatusCode).Msg("backend returned an invalid envelope")
		return Envelope{}, false, &Error{Kind: KindDecode, Operation: op.Name, Status: resp.StatusCode, Err: err}
	}

	if !envelope.Success {
		c.logger.Info().Str("operation", op.Name).Int("status", resp.StatusCode).Str("message", envelope.Message).Msg("backend rejected request")
		return envelope, false, &Error{Kind: KindApplication, Operation: op.Name, Status: resp.StatusCode, Message: envelope.Message}
	}

	if cacheKey != "" {
		c.cache.Set(ctx, cacheKey, body, op.ReadTag, generation)
	}

	if c.cache != nil && len(op.InvalidateTags) > 0 {
		if err := c.cache.Invalidate(ctx, op.InvalidateTags...); err != nil {
			c.logger.Warn().Err(err).Strs("tags", op.InvalidateTags).Msg("failed to invalidate cache tags")
		}
	}

	return envelope, false, nil
}

func (c *Client) newRequest(ctx context.Context, op Operation, token string) (*http.Request, error) {
	var body io.Reader
	if op.Body != nil {
		payload, err := json.Marshal(op.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, c.baseURL+op.Path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if correlationID := correlation.FromContext(ctx); correlationID != "" {
		req.Header.Set(correlation.Header, correlationID)
	}

	return req, nil
}

func (c *Client) cacheKey(op Operation, token string) string {
	identity := "anonymous"
	if token != "" {
		sum := sha256.Sum256([]byte(token))
		identity = hex.EncodeToString(sum[:8])
	}
	return fmt.Sprintf("%s:%s:%s", op.Method, op.Path, identity)
}
