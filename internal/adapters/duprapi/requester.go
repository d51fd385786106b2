package duprapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/constants"
	"github.com/Amund211/dupr/internal/logging"
	"github.com/Amund211/dupr/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const APIKeyHeader = "X-API-Key"

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type RequestLimiter interface {
	Wait(ctx context.Context) error
}

type requesterMetricsCollection struct {
	requestCount metric.Int64Counter
	failureCount metric.Int64Counter
}

func setupRequesterMetrics(meter metric.Meter) (requesterMetricsCollection, error) {
	requestCount, err := meter.Int64Counter("duprapi/request_count")
	if err != nil {
		return requesterMetricsCollection{}, fmt.Errorf("failed to create request count metric: %w", err)
	}

	failureCount, err := meter.Int64Counter("duprapi/failure_count")
	if err != nil {
		return requesterMetricsCollection{}, fmt.Errorf("failed to create failure count metric: %w", err)
	}

	return requesterMetricsCollection{
		requestCount: requestCount,
		failureCount: failureCount,
	}, nil
}

// Request describes a single call to the API
type Request struct {
	Method string
	Path   string
	Query  Params
	// Marshalled as JSON if not nil
	Body any

	// Non-2xx responses (except 429) become domain.OAuthError
	OAuth bool
}

// Requester executes requests against the API and maps failures to the error taxonomy.
// Each call is a single attempt; nothing is retried.
type Requester struct {
	httpClient HttpClient
	limiter    RequestLimiter
	baseURL    string
	apiKey     string
	timeout    time.Duration

	metrics requesterMetricsCollection
	tracer  trace.Tracer
}

func NewRequester(httpClient HttpClient, limiter RequestLimiter, baseURL string, apiKey string, timeout time.Duration) (*Requester, error) {
	const name = "github.com/Amund211/dupr/internal/adapters/duprapi"

	meter := otel.Meter(name)
	tracer := otel.Tracer(name)

	metrics, err := setupRequesterMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
	}

	return &Requester{
		httpClient: httpClient,
		limiter:    limiter,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,

		metrics: metrics,
		tracer:  tracer,
	}, nil
}

func (r *Requester) buildURL(path string, query Params) (string, error) {
	encoded, err := query.Encode()
	if err != nil {
		return "", err
	}

	fullURL := r.baseURL + path
	if encoded != "" {
		fullURL += "?" + encoded
	}
	return fullURL, nil
}

// Do sends the request and returns the body of a 2xx response
func (r *Requester) Do(ctx context.Context, request Request) ([]byte, error) {
	ctx, span := r.tracer.Start(ctx, "Requester.Do", trace.WithAttributes(
		attribute.String("http.request.method", request.Method),
		attribute.String("url.path", request.Path),
	))
	defer span.End()

	logger := logging.FromContext(ctx).With(
		slog.String("method", request.Method),
		slog.String("path", request.Path),
	)

	fullURL, err := r.buildURL(request.Path, request.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to build url for %s %s: %w", request.Method, request.Path, err)
	}

	var body []byte
	if request.Body != nil {
		body, err = json.Marshal(request.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body for %s %s: %w", request.Method, request.Path, err)
		}
	}

	if err := r.limiter.Wait(ctx); err != nil {
		logger.WarnContext(ctx, "Request throttled", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrRequestThrottled, request.Method, request.Path, err)
	}

	// The timer is released on every return path
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, request.Method, fullURL, bodyReader)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)
	req.Header.Set(APIKeyHeader, r.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, r.transportError(ctx, span, request, "failed to send request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.transportError(ctx, span, request, "failed to read response body", err)
	}

	logger.InfoContext(
		ctx,
		"dupr request completed",
		slog.Int("status", resp.StatusCode),
		slog.String("duration", time.Since(start).String()),
	)

	statusAttributes := metric.WithAttributes(
		attribute.String("method", request.Method),
		attribute.String("path", request.Path),
		attribute.String("status_code", strconv.Itoa(resp.StatusCode)),
	)
	r.metrics.requestCount.Add(ctx, 1, statusAttributes)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.metrics.failureCount.Add(ctx, 1, statusAttributes)
		span.SetStatus(codes.Error, "non-2xx response")

		err := errorFromResponse(resp.StatusCode, statusText(resp), resp.Header, data, request.OAuth)
		if resp.StatusCode >= 500 {
			reporting.Report(ctx, fmt.Errorf("%s %s: %w", request.Method, request.Path, err), map[string]string{
				"data":   string(data),
				"status": strconv.Itoa(resp.StatusCode),
			})
		} else {
			logger.InfoContext(ctx, "dupr request failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	return data, nil
}

func (r *Requester) transportError(ctx context.Context, span trace.Span, request Request, msg string, err error) error {
	r.metrics.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", request.Method),
		attribute.String("path", request.Path),
		attribute.String("status_code", "none"),
	))
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	if isTimeout(err) {
		logging.FromContext(ctx).WarnContext(ctx, "dupr request timed out", slog.String("path", request.Path), slog.String("timeout", r.timeout.String()))
		return fmt.Errorf("%w: %s %s (timeout %s): %w", domain.ErrTimeout, request.Method, request.Path, r.timeout, err)
	}

	err = fmt.Errorf("%s: %w", msg, err)
	if !errors.Is(err, context.Canceled) {
		reporting.Report(ctx, err)
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

func statusText(resp *http.Response) string {
	// resp.Status is e.g. "404 Not Found"
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); text != "" {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

// Params are query parameters. Nil values are omitted, everything else is stringified.
type Params map[string]any

func (p Params) Encode() (string, error) {
	values := url.Values{}
	for key, raw := range p {
		value, ok, err := stringifyParam(raw)
		if err != nil {
			return "", fmt.Errorf("query parameter %s: %w", key, err)
		}
		if !ok {
			continue
		}
		values.Set(key, value)
	}
	return values.Encode(), nil
}

func stringifyParam(raw any) (string, bool, error) {
	switch v := raw.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case *string:
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	case *int:
		if v == nil {
			return "", false, nil
		}
		return strconv.Itoa(*v), true, nil
	case *float64:
		if v == nil {
			return "", false, nil
		}
		return strconv.FormatFloat(*v, 'f', -1, 64), true, nil
	case *bool:
		if v == nil {
			return "", false, nil
		}
		return strconv.FormatBool(*v), true, nil
	default:
		return "", false, fmt.Errorf("unsupported type %T", raw)
	}
}
