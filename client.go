// Package dupr is a client for the DUPR player rating API.
//
// Values returned by the client, like domain.Member and domain.SearchResults,
// keep a handle to it so follow-up calls (Refresh, NextPage, Member) can be made
// directly on them.
package dupr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/adapters/duprapi"
	"github.com/Amund211/dupr/internal/config"
	"github.com/Amund211/dupr/internal/logging"
	"github.com/Amund211/dupr/internal/ratelimiting"
	"github.com/Amund211/dupr/internal/reporting"
	"github.com/jellydator/ttlcache/v3"
)

type Environment = config.Environment

const (
	Production = config.Production
	Staging    = config.Staging
	Local      = config.Local
)

var (
	ErrMissingRequiredValue = config.ErrMissingRequiredValue
	ErrInvalidValue         = config.ErrInvalidValue
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure a Client. Only the API key is required, and it may be
// given through DUPR_API_KEY instead.
type Options struct {
	APIKey string
	// Defaults to DUPR_ENVIRONMENT, then Production
	Environment Environment
	// Overrides the environment preset. Falls back to DUPR_BASE_URL.
	BaseURL string
	// Per request timeout. Defaults to 30 seconds.
	Timeout time.Duration

	// Defaults to a plain *http.Client
	HTTPClient HttpClient
	// Defaults to discarding all output
	Logger *slog.Logger

	// Throttle outgoing requests to this rate. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int

	// Subscriptions expire after this long. Zero keeps them until removed.
	SubscriptionTTL time.Duration
}

var _ domain.Handle = (*Client)(nil)

type Client struct {
	config    config.Config
	requester *duprapi.Requester
	logger    *slog.Logger

	subscriptions *ttlcache.Cache[string, struct{}]
}

// New creates a client. It fails without making any requests if the
// configuration is incomplete.
func New(opts Options) (*Client, error) {
	conf, err := config.Resolve(config.Options{
		APIKey:      opts.APIKey,
		Environment: opts.Environment,
		BaseURL:     opts.BaseURL,
		Timeout:     opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config: %w", err)
	}

	if opts.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("%w: requests per second (%f)", config.ErrInvalidValue, opts.RequestsPerSecond)
	}
	if opts.SubscriptionTTL < 0 {
		return nil, fmt.Errorf("%w: subscription ttl (%s)", config.ErrInvalidValue, opts.SubscriptionTTL)
	}

	var httpClient HttpClient = &http.Client{}
	if opts.HTTPClient != nil {
		httpClient = opts.HTTPClient
	}

	limiter := ratelimiting.NewUnlimitedRequestLimiter()
	if opts.RequestsPerSecond > 0 {
		limiter = ratelimiting.NewTokenBucketRequestLimiter(
			ratelimiting.RefillPerSecond(opts.RequestsPerSecond),
			ratelimiting.BurstSize(opts.Burst),
		)
	}

	requester, err := duprapi.NewRequester(httpClient, limiter, conf.BaseURL(), conf.APIKey(), conf.Timeout())
	if err != nil {
		return nil, fmt.Errorf("failed to create requester: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	subscriptions := ttlcache.New[string, struct{}](
		ttlcache.WithTTL[string, struct{}](opts.SubscriptionTTL),
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)

	logger.Debug("Created dupr client", slog.String("config", conf.NonSensitiveString()))

	return &Client{
		config:    conf,
		requester: requester,
		logger:    logger,

		subscriptions: subscriptions,
	}, nil
}

func (c *Client) Environment() Environment {
	return c.config.Environment()
}

func (c *Client) BaseURL() string {
	return c.config.BaseURL()
}

// withOperation makes the client's logger and the operation name available to the layers below
func (c *Client) withOperation(ctx context.Context, operation string) context.Context {
	ctx = logging.EnsureLogger(ctx, c.logger)
	ctx = logging.AddMetaToContext(ctx, slog.String("operation", operation))
	ctx = reporting.AddTagsToContext(ctx, map[string]string{
		"operation":   operation,
		"environment": string(c.config.Environment()),
	})
	return ctx
}

// call executes the request and parses a successful response.
// Errors from the request are returned as is so callers can match on them.
func call[T any](ctx context.Context, c *Client, request duprapi.Request, parse func([]byte) (T, error)) (T, error) {
	var zero T

	data, err := c.requester.Do(ctx, request)
	if err != nil {
		return zero, err
	}

	result, err := parse(data)
	if err != nil {
		err = fmt.Errorf("%s %s: %w", request.Method, request.Path, err)
		reporting.Report(ctx, err, map[string]string{
			"data": string(data),
		})
		return zero, err
	}

	return result, nil
}

func discardBody([]byte) (struct{}, error) {
	return struct{}{}, nil
}
