package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Amund211/dupr"
	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/logging"
	"github.com/Amund211/dupr/internal/reporting"
	"github.com/Amund211/dupr/internal/telemetry"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback"
)

const usage = `usage: dupr <command> [args]

commands:
  member <id>            look up a connected member
  search <query> [page]  search players
  find <query>           best match for a name
  updates [id...]        rating updates, optionally for the given players
  scopes                 list oauth scopes
  usage                  request counts for the api key
  webhook [url]          send a test webhook event

environment:
  DUPR_API_KEY, DUPR_ENVIRONMENT, DUPR_BASE_URL, SENTRY_DSN,
  OTEL_EXPORTER_OTLP_ENDPOINT (enables telemetry)
`

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	os.Exit(runCLI(os.Args[1], os.Args[2:]))
}

// runCLI returns the exit code. Deferred flushes run before the process exits.
func runCLI(command string, args []string) int {
	instanceID := uuid.New().String()
	logger := slog.New(logging.NewTracingLogHandler(slog.NewJSONHandler(os.Stderr, nil))).With("instanceID", instanceID)

	ctx := logging.AddToContext(context.Background(), logger)

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.SetupOTelSDK(ctx, "dupr-cli")
		if err != nil {
			logger.Error("Failed to set up telemetry", "error", err.Error())
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down telemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized telemetry")
	}

	if sentryDSN := os.Getenv("SENTRY_DSN"); sentryDSN != "" {
		sentryCtx, flush, err := reporting.InitSentry(ctx, sentryDSN)
		if err != nil {
			logger.Error("Failed to initialize Sentry", "error", err.Error())
			return 1
		}
		defer flush()
		ctx = sentryCtx
		logger.Info("Initialized Sentry")
	}

	client, err := dupr.New(dupr.Options{
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("Failed to create client", "error", err.Error())
		return 1
	}

	result, err := run(ctx, client, command, args)
	if err != nil {
		var rateLimitErr *domain.RateLimitError
		if errors.As(err, &rateLimitErr) && rateLimitErr.RetryAfter != nil {
			logger.Error("Rate limited", "retryAfter", rateLimitErr.RetryAfter.String())
		}
		logger.Error("Command failed", "command", command, "error", err.Error())
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error("Failed to write output", "error", err.Error())
		return 1
	}
	return 0
}

func run(ctx context.Context, client *dupr.Client, command string, args []string) (any, error) {
	requireArg := func() (string, error) {
		if len(args) < 1 || args[0] == "" {
			return "", fmt.Errorf("%s: missing argument", command)
		}
		return args[0], nil
	}

	switch command {
	case "member":
		id, err := requireArg()
		if err != nil {
			return nil, err
		}
		return client.GetMember(ctx, id)
	case "search":
		query, err := requireArg()
		if err != nil {
			return nil, err
		}
		page := 1
		if len(args) > 1 {
			page, err = strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("search: invalid page %q: %w", args[1], err)
			}
		}
		return client.SearchPlayers(ctx, domain.SearchFilters{Query: query, Page: page})
	case "find":
		query, err := requireArg()
		if err != nil {
			return nil, err
		}
		player, found, err := client.FindPlayer(ctx, query)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("find: no player matching %q", query)
		}
		return player, nil
	case "updates":
		client.Subscribe(args...)
		return client.GetRatingUpdates(ctx)
	case "scopes":
		return client.ListScopes(ctx)
	case "usage":
		return client.GetUsage(ctx)
	case "webhook":
		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		return client.TestWebhook(ctx, url)
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}
