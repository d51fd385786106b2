package dupr_test

import (
	"context"
	"testing"
	"time"

	"github.com/Amund211/dupr"
	"github.com/Amund211/dupr/domain"
	"github.com/stretchr/testify/require"
)

func TestGetUsage(t *testing.T) {
	t.Parallel()

	client, httpClient := newClient(t, expectedCall{
		method:     "GET",
		url:        baseURL + "/v1/usage",
		statusCode: 200,
		response:   `{"requestsToday":5,"requestsThisMonth":50,"dailyLimit":100,"monthlyLimit":1000,"resetAt":"2024-07-01T00:00:00Z"}`,
	})

	usage, err := client.GetUsage(t.Context())
	require.NoError(t, err)
	require.Equal(t, domain.Usage{
		RequestsToday:     5,
		RequestsThisMonth: 50,
		DailyLimit:        100,
		MonthlyLimit:      1000,
		ResetAt:           time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
	}, usage)
	httpClient.requireDone()
}

func TestTestWebhook(t *testing.T) {
	t.Parallel()

	t.Run("registered webhook", func(t *testing.T) {
		t.Parallel()

		client, httpClient := newClient(t, expectedCall{
			method:     "POST",
			url:        baseURL + "/v1/webhooks/test",
			statusCode: 200,
			response:   `{"success":true,"statusCode":200}`,
		})

		result, err := client.TestWebhook(t.Context(), "")
		require.NoError(t, err)
		require.Equal(t, domain.WebhookTestResult{Success: true, StatusCode: 200}, result)
		httpClient.requireDone()
	})

	t.Run("explicit url", func(t *testing.T) {
		t.Parallel()

		client, httpClient := newClient(t, expectedCall{
			method:     "POST",
			url:        baseURL + "/v1/webhooks/test",
			body:       `{"url":"https://example.test/hook"}`,
			statusCode: 200,
			response:   `{"success":false,"statusCode":500,"message":"receiver failed"}`,
		})

		result, err := client.TestWebhook(t.Context(), "https://example.test/hook")
		require.NoError(t, err)
		require.False(t, result.Success)
		require.Equal(t, "receiver failed", result.Message)
		httpClient.requireDone()
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		client, _ := newClient(t, expectedCall{
			method:     "POST",
			url:        baseURL + "/v1/webhooks/test",
			statusCode: 401,
			response:   `{"message":"Invalid API key"}`,
		})

		_, err := client.TestWebhook(t.Context(), "")
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestThrottling(t *testing.T) {
	t.Parallel()

	httpClient := &mockedHttpClient{t: t, calls: []expectedCall{{
		method:     "GET",
		url:        baseURL + "/v1/usage",
		statusCode: 200,
		response:   `{}`,
	}}}
	client, err := dupr.New(dupr.Options{
		APIKey:            apiKey,
		BaseURL:           baseURL,
		HTTPClient:        httpClient,
		RequestsPerSecond: 0.001,
		Burst:             1,
	})
	require.NoError(t, err)

	_, err = client.GetUsage(t.Context())
	require.NoError(t, err)

	// The next token is far beyond the deadline, so nothing is sent
	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	_, err = client.GetUsage(ctx)
	require.ErrorIs(t, err, domain.ErrRequestThrottled)
	httpClient.requireDone()
}
