package dupr

import (
	"context"
	"net/http"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/adapters/duprapi"
)

// GetUsage returns the request counts and limits of the API key
func (c *Client) GetUsage(ctx context.Context) (domain.Usage, error) {
	ctx = c.withOperation(ctx, "GetUsage")

	return call(ctx, c, duprapi.Request{
		Method: http.MethodGet,
		Path:   "/v1/usage",
	}, duprapi.ParseUsage)
}

// TestWebhook asks the API to send a test event to the webhook.
// An empty url tests the webhook registered for the API key.
func (c *Client) TestWebhook(ctx context.Context, url string) (domain.WebhookTestResult, error) {
	ctx = c.withOperation(ctx, "TestWebhook")

	var body any
	if url != "" {
		body = map[string]string{"url": url}
	}

	return call(ctx, c, duprapi.Request{
		Method: http.MethodPost,
		Path:   "/v1/webhooks/test",
		Body:   body,
	}, duprapi.ParseWebhookTestResult)
}
