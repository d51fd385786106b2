package dupr

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/adapters/duprapi"
	"github.com/jellydator/ttlcache/v3"
)

// Subscribe adds players whose rating updates should be polled.
// Subscribing again renews the subscription.
func (c *Client) Subscribe(playerIDs ...string) {
	for _, id := range playerIDs {
		if id == "" {
			continue
		}
		c.subscriptions.Set(id, struct{}{}, ttlcache.DefaultTTL)
	}
}

func (c *Client) Unsubscribe(playerIDs ...string) {
	for _, id := range playerIDs {
		c.subscriptions.Delete(id)
	}
}

// Subscriptions returns the current, unexpired subscriptions in sorted order
func (c *Client) Subscriptions() []string {
	c.subscriptions.DeleteExpired()

	ids := c.subscriptions.Keys()
	slices.Sort(ids)
	return ids
}

// GetRatingUpdates lists recent rating changes, limited to the subscribed
// players if there are any
func (c *Client) GetRatingUpdates(ctx context.Context) ([]domain.RatingUpdate, error) {
	ctx = c.withOperation(ctx, "GetRatingUpdates")

	query := duprapi.Params{}
	if subscriptions := c.Subscriptions(); len(subscriptions) > 0 {
		query["playerIds"] = strings.Join(subscriptions, ",")
	}

	updates, err := call(ctx, c, duprapi.Request{
		Method: http.MethodGet,
		Path:   "/v1/ratings/updates",
		Query:  query,
	}, duprapi.ParseRatingUpdates)
	if err != nil {
		return nil, err
	}

	for i := range updates {
		updates[i] = updates[i].WithHandle(c)
	}
	return updates, nil
}
