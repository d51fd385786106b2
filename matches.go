package dupr

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/adapters/duprapi"
	"github.com/Amund211/dupr/internal/logging"
)

// SubmitMatches submits a batch of matches in one request.
//
// Every match is validated first. If any is invalid nothing is sent and the
// error wraps domain.ErrInvalidMatch.
func (c *Client) SubmitMatches(ctx context.Context, matches ...domain.Match) (domain.MatchResult, error) {
	ctx = c.withOperation(ctx, "SubmitMatches")

	body, err := duprapi.SubmitMatchesBody(matches)
	if err != nil {
		return domain.MatchResult{}, err
	}

	result, err := call(ctx, c, duprapi.Request{
		Method: http.MethodPost,
		Path:   "/v1/matches",
		Body:   body,
	}, duprapi.ParseMatchResult)
	if err != nil {
		return domain.MatchResult{}, err
	}

	if !result.OK() {
		logging.FromContext(ctx).WarnContext(
			ctx,
			"Match submission not accepted",
			slog.Bool("success", result.Success),
			slog.Any("errors", result.Errors),
		)
	}

	return result, nil
}
