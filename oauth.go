package dupr

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/adapters/duprapi"
)

const invalidScopeCode = "invalid_scope"

type authorizeRequest struct {
	Scopes      []string `json:"scopes"`
	State       string   `json:"state,omitempty"`
	RedirectURI string   `json:"redirectUri,omitempty"`
}

// resolveScopes puts profile:read first, drops duplicates and rejects unknown scopes
func resolveScopes(requested []domain.Scope) ([]domain.Scope, error) {
	scopes := []domain.Scope{domain.ScopeProfileRead}
	for _, scope := range requested {
		scope = domain.Scope(strings.TrimSpace(string(scope)))
		if !domain.IsKnownScope(scope) {
			return nil, domain.NewOAuthError(fmt.Sprintf("unknown scope %q", scope), invalidScopeCode, 0, nil)
		}
		if !slices.Contains(scopes, scope) {
			scopes = append(scopes, scope)
		}
	}
	return scopes, nil
}

// StartOAuth starts an authorization for a player to connect their account.
//
// domain.ScopeProfileRead is always requested. Unknown scopes fail with a
// *domain.OAuthError coded "invalid_scope" before any request is made.
func (c *Client) StartOAuth(ctx context.Context, request domain.OAuthRequest) (domain.OAuthAuthorization, error) {
	ctx = c.withOperation(ctx, "StartOAuth")

	scopes, err := resolveScopes(request.Scopes)
	if err != nil {
		return domain.OAuthAuthorization{}, err
	}

	scopeNames := make([]string, len(scopes))
	for i, scope := range scopes {
		scopeNames[i] = string(scope)
	}

	authorization, err := call(ctx, c, duprapi.Request{
		Method: http.MethodPost,
		Path:   "/v1/oauth/authorize",
		Body: authorizeRequest{
			Scopes:      scopeNames,
			State:       request.State,
			RedirectURI: request.RedirectURI,
		},
		OAuth: true,
	}, duprapi.ParseAuthorization)
	if err != nil {
		return domain.OAuthAuthorization{}, err
	}

	authorization.Scopes = scopes
	if authorization.State == "" {
		authorization.State = request.State
	}
	return authorization, nil
}

// ExchangeCode trades an authorization code for tokens
func (c *Client) ExchangeCode(ctx context.Context, code string) (domain.Tokens, error) {
	ctx = c.withOperation(ctx, "ExchangeCode")

	return call(ctx, c, duprapi.Request{
		Method: http.MethodPost,
		Path:   "/v1/oauth/token",
		Body:   map[string]string{"code": code},
		OAuth:  true,
	}, duprapi.ParseTokens)
}

func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (domain.Tokens, error) {
	ctx = c.withOperation(ctx, "RefreshTokens")

	return call(ctx, c, duprapi.Request{
		Method: http.MethodPost,
		Path:   "/v1/oauth/refresh",
		Body:   map[string]string{"refreshToken": refreshToken},
		OAuth:  true,
	}, duprapi.ParseTokens)
}

// RevokeConnection disconnects a member from this application.
// Failures are reported as *domain.OAuthError.
func (c *Client) RevokeConnection(ctx context.Context, playerID string) error {
	ctx = c.withOperation(ctx, "RevokeConnection")

	_, err := call(ctx, c, duprapi.Request{
		Method: http.MethodPost,
		Path:   "/v1/oauth/revoke",
		Body:   map[string]string{"playerId": playerID},
		OAuth:  true,
	}, discardBody)
	return err
}

// ListScopes lists the scopes the API supports
func (c *Client) ListScopes(ctx context.Context) ([]domain.ScopeInfo, error) {
	ctx = c.withOperation(ctx, "ListScopes")

	return call(ctx, c, duprapi.Request{
		Method: http.MethodGet,
		Path:   "/v1/oauth/scopes",
	}, duprapi.ParseScopes)
}
