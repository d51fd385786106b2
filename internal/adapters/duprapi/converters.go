package duprapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Amund211/dupr/domain"
)

func parseTime(ts string) *time.Time {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, ts); err == nil {
			return &t
		}
	}
	return nil
}

func timeOrZero(ts string) time.Time {
	if t := parseTime(ts); t != nil {
		return *t
	}
	return time.Time{}
}

func ratingSplitsToDomain(splits ratingSplitsResponse) domain.RatingSplits {
	result := make(domain.RatingSplits, len(splits))
	for key, split := range splits {
		result[key] = domain.RatingSplit{
			Rating:       float64(split.Rating),
			Abbreviation: split.Abbreviation,
			LastPlayed:   parseTime(split.DatePlayed),
		}
	}
	return result
}

func searchPlayerToDomain(p searchPlayerResponse) domain.Player {
	return domain.Player{
		Variant:     domain.PlayerVariantSearch,
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Rating:      float64(p.Rating),
		Verified:    p.Verified,
		Connected:   p.Connected,
		City:        p.City,
		State:       p.State,
		Country:     p.Country,
		Ratings:     ratingSplitsToDomain(p.Ratings),
	}
}

func memberToDomain(m memberResponse) domain.Member {
	scopes := m.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	return domain.Member{
		Player: domain.Player{
			Variant:     domain.PlayerVariantMember,
			ID:          string(m.ID),
			DisplayName: m.DisplayName,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Rating:      float64(m.Rating),
			Verified:    m.Verified,
			Connected:   m.Connected,
			City:        m.City,
			State:       m.State,
			Country:     m.Country,
			Ratings:     ratingSplitsToDomain(m.Ratings),
		},
		Email:  m.Email,
		Scopes: scopes,
	}
}

// ParseMember parses the body of a member lookup
func ParseMember(data []byte) (domain.Member, error) {
	var response memberResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.Member{}, fmt.Errorf("failed to parse member: %w", err)
	}
	return memberToDomain(response), nil
}

// ParseSearchResults parses the body of a player search.
// The API returns either an envelope or a bare array of players. Missing
// pagination fields are taken from the filters the search was made with.
func ParseSearchResults(data []byte, filters domain.SearchFilters) (domain.SearchResults, error) {
	filters = filters.WithDefaults()

	var envelope searchEnvelopeResponse
	if isJSONArray(data) {
		if err := json.Unmarshal(data, &envelope.Players); err != nil {
			return domain.SearchResults{}, fmt.Errorf("failed to parse search results: %w", err)
		}
	} else if err := json.Unmarshal(data, &envelope); err != nil {
		return domain.SearchResults{}, fmt.Errorf("failed to parse search results: %w", err)
	}

	players := make([]domain.Player, 0, len(envelope.Players))
	for _, player := range envelope.Players {
		players = append(players, searchPlayerToDomain(player))
	}

	results := domain.SearchResults{
		Players: players,
		Total:   len(players),
		Page:    filters.Page,
		Limit:   filters.Limit,
		Filters: filters,
	}
	if envelope.Total != nil {
		results.Total = *envelope.Total
	}
	if envelope.Page != nil {
		results.Page = *envelope.Page
	}
	if envelope.Limit != nil {
		results.Limit = *envelope.Limit
	}

	return results, nil
}

func ParseMatchResult(data []byte) (domain.MatchResult, error) {
	var response matchResultResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.MatchResult{}, fmt.Errorf("failed to parse match result: %w", err)
	}

	errs := response.Errors
	if errs == nil {
		errs = []string{}
	}

	return domain.MatchResult{
		Success:    response.Success,
		MatchCount: response.MatchCount,
		GameCount:  response.GameCount,
		DryRun:     response.DryRun,
		Message:    response.Message,
		Errors:     errs,
	}, nil
}

// ParseRatingUpdates parses either {"updates": [...]} or a bare array, keeping the order
func ParseRatingUpdates(data []byte) ([]domain.RatingUpdate, error) {
	var envelope ratingUpdatesEnvelopeResponse
	if isJSONArray(data) {
		if err := json.Unmarshal(data, &envelope.Updates); err != nil {
			return nil, fmt.Errorf("failed to parse rating updates: %w", err)
		}
	} else if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse rating updates: %w", err)
	}

	updates := make([]domain.RatingUpdate, 0, len(envelope.Updates))
	for _, update := range envelope.Updates {
		updates = append(updates, domain.RatingUpdate{
			PlayerID:       string(update.PlayerID),
			DisplayName:    update.DisplayName,
			PreviousRating: float64(update.PreviousRating),
			NewRating:      float64(update.NewRating),
			ChangedAt:      timeOrZero(update.ChangedAt),
			Ratings:        ratingSplitsToDomain(update.Ratings),
		})
	}
	return updates, nil
}

// ParseAuthorization parses the response of starting an authorization.
// The requested scopes are not part of the response and are left empty.
func ParseAuthorization(data []byte) (domain.OAuthAuthorization, error) {
	var response authorizationResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.OAuthAuthorization{}, fmt.Errorf("failed to parse authorization: %w", err)
	}

	url := response.AuthorizationURL
	if url == "" {
		url = response.URL
	}

	return domain.OAuthAuthorization{
		URL:   url,
		Code:  response.Code,
		State: response.State,
	}, nil
}

// splitScopes splits a comma or space separated scope string
func splitScopes(scope string) []string {
	fields := strings.FieldsFunc(scope, func(r rune) bool {
		return r == ',' || r == ' '
	})
	scopes := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			scopes = append(scopes, field)
		}
	}
	return scopes
}

func firstNonEmpty[T comparable](values ...T) T {
	var zero T
	for _, value := range values {
		if value != zero {
			return value
		}
	}
	return zero
}

func ParseTokens(data []byte) (domain.Tokens, error) {
	var response tokensResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.Tokens{}, fmt.Errorf("failed to parse tokens: %w", err)
	}

	expiresIn := response.ExpiresIn
	if expiresIn == nil {
		expiresIn = response.ExpiresInSnake
	}
	var expiry time.Duration
	if expiresIn != nil {
		expiry = time.Duration(*expiresIn) * time.Second
	}

	return domain.Tokens{
		AccessToken:  firstNonEmpty(response.AccessToken, response.AccessTokenSnake),
		RefreshToken: firstNonEmpty(response.RefreshToken, response.RefreshTokenSnake),
		ExpiresIn:    expiry,
		Scopes:       splitScopes(response.Scope),
		PlayerID:     string(firstNonEmpty(response.PlayerID, response.PlayerIDSnake)),
	}, nil
}

func ParseScopes(data []byte) ([]domain.ScopeInfo, error) {
	var response scopesResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse scopes: %w", err)
	}

	scopes := make([]domain.ScopeInfo, 0, len(response.Scopes))
	for _, scope := range response.Scopes {
		scopes = append(scopes, domain.ScopeInfo{
			Name:        scope.Name,
			Description: scope.Description,
		})
	}
	return scopes, nil
}

func ParseUsage(data []byte) (domain.Usage, error) {
	var response usageResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.Usage{}, fmt.Errorf("failed to parse usage: %w", err)
	}

	return domain.Usage{
		RequestsToday:     response.RequestsToday,
		RequestsThisMonth: response.RequestsThisMonth,
		DailyLimit:        response.DailyLimit,
		MonthlyLimit:      response.MonthlyLimit,
		ResetAt:           timeOrZero(response.ResetAt),
	}, nil
}

func ParseWebhookTestResult(data []byte) (domain.WebhookTestResult, error) {
	var response webhookTestResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.WebhookTestResult{}, fmt.Errorf("failed to parse webhook test result: %w", err)
	}

	return domain.WebhookTestResult{
		Success:    response.Success,
		StatusCode: response.StatusCode,
		Message:    response.Message,
	}, nil
}
