package duprapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// flexFloat accepts a number, a numeric string or null.
// Strings that are not numbers become 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = 0
		return nil
	}

	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return fmt.Errorf("failed to parse string number: %w", err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			*f = 0
			return nil
		}
		*f = flexFloat(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fmt.Errorf("failed to parse number: %w", err)
	}
	*f = flexFloat(value)
	return nil
}

// flexString accepts a string, a number or null. Used for identifiers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*s = ""
		return nil
	}

	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return fmt.Errorf("failed to parse string: %w", err)
		}
		*s = flexString(str)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("failed to parse identifier: %w", err)
	}
	*s = flexString(number.String())
	return nil
}

// ratingSplitResponse is either a bare rating or {"rating", "abbr", "date_played"}
type ratingSplitResponse struct {
	Rating       flexFloat
	Abbreviation string
	DatePlayed   string
}

func (r *ratingSplitResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var object struct {
			Rating       flexFloat `json:"rating"`
			Abbreviation string    `json:"abbr"`
			DatePlayed   *string   `json:"date_played"`
		}
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return fmt.Errorf("failed to parse rating split: %w", err)
		}
		r.Rating = object.Rating
		r.Abbreviation = object.Abbreviation
		if object.DatePlayed != nil {
			r.DatePlayed = *object.DatePlayed
		}
		return nil
	}

	*r = ratingSplitResponse{}
	return r.Rating.UnmarshalJSON(trimmed)
}

type ratingSplitsResponse map[string]ratingSplitResponse

// Players as returned by search. Names are privacy redacted to a display name.
type searchPlayerResponse struct {
	ID          flexString           `json:"id"`
	DisplayName string               `json:"displayName"`
	Rating      flexFloat            `json:"rating"`
	Verified    bool                 `json:"verified"`
	Connected   bool                 `json:"connected"`
	City        string               `json:"city"`
	State       string               `json:"state"`
	Country     string               `json:"country"`
	Ratings     ratingSplitsResponse `json:"ratings"`
}

type searchEnvelopeResponse struct {
	Players []searchPlayerResponse `json:"players"`
	Total   *int                   `json:"total"`
	Page    *int                   `json:"page"`
	Limit   *int                   `json:"limit"`
}

// Connected members, with the full name
type memberResponse struct {
	ID          flexString           `json:"id"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	DisplayName string               `json:"displayName"`
	Email       string               `json:"email"`
	Rating      flexFloat            `json:"rating"`
	Verified    bool                 `json:"verified"`
	Connected   bool                 `json:"connected"`
	City        string               `json:"city"`
	State       string               `json:"state"`
	Country     string               `json:"country"`
	Ratings     ratingSplitsResponse `json:"ratings"`
	Scopes      []string             `json:"scopes"`
}

type matchResultResponse struct {
	Success    bool     `json:"success"`
	MatchCount int      `json:"matchCount"`
	GameCount  int      `json:"gameCount"`
	DryRun     bool     `json:"dryRun"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

type ratingUpdateResponse struct {
	PlayerID       flexString           `json:"playerId"`
	DisplayName    string               `json:"displayName"`
	PreviousRating flexFloat            `json:"previousRating"`
	NewRating      flexFloat            `json:"newRating"`
	ChangedAt      string               `json:"changedAt"`
	Ratings        ratingSplitsResponse `json:"ratings"`
}

type ratingUpdatesEnvelopeResponse struct {
	Updates []ratingUpdateResponse `json:"updates"`
}

type authorizationResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	URL              string `json:"url"`
	Code             string `json:"code"`
	State            string `json:"state"`
}

// Accepts both camelCase and the RFC 6749 snake_case field names
type tokensResponse struct {
	AccessToken       string     `json:"accessToken"`
	AccessTokenSnake  string     `json:"access_token"`
	RefreshToken      string     `json:"refreshToken"`
	RefreshTokenSnake string     `json:"refresh_token"`
	ExpiresIn         *int       `json:"expiresIn"`
	ExpiresInSnake    *int       `json:"expires_in"`
	Scope             string     `json:"scope"`
	PlayerID          flexString `json:"playerId"`
	PlayerIDSnake     flexString `json:"player_id"`
}

type scopesResponse struct {
	Scopes []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"scopes"`
}

type usageResponse struct {
	RequestsToday     int    `json:"requestsToday"`
	RequestsThisMonth int    `json:"requestsThisMonth"`
	DailyLimit        int    `json:"dailyLimit"`
	MonthlyLimit      int    `json:"monthlyLimit"`
	ResetAt           string `json:"resetAt"`
}

type webhookTestResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
