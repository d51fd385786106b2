package duprapi_test

import (
	"testing"
	"time"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/adapters/duprapi"
	"github.com/stretchr/testify/require"
)

func TestParseMember(t *testing.T) {
	t.Parallel()

	t.Run("full member", func(t *testing.T) {
		t.Parallel()

		member, err := duprapi.ParseMember([]byte(`{
			"id": 4455667788,
			"firstName": "Jane",
			"lastName": "Doe",
			"email": "jane@example.com",
			"rating": "4.321",
			"verified": true,
			"connected": true,
			"city": "Austin",
			"state": "TX",
			"ratings": {
				"VG": {"rating": "4.25", "abbr": "VG", "date_played": "2024-05-01"},
				"VM": 4.1,
				"S": null
			},
			"scopes": ["profile:read", "ratings:read"]
		}`))
		require.NoError(t, err)

		lastPlayed := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		require.Equal(t, domain.Member{
			Player: domain.Player{
				Variant:   domain.PlayerVariantMember,
				ID:        "4455667788",
				FirstName: "Jane",
				LastName:  "Doe",
				Rating:    4.321,
				Verified:  true,
				Connected: true,
				City:      "Austin",
				State:     "TX",
				Ratings: domain.RatingSplits{
					"VG": {Rating: 4.25, Abbreviation: "VG", LastPlayed: &lastPlayed},
					"VM": {Rating: 4.1},
					"S":  {Rating: 0},
				},
			},
			Email:  "jane@example.com",
			Scopes: []string{"profile:read", "ratings:read"},
		}, member)

		require.Equal(t, "Jane Doe", member.Name())
		require.True(t, member.HasScope("ratings:read"))

		gender, ok := member.Ratings.Rating(domain.CategoryGender)
		require.True(t, ok)
		require.Equal(t, 4.25, gender)

		best, ok := member.Ratings.Best()
		require.True(t, ok)
		require.Equal(t, 4.25, best)
	})

	t.Run("missing fields default", func(t *testing.T) {
		t.Parallel()

		member, err := duprapi.ParseMember([]byte(`{"id":"abc"}`))
		require.NoError(t, err)
		require.Equal(t, "abc", member.ID)
		require.Equal(t, 0.0, member.Rating)
		require.False(t, member.Verified)
		require.False(t, member.Connected)
		require.NotNil(t, member.Scopes)
		require.Empty(t, member.Scopes)
		require.NotNil(t, member.Ratings)
		require.Equal(t, "", member.Name())
	})

	t.Run("non-numeric rating string", func(t *testing.T) {
		t.Parallel()

		member, err := duprapi.ParseMember([]byte(`{"id":"abc","rating":"NR","ratings":{"open":"n/a"}}`))
		require.NoError(t, err)
		require.Equal(t, 0.0, member.Rating)

		_, ok := member.Ratings.Best()
		require.False(t, ok)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		_, err := duprapi.ParseMember([]byte(`{"id":`))
		require.Error(t, err)
	})
}

func TestParseSearchResults(t *testing.T) {
	t.Parallel()

	filters := domain.SearchFilters{Query: "doe", Page: 2, Limit: 20}

	t.Run("envelope", func(t *testing.T) {
		t.Parallel()

		results, err := duprapi.ParseSearchResults([]byte(`{
			"players": [
				{"id": "1", "displayName": "Jane D.", "rating": 4.5, "ratings": {"mixed": 4.4}},
				{"id": 2, "displayName": "John D."}
			],
			"total": 45,
			"page": 2,
			"limit": 20
		}`), filters)
		require.NoError(t, err)

		require.Len(t, results.Players, 2)
		require.Equal(t, domain.PlayerVariantSearch, results.Players[0].Variant)
		require.Equal(t, "Jane D.", results.Players[0].Name())
		require.Equal(t, "2", results.Players[1].ID)
		require.Equal(t, 0.0, results.Players[1].Rating)

		mixed, ok := results.Players[0].Ratings.Rating(domain.CategoryMixed)
		require.True(t, ok)
		require.Equal(t, 4.4, mixed)

		require.Equal(t, 45, results.Total)
		require.Equal(t, 2, results.Page)
		require.Equal(t, 20, results.Limit)
		require.Equal(t, filters, results.Filters)
		require.True(t, results.HasMore())
		require.Equal(t, 3, results.Pages())
	})

	t.Run("bare array", func(t *testing.T) {
		t.Parallel()

		results, err := duprapi.ParseSearchResults([]byte(`[{"id":"1","displayName":"Jane D."}]`), filters)
		require.NoError(t, err)

		require.Len(t, results.Players, 1)
		require.Equal(t, 1, results.Total)
		require.Equal(t, 2, results.Page)
		require.Equal(t, 20, results.Limit)
		require.False(t, results.HasMore())
	})

	t.Run("defaults from empty filters", func(t *testing.T) {
		t.Parallel()

		results, err := duprapi.ParseSearchResults([]byte(`{"players":[]}`), domain.SearchFilters{})
		require.NoError(t, err)

		require.NotNil(t, results.Players)
		require.Empty(t, results.Players)
		require.Equal(t, 1, results.Page)
		require.Equal(t, domain.DefaultSearchLimit, results.Limit)
		require.Equal(t, 0, results.Pages())
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		_, err := duprapi.ParseSearchResults([]byte(`[{]`), filters)
		require.Error(t, err)
	})
}

func TestParseMatchResult(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		result, err := duprapi.ParseMatchResult([]byte(`{"success":true,"matchCount":2,"gameCount":5,"dryRun":true}`))
		require.NoError(t, err)
		require.Equal(t, domain.MatchResult{
			Success:    true,
			MatchCount: 2,
			GameCount:  5,
			DryRun:     true,
			Errors:     []string{},
		}, result)
		require.True(t, result.OK())
	})

	t.Run("success with errors", func(t *testing.T) {
		t.Parallel()

		result, err := duprapi.ParseMatchResult([]byte(`{"success":true,"errors":["duplicate identifier"]}`))
		require.NoError(t, err)
		require.False(t, result.OK())
	})
}

func TestParseRatingUpdates(t *testing.T) {
	t.Parallel()

	expected := []domain.RatingUpdate{
		{
			PlayerID:       "1",
			DisplayName:    "Jane D.",
			PreviousRating: 4.1,
			NewRating:      4.25,
			ChangedAt:      time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
			Ratings:        domain.RatingSplits{"VM": {Rating: 4.25}},
		},
		{
			PlayerID:       "2",
			PreviousRating: 3.5,
			NewRating:      3.4,
			Ratings:        domain.RatingSplits{},
		},
	}

	for _, body := range []string{
		`{"updates":[{"playerId":"1","displayName":"Jane D.","previousRating":4.1,"newRating":"4.25","changedAt":"2024-06-01T12:00:00Z","ratings":{"VM":4.25}},{"playerId":2,"previousRating":3.5,"newRating":3.4}]}`,
		`[{"playerId":"1","displayName":"Jane D.","previousRating":4.1,"newRating":"4.25","changedAt":"2024-06-01T12:00:00Z","ratings":{"VM":4.25}},{"playerId":2,"previousRating":3.5,"newRating":3.4}]`,
	} {
		updates, err := duprapi.ParseRatingUpdates([]byte(body))
		require.NoError(t, err)
		require.Equal(t, expected, updates)
	}

	updates, err := duprapi.ParseRatingUpdates([]byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, updates)
}

func TestParseTokens(t *testing.T) {
	t.Parallel()

	expected := domain.Tokens{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    time.Hour,
		Scopes:       []string{"profile:read", "ratings:read"},
		PlayerID:     "1234",
	}

	t.Run("camel case", func(t *testing.T) {
		t.Parallel()

		tokens, err := duprapi.ParseTokens([]byte(`{"accessToken":"access","refreshToken":"refresh","expiresIn":3600,"scope":"profile:read,ratings:read","playerId":1234}`))
		require.NoError(t, err)
		require.Equal(t, expected, tokens)
	})

	t.Run("snake case", func(t *testing.T) {
		t.Parallel()

		tokens, err := duprapi.ParseTokens([]byte(`{"access_token":"access","refresh_token":"refresh","expires_in":3600,"scope":"profile:read, ratings:read","player_id":"1234"}`))
		require.NoError(t, err)
		require.Equal(t, expected, tokens)
	})

	t.Run("no scope", func(t *testing.T) {
		t.Parallel()

		tokens, err := duprapi.ParseTokens([]byte(`{"accessToken":"access"}`))
		require.NoError(t, err)
		require.Empty(t, tokens.Scopes)
		require.Equal(t, time.Duration(0), tokens.ExpiresIn)
	})
}

func TestParseAuthorization(t *testing.T) {
	t.Parallel()

	authorization, err := duprapi.ParseAuthorization([]byte(`{"authorizationUrl":"https://dupr.gg/authorize?code=x","code":"x","state":"s"}`))
	require.NoError(t, err)
	require.Equal(t, "https://dupr.gg/authorize?code=x", authorization.URL)
	require.Equal(t, "x", authorization.Code)
	require.Equal(t, "s", authorization.State)

	authorization, err = duprapi.ParseAuthorization([]byte(`{"url":"https://dupr.gg/authorize"}`))
	require.NoError(t, err)
	require.Equal(t, "https://dupr.gg/authorize", authorization.URL)
}

func TestParseScopes(t *testing.T) {
	t.Parallel()

	scopes, err := duprapi.ParseScopes([]byte(`{"scopes":[{"name":"profile:read","description":"Read the profile"}]}`))
	require.NoError(t, err)
	require.Equal(t, []domain.ScopeInfo{{Name: "profile:read", Description: "Read the profile"}}, scopes)
}

func TestParseUsage(t *testing.T) {
	t.Parallel()

	usage, err := duprapi.ParseUsage([]byte(`{"requestsToday":12,"requestsThisMonth":340,"dailyLimit":1000,"monthlyLimit":20000,"resetAt":"2024-07-01T00:00:00Z"}`))
	require.NoError(t, err)
	require.Equal(t, domain.Usage{
		RequestsToday:     12,
		RequestsThisMonth: 340,
		DailyLimit:        1000,
		MonthlyLimit:      20000,
		ResetAt:           time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
	}, usage)
}

func TestParseWebhookTestResult(t *testing.T) {
	t.Parallel()

	result, err := duprapi.ParseWebhookTestResult([]byte(`{"success":false,"statusCode":502,"message":"bad gateway"}`))
	require.NoError(t, err)
	require.Equal(t, domain.WebhookTestResult{Success: false, StatusCode: 502, Message: "bad gateway"}, result)
}
