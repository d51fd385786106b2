package dupr

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Amund211/dupr/domain"
	"github.com/Amund211/dupr/internal/adapters/duprapi"
	"github.com/Amund211/dupr/internal/logging"
)

const (
	ageFilterExact = "EXACT"
	ageFilterRange = "RANGE"
	ageFilterAbove = "ABOVE"
	ageFilterBelow = "BELOW"
)

// GetMember fetches a connected member by id
func (c *Client) GetMember(ctx context.Context, id string) (domain.Member, error) {
	ctx = c.withOperation(ctx, "GetMember")

	member, err := call(ctx, c, duprapi.Request{
		Method: http.MethodGet,
		Path:   "/v1/member",
		Query:  duprapi.Params{"id": id},
	}, duprapi.ParseMember)
	if err != nil {
		return domain.Member{}, err
	}

	return member.WithHandle(c), nil
}

// SearchPlayers searches the public player directory.
//
// If Age is set together with AgeMin or AgeMax, the exact age is used.
func (c *Client) SearchPlayers(ctx context.Context, filters domain.SearchFilters) (domain.SearchResults, error) {
	ctx = c.withOperation(ctx, "SearchPlayers")
	filters = filters.WithDefaults()

	results, err := call(ctx, c, duprapi.Request{
		Method: http.MethodGet,
		Path:   "/v1/players/search",
		Query:  searchParams(ctx, filters),
	}, func(data []byte) (domain.SearchResults, error) {
		return duprapi.ParseSearchResults(data, filters)
	})
	if err != nil {
		return domain.SearchResults{}, err
	}

	return results.WithHandle(c), nil
}

// FindPlayer returns the best match for the query, if any
func (c *Client) FindPlayer(ctx context.Context, query string) (domain.Player, bool, error) {
	results, err := c.SearchPlayers(ctx, domain.SearchFilters{Query: query, Limit: 1})
	if err != nil {
		return domain.Player{}, false, err
	}

	if len(results.Players) == 0 {
		return domain.Player{}, false, nil
	}
	return results.Players[0], true, nil
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// searchParams maps filters to the query parameters of the search endpoint.
// filters must already have defaults applied.
func searchParams(ctx context.Context, filters domain.SearchFilters) duprapi.Params {
	params := duprapi.Params{
		"query":    optionalString(filters.Query),
		"rating1":  filters.RatingMin,
		"rating2":  filters.RatingMax,
		"city":     optionalString(filters.City),
		"state":    optionalString(filters.State),
		"country":  optionalString(filters.Country),
		"verified": filters.Verified,
		"limit":    filters.Limit,
	}

	if filters.Page > 1 {
		params["offset"] = (filters.Page - 1) * filters.Limit
	}

	switch {
	case filters.Age != nil:
		if filters.AgeMin != nil || filters.AgeMax != nil {
			logging.FromContext(ctx).WarnContext(ctx, "Both exact age and age range given, using exact age", slog.Int("age", *filters.Age))
		}
		params["ageFilter"] = ageFilterExact
		params["age1"] = *filters.Age
	case filters.AgeMin != nil && filters.AgeMax != nil:
		params["ageFilter"] = ageFilterRange
		params["age1"] = *filters.AgeMin
		params["age2"] = *filters.AgeMax
	case filters.AgeMin != nil:
		params["ageFilter"] = ageFilterAbove
		params["age1"] = *filters.AgeMin
	case filters.AgeMax != nil:
		params["ageFilter"] = ageFilterBelow
		params["age1"] = *filters.AgeMax
	}

	return params
}
