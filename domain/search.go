package domain

import (
	"context"
	"fmt"
)

const DefaultSearchLimit = 20

type SearchFilters struct {
	Query string

	RatingMin *float64
	RatingMax *float64

	// Age takes precedence over AgeMin/AgeMax when both are given
	Age    *int
	AgeMin *int
	AgeMax *int

	City     string
	State    string
	Country  string
	Verified *bool

	// 1-indexed. Zero means the first page
	Page int
	// Zero means DefaultSearchLimit
	Limit int
}

// WithDefaults fills in the page and limit if unset
func (f SearchFilters) WithDefaults() SearchFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultSearchLimit
	}
	return f
}

type SearchResults struct {
	Players []Player
	Total   int
	Page    int
	Limit   int

	// The filters used to produce these results
	Filters SearchFilters

	handle Handle
}

func (r SearchResults) WithHandle(h Handle) SearchResults {
	r.handle = h
	return r
}

func (r SearchResults) HasMore() bool {
	return r.Page*r.Limit < r.Total
}

func (r SearchResults) Pages() int {
	if r.Limit <= 0 {
		return 0
	}
	return (r.Total + r.Limit - 1) / r.Limit
}

// NextPage runs the same search for the following page
func (r SearchResults) NextPage(ctx context.Context) (SearchResults, error) {
	if r.handle == nil {
		return SearchResults{}, fmt.Errorf("%w: cannot fetch next page", ErrNoClient)
	}

	filters := r.Filters
	filters.Page = r.Page + 1
	filters.Limit = r.Limit

	next, err := r.handle.SearchPlayers(ctx, filters)
	if err != nil {
		return SearchResults{}, fmt.Errorf("failed to fetch page %d: %w", filters.Page, err)
	}
	return next, nil
}
