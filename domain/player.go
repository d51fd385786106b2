package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Handle is a non-owning reference back to the client that fetched a value.
// It is only used by follow-up operations like Member.Refresh and SearchResults.NextPage.
type Handle interface {
	GetMember(ctx context.Context, id string) (Member, error)
	SearchPlayers(ctx context.Context, filters SearchFilters) (SearchResults, error)
}

// PlayerVariant records which kind of payload a Player was built from
type PlayerVariant int

const (
	// Search results only carry a privacy redacted display name
	PlayerVariantSearch PlayerVariant = iota + 1
	// Connected members carry the full name
	PlayerVariantMember
)

func (v PlayerVariant) String() string {
	switch v {
	case PlayerVariantSearch:
		return "search"
	case PlayerVariantMember:
		return "member"
	default:
		return fmt.Sprintf("<invalid player variant>(%d)", int(v))
	}
}

type Player struct {
	Variant PlayerVariant

	ID          string
	DisplayName string
	FirstName   string
	LastName    string

	Rating    float64
	Verified  bool
	Connected bool

	City    string
	State   string
	Country string

	Ratings RatingSplits
}

// Name is the full name when both parts are known, else the display name
func (p Player) Name() string {
	if p.FirstName != "" && p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return p.DisplayName
}

func (p Player) Location() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.City, p.State, p.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

type Member struct {
	Player

	Email  string
	Scopes []string

	handle Handle
}

func (m Member) HasScope(scope string) bool {
	return slices.Contains(m.Scopes, scope)
}

// WithHandle returns a copy of the member that can be refreshed through h
func (m Member) WithHandle(h Handle) Member {
	m.handle = h
	return m
}

// Refresh fetches the latest data for the member.
//
// The receiver is left untouched; callers should use the returned value.
func (m Member) Refresh(ctx context.Context) (Member, error) {
	if m.handle == nil {
		return Member{}, fmt.Errorf("%w: cannot refresh member %s", ErrNoClient, m.ID)
	}

	refreshed, err := m.handle.GetMember(ctx, m.ID)
	if err != nil {
		return Member{}, fmt.Errorf("failed to refresh member: %w", err)
	}

	return refreshed, nil
}
