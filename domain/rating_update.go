package domain

import (
	"context"
	"fmt"
	"time"
)

type RatingUpdate struct {
	PlayerID    string
	DisplayName string

	PreviousRating float64
	NewRating      float64
	ChangedAt      time.Time

	Ratings RatingSplits

	handle Handle
}

func (u RatingUpdate) WithHandle(h Handle) RatingUpdate {
	u.handle = h
	return u
}

func (u RatingUpdate) Change() float64 {
	return u.NewRating - u.PreviousRating
}

func (u RatingUpdate) Improved() bool {
	return u.Change() > 0
}

// Member fetches the connected member the update belongs to
func (u RatingUpdate) Member(ctx context.Context) (Member, error) {
	if u.handle == nil {
		return Member{}, fmt.Errorf("%w: cannot get member %s for rating update", ErrNoClient, u.PlayerID)
	}

	member, err := u.handle.GetMember(ctx, u.PlayerID)
	if err != nil {
		return Member{}, fmt.Errorf("failed to get member for rating update: %w", err)
	}
	return member, nil
}
