package domain

import "time"

const (
	CategoryOpen         = "open"
	CategoryGender       = "gender"
	CategoryMixed        = "mixed"
	CategoryRecreational = "recreational"
	CategorySingles      = "singles"
)

// Legacy abbreviations used as keys by older payloads
var legacyCategoryKeys = map[string]string{
	CategoryOpen:         "VO",
	CategoryGender:       "VG",
	CategoryMixed:        "VM",
	CategoryRecreational: "R",
	CategorySingles:      "S",
}

type RatingSplit struct {
	Rating       float64
	Abbreviation string
	LastPlayed   *time.Time
}

// RatingSplits holds a rating per play category, keyed as the API sent it.
type RatingSplits map[string]RatingSplit

// Get looks up a category by key. For canonical category names the legacy
// abbreviation is tried if the canonical key is absent.
func (s RatingSplits) Get(category string) (RatingSplit, bool) {
	if split, ok := s[category]; ok {
		return split, true
	}

	legacyKey, ok := legacyCategoryKeys[category]
	if !ok {
		return RatingSplit{}, false
	}

	split, ok := s[legacyKey]
	return split, ok
}

func (s RatingSplits) Rating(category string) (float64, bool) {
	split, ok := s.Get(category)
	if !ok {
		return 0, false
	}
	return split.Rating, true
}

// Best returns the highest positive rating, or false if there is none
func (s RatingSplits) Best() (float64, bool) {
	best := 0.0
	found := false
	for _, split := range s {
		if split.Rating <= 0 {
			continue
		}
		if !found || split.Rating > best {
			best = split.Rating
			found = true
		}
	}
	return best, found
}
