package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The API accepts at most this many games per match
const MaxGamesPerMatch = 5

const (
	DefaultMatchType   = "SIDEOUT"
	DefaultMatchSource = "PARTNER"
)

type MatchFormat string

const (
	MatchFormatSingles MatchFormat = "SINGLES"
	MatchFormatDoubles MatchFormat = "DOUBLES"
)

// GameScore is the score of a single game as (team 1, team 2)
type GameScore [2]int

type Match struct {
	Identifier string

	Event    string
	Bracket  string
	PlayedAt time.Time
	Location string

	Team1 []string
	Team2 []string

	Scores []GameScore

	Type   string
	Source string
}

type MatchParams struct {
	// Generated if empty
	Identifier string

	Event    string
	Bracket  string
	PlayedAt time.Time
	Location string

	Team1 []string
	Team2 []string

	Scores []GameScore

	// Defaults to DefaultMatchType
	Type string
	// Defaults to DefaultMatchSource
	Source string
}

// NewMatch builds a validated match, filling in defaults
func NewMatch(params MatchParams) (Match, error) {
	match := Match{
		Identifier: params.Identifier,
		Event:      params.Event,
		Bracket:    params.Bracket,
		PlayedAt:   params.PlayedAt,
		Location:   params.Location,
		Team1:      append([]string(nil), params.Team1...),
		Team2:      append([]string(nil), params.Team2...),
		Scores:     append([]GameScore(nil), params.Scores...),
		Type:       params.Type,
		Source:     params.Source,
	}

	if match.Identifier == "" {
		match.Identifier = uuid.NewString()
	}
	if match.Type == "" {
		match.Type = DefaultMatchType
	}
	if match.Source == "" {
		match.Source = DefaultMatchSource
	}

	if err := match.Validate(); err != nil {
		return Match{}, err
	}

	return match, nil
}

// Validate checks the invariants the API relies on.
// Matches with more than MaxGamesPerMatch games are rejected rather than truncated.
func (m Match) Validate() error {
	if len(m.Team1) != len(m.Team2) {
		return fmt.Errorf("%w: teams have different sizes (%d and %d)", ErrInvalidMatch, len(m.Team1), len(m.Team2))
	}
	if len(m.Team1) != 1 && len(m.Team1) != 2 {
		return fmt.Errorf("%w: teams must have 1 or 2 players, got %d", ErrInvalidMatch, len(m.Team1))
	}
	if m.Team1[0] == "" || m.Team2[0] == "" {
		return fmt.Errorf("%w: each team needs a first player", ErrInvalidMatch)
	}
	if len(m.Scores) == 0 {
		return fmt.Errorf("%w: no games", ErrInvalidMatch)
	}
	if len(m.Scores) > MaxGamesPerMatch {
		return fmt.Errorf("%w: %d games exceeds the maximum of %d", ErrInvalidMatch, len(m.Scores), MaxGamesPerMatch)
	}
	return nil
}

func (m Match) Format() MatchFormat {
	if len(m.Team1) == 1 {
		return MatchFormatSingles
	}
	return MatchFormatDoubles
}

// Winner returns the team (1 or 2) that won the most games, or 0 for a tie
func (m Match) Winner() int {
	team1Wins, team2Wins := 0, 0
	for _, score := range m.Scores {
		switch {
		case score[0] > score[1]:
			team1Wins++
		case score[1] > score[0]:
			team2Wins++
		}
	}

	switch {
	case team1Wins > team2Wins:
		return 1
	case team2Wins > team1Wins:
		return 2
	default:
		return 0
	}
}

func (m Match) ScoreSummary() string {
	games := make([]string, len(m.Scores))
	for i, score := range m.Scores {
		games[i] = fmt.Sprintf("%d-%d", score[0], score[1])
	}
	return strings.Join(games, ", ")
}

type MatchResult struct {
	Success    bool
	MatchCount int
	GameCount  int
	// The API key only validates submissions, nothing was persisted
	DryRun  bool
	Message string
	Errors  []string
}

func (r MatchResult) OK() bool {
	return r.Success && len(r.Errors) == 0
}
