package duprapi

import (
	"fmt"
	"time"

	"github.com/Amund211/dupr/domain"
	"github.com/google/uuid"
)

type teamRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2,omitempty"`
	Game1   *int   `json:"game1,omitempty"`
	Game2   *int   `json:"game2,omitempty"`
	Game3   *int   `json:"game3,omitempty"`
	Game4   *int   `json:"game4,omitempty"`
	Game5   *int   `json:"game5,omitempty"`
}

func (t *teamRequest) setGame(n int, score int) {
	switch n {
	case 1:
		t.Game1 = &score
	case 2:
		t.Game2 = &score
	case 3:
		t.Game3 = &score
	case 4:
		t.Game4 = &score
	case 5:
		t.Game5 = &score
	}
}

type matchRequest struct {
	Identifier  string      `json:"identifier"`
	Bracket     string      `json:"bracket"`
	Event       string      `json:"event"`
	Format      string      `json:"format"`
	MatchDate   string      `json:"matchDate"`
	MatchSource string      `json:"matchSource"`
	MatchType   string      `json:"matchType"`
	Location    string      `json:"location,omitempty"`
	TeamA       teamRequest `json:"teamA"`
	TeamB       teamRequest `json:"teamB"`
}

type SubmitMatchesRequest struct {
	Matches []matchRequest `json:"matches"`
}

func newTeamRequest(players []string) teamRequest {
	team := teamRequest{Player1: players[0]}
	if len(players) > 1 {
		team.Player2 = players[1]
	}
	return team
}

// matchToRequest serializes a match for submission.
// Matches that fail validation are never sent, including matches with more
// than domain.MaxGamesPerMatch games.
func matchToRequest(match domain.Match) (matchRequest, error) {
	if err := match.Validate(); err != nil {
		return matchRequest{}, err
	}

	identifier := match.Identifier
	if identifier == "" {
		identifier = uuid.NewString()
	}
	matchType := match.Type
	if matchType == "" {
		matchType = domain.DefaultMatchType
	}
	matchSource := match.Source
	if matchSource == "" {
		matchSource = domain.DefaultMatchSource
	}

	request := matchRequest{
		Identifier:  identifier,
		Bracket:     match.Bracket,
		Event:       match.Event,
		Format:      string(match.Format()),
		MatchDate:   match.PlayedAt.UTC().Format(time.RFC3339),
		MatchSource: matchSource,
		MatchType:   matchType,
		Location:    match.Location,
		TeamA:       newTeamRequest(match.Team1),
		TeamB:       newTeamRequest(match.Team2),
	}

	for i, score := range match.Scores {
		request.TeamA.setGame(i+1, score[0])
		request.TeamB.setGame(i+1, score[1])
	}

	return request, nil
}

// SubmitMatchesBody builds the body for a batch submission
func SubmitMatchesBody(matches []domain.Match) (SubmitMatchesRequest, error) {
	if len(matches) == 0 {
		return SubmitMatchesRequest{}, fmt.Errorf("%w: no matches to submit", domain.ErrInvalidMatch)
	}

	body := SubmitMatchesRequest{Matches: make([]matchRequest, 0, len(matches))}
	for i, match := range matches {
		request, err := matchToRequest(match)
		if err != nil {
			return SubmitMatchesRequest{}, fmt.Errorf("match %d: %w", i, err)
		}
		body.Matches = append(body.Matches, request)
	}
	return body, nil
}
