package models

import "time"

// MatchStatus follows the strictly forward lifecycle Scheduled -> Live -> Finished.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "Scheduled"
	MatchStatusLive      MatchStatus = "Live"
	MatchStatusFinished  MatchStatus = "Finished"
)

type CardType string

const (
	CardYellow CardType = "Yellow"
	CardRed    CardType = "Red"
)

func (t CardType) Valid() bool {
	return t == CardYellow || t == CardRed
}

// Goal is an event record appended to a match. TeamID is the team credited
// with the goal, i.e. the side whose score was incremented; for an own goal
// that is the opponent of the scorer's team.
type Goal struct {
	ScorerID   *int      `json:"scorerId,omitempty"`
	ScorerName *string   `json:"scorerName,omitempty"`
	AssistID   *int      `json:"assistId,omitempty"`
	AssistName *string   `json:"assistName,omitempty"`
	Minute     int       `json:"minute"`
	IsOwnGoal  bool      `json:"isOwnGoal"`
	TeamID     int       `json:"teamId"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Card struct {
	PlayerID   *int      `json:"playerId,omitempty"`
	PlayerName *string   `json:"playerName,omitempty"`
	Minute     int       `json:"minute"`
	Type       CardType  `json:"type"`
	TeamID     int       `json:"teamId"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Match is a value object owned by its Tournament. It has no identity
// outside the tournament aggregate; all mutation goes through the
// tournament, which is loaded and saved as one unit.
type Match struct {
	ID                 string      `json:"id"`
	MatchNumber        int         `json:"matchNumber"`
	TeamAID            int         `json:"teamAId"`
	TeamBID            int         `json:"teamBId"`
	Date               string      `json:"date,omitempty"`
	Time               string      `json:"time,omitempty"`
	ScoreA             int         `json:"scoreA"`
	ScoreB             int         `json:"scoreB"`
	PenaltyScoreA      *int        `json:"penaltyScoreA,omitempty"`
	PenaltyScoreB      *int        `json:"penaltyScoreB,omitempty"`
	Status             MatchStatus `json:"status"`
	Goals              []Goal      `json:"goals"`
	Cards              []Card      `json:"cards"`
	Round              string      `json:"round"`
	WinnerID           *int        `json:"winnerId,omitempty"`
	PlayerOfTheMatchID *int        `json:"playerOfTheMatchId,omitempty"`
}

// HasTeam reports whether teamID plays on either side of the match.
func (m *Match) HasTeam(teamID int) bool {
	return m.TeamAID == teamID || m.TeamBID == teamID
}
