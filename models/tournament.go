package models

import "time"

// Tournament is the aggregate root for matches and their goal/card events.
// Matches are not addressable outside the tournament: every mutation loads
// the tournament, edits the match in place and persists the whole record.
// TeamIDs keeps insertion order, which drives round-robin pairing order.
type Tournament struct {
	ID             int       `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	LogoURL        *string   `json:"logoUrl,omitempty" db:"logo_url"`
	AdminID        int       `json:"adminId" db:"admin_id"`
	TeamIDs        []int     `json:"teams" db:"team_ids"`
	Matches        []Match   `json:"matches" db:"matches"`
	SchedulingDone bool      `json:"isSchedulingDone" db:"scheduling_done"`
	InviteCode     string    `json:"inviteCode" db:"invite_code"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`

	// Hydrated team projections, not persisted with the aggregate.
	Teams []Team `json:"teamDetails,omitempty" db:"-"`
}

func (t *Tournament) HasTeam(teamID int) bool {
	return containsID(t.TeamIDs, teamID)
}

// MatchByID returns a pointer into the matches slice so callers can mutate
// the match through the aggregate, or nil if no such match exists.
func (t *Tournament) MatchByID(matchID string) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == matchID {
			return &t.Matches[i]
		}
	}
	return nil
}

// RemoveMatch deletes the match with the given id and reports whether it
// was present.
func (t *Tournament) RemoveMatch(matchID string) bool {
	for i := range t.Matches {
		if t.Matches[i].ID == matchID {
			t.Matches = append(t.Matches[:i], t.Matches[i+1:]...)
			return true
		}
	}
	return false
}
