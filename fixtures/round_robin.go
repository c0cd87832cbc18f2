package fixtures

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sanjayy-s/asl-backend/models"
)

// LeagueStageRound labels every generated round-robin fixture.
const LeagueStageRound = "League Stage"

// GenerateRoundRobin emits one match per unordered pair of teams, in team
// insertion order: the outer loop walks teams ascending and the inner loop
// pairs each with every later team. For N teams this yields exactly
// N*(N-1)/2 matches, numbered densely from 1 in enumeration order.
//
// The result replaces any existing schedule, including recorded scores and
// events.
func GenerateRoundRobin(teamIDs []int) []models.Match {
	matches := make([]models.Match, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	number := 1
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			matches = append(matches, models.Match{
				ID:          uuid.NewString(),
				MatchNumber: number,
				TeamAID:     teamIDs[i],
				TeamBID:     teamIDs[j],
				Round:       LeagueStageRound,
				Status:      models.MatchStatusScheduled,
				Goals:       []models.Goal{},
				Cards:       []models.Card{},
			})
			number++
		}
	}
	return matches
}

// ReorderAndRenumber sorts matches chronologically and reassigns dense
// 1-based match numbers. Dated matches come before undated ones, then date
// ascending; timed matches come before untimed ones within equal dates,
// then time ascending; the previous match number is the final tiebreak,
// which keeps the sort stable and the function idempotent.
//
// Invoked after every structural match edit; the full recomputation is
// intentional, there is no incremental renumbering.
func ReorderAndRenumber(matches []models.Match) []models.Match {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)

	sort.SliceStable(sorted, func(i, j int) bool {
		return scheduleLess(sorted[i], sorted[j])
	})

	for i := range sorted {
		sorted[i].MatchNumber = i + 1
	}
	return sorted
}

func scheduleLess(a, b models.Match) bool {
	aDated, bDated := a.Date != "", b.Date != ""
	if aDated != bDated {
		return aDated
	}
	if aDated && a.Date != b.Date {
		return a.Date < b.Date
	}

	aTimed, bTimed := a.Time != "", b.Time != ""
	if aTimed != bTimed {
		return aTimed
	}
	if aTimed && a.Time != b.Time {
		return a.Time < b.Time
	}

	return a.MatchNumber < b.MatchNumber
}
