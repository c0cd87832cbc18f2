package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sanjayy-s/asl-backend/models"
)

const (
	adminID    = 1
	outsiderID = 99
)

func newMatchFixture(t *testing.T) (MatchService, *fakeTournamentRepo, *clockwork.FakeClock, int) {
	t.Helper()
	repo := newFakeTournamentRepo()
	tournament := &models.Tournament{
		Name:    "Summer League",
		AdminID: adminID,
		TeamIDs: []int{10, 20, 30},
		Matches: []models.Match{
			{
				ID:          "match-1",
				MatchNumber: 1,
				TeamAID:     10,
				TeamBID:     20,
				Round:       "League Stage",
				Status:      models.MatchStatusScheduled,
				Goals:       []models.Goal{},
				Cards:       []models.Card{},
			},
			{
				ID:          "match-2",
				MatchNumber: 2,
				TeamAID:     10,
				TeamBID:     30,
				Round:       "League Stage",
				Status:      models.MatchStatusScheduled,
				Goals:       []models.Goal{},
				Cards:       []models.Card{},
			},
		},
		InviteCode: "SUMMER2025",
	}
	if err := repo.Create(context.Background(), tournament); err != nil {
		t.Fatalf("seed tournament: %v", err)
	}

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC))
	return NewMatchService(repo, clock, nil), repo, clock, tournament.ID
}

func TestStartMatchSetsLive(t *testing.T) {
	svc, repo, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	match, err := svc.Start(ctx, tournamentID, "match-1", adminID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if match.Status != models.MatchStatusLive {
		t.Fatalf("expected status %q, got %q", models.MatchStatusLive, match.Status)
	}

	stored, err := repo.GetByID(ctx, tournamentID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := stored.MatchByID("match-1").Status; got != models.MatchStatusLive {
		t.Fatalf("persisted status %q, want %q", got, models.MatchStatusLive)
	}
}

func TestRecordGoalIncrementsBenefitingTeam(t *testing.T) {
	svc, _, clock, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	scorer := 7
	match, err := svc.RecordGoal(ctx, tournamentID, "match-1", RecordGoalInput{
		ScorerID:         &scorer,
		Minute:           23,
		BenefitingTeamID: 20,
	}, adminID)
	if err != nil {
		t.Fatalf("RecordGoal: %v", err)
	}

	if match.ScoreA != 0 || match.ScoreB != 1 {
		t.Fatalf("expected 0-1, got %d-%d", match.ScoreA, match.ScoreB)
	}
	if len(match.Goals) != 1 {
		t.Fatalf("expected 1 goal event, got %d", len(match.Goals))
	}
	goal := match.Goals[0]
	if goal.TeamID != 20 || goal.Minute != 23 {
		t.Fatalf("unexpected goal event: %+v", goal)
	}
	if !goal.RecordedAt.Equal(clock.Now().UTC()) {
		t.Fatalf("goal timestamp %v, want %v", goal.RecordedAt, clock.Now().UTC())
	}
}

func TestRecordOwnGoalCreditsOpponent(t *testing.T) {
	svc, _, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	// An own goal by a team A player benefits team B; the caller supplies
	// the benefiting side explicitly.
	scorer := 4
	match, err := svc.RecordGoal(ctx, tournamentID, "match-1", RecordGoalInput{
		ScorerID:         &scorer,
		Minute:           55,
		IsOwnGoal:        true,
		BenefitingTeamID: 20,
	}, adminID)
	if err != nil {
		t.Fatalf("RecordGoal: %v", err)
	}
	if match.ScoreB != 1 {
		t.Fatalf("own goal should credit the benefiting team, got %d-%d", match.ScoreA, match.ScoreB)
	}
	if !match.Goals[0].IsOwnGoal {
		t.Fatal("goal event should be flagged as own goal")
	}
}

func TestRecordGoalRejectsForeignTeam(t *testing.T) {
	svc, repo, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		teamID  int
		wantErr error
	}{
		{"missing benefiting team", 0, ErrBenefitingTeamRequired},
		{"team not in match", 30, ErrTeamNotInMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordGoal(ctx, tournamentID, "match-1", RecordGoalInput{
				Minute:           10,
				BenefitingTeamID: tt.teamID,
			}, adminID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	stored, err := repo.GetByID(ctx, tournamentID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	match := stored.MatchByID("match-1")
	if match.ScoreA != 0 || match.ScoreB != 0 || len(match.Goals) != 0 {
		t.Fatalf("rejected goals must not change stored state: %d-%d, %d events", match.ScoreA, match.ScoreB, len(match.Goals))
	}
}

func TestEndMatchResolvesWinner(t *testing.T) {
	penA, penB := 5, 4

	tests := []struct {
		name       string
		goalsFor10 int
		goalsFor20 int
		penalties  *PenaltyScores
		wantWinner *int
	}{
		{"regulation win", 2, 1, nil, intPtr(10)},
		{"regulation loss", 0, 3, nil, intPtr(20)},
		{"draw without penalties", 1, 1, nil, nil},
		{"draw decided on penalties", 2, 2, &PenaltyScores{PenaltyScoreA: penA, PenaltyScoreB: penB}, intPtr(10)},
		{"draw with tied penalties", 0, 0, &PenaltyScores{PenaltyScoreA: 3, PenaltyScoreB: 3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, tournamentID := newMatchFixture(t)
			ctx := context.Background()

			for i := 0; i < tt.goalsFor10; i++ {
				if _, err := svc.RecordGoal(ctx, tournamentID, "match-1", RecordGoalInput{BenefitingTeamID: 10}, adminID); err != nil {
					t.Fatalf("RecordGoal: %v", err)
				}
			}
			for i := 0; i < tt.goalsFor20; i++ {
				if _, err := svc.RecordGoal(ctx, tournamentID, "match-1", RecordGoalInput{BenefitingTeamID: 20}, adminID); err != nil {
					t.Fatalf("RecordGoal: %v", err)
				}
			}

			match, err := svc.End(ctx, tournamentID, "match-1", EndMatchInput{PenaltyScores: tt.penalties}, adminID)
			if err != nil {
				t.Fatalf("End: %v", err)
			}

			if match.Status != models.MatchStatusFinished {
				t.Fatalf("expected status %q, got %q", models.MatchStatusFinished, match.Status)
			}
			switch {
			case tt.wantWinner == nil && match.WinnerID != nil:
				t.Fatalf("expected no winner, got %d", *match.WinnerID)
			case tt.wantWinner != nil && (match.WinnerID == nil || *match.WinnerID != *tt.wantWinner):
				t.Fatalf("expected winner %d, got %v", *tt.wantWinner, match.WinnerID)
			}
		})
	}
}

func TestEndMatchPersistsDecidingPenalties(t *testing.T) {
	svc, repo, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	match, err := svc.End(ctx, tournamentID, "match-1", EndMatchInput{
		PenaltyScores: &PenaltyScores{PenaltyScoreA: 4, PenaltyScoreB: 2},
	}, adminID)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if match.PenaltyScoreA == nil || *match.PenaltyScoreA != 4 || match.PenaltyScoreB == nil || *match.PenaltyScoreB != 2 {
		t.Fatalf("penalty scores not persisted: %v / %v", match.PenaltyScoreA, match.PenaltyScoreB)
	}

	stored, err := repo.GetByID(ctx, tournamentID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.MatchByID("match-1").PenaltyScoreA == nil {
		t.Fatal("penalty scores missing from stored match")
	}
}

func TestRecordCard(t *testing.T) {
	svc, _, clock, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	player := 9
	match, err := svc.RecordCard(ctx, tournamentID, "match-1", RecordCardInput{
		PlayerID: &player,
		Minute:   70,
		CardType: models.CardRed,
		TeamID:   10,
	}, adminID)
	if err != nil {
		t.Fatalf("RecordCard: %v", err)
	}
	if len(match.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(match.Cards))
	}
	card := match.Cards[0]
	if card.Type != models.CardRed || card.TeamID != 10 {
		t.Fatalf("unexpected card: %+v", card)
	}
	if !card.RecordedAt.Equal(clock.Now().UTC()) {
		t.Fatalf("card timestamp %v, want %v", card.RecordedAt, clock.Now().UTC())
	}

	if _, err := svc.RecordCard(ctx, tournamentID, "match-1", RecordCardInput{
		Minute:   71,
		CardType: "blue",
		TeamID:   10,
	}, adminID); !errors.Is(err, ErrInvalidCardType) {
		t.Fatalf("expected ErrInvalidCardType, got %v", err)
	}
	if _, err := svc.RecordCard(ctx, tournamentID, "match-1", RecordCardInput{
		Minute:   72,
		CardType: models.CardYellow,
		TeamID:   30,
	}, adminID); !errors.Is(err, ErrTeamNotInMatch) {
		t.Fatalf("expected ErrTeamNotInMatch, got %v", err)
	}
}

func TestMatchOperationsRequireTournamentAdmin(t *testing.T) {
	svc, repo, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	if _, err := svc.Start(ctx, tournamentID, "match-1", outsiderID); !errors.Is(err, ErrNotTournamentAdmin) {
		t.Fatalf("Start: expected ErrNotTournamentAdmin, got %v", err)
	}
	if _, err := svc.RecordGoal(ctx, tournamentID, "match-1", RecordGoalInput{BenefitingTeamID: 10}, outsiderID); !errors.Is(err, ErrNotTournamentAdmin) {
		t.Fatalf("RecordGoal: expected ErrNotTournamentAdmin, got %v", err)
	}
	if _, err := svc.Delete(ctx, tournamentID, "match-1", outsiderID); !errors.Is(err, ErrNotTournamentAdmin) {
		t.Fatalf("Delete: expected ErrNotTournamentAdmin, got %v", err)
	}

	stored, err := repo.GetByID(ctx, tournamentID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	match := stored.MatchByID("match-1")
	if match == nil || match.Status != models.MatchStatusScheduled || match.ScoreA != 0 {
		t.Fatal("rejected operations must not change stored state")
	}
}

func TestAddMatchValidatesTeams(t *testing.T) {
	svc, _, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, tournamentID, AddMatchInput{TeamAID: 10, TeamBID: 10}, adminID); !errors.Is(err, ErrMatchSameTeam) {
		t.Fatalf("expected ErrMatchSameTeam, got %v", err)
	}
	if _, err := svc.Add(ctx, tournamentID, AddMatchInput{TeamAID: 10, TeamBID: 40}, adminID); !errors.Is(err, ErrTeamNotInTournament) {
		t.Fatalf("expected ErrTeamNotInTournament, got %v", err)
	}

	tournament, err := svc.Add(ctx, tournamentID, AddMatchInput{TeamAID: 20, TeamBID: 30}, adminID)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(tournament.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(tournament.Matches))
	}
	added := tournament.Matches[len(tournament.Matches)-1]
	if added.Round != "League Stage" {
		t.Fatalf("expected default round, got %q", added.Round)
	}
	if added.ID == "" {
		t.Fatal("added match should get an id")
	}
}

func TestUpdateMatchDateReordersSchedule(t *testing.T) {
	svc, _, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	// Dating only the second match should move it ahead of the undated
	// first one and renumber both.
	date := "2025-06-10"
	tournament, err := svc.UpdateDetails(ctx, tournamentID, "match-2", UpdateMatchInput{Date: &date}, adminID)
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}

	if tournament.Matches[0].ID != "match-2" {
		t.Fatalf("dated match should sort first, got order %q, %q", tournament.Matches[0].ID, tournament.Matches[1].ID)
	}
	for i, match := range tournament.Matches {
		if match.MatchNumber != i+1 {
			t.Fatalf("match %d has number %d, want %d", i, match.MatchNumber, i+1)
		}
	}
}

func TestDeleteMatchRenumbers(t *testing.T) {
	svc, repo, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	tournament, err := svc.Delete(ctx, tournamentID, "match-1", adminID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(tournament.Matches) != 1 {
		t.Fatalf("expected 1 match left, got %d", len(tournament.Matches))
	}
	if tournament.Matches[0].ID != "match-2" || tournament.Matches[0].MatchNumber != 1 {
		t.Fatalf("remaining match should be renumbered to 1: %+v", tournament.Matches[0])
	}

	if _, err := svc.Delete(ctx, tournamentID, "match-1", adminID); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}

	stored, err := repo.GetByID(ctx, tournamentID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Matches) != 1 {
		t.Fatalf("stored tournament should have 1 match, got %d", len(stored.Matches))
	}
}

func TestSetPlayerOfTheMatch(t *testing.T) {
	svc, _, _, tournamentID := newMatchFixture(t)
	ctx := context.Background()

	match, err := svc.SetPlayerOfTheMatch(ctx, tournamentID, "match-1", 7, adminID)
	if err != nil {
		t.Fatalf("SetPlayerOfTheMatch: %v", err)
	}
	if match.PlayerOfTheMatchID == nil || *match.PlayerOfTheMatchID != 7 {
		t.Fatalf("expected player 7, got %v", match.PlayerOfTheMatchID)
	}
}

func intPtr(v int) *int { return &v }
