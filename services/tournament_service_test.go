package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/sanjayy-s/asl-backend/models"
)

func newTournamentFixture(t *testing.T) (TournamentService, *fakeTournamentRepo, *fakeTeamRepo) {
	t.Helper()
	tournamentRepo := newFakeTournamentRepo()
	teamRepo := newFakeTeamRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTournamentService(tournamentRepo, teamRepo, nil, nil, logger), tournamentRepo, teamRepo
}

func seedTeam(t *testing.T, repo *fakeTeamRepo, name, code string) *models.Team {
	t.Helper()
	team := &models.Team{
		Name:       name,
		AdminIDs:   []int{adminID},
		MemberIDs:  []int{adminID},
		InviteCode: code,
	}
	if err := repo.Create(context.Background(), team); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return team
}

func TestCreateTournament(t *testing.T) {
	svc, _, _ := newTournamentFixture(t)

	tournament, err := svc.Create(context.Background(), CreateTournamentInput{Name: "Summer League", AdminID: adminID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tournament.AdminID != adminID {
		t.Fatalf("expected admin %d, got %d", adminID, tournament.AdminID)
	}
	if len(tournament.InviteCode) != 10 {
		t.Fatalf("expected 10-character invite code, got %q", tournament.InviteCode)
	}
	if tournament.SchedulingDone {
		t.Fatal("new tournament should not be marked scheduled")
	}

	if _, err := svc.Create(context.Background(), CreateTournamentInput{Name: "  ", AdminID: adminID}); !errors.Is(err, ErrTournamentNameRequired) {
		t.Fatalf("expected ErrTournamentNameRequired, got %v", err)
	}
}

func TestJoinTournamentByCode(t *testing.T) {
	svc, _, teamRepo := newTournamentFixture(t)
	ctx := context.Background()

	team := seedTeam(t, teamRepo, "Rovers", "ROVERS01")
	tournament, err := svc.Create(ctx, CreateTournamentInput{Name: "Summer League", AdminID: adminID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	joined, err := svc.Join(ctx, tournament.InviteCode, team.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !joined.HasTeam(team.ID) {
		t.Fatalf("team %d should be enrolled, got %v", team.ID, joined.TeamIDs)
	}

	if _, err := svc.Join(ctx, tournament.InviteCode, team.ID); !errors.Is(err, ErrTeamAlreadyInTournament) {
		t.Fatalf("expected ErrTeamAlreadyInTournament, got %v", err)
	}
	if _, err := svc.Join(ctx, "NOSUCHCODE", team.ID); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestAddTeamByIDOrCode(t *testing.T) {
	svc, _, teamRepo := newTournamentFixture(t)
	ctx := context.Background()

	first := seedTeam(t, teamRepo, "Rovers", "ROVERS01")
	second := seedTeam(t, teamRepo, "United", "UNITED01")
	tournament, err := svc.Create(ctx, CreateTournamentInput{Name: "Summer League", AdminID: adminID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := svc.AddTeam(ctx, tournament.ID, strconv.Itoa(first.ID), adminID)
	if err != nil {
		t.Fatalf("AddTeam by id: %v", err)
	}
	if !byID.HasTeam(first.ID) {
		t.Fatalf("team %d should be enrolled", first.ID)
	}

	byCode, err := svc.AddTeam(ctx, tournament.ID, "united01", adminID)
	if err != nil {
		t.Fatalf("AddTeam by code: %v", err)
	}
	if !byCode.HasTeam(second.ID) {
		t.Fatalf("team %d should be enrolled via lowercase code", second.ID)
	}

	if _, err := svc.AddTeam(ctx, tournament.ID, "ROVERS01", outsiderID); !errors.Is(err, ErrNotTournamentAdmin) {
		t.Fatalf("expected ErrNotTournamentAdmin, got %v", err)
	}
}

func TestScheduleGeneratesRoundRobin(t *testing.T) {
	svc, repo, teamRepo := newTournamentFixture(t)
	ctx := context.Background()

	tournament, err := svc.Create(ctx, CreateTournamentInput{Name: "Summer League", AdminID: adminID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i, code := range []string{"TEAMAAAA", "TEAMBBBB", "TEAMCCCC", "TEAMDDDD"} {
		team := seedTeam(t, teamRepo, "Team "+strconv.Itoa(i), code)
		if _, err := svc.AddTeam(ctx, tournament.ID, strconv.Itoa(team.ID), adminID); err != nil {
			t.Fatalf("AddTeam: %v", err)
		}
	}

	scheduled, err := svc.Schedule(ctx, tournament.ID, adminID)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	if len(scheduled.Matches) != 6 {
		t.Fatalf("4 teams should yield 6 matches, got %d", len(scheduled.Matches))
	}
	if !scheduled.SchedulingDone {
		t.Fatal("SchedulingDone should be set")
	}

	stored, err := repo.GetByID(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Matches) != 6 || !stored.SchedulingDone {
		t.Fatal("schedule was not persisted")
	}

	if _, err := svc.Schedule(ctx, tournament.ID, outsiderID); !errors.Is(err, ErrNotTournamentAdmin) {
		t.Fatalf("expected ErrNotTournamentAdmin, got %v", err)
	}
}

func TestGetByIDHydratesTeams(t *testing.T) {
	svc, tournamentRepo, teamRepo := newTournamentFixture(t)
	ctx := context.Background()

	team := seedTeam(t, teamRepo, "Rovers", "ROVERS01")
	tournament, err := svc.Create(ctx, CreateTournamentInput{Name: "Summer League", AdminID: adminID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AddTeam(ctx, tournament.ID, strconv.Itoa(team.ID), adminID); err != nil {
		t.Fatalf("AddTeam: %v", err)
	}

	// A dangling team reference must be skipped, not fail the read.
	stored, err := tournamentRepo.GetByID(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	stored.TeamIDs = append(stored.TeamIDs, 404)
	if err := tournamentRepo.Update(ctx, stored); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.GetByID(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Teams) != 1 {
		t.Fatalf("expected 1 hydrated team, got %d", len(got.Teams))
	}
	if got.Teams[0].Name != "Rovers" {
		t.Fatalf("unexpected hydrated team: %+v", got.Teams[0])
	}
}
