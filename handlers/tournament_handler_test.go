package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sanjayy-s/asl-backend/middleware"
	"github.com/sanjayy-s/asl-backend/models"
	"github.com/sanjayy-s/asl-backend/services"
)

type stubTournamentService struct {
	services.TournamentService

	addedTeam   string
	addedByUser int
}

func (s *stubTournamentService) AddTeam(_ context.Context, id int, teamCodeOrID string, actorID int) (*models.Tournament, error) {
	s.addedTeam = teamCodeOrID
	s.addedByUser = actorID
	return &models.Tournament{ID: id, Name: "Summer League"}, nil
}

func TestAddTeamReadsTeamCodeOrIDField(t *testing.T) {
	stub := &stubTournamentService{}
	handler := NewTournamentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/tournaments/1/teams", strings.NewReader(`{"teamCodeOrId": "UNITED01"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 3))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tournamentID", "1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.AddTeamToTournament(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if stub.addedTeam != "UNITED01" {
		t.Fatalf("service received %q, want %q", stub.addedTeam, "UNITED01")
	}
	if stub.addedByUser != 3 {
		t.Fatalf("service received actor %d, want 3", stub.addedByUser)
	}
}
