package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanjayy-s/asl-backend/middleware"
	"github.com/sanjayy-s/asl-backend/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) AddMatch(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}

	var input services.AddMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamAID <= 0 || input.TeamBID <= 0 {
		badRequestResponse(w, r, errors.New("teamAId and teamBId are required"))
		return
	}

	tournament, err := h.matchService.Add(r.Context(), tournamentID, input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.matchService.UpdateDetails(r.Context(), tournamentID, matchID, input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	tournament, err := h.matchService.Delete(r.Context(), tournamentID, matchID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	match, err := h.matchService.Start(r.Context(), tournamentID, matchID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) EndMatch(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	// Penalty scores are optional, so an empty body is fine.
	var input services.EndMatchInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	match, err := h.matchService.End(r.Context(), tournamentID, matchID, input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordGoal(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var input services.RecordGoalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordGoal(r.Context(), tournamentID, matchID, input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordCard(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var input services.RecordCardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordCard(r.Context(), tournamentID, matchID, input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) SetPlayerOfTheMatch(w http.ResponseWriter, r *http.Request) {
	userID, tournamentID, ok := h.tournamentScope(w, r)
	if !ok {
		return
	}
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var input struct {
		PlayerID int `json:"playerId"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PlayerID <= 0 {
		badRequestResponse(w, r, errors.New("playerId is required"))
		return
	}

	match, err := h.matchService.SetPlayerOfTheMatch(r.Context(), tournamentID, matchID, input.PlayerID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) tournamentScope(w http.ResponseWriter, r *http.Request) (userID, tournamentID int, ok bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "not authorized")
		return 0, 0, false
	}
	tournamentID, err = getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return userID, tournamentID, true
}

func (h *MatchHandler) matchID(w http.ResponseWriter, r *http.Request) (string, bool) {
	matchID := chi.URLParam(r, "matchID")
	if matchID == "" {
		badRequestResponse(w, r, errors.New("missing matchID in URL path"))
		return "", false
	}
	return matchID, true
}
