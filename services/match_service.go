package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sanjayy-s/asl-backend/fixtures"
	"github.com/sanjayy-s/asl-backend/live"
	"github.com/sanjayy-s/asl-backend/models"
	"github.com/sanjayy-s/asl-backend/repositories"
)

// Live event types broadcast to the tournament's websocket room.
const (
	eventMatchAdded    = "MATCH_ADDED"
	eventMatchUpdated  = "MATCH_UPDATED"
	eventMatchDeleted  = "MATCH_DELETED"
	eventMatchStarted  = "MATCH_STARTED"
	eventMatchFinished = "MATCH_FINISHED"
	eventGoalRecorded  = "GOAL_RECORDED"
	eventCardRecorded  = "CARD_RECORDED"
	eventPOTMSet       = "PLAYER_OF_THE_MATCH_SET"
)

// MatchService drives the match lifecycle state machine inside the
// tournament aggregate: Scheduled -> Live -> Finished, with goal and card
// events mutating the running score. Every operation loads the tournament,
// validates the command, mutates the match in place and persists the whole
// aggregate.
type MatchService interface {
	Add(ctx context.Context, tournamentID int, input AddMatchInput, actorID int) (*models.Tournament, error)
	UpdateDetails(ctx context.Context, tournamentID int, matchID string, input UpdateMatchInput, actorID int) (*models.Tournament, error)
	Delete(ctx context.Context, tournamentID int, matchID string, actorID int) (*models.Tournament, error)
	Start(ctx context.Context, tournamentID int, matchID string, actorID int) (*models.Match, error)
	End(ctx context.Context, tournamentID int, matchID string, input EndMatchInput, actorID int) (*models.Match, error)
	RecordGoal(ctx context.Context, tournamentID int, matchID string, input RecordGoalInput, actorID int) (*models.Match, error)
	RecordCard(ctx context.Context, tournamentID int, matchID string, input RecordCardInput, actorID int) (*models.Match, error)
	SetPlayerOfTheMatch(ctx context.Context, tournamentID int, matchID string, playerID int, actorID int) (*models.Match, error)
}

type AddMatchInput struct {
	TeamAID int    `json:"teamAId"`
	TeamBID int    `json:"teamBId"`
	Round   string `json:"round"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// UpdateMatchInput uses pointers so callers can clear a date or time by
// sending an empty string while omitted fields keep their value.
type UpdateMatchInput struct {
	TeamAID *int    `json:"teamAId"`
	TeamBID *int    `json:"teamBId"`
	Date    *string `json:"date"`
	Time    *string `json:"time"`
}

type PenaltyScores struct {
	PenaltyScoreA int `json:"penaltyScoreA"`
	PenaltyScoreB int `json:"penaltyScoreB"`
}

type EndMatchInput struct {
	PenaltyScores *PenaltyScores `json:"penaltyScores"`
}

type RecordGoalInput struct {
	ScorerID         *int    `json:"scorerId"`
	ScorerName       *string `json:"scorerName"`
	AssistID         *int    `json:"assistId"`
	AssistName       *string `json:"assistName"`
	Minute           int     `json:"minute"`
	IsOwnGoal        bool    `json:"isOwnGoal"`
	BenefitingTeamID int     `json:"benefitingTeamId"`
}

type RecordCardInput struct {
	PlayerID   *int            `json:"playerId"`
	PlayerName *string         `json:"playerName"`
	Minute     int             `json:"minute"`
	CardType   models.CardType `json:"cardType"`
	TeamID     int             `json:"teamId"`
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	clock          clockwork.Clock
	hub            Broadcaster
}

func NewMatchService(tournamentRepo repositories.TournamentRepository, clock clockwork.Clock, hub Broadcaster) MatchService {
	return &matchService{
		tournamentRepo: tournamentRepo,
		clock:          clock,
		hub:            hub,
	}
}

func (s *matchService) Add(ctx context.Context, tournamentID int, input AddMatchInput, actorID int) (*models.Tournament, error) {
	tournament, err := s.loadForAdmin(ctx, tournamentID, actorID)
	if err != nil {
		return nil, err
	}

	if err := validateMatchTeams(tournament, input.TeamAID, input.TeamBID); err != nil {
		return nil, err
	}

	round := input.Round
	if round == "" {
		round = fixtures.LeagueStageRound
	}

	tournament.Matches = append(tournament.Matches, models.Match{
		ID:          uuid.NewString(),
		MatchNumber: len(tournament.Matches) + 1,
		TeamAID:     input.TeamAID,
		TeamBID:     input.TeamBID,
		Round:       round,
		Date:        input.Date,
		Time:        input.Time,
		Status:      models.MatchStatusScheduled,
		Goals:       []models.Goal{},
		Cards:       []models.Card{},
	})
	tournament.Matches = fixtures.ReorderAndRenumber(tournament.Matches)

	if err := s.save(ctx, tournament); err != nil {
		return nil, err
	}
	s.broadcast(tournamentID, eventMatchAdded, tournament.Matches)
	return tournament, nil
}

// UpdateDetails edits one match's teams, date or time, then re-sorts and
// re-numbers the entire match list so the dense ordering keeps reflecting
// chronological intent. A single edit can shift every other match number.
func (s *matchService) UpdateDetails(ctx context.Context, tournamentID int, matchID string, input UpdateMatchInput, actorID int) (*models.Tournament, error) {
	tournament, err := s.loadForAdmin(ctx, tournamentID, actorID)
	if err != nil {
		return nil, err
	}

	match := tournament.MatchByID(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}

	if input.TeamAID != nil && *input.TeamAID != 0 {
		match.TeamAID = *input.TeamAID
	}
	if input.TeamBID != nil && *input.TeamBID != 0 {
		match.TeamBID = *input.TeamBID
	}
	if err := validateMatchTeams(tournament, match.TeamAID, match.TeamBID); err != nil {
		return nil, err
	}
	if input.Date != nil {
		match.Date = *input.Date
	}
	if input.Time != nil {
		match.Time = *input.Time
	}

	tournament.Matches = fixtures.ReorderAndRenumber(tournament.Matches)

	if err := s.save(ctx, tournament); err != nil {
		return nil, err
	}
	s.broadcast(tournamentID, eventMatchUpdated, tournament.Matches)
	return tournament, nil
}

func (s *matchService) Delete(ctx context.Context, tournamentID int, matchID string, actorID int) (*models.Tournament, error) {
	tournament, err := s.loadForAdmin(ctx, tournamentID, actorID)
	if err != nil {
		return nil, err
	}

	if !tournament.RemoveMatch(matchID) {
		return nil, ErrMatchNotFound
	}
	tournament.Matches = fixtures.ReorderAndRenumber(tournament.Matches)

	if err := s.save(ctx, tournament); err != nil {
		return nil, err
	}
	s.broadcast(tournamentID, eventMatchDeleted, tournament.Matches)
	return tournament, nil
}

// Start moves the match to Live. There is deliberately no guard against
// starting a Live or Finished match; re-starting is a no-op on everything
// but the status field.
func (s *matchService) Start(ctx context.Context, tournamentID int, matchID string, actorID int) (*models.Match, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, actorID, eventMatchStarted, func(match *models.Match) error {
		match.Status = models.MatchStatusLive
		return nil
	})
}

// End resolves the winner and finishes the match. Regulation score decides
// first; otherwise penalties, when provided and not tied, decide and are
// persisted. A drawn match with absent or tied penalties finishes with no
// winner.
func (s *matchService) End(ctx context.Context, tournamentID int, matchID string, input EndMatchInput, actorID int) (*models.Match, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, actorID, eventMatchFinished, func(match *models.Match) error {
		teamA, teamB := match.TeamAID, match.TeamBID

		var winnerID *int
		switch {
		case match.ScoreA > match.ScoreB:
			winnerID = &teamA
		case match.ScoreB > match.ScoreA:
			winnerID = &teamB
		case input.PenaltyScores != nil && input.PenaltyScores.PenaltyScoreA != input.PenaltyScores.PenaltyScoreB:
			penA, penB := input.PenaltyScores.PenaltyScoreA, input.PenaltyScores.PenaltyScoreB
			if penA > penB {
				winnerID = &teamA
			} else {
				winnerID = &teamB
			}
			match.PenaltyScoreA = &penA
			match.PenaltyScoreB = &penB
		}

		match.WinnerID = winnerID
		match.Status = models.MatchStatusFinished
		return nil
	})
}

// RecordGoal increments the benefiting team's score and appends a
// timestamped goal event. The benefiting team is caller-supplied and
// independent of the scorer's team: for an own goal it is the opponent of
// the scorer. Match status is not checked.
func (s *matchService) RecordGoal(ctx context.Context, tournamentID int, matchID string, input RecordGoalInput, actorID int) (*models.Match, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, actorID, eventGoalRecorded, func(match *models.Match) error {
		if input.BenefitingTeamID == 0 {
			return ErrBenefitingTeamRequired
		}
		switch input.BenefitingTeamID {
		case match.TeamAID:
			match.ScoreA++
		case match.TeamBID:
			match.ScoreB++
		default:
			return ErrTeamNotInMatch
		}

		match.Goals = append(match.Goals, models.Goal{
			ScorerID:   input.ScorerID,
			ScorerName: input.ScorerName,
			AssistID:   input.AssistID,
			AssistName: input.AssistName,
			Minute:     input.Minute,
			IsOwnGoal:  input.IsOwnGoal,
			TeamID:     input.BenefitingTeamID,
			RecordedAt: s.clock.Now().UTC(),
		})
		return nil
	})
}

func (s *matchService) RecordCard(ctx context.Context, tournamentID int, matchID string, input RecordCardInput, actorID int) (*models.Match, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, actorID, eventCardRecorded, func(match *models.Match) error {
		if !input.CardType.Valid() {
			return ErrInvalidCardType
		}
		if !match.HasTeam(input.TeamID) {
			return ErrTeamNotInMatch
		}

		match.Cards = append(match.Cards, models.Card{
			PlayerID:   input.PlayerID,
			PlayerName: input.PlayerName,
			Minute:     input.Minute,
			Type:       input.CardType,
			TeamID:     input.TeamID,
			RecordedAt: s.clock.Now().UTC(),
		})
		return nil
	})
}

// SetPlayerOfTheMatch accepts any player id without roster validation,
// matching the recorded contract of the system.
func (s *matchService) SetPlayerOfTheMatch(ctx context.Context, tournamentID int, matchID string, playerID int, actorID int) (*models.Match, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, actorID, eventPOTMSet, func(match *models.Match) error {
		match.PlayerOfTheMatchID = &playerID
		return nil
	})
}

// mutateMatch is the shared read-modify-write cycle: load the aggregate,
// check the single-admin rule, locate the match, apply the mutation and
// persist the whole tournament. Validation failures leave stored state
// untouched because nothing is saved until mutate returns nil.
func (s *matchService) mutateMatch(
	ctx context.Context,
	tournamentID int,
	matchID string,
	actorID int,
	eventType string,
	mutate func(match *models.Match) error,
) (*models.Match, error) {
	tournament, err := s.loadForAdmin(ctx, tournamentID, actorID)
	if err != nil {
		return nil, err
	}

	match := tournament.MatchByID(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}

	if err := mutate(match); err != nil {
		return nil, err
	}

	if err := s.save(ctx, tournament); err != nil {
		return nil, err
	}
	s.broadcast(tournamentID, eventType, match)
	return match, nil
}

func (s *matchService) loadForAdmin(ctx context.Context, tournamentID, actorID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if tournament.AdminID != actorID {
		return nil, ErrNotTournamentAdmin
	}
	return tournament, nil
}

func (s *matchService) save(ctx context.Context, tournament *models.Tournament) error {
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return fmt.Errorf("failed to save tournament %d: %w", tournament.ID, err)
	}
	return nil
}

func (s *matchService) broadcast(tournamentID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(strconv.Itoa(tournamentID), live.Message{
		Type:    eventType,
		Payload: payload,
	})
}

func validateMatchTeams(tournament *models.Tournament, teamAID, teamBID int) error {
	if teamAID == teamBID {
		return ErrMatchSameTeam
	}
	if !tournament.HasTeam(teamAID) || !tournament.HasTeam(teamBID) {
		return ErrTeamNotInTournament
	}
	return nil
}
