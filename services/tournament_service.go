package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sanjayy-s/asl-backend/fixtures"
	"github.com/sanjayy-s/asl-backend/live"
	"github.com/sanjayy-s/asl-backend/models"
	"github.com/sanjayy-s/asl-backend/repositories"
	"github.com/sanjayy-s/asl-backend/storage"
	"github.com/sanjayy-s/asl-backend/utils"
)

const tournamentInviteCodeLength = 10

// Broadcaster pushes live updates to the websocket room of a tournament.
// Satisfied by *live.Hub; a nil broadcaster disables the feed.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

const eventScheduleUpdated = "SCHEDULE_UPDATED"

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Join(ctx context.Context, inviteCode string, teamID int) (*models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput, actorID int) (*models.Tournament, error)
	AddTeam(ctx context.Context, id int, teamCodeOrID string, actorID int) (*models.Tournament, error)
	Schedule(ctx context.Context, id int, actorID int) (*models.Tournament, error)
	UploadLogo(ctx context.Context, id, actorID int, contentType string, body io.Reader) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name    string  `json:"name"`
	LogoURL *string `json:"logoUrl"`

	AdminID int `json:"-"`
}

type UpdateTournamentInput struct {
	Name    *string `json:"name"`
	LogoURL *string `json:"logoUrl"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	uploader       storage.FileUploader
	hub            Broadcaster
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	hub Broadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		uploader:       uploader,
		hub:            hub,
		logger:         logger,
	}
}

// Create registers a tournament with the caller as its single, immutable
// admin. No delegated tournament admins exist.
func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}

	tournament := &models.Tournament{
		Name:       name,
		LogoURL:    input.LogoURL,
		AdminID:    input.AdminID,
		TeamIDs:    []int{},
		Matches:    []models.Match{},
		InviteCode: utils.GenerateInviteCode(tournamentInviteCodeLength),
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentCodeConflict) {
			return nil, ErrInviteCodeConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateTeams(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

// Join adds a team by invite code. Possession of the code is the only
// requirement; the caller does not have to administer the team.
func (s *tournamentService) Join(ctx context.Context, inviteCode string, teamID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(inviteCode)))
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to look up tournament by invite code: %w", err)
	}

	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up team %d: %w", teamID, err)
	}
	if tournament.HasTeam(teamID) {
		return nil, ErrTeamAlreadyInTournament
	}

	tournament.TeamIDs = append(tournament.TeamIDs, teamID)
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to save tournament %d: %w", tournament.ID, err)
	}
	return tournament, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput, actorID int) (*models.Tournament, error) {
	tournament, err := s.loadForAdmin(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		tournament.Name = *input.Name
	}
	if input.LogoURL != nil {
		if *input.LogoURL == "" {
			tournament.LogoURL = nil
		} else {
			tournament.LogoURL = input.LogoURL
		}
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to save tournament %d: %w", id, err)
	}
	return tournament, nil
}

// AddTeam accepts either a numeric team id or a team invite code, the way
// an organizer would paste whichever identifier they have at hand.
func (s *tournamentService) AddTeam(ctx context.Context, id int, teamCodeOrID string, actorID int) (*models.Tournament, error) {
	tournament, err := s.loadForAdmin(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	team, err := s.resolveTeam(ctx, teamCodeOrID)
	if err != nil {
		return nil, err
	}
	if tournament.HasTeam(team.ID) {
		return nil, ErrTeamAlreadyInTournament
	}

	tournament.TeamIDs = append(tournament.TeamIDs, team.ID)
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to save tournament %d: %w", id, err)
	}
	return tournament, nil
}

// Schedule regenerates the full round-robin fixture list in team insertion
// order. This is destructive: any previously recorded scores and events
// are discarded with the old matches.
func (s *tournamentService) Schedule(ctx context.Context, id int, actorID int) (*models.Tournament, error) {
	tournament, err := s.loadForAdmin(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	tournament.Matches = fixtures.GenerateRoundRobin(tournament.TeamIDs)
	tournament.SchedulingDone = true

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to save tournament %d: %w", id, err)
	}

	s.logger.Info("round-robin schedule generated",
		slog.Int("tournament_id", id),
		slog.Int("teams", len(tournament.TeamIDs)),
		slog.Int("matches", len(tournament.Matches)),
	)
	if s.hub != nil {
		s.hub.BroadcastToRoom(strconv.Itoa(id), live.Message{
			Type:    eventScheduleUpdated,
			Payload: tournament.Matches,
		})
	}
	return tournament, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id, actorID int, contentType string, body io.Reader) (*models.Tournament, error) {
	tournament, err := s.loadForAdmin(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrLogoStorageUnavailable
	}

	key := fmt.Sprintf("tournaments/%d/logo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for tournament %d: %w", id, err)
	}

	tournament.LogoURL = &result.Location
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to save tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) load(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) loadForAdmin(ctx context.Context, id, actorID int) (*models.Tournament, error) {
	tournament, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.AdminID != actorID {
		return nil, ErrNotTournamentAdmin
	}
	return tournament, nil
}

// hydrateTeams fetches the team projections referenced by the tournament
// concurrently. Dangling references are skipped rather than failing the
// whole read.
func (s *tournamentService) hydrateTeams(ctx context.Context, tournament *models.Tournament) error {
	if len(tournament.TeamIDs) == 0 {
		tournament.Teams = []models.Team{}
		return nil
	}

	loaded := make([]*models.Team, len(tournament.TeamIDs))
	g, gCtx := errgroup.WithContext(ctx)
	for i, teamID := range tournament.TeamIDs {
		i, teamID := i, teamID
		g.Go(func() error {
			team, err := s.teamRepo.GetByID(gCtx, teamID)
			if err != nil {
				if errors.Is(err, repositories.ErrTeamNotFound) {
					s.logger.Warn("tournament references missing team",
						slog.Int("tournament_id", tournament.ID),
						slog.Int("team_id", teamID),
					)
					return nil
				}
				return fmt.Errorf("failed to load team %d: %w", teamID, err)
			}
			loaded[i] = team
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tournament.Teams = make([]models.Team, 0, len(loaded))
	for _, team := range loaded {
		if team != nil {
			tournament.Teams = append(tournament.Teams, *team)
		}
	}
	return nil
}

func (s *tournamentService) resolveTeam(ctx context.Context, teamCodeOrID string) (*models.Team, error) {
	teamCodeOrID = strings.TrimSpace(teamCodeOrID)

	if id, err := strconv.Atoi(teamCodeOrID); err == nil {
		team, err := s.teamRepo.GetByID(ctx, id)
		if err == nil {
			return team, nil
		}
		if !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("failed to look up team %d: %w", id, err)
		}
	}

	team, err := s.teamRepo.GetByInviteCode(ctx, strings.ToUpper(teamCodeOrID))
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up team by code: %w", err)
	}
	return team, nil
}
