package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sanjayy-s/asl-backend/models"
	"github.com/sanjayy-s/asl-backend/repositories"
	"github.com/sanjayy-s/asl-backend/storage"
	"github.com/sanjayy-s/asl-backend/utils"
)

const teamInviteCodeLength = 8

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	ListMembers(ctx context.Context, teamID int) ([]models.User, error)
	JoinByCode(ctx context.Context, code string, userID int) (*models.Team, error)
	UpdateDetails(ctx context.Context, teamID int, input UpdateTeamInput, actorID int) (*models.Team, error)
	AddMember(ctx context.Context, teamID, memberID, actorID int) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID, memberID, actorID int) (*models.Team, error)
	ToggleAdmin(ctx context.Context, teamID, memberID, actorID int) (*models.Team, error)
	SetRole(ctx context.Context, teamID int, input SetRoleInput, actorID int) (*models.Team, error)
	UploadLogo(ctx context.Context, teamID, actorID int, contentType string, body io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name    string  `json:"name"`
	LogoURL *string `json:"logoUrl"`

	CreatorID int `json:"-"`
}

type UpdateTeamInput struct {
	Name    *string `json:"name"`
	LogoURL *string `json:"logoUrl"`
}

type SetRoleInput struct {
	MemberID int    `json:"memberId"`
	Role     string `json:"role"`
}

const (
	RoleCaptain     = "captain"
	RoleViceCaptain = "viceCaptain"
)

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, userRepo repositories.UserRepository, uploader storage.FileUploader) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		uploader: uploader,
	}
}

// Create registers a team with the creator as its sole member and admin.
func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:       name,
		LogoURL:    input.LogoURL,
		AdminIDs:   []int{input.CreatorID},
		MemberIDs:  []int{input.CreatorID},
		InviteCode: utils.GenerateInviteCode(teamInviteCodeLength),
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamCodeConflict) {
			return nil, ErrInviteCodeConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *teamService) ListMembers(ctx context.Context, teamID int) ([]models.User, error) {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members, err := s.userRepo.ListByIDs(ctx, team.MemberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	return members, nil
}

func (s *teamService) JoinByCode(ctx context.Context, code string, userID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to look up team by invite code: %w", err)
	}

	if team.IsMember(userID) {
		return nil, ErrAlreadyTeamMember
	}

	team.AddMember(userID)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save team %d: %w", team.ID, err)
	}
	return team, nil
}

func (s *teamService) UpdateDetails(ctx context.Context, teamID int, input UpdateTeamInput, actorID int) (*models.Team, error) {
	team, err := s.loadForAdmin(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		team.Name = *input.Name
	}
	if input.LogoURL != nil {
		if *input.LogoURL == "" {
			team.LogoURL = nil
		} else {
			team.LogoURL = input.LogoURL
		}
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, memberID, actorID int) (*models.Team, error) {
	team, err := s.loadForAdmin(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %d: %w", memberID, err)
	}
	if team.IsMember(memberID) {
		return nil, ErrAlreadyTeamMember
	}

	team.AddMember(memberID)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save team %d: %w", teamID, err)
	}
	return team, nil
}

// RemoveMember strips the member from the roster and from every role field
// referencing them; the whole aggregate is saved in one statement.
func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID, actorID int) (*models.Team, error) {
	team, err := s.loadForAdmin(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	team.RemoveMember(memberID)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save team %d: %w", teamID, err)
	}
	return team, nil
}

// ToggleAdmin grants or revokes admin rights; a second call undoes the
// first. Admins must be current members.
func (s *teamService) ToggleAdmin(ctx context.Context, teamID, memberID, actorID int) (*models.Team, error) {
	team, err := s.loadForAdmin(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	if !team.IsMember(memberID) {
		return nil, ErrMemberNotInTeam
	}

	team.ToggleAdmin(memberID)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save team %d: %w", teamID, err)
	}
	return team, nil
}

// SetRole toggles the captain or vice-captain slot: assigning the current
// holder clears the slot, anyone else takes it over.
func (s *teamService) SetRole(ctx context.Context, teamID int, input SetRoleInput, actorID int) (*models.Team, error) {
	team, err := s.loadForAdmin(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	if !team.IsMember(input.MemberID) {
		return nil, ErrMemberNotInTeam
	}

	switch input.Role {
	case RoleCaptain:
		if team.CaptainID != nil && *team.CaptainID == input.MemberID {
			team.CaptainID = nil
		} else {
			memberID := input.MemberID
			team.CaptainID = &memberID
		}
	case RoleViceCaptain:
		if team.ViceCaptainID != nil && *team.ViceCaptainID == input.MemberID {
			team.ViceCaptainID = nil
		} else {
			memberID := input.MemberID
			team.ViceCaptainID = &memberID
		}
	default:
		return nil, ErrInvalidRole
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID, actorID int, contentType string, body io.Reader) (*models.Team, error) {
	team, err := s.loadForAdmin(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrLogoStorageUnavailable
	}

	key := fmt.Sprintf("teams/%d/logo", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}

	team.LogoURL = &result.Location
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to save team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) loadForAdmin(ctx context.Context, teamID, actorID int) (*models.Team, error) {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsAdmin(actorID) {
		return nil, ErrNotTeamAdmin
	}
	return team, nil
}
