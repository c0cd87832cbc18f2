package services

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses in
// the handlers package.
var (
	// Not found
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Validation and business rules
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidRole            = errors.New("invalid role specified")
	ErrInvalidCardType        = errors.New("invalid card type")
	ErrBenefitingTeamRequired = errors.New("benefiting team id is required")
	ErrTeamNotInMatch         = errors.New("team is not playing in this match")
	ErrTeamNotInTournament    = errors.New("team is not part of this tournament")
	ErrMatchSameTeam          = errors.New("a match requires two different teams")
	ErrMemberNotInTeam        = errors.New("user is not a member of this team")

	// Conflicts
	ErrEmailTaken              = errors.New("user with this email already exists")
	ErrAlreadyTeamMember       = errors.New("user is already in this team")
	ErrTeamAlreadyInTournament = errors.New("this team is already in the tournament")
	ErrInviteCodeConflict      = errors.New("invite code is already in use")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid credentials, please check your email and date of birth")
	ErrNotTeamAdmin       = errors.New("operation requires team admin rights")
	ErrNotTournamentAdmin = errors.New("operation requires the tournament admin")

	// Infrastructure
	ErrLogoStorageUnavailable = errors.New("logo storage is not configured")
)
