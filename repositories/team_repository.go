package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/sanjayy-s/asl-backend/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamCodeConflict = errors.New("team invite code conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, logo_url, admin_ids, member_ids, captain_id, vice_captain_id, invite_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.LogoURL,
		int64Array(team.AdminIDs),
		int64Array(team.MemberIDs),
		team.CaptainID,
		team.ViceCaptainID,
		team.InviteCode,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_invite_code_key" {
				return ErrTeamCodeConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := selectTeamQuery + ` WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	query := selectTeamQuery + ` WHERE invite_code = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, code))
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := selectTeamQuery + ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		var adminIDs, memberIDs pq.Int64Array
		err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.LogoURL,
			&adminIDs,
			&memberIDs,
			&team.CaptainID,
			&team.ViceCaptainID,
			&team.InviteCode,
			&team.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		team.AdminIDs = intSlice(adminIDs)
		team.MemberIDs = intSlice(memberIDs)
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// Update persists the whole team aggregate in one statement so member and
// role changes land atomically.
func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			logo_url = $2,
			admin_ids = $3,
			member_ids = $4,
			captain_id = $5,
			vice_captain_id = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.LogoURL,
		int64Array(team.AdminIDs),
		int64Array(team.MemberIDs),
		team.CaptainID,
		team.ViceCaptainID,
		team.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

const selectTeamQuery = `
	SELECT id, name, logo_url, admin_ids, member_ids, captain_id, vice_captain_id, invite_code, created_at
	FROM teams`

func (r *postgresTeamRepository) scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	var adminIDs, memberIDs pq.Int64Array
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.LogoURL,
		&adminIDs,
		&memberIDs,
		&team.CaptainID,
		&team.ViceCaptainID,
		&team.InviteCode,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	team.AdminIDs = intSlice(adminIDs)
	team.MemberIDs = intSlice(memberIDs)
	return team, nil
}
