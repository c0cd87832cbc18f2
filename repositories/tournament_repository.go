package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sanjayy-s/asl-backend/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentCodeConflict = errors.New("tournament invite code conflict")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	matches, err := marshalMatches(tournament.Matches)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tournaments (name, logo_url, admin_id, team_ids, matches, scheduling_done, invite_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.LogoURL,
		tournament.AdminID,
		int64Array(tournament.TeamIDs),
		matches,
		tournament.SchedulingDone,
		tournament.InviteCode,
	).Scan(&tournament.ID, &tournament.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "tournaments_invite_code_key" {
				return ErrTournamentCodeConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := selectTournamentQuery + ` WHERE id = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetByInviteCode(ctx context.Context, code string) (*models.Tournament, error) {
	query := selectTournamentQuery + ` WHERE invite_code = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, code))
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := selectTournamentQuery + ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		var teamIDs pq.Int64Array
		var matches []byte
		err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.LogoURL,
			&t.AdminID,
			&teamIDs,
			&matches,
			&t.SchedulingDone,
			&t.InviteCode,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		t.TeamIDs = intSlice(teamIDs)
		if t.Matches, err = unmarshalMatches(matches); err != nil {
			return nil, fmt.Errorf("tournament %d: %w", t.ID, err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

// Update writes the whole aggregate, matches included, in one statement.
// Concurrent saves are last-writer-wins at tournament granularity; partial
// writes of a single match cannot happen.
func (r *postgresTournamentRepository) Update(ctx context.Context, tournament *models.Tournament) error {
	matches, err := marshalMatches(tournament.Matches)
	if err != nil {
		return err
	}

	query := `
		UPDATE tournaments SET
			name = $1,
			logo_url = $2,
			team_ids = $3,
			matches = $4,
			scheduling_done = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		tournament.Name,
		tournament.LogoURL,
		int64Array(tournament.TeamIDs),
		matches,
		tournament.SchedulingDone,
		tournament.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

const selectTournamentQuery = `
	SELECT id, name, logo_url, admin_id, team_ids, matches, scheduling_done, invite_code, created_at
	FROM tournaments`

func (r *postgresTournamentRepository) scanTournament(row *sql.Row) (*models.Tournament, error) {
	t := &models.Tournament{}
	var teamIDs pq.Int64Array
	var matches []byte
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.LogoURL,
		&t.AdminID,
		&teamIDs,
		&matches,
		&t.SchedulingDone,
		&t.InviteCode,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.TeamIDs = intSlice(teamIDs)
	if t.Matches, err = unmarshalMatches(matches); err != nil {
		return nil, fmt.Errorf("tournament %d: %w", t.ID, err)
	}
	return t, nil
}

func marshalMatches(matches []models.Match) ([]byte, error) {
	if matches == nil {
		matches = []models.Match{}
	}
	data, err := json.Marshal(matches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal matches: %w", err)
	}
	return data, nil
}

func unmarshalMatches(data []byte) ([]models.Match, error) {
	matches := make([]models.Match, 0)
	if len(data) == 0 {
		return matches, nil
	}
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
	}
	return matches, nil
}
