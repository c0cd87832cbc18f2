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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ListByIDs(ctx context.Context, ids []int) ([]models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal user profile: %w", err)
	}

	query := `
		INSERT INTO users (email, dob, profile)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query, user.Email, user.DOB, profile).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, email, dob, profile, created_at
		FROM users
		WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, dob, profile, created_at
		FROM users
		WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal user profile: %w", err)
	}

	query := `
		UPDATE users SET
			email = $1,
			dob = $2,
			profile = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, user.Email, user.DOB, profile, user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

// ListByIDs returns the users for the given ids, ordered by id. Missing
// ids are silently absent from the result.
func (r *postgresUserRepository) ListByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	query := `
		SELECT id, email, dob, profile, created_at
		FROM users
		WHERE id = ANY($1)
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0, len(ids))
	for rows.Next() {
		var user models.User
		var profile []byte
		if err := rows.Scan(&user.ID, &user.Email, &user.DOB, &profile, &user.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(profile, &user.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile for user %d: %w", user.ID, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var profile []byte
	err := row.Scan(&user.ID, &user.Email, &user.DOB, &profile, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(profile, &user.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile for user %d: %w", user.ID, err)
	}
	return user, nil
}
