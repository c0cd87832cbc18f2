package services

import (
	"context"
	"encoding/json"

	"github.com/sanjayy-s/asl-backend/models"
	"github.com/sanjayy-s/asl-backend/repositories"
)

// In-memory repositories for service tests. Reads hand out deep copies so
// a mutation that is never saved cannot leak into stored state.

type fakeUserRepo struct {
	nextID int
	users  map[int]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]models.User)}
}

// Users are copied by value: DOB is excluded from JSON serialization, so
// the generic clone would lose it.
func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []int) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

type fakeTeamRepo struct {
	nextID int
	teams  map[int]models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, teams: make(map[int]models.Team)}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = r.nextID
	r.nextID++
	r.teams[team.ID] = cloneValue(*team)
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := cloneValue(team)
	return &copied, nil
}

func (r *fakeTeamRepo) GetByInviteCode(_ context.Context, code string) (*models.Team, error) {
	for _, team := range r.teams {
		if team.InviteCode == code {
			copied := cloneValue(team)
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) List(_ context.Context) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, cloneValue(team))
	}
	return teams, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	r.teams[team.ID] = cloneValue(*team)
	return nil
}

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, tournaments: make(map[int]models.Tournament)}
}

func (r *fakeTournamentRepo) Create(_ context.Context, tournament *models.Tournament) error {
	tournament.ID = r.nextID
	r.nextID++
	r.tournaments[tournament.ID] = cloneValue(*tournament)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := cloneValue(tournament)
	return &copied, nil
}

func (r *fakeTournamentRepo) GetByInviteCode(_ context.Context, code string) (*models.Tournament, error) {
	for _, tournament := range r.tournaments {
		if tournament.InviteCode == code {
			copied := cloneValue(tournament)
			return &copied, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	tournaments := make([]models.Tournament, 0, len(r.tournaments))
	for _, tournament := range r.tournaments {
		tournaments = append(tournaments, cloneValue(tournament))
	}
	return tournaments, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, tournament *models.Tournament) error {
	if _, ok := r.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	r.tournaments[tournament.ID] = cloneValue(*tournament)
	return nil
}

func cloneValue[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}
