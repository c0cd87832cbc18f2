package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sanjayy-s/asl-backend/handlers"
	"github.com/sanjayy-s/asl-backend/middleware"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Team       *handlers.TeamHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
}

// SetupRoutes wires the full HTTP surface: public auth endpoints, the
// authenticated API under /api and the live websocket feed.
func SetupRoutes(h Handlers, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", h.Auth.Register)
		api.Post("/auth/login", h.Auth.Login)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticate(jwtSecret))

			protected.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.GetMyProfile)
				r.Put("/me", h.User.UpdateMyProfile)
				r.Get("/{userID}", h.User.GetUserByID)
			})

			protected.Route("/teams", func(r chi.Router) {
				r.Post("/", h.Team.CreateTeam)
				r.Get("/", h.Team.ListTeams)
				r.Post("/join", h.Team.JoinTeam)
				r.Get("/{teamID}", h.Team.GetTeamByID)
				r.Put("/{teamID}", h.Team.UpdateTeamDetails)
				r.Post("/{teamID}/logo", h.Team.UploadTeamLogo)
				r.Get("/{teamID}/members", h.Team.ListTeamMembers)
				r.Post("/{teamID}/members", h.Team.AddTeamMember)
				r.Delete("/{teamID}/members/{memberID}", h.Team.RemoveTeamMember)
				r.Put("/{teamID}/admins/{memberID}", h.Team.ToggleTeamAdmin)
				r.Put("/{teamID}/roles", h.Team.SetTeamRole)
			})

			protected.Route("/tournaments", func(r chi.Router) {
				r.Post("/", h.Tournament.CreateTournament)
				r.Get("/", h.Tournament.ListTournaments)
				r.Post("/join", h.Tournament.JoinTournament)
				r.Get("/{tournamentID}", h.Tournament.GetTournamentByID)
				r.Put("/{tournamentID}", h.Tournament.UpdateTournament)
				r.Post("/{tournamentID}/logo", h.Tournament.UploadTournamentLogo)
				r.Post("/{tournamentID}/teams", h.Tournament.AddTeamToTournament)
				r.Post("/{tournamentID}/schedule", h.Tournament.ScheduleTournament)

				r.Route("/{tournamentID}/matches", func(r chi.Router) {
					r.Post("/", h.Match.AddMatch)
					r.Put("/{matchID}", h.Match.UpdateMatch)
					r.Delete("/{matchID}", h.Match.DeleteMatch)
					r.Put("/{matchID}/start", h.Match.StartMatch)
					r.Put("/{matchID}/end", h.Match.EndMatch)
					r.Post("/{matchID}/goals", h.Match.RecordGoal)
					r.Post("/{matchID}/cards", h.Match.RecordCard)
					r.Put("/{matchID}/potm", h.Match.SetPlayerOfTheMatch)
				})
			})
		})
	})

	r.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeTournamentFeed)

	return r
}
