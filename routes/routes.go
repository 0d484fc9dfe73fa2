package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/arena/docs"
	"github.com/Dosada05/arena/handlers"
	"github.com/Dosada05/arena/metrics"
	"github.com/Dosada05/arena/middleware"
)

type Handlers struct {
	Rating     *handlers.RatingHandler
	Tournament *handlers.TournamentHandler
	League     *handlers.LeagueHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	// Metrics is nil when /metrics is disabled.
	Metrics *metrics.Metrics
}

// SetupRoutes mounts the API. Reads are public; every write needs a bearer token.
func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Post("/seeding", handlers.SeedingHandler)

	router.Route("/ratings", func(r chi.Router) {
		r.Get("/default", h.Rating.DefaultRatingHandler)
		r.Get("/{categoryID}", h.Rating.ListRatingsHandler)
		r.Get("/{categoryID}/members/{member}", h.Rating.GetRatingHandler)
		r.With(authenticate).Post("/{categoryID}/matches", h.Rating.ApplyMatchHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/standings", h.Tournament.GetStandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Tournament.CreateHandler)
			r.Post("/{tournamentID}/results", h.Tournament.ProcessResultsHandler)
		})
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Get("/{leagueID}", h.League.GetByIDHandler)
		r.Get("/{leagueID}/leaderboard", h.League.LeaderboardHandler)
		r.Get("/{leagueID}/standings", h.League.GetStandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.League.CreateHandler)
			r.Post("/{leagueID}/rounds/{round}/results", h.League.ProcessRoundResultsHandler)
			r.Post("/{leagueID}/adjustments", h.League.AddAdjustmentHandler)
		})
	})

	router.Route("/ws", func(r chi.Router) {
		r.Get("/competitions/{competitionID}", h.WebSocket.ServeCompetition)
		r.Get("/ratings/{categoryID}", h.WebSocket.ServeRatings)
	})
}
