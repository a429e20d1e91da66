package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/alexedwards/scs/v2"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/httputil"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/league"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/middleware"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/notify"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/predict"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/service"
	"github.com/finlay-RTA-commits/RTA-PingPong/internal/store"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth/gothic"
	"github.com/unrolled/render"
)

func newRouter(db *sqlx.DB, sessionManager *scs.SessionManager, clk clock.Clock) http.Handler {
	playerStore := store.NewPlayerStore(db)
	gameStore := store.NewGameStore(db)
	tournamentStore := store.NewTournamentStore(db)
	userStore := store.NewUserStore(db)

	rosterService := service.NewRosterService(playerStore, clk)
	tournamentService := service.NewTournamentService(tournamentStore, playerStore, clk)
	bracketService := service.NewBracketService(playerStore, gameStore, tournamentStore)
	statsService := service.NewStatsService(db, playerStore, gameStore, tournamentService, bracketService, notify.LogNotifier{}, clk)
	userService := service.NewUserService(userStore)
	predictClient := predict.NewClient(os.Getenv("PREDICT_URL"))

	rnd := render.New()
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager, userStore))

		r.Get("/players", func(w http.ResponseWriter, r *http.Request) {
			players, err := rosterService.ListPlayers(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list players", err)
				return
			}
			rnd.JSON(w, http.StatusOK, players)
		})

		r.Post("/players", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name      string `json:"name"`
				AvatarURL string `json:"avatarUrl"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			player, err := rosterService.AddPlayer(r.Context(), body.Name, body.AvatarURL)
			if err != nil {
				httputil.BadRequest(w, "Failed to add player", err)
				return
			}
			rnd.JSON(w, http.StatusCreated, player)
		})

		r.Get("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player ID", err)
				return
			}
			player, err := rosterService.GetPlayer(r.Context(), id)
			if err != nil {
				if errors.Is(err, league.ErrPlayerNotFound) {
					httputil.NotFound(w, "Player not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get player", err)
				return
			}
			rnd.JSON(w, http.StatusOK, player)
		})

		r.Delete("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player ID", err)
				return
			}
			if err := rosterService.RemovePlayer(r.Context(), id); err != nil {
				httputil.InternalServerError(w, "Failed to remove player", err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			entries, err := rosterService.Leaderboard(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to build leaderboard", err)
				return
			}
			rnd.JSON(w, http.StatusOK, entries)
		})

		r.Get("/games", func(w http.ResponseWriter, r *http.Request) {
			games, err := gameStore.ListGames(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list games", err)
				return
			}
			rnd.JSON(w, http.StatusOK, games)
		})

		r.Post("/games", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Player1ID    uuid.UUID  `json:"player1Id"`
				Player2ID    uuid.UUID  `json:"player2Id"`
				Score1       int        `json:"score1"`
				Score2       int        `json:"score2"`
				TournamentID *uuid.UUID `json:"tournamentId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			game, err := statsService.LogGame(r.Context(), service.LogGameInput{
				Player1ID:    body.Player1ID,
				Player2ID:    body.Player2ID,
				Score1:       body.Score1,
				Score2:       body.Score2,
				TournamentID: body.TournamentID,
			})
			if err != nil {
				switch {
				case errors.Is(err, league.ErrInvalidGameRecord):
					httputil.BadRequest(w, err.Error(), err)
				case errors.Is(err, league.ErrPlayerNotFound), errors.Is(err, league.ErrTournamentNotFound):
					httputil.NotFound(w, err.Error(), err)
				default:
					httputil.InternalServerError(w, "Failed to log game", err)
				}
				return
			}
			rnd.JSON(w, http.StatusCreated, game)
		})

		r.Get("/tournaments", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := tournamentService.ListTournaments(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list tournaments", err)
				return
			}
			rnd.JSON(w, http.StatusOK, tournaments)
		})

		r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name     string `json:"name"`
				Date     string `json:"date"`
				ImageURL string `json:"imageUrl"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if body.Name == "" || body.Date == "" {
				httputil.BadRequest(w, "Name and date are required", nil)
				return
			}
			tournament, err := tournamentService.CreateTournament(r.Context(), body.Name, body.Date, body.ImageURL)
			if err != nil {
				httputil.InternalServerError(w, "Failed to create tournament", err)
				return
			}
			rnd.JSON(w, http.StatusCreated, tournament)
		})

		r.Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			tournament, err := tournamentService.GetTournament(r.Context(), id)
			if err != nil {
				if errors.Is(err, league.ErrTournamentNotFound) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}
			rnd.JSON(w, http.StatusOK, tournament)
		})

		r.Put("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			var body struct {
				Name     string `json:"name"`
				Date     string `json:"date"`
				ImageURL string `json:"imageUrl"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			tournament, err := tournamentService.UpdateDetails(r.Context(), id, body.Name, body.Date, body.ImageURL)
			if err != nil {
				if errors.Is(err, league.ErrTournamentNotFound) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to update tournament", err)
				return
			}
			rnd.JSON(w, http.StatusOK, tournament)
		})

		r.Delete("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			if err := tournamentService.DeleteTournament(r.Context(), id); err != nil {
				httputil.InternalServerError(w, "Failed to delete tournament", err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/tournaments/{id}/start", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			tournament, err := tournamentService.Start(r.Context(), id)
			if err != nil {
				switch {
				case errors.Is(err, league.ErrTournamentNotFound):
					httputil.NotFound(w, "Tournament not found", err)
				case errors.Is(err, league.ErrTournamentNotLockable):
					httputil.BadRequest(w, err.Error(), err)
				case errors.Is(err, league.ErrConcurrentLockConflict):
					httputil.Conflict(w, err.Error(), err)
				default:
					httputil.InternalServerError(w, "Failed to start tournament", err)
				}
				return
			}
			rnd.JSON(w, http.StatusOK, tournament)
		})

		r.Post("/tournaments/{id}/players", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			var body struct {
				PlayerID uuid.UUID `json:"playerId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if err := tournamentService.AddPlayer(r.Context(), id, body.PlayerID); err != nil {
				if errors.Is(err, league.ErrPlayerNotFound) || errors.Is(err, league.ErrTournamentNotFound) {
					httputil.NotFound(w, err.Error(), err)
					return
				}
				httputil.InternalServerError(w, "Failed to add player", err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Delete("/tournaments/{id}/players/{playerID}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player ID", err)
				return
			}
			if err := tournamentService.RemovePlayer(r.Context(), id, playerID); err != nil {
				if errors.Is(err, league.ErrTournamentNotFound) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to remove player", err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/tournaments/{id}/bracket", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			rounds, err := bracketService.BracketForTournament(r.Context(), id)
			if err != nil {
				if errors.Is(err, league.ErrTournamentNotFound) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to build bracket", err)
				return
			}
			rnd.JSON(w, http.StatusOK, rounds)
		})

		r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Player1Name string `json:"player1Name"`
				Player2Name string `json:"player2Name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			prediction, err := predictClient.PredictMatch(r.Context(), body.Player1Name, body.Player2Name)
			if err != nil {
				httputil.InternalServerError(w, "Prediction failed", err)
				return
			}
			rnd.JSON(w, http.StatusOK, prediction)
		})
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		user, err := userService.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		sessionManager.Put(r.Context(), "userID", user.ID.String())

		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		user, err := userService.EnsureGuestUser(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		sessionManager.Put(r.Context(), "userID", user.ID.String())
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		sessionManager.Destroy(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
