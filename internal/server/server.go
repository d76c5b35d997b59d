// Package server is the small ops HTTP surface that runs beside the bot:
// a health check and a machine-token-protected stats endpoint.
package server

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/JAZoidberg/SageTeamY/internal/config"
	"github.com/JAZoidberg/SageTeamY/internal/middleware"
	"github.com/JAZoidberg/SageTeamY/internal/reminder"
)

type Server struct {
	cfg    config.Config
	conn   *sql.DB
	router *mux.Router
	rems   *reminder.Repository
	log    zerolog.Logger
}

func NewServer(cfg config.Config, conn *sql.DB, r *mux.Router, rems *reminder.Repository, log zerolog.Logger) Server {
	return Server{
		cfg:    cfg,
		conn:   conn,
		router: r,
		rems:   rems,
		log:    log,
	}
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterRoutes() {
	s.RegisterRoute("/healthz", s.HealthCheckHandler, []string{"GET"})
	s.RegisterRoute("/x/reminders/stats", middleware.MachineAuthenticatedMiddleware(s.cfg.MachineToken, s.ReminderStatsHandler), []string{"GET"})
}

func (s Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.conn.Ping(); err != nil {
		s.Log(err, "database unreachable")
		s.JSON(w, http.StatusInternalServerError, map[string]string{"status": "db unreachable"})
		return
	}
	s.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReminderStatsHandler reports how many reminders sit in each queue status.
func (s Server) ReminderStatsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := s.rems.CountByStatus()
	if err != nil {
		s.Log(err, "unable to count reminders")
		s.JSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to count reminders"})
		return
	}
	s.JSON(w, http.StatusOK, counts)
}

// Log records a handler error locally and in the error tracker.
func (s Server) Log(err error, msg string) {
	raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	s.log.Error().Err(err).Msg(msg)
}

func (s Server) JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("unable to encode response")
	}
}

// Run blocks serving the ops routes until the listener fails.
func (s Server) Run() error {
	return http.ListenAndServe(
		":"+s.cfg.Port,
		middleware.HeadersMiddleware(middleware.LoggingMiddleware(s.router), s.cfg.Env),
	)
}
