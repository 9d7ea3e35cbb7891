package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rolekeeper/rolekeeper/internal/session"
	"github.com/rolekeeper/rolekeeper/internal/store"
	"github.com/rolekeeper/rolekeeper/jobs"
)

// RouterParams groups dependencies for building the ops HTTP router.
type RouterParams struct {
	Logger     *slog.Logger
	Config     *Config
	Sessions   *session.Store
	Store      *store.Store
	JobHandler *jobs.Handler
	Started    time.Time
}

type statusResponse struct {
	Status       string `json:"status"`
	Env          string `json:"env"`
	UptimeSecs   int64  `json:"uptime_seconds"`
	LiveSessions int    `json:"live_sessions"`
	Guilds       int    `json:"guilds"`
}

// NewRouter constructs the chi.Router serving health and status endpoints.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		resp := statusResponse{
			Status:     "ok",
			Env:        params.Config.AppEnv,
			UptimeSecs: int64(time.Since(params.Started).Seconds()),
		}
		if params.Sessions != nil {
			resp.LiveSessions = params.Sessions.Len()
		}
		if params.Store != nil {
			keys, err := params.Store.Keys()
			if err != nil {
				params.Logger.Warn("list guild documents", slog.Any("error", err))
			}
			resp.Guilds = len(keys)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			params.Logger.Error("encode status", slog.Any("error", err))
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
