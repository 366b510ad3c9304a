package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"MuzBot/config"
	"MuzBot/db"
	"MuzBot/logger"
	"MuzBot/repository"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminServer serves health, stats and metrics endpoints alongside the bot.
type AdminServer struct {
	http        *http.Server
	users       repository.UserRepository
	collections repository.CollectionRepository
	tracks      repository.TrackRepository
}

// NewAdminServer builds the admin HTTP server.
func NewAdminServer(cfg *config.Config, users repository.UserRepository, collections repository.CollectionRepository, tracks repository.TrackRepository) *AdminServer {
	s := &AdminServer{
		users:       users,
		collections: collections,
		tracks:      tracks,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called.
func (s *AdminServer) Start() {
	logger.Info("admin server listening", logger.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("admin server failed", logger.ErrorField(err))
	}
}

// Shutdown stops the server gracefully.
func (s *AdminServer) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleHealth pings the database and Redis.
func (s *AdminServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if db.DB != nil {
		if err := db.DB.PingContext(ctx); err != nil {
			status["database"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	if db.RedisClient != nil {
		if err := db.RedisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// statsResponse is the /api/stats payload.
type statsResponse struct {
	Users       int64 `json:"users"`
	Collections int64 `json:"collections"`
	Downloads   int64 `json:"downloads"`
}

// handleStats reports aggregate usage counts.
func (s *AdminServer) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var stats statsResponse
	var err error

	if stats.Users, err = s.users.CountUsers(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stats.Collections, err = s.collections.CountCollections(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stats.Downloads, err = s.tracks.CountDownloads(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
