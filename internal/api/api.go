package api

import (
	"log"
	"net/http"
	"time"

	"github.com/isaacjstriker/blockfall/games/blockfall"
	"github.com/isaacjstriker/blockfall/internal/auth"
	"github.com/isaacjstriker/blockfall/internal/config"
	"github.com/isaacjstriker/blockfall/internal/database"
)

const tokenTTL = 7 * 24 * time.Hour

// APIServer serves the HTTP API and the websocket play endpoint.
type APIServer struct {
	listenAddr string
	db         *database.DB
	config     *config.Config
	tokens     *auth.Tokens
	tuning     blockfall.Tuning
	tick       time.Duration
}

// NewAPIServer creates a new APIServer instance
func NewAPIServer(listenAddr string, db *database.DB, cfg *config.Config, tuning blockfall.Tuning) *APIServer {
	return &APIServer{
		listenAddr: listenAddr,
		db:         db,
		config:     cfg,
		tokens:     auth.NewTokens(cfg.JWTSecret, tokenTTL),
		tuning:     tuning,
		tick:       16 * time.Millisecond,
	}
}

// Routes builds the router.
func (s *APIServer) Routes() http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("POST /api/session", s.handleSession)
	router.HandleFunc("GET /api/best", requireAuth(s, s.handleGetBest))
	router.HandleFunc("GET /api/leaderboard", s.handleGetLeaderboard)

	router.HandleFunc("GET /ws/game", s.handleGameConnection)

	return router
}

// Start runs the HTTP server
func (s *APIServer) Start() error {
	log.Printf("[INFO] %s API server listening on %s", s.config.AppName, s.listenAddr)
	return http.ListenAndServe(s.listenAddr, s.Routes())
}
