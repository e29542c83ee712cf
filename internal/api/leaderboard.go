package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/isaacjstriker/blockfall/internal/database"
)

func modeParam(r *http.Request) (string, bool) {
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", modeClassic, modeArcade:
		return mode, true
	}
	return "", false
}

// handleGetLeaderboard handles requests for the leaderboard
func (s *APIServer) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "mode must be classic or arcade"})
		return
	}

	// Get limit from query params, default to 15
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 15
	}

	entries, err := s.db.GetLeaderboard(r.Context(), mode, limit)
	if err != nil {
		log.Printf("[WARN] %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to fetch leaderboard"})
		return
	}
	if entries == nil {
		entries = []database.LeaderboardEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

// handleGetBest returns the signed-in player's record.
func (s *APIServer) handleGetBest(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetPlayerFromContext(r.Context())
	if !ok {
		permissionDenied(w)
		return
	}
	mode, ok := modeParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "mode must be classic or arcade"})
		return
	}

	stats, err := s.db.GetPlayerStats(r.Context(), claims.Player, mode)
	if err != nil {
		log.Printf("[WARN] %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to fetch best score"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
