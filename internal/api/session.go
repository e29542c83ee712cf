package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/isaacjstriker/blockfall/internal/auth"
	"github.com/isaacjstriker/blockfall/internal/database"
)

// SessionRequest claims or signs in to a player name.
type SessionRequest struct {
	Player string `json:"player"`
	PIN    string `json:"pin"`
}

type SessionResponse struct {
	Token  string `json:"token"`
	Player string `json:"player"`
	// Created is true when this request claimed the name.
	Created bool `json:"created"`
}

// handleSession issues a play token. The first request for a name claims
// it with the given PIN; later requests must present the same PIN.
func (s *APIServer) handleSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}
	if err := auth.ValidatePlayerName(req.Player); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	if err := auth.ValidatePIN(req.PIN); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	ctx := r.Context()
	created := false
	hash, err := s.db.GetPlayerPINHash(ctx, req.Player)
	switch {
	case errors.Is(err, database.ErrPlayerNotFound):
		hash, err = auth.HashPIN(req.PIN)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to hash PIN"})
			return
		}
		if err := s.db.CreatePlayer(ctx, req.Player, hash); err != nil {
			log.Printf("[WARN] %v", err)
			writeJSON(w, http.StatusConflict, apiError{Error: "player name is taken"})
			return
		}
		created = true
	case err != nil:
		log.Printf("[WARN] %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to look up player"})
		return
	default:
		if err := auth.CheckPIN(req.PIN, hash); err != nil {
			permissionDenied(w)
			return
		}
	}

	token, err := s.tokens.Issue(req.Player)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to create token"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, SessionResponse{Token: token, Player: req.Player, Created: created})
}
