package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/festivalboard/internal/api/request"
	"github.com/mcoot/festivalboard/internal/api/response"
	"github.com/mcoot/festivalboard/internal/services/players"
)

// PlayerHandler handles the players and scores endpoints
type PlayerHandler struct {
	players *players.Service
	logger  *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(svc *players.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		players: svc,
		logger:  logger,
	}
}

// List handles GET /players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.players.List(r.Context())
	if err != nil {
		h.logger.Error("list players failed", slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModel(recs))
}

// Upsert handles POST /players
func (h *PlayerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	rec, err := h.players.Upsert(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(rec))
}

// UpdateScore handles POST /scores
func (h *PlayerHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req request.ScoreUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.GameColumn == "" {
		WriteError(w, NewInvalidRequestError("gameColumn is required"))
		return
	}

	rec, err := h.players.UpdateScore(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(rec))
}
