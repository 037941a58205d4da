package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jao1224/crmimobiliaria-sub000/internal/auth"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// @Summary Get activity board
// @Description Get the caller's kanban board of captures and negotiations grouped by status
// @Tags Activities
// @Produce json
// @Success 200 {object} domain.Board
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/board [get]
func (h *ActivityHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	board, err := h.activityService.BoardFor(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to build activity board", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build activity board")
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// @Summary Move activity card
// @Description Move a card to another status column. When persistence fails the board from before the move is returned.
// @Tags Activities
// @Accept json
// @Produce json
// @Param request body domain.MoveActivityRequest true "Card and target column"
// @Success 200 {object} domain.Board
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/move [post]
func (h *ActivityHandler) Move(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req domain.MoveActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	board, err := h.activityService.MoveActivity(r.Context(), userCtx.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Card not found on your board")
		case errors.Is(err, service.ErrRecordDeleted):
			respondWithError(w, http.StatusConflict, "The underlying record has been deleted")
		default:
			h.logger.Error("failed to move activity card", zap.Error(err))
			// The service already restored the pre-move board; surface it
			// so the client can resync.
			if board != nil {
				respondJSON(w, http.StatusConflict, board)
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to move activity card")
		}
		return
	}

	respondJSON(w, http.StatusOK, board)
}
