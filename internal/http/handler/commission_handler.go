package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"go.uber.org/zap"
)

type CommissionHandler struct {
	commissionService *service.CommissionService
	logger            *zap.Logger
}

func NewCommissionHandler(commissionService *service.CommissionService, logger *zap.Logger) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
		logger:            logger,
	}
}

// @Summary List commissions
// @Tags Commissions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (pending, paid, overdue)"
// @Success 200 {object} domain.PaginatedResponse[domain.CommissionResponse]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /commissions [get]
func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var status *domain.CommissionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.CommissionStatus(s)
		status = &st
	}

	result, err := h.commissionService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list commissions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list commissions")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get commission
// @Tags Commissions
// @Produce json
// @Param id path string true "Commission ID"
// @Success 200 {object} domain.CommissionResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /commissions/{id} [get]
func (h *CommissionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid commission ID: must be a valid UUID")
		return
	}

	commission, err := h.commissionService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Commission not found")
			return
		}
		h.logger.Error("failed to get commission", zap.Error(err), zap.String("commission_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get commission")
		return
	}

	respondJSON(w, http.StatusOK, commission)
}

// @Summary Get negotiation commissions
// @Tags Commissions
// @Produce json
// @Param id path string true "Negotiation ID"
// @Success 200 {array} domain.CommissionResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/commissions [get]
func (h *CommissionHandler) GetByNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	commissions, err := h.commissionService.GetByNegotiation(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get negotiation commissions", zap.Error(err), zap.String("negotiation_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get negotiation commissions")
		return
	}

	respondJSON(w, http.StatusOK, commissions)
}
