package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/auth"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"go.uber.org/zap"
)

type FinancingHandler struct {
	financingService *service.FinancingService
	logger           *zap.Logger
}

func NewFinancingHandler(financingService *service.FinancingService, logger *zap.Logger) *FinancingHandler {
	return &FinancingHandler{
		financingService: financingService,
		logger:           logger,
	}
}

// @Summary Create service request
// @Description Open a service request carrying free-text client and property snippets
// @Tags Financing
// @Accept json
// @Produce json
// @Param request body domain.CreateServiceRequestRequest true "Request data"
// @Success 201 {object} domain.ServiceRequest
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /service-requests [post]
func (h *FinancingHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req domain.CreateServiceRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	request, err := h.financingService.CreateServiceRequest(r.Context(), &req, userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to create service request", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create service request")
		return
	}

	w.Header().Set("Location", "/api/v1/service-requests/"+request.ID.String())
	respondJSON(w, http.StatusCreated, request)
}

// @Summary List service requests
// @Tags Financing
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param type query string false "Filter by type (financing, legal, other)"
// @Param status query string false "Filter by status (pending, in_review, closed)"
// @Success 200 {object} domain.PaginatedResponse[domain.ServiceRequest]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /service-requests [get]
func (h *FinancingHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var requestType *domain.ServiceRequestType
	if t := r.URL.Query().Get("type"); t != "" {
		rt := domain.ServiceRequestType(t)
		requestType = &rt
	}
	var status *domain.ServiceRequestStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.ServiceRequestStatus(s)
		status = &st
	}

	items, total, err := h.financingService.ListRequests(r.Context(), page, pageSize, requestType, status)
	if err != nil {
		h.logger.Error("failed to list service requests", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list service requests")
		return
	}

	respondJSON(w, http.StatusOK, paginated(items, total, page, pageSize))
}

// @Summary Accept service request
// @Description Accept a pending service request. For financing requests the matching negotiation is resolved from the request snippets and a financing process is created before the request is marked in review.
// @Tags Financing
// @Produce json
// @Param id path string true "Service request ID"
// @Success 200 {object} domain.FinancingProcess
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /service-requests/{id}/accept [post]
func (h *FinancingHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request ID: must be a valid UUID")
		return
	}

	process, err := h.financingService.AcceptServiceRequest(r.Context(), id, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Service request not found")
		case errors.Is(err, service.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "Only correspondents and administrators can accept service requests")
		case errors.Is(err, service.ErrRequestNotPending):
			respondWithError(w, http.StatusConflict, "Service request is not pending")
		case errors.Is(err, service.ErrNoMatchingNegotiation):
			respondWithError(w, http.StatusUnprocessableEntity, "No negotiation matches the client and property named in the request")
		default:
			h.logger.Error("failed to accept service request",
				zap.String("request_id", id.String()),
				zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to accept service request")
		}
		return
	}

	if process == nil {
		// Non-financing requests just move to in review
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, http.StatusOK, process)
}

// @Summary List financing processes
// @Tags Financing
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (active, suspended, cancelled, concluded)"
// @Param pendencyOnly query bool false "Only processes with open pendencies"
// @Success 200 {object} domain.PaginatedResponse[domain.FinancingProcess]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /financing [get]
func (h *FinancingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var status *domain.FinancingStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.FinancingStatus(s)
		status = &st
	}
	pendencyOnly, _ := strconv.ParseBool(r.URL.Query().Get("pendencyOnly"))

	items, total, err := h.financingService.List(r.Context(), page, pageSize, status, pendencyOnly)
	if err != nil {
		h.logger.Error("failed to list financing processes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list financing processes")
		return
	}

	respondJSON(w, http.StatusOK, paginated(items, total, page, pageSize))
}

// @Summary Get financing process
// @Tags Financing
// @Produce json
// @Param id path string true "Financing process ID"
// @Success 200 {object} domain.FinancingProcess
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /financing/{id} [get]
func (h *FinancingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid financing process ID: must be a valid UUID")
		return
	}

	process, err := h.financingService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Financing process not found")
			return
		}
		h.logger.Error("failed to get financing process",
			zap.String("financing_id", id.String()),
			zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get financing process")
		return
	}

	respondJSON(w, http.StatusOK, process)
}

// @Summary Update financing process
// @Description Update the correspondent-managed fields of a financing process. The pendency flag is recomputed from the updated state.
// @Tags Financing
// @Accept json
// @Produce json
// @Param id path string true "Financing process ID"
// @Param request body domain.UpdateFinancingRequest true "Fields to update"
// @Success 200 {object} domain.FinancingProcess
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /financing/{id} [put]
func (h *FinancingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid financing process ID: must be a valid UUID")
		return
	}

	var req domain.UpdateFinancingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	process, err := h.financingService.Update(r.Context(), id, &req, userCtx.PrimaryRole())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Financing process not found")
		case errors.Is(err, service.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "Only correspondents and administrators can update financing processes")
		default:
			h.logger.Error("failed to update financing process",
				zap.String("financing_id", id.String()),
				zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update financing process")
		}
		return
	}

	respondJSON(w, http.StatusOK, process)
}
