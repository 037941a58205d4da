package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/auth"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"go.uber.org/zap"
)

type NegotiationHandler struct {
	negotiationService *service.NegotiationService
	settlementService  *service.SettlementService
	logger             *zap.Logger
}

func NewNegotiationHandler(
	negotiationService *service.NegotiationService,
	settlementService *service.SettlementService,
	logger *zap.Logger,
) *NegotiationHandler {
	return &NegotiationHandler{
		negotiationService: negotiationService,
		settlementService:  settlementService,
		logger:             logger,
	}
}

// parseNegotiationFilters reads the list filters from the query string.
// The service strips the admin-only ones for non-administrative callers.
func parseNegotiationFilters(r *http.Request) *domain.NegotiationFilters {
	filters := &domain.NegotiationFilters{}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	filters.Page = page
	filters.PageSize = pageSize

	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.NegotiationStage(s)
		filters.Stage = &stage
	}
	if t := r.URL.Query().Get("type"); t != "" {
		negType := domain.NegotiationType(t)
		filters.Type = &negType
	}
	if cs := r.URL.Query().Get("contractStatus"); cs != "" {
		status := domain.ContractStatus(cs)
		filters.ContractStatus = &status
	}
	if resp := r.URL.Query().Get("responsibleId"); resp != "" {
		filters.ResponsibleID = &resp
	}
	if ca := r.URL.Query().Get("createdAfter"); ca != "" {
		if t, err := time.Parse("2006-01-02", ca); err == nil {
			filters.CreatedFrom = &t
		}
	}
	if cb := r.URL.Query().Get("createdBefore"); cb != "" {
		if t, err := time.Parse("2006-01-02", cb); err == nil {
			filters.CreatedTo = &t
		}
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.Search = q
	}

	return filters
}

// @Summary List negotiations
// @Description List negotiations visible to the caller. Administrative roles see all records; other roles see only negotiations they participate in.
// @Tags Negotiations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param stage query string false "Filter by stage (admin only)"
// @Param type query string false "Filter by type (admin only)"
// @Param contractStatus query string false "Filter by contract status (admin only)"
// @Param responsibleId query string false "Filter by responsible user (admin only)"
// @Param createdAfter query string false "Created after date (YYYY-MM-DD, admin only)"
// @Param createdBefore query string false "Created before date (YYYY-MM-DD, admin only)"
// @Param q query string false "Search in code, property and client names (admin only)"
// @Success 200 {object} domain.PaginatedResponse[domain.NegotiationResponse]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations [get]
func (h *NegotiationHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	result, err := h.negotiationService.ListVisible(r.Context(), userCtx.PrimaryRole(), userCtx.UserID, parseNegotiationFilters(r))
	if err != nil {
		h.logger.Error("failed to list negotiations", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list negotiations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary List archived negotiations
// @Description List archived negotiations visible to the caller
// @Tags Negotiations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} domain.PaginatedResponse[domain.NegotiationResponse]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/archived [get]
func (h *NegotiationHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	result, err := h.negotiationService.ListArchived(r.Context(), userCtx.PrimaryRole(), userCtx.UserID, parseNegotiationFilters(r))
	if err != nil {
		h.logger.Error("failed to list archived negotiations", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list archived negotiations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary List deleted negotiations
// @Description List soft-deleted negotiations. Administrative roles only.
// @Tags Negotiations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} domain.PaginatedResponse[domain.NegotiationResponse]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/deleted [get]
func (h *NegotiationHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	result, err := h.negotiationService.ListDeleted(r.Context(), userCtx.PrimaryRole(), userCtx.UserID, parseNegotiationFilters(r))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondWithError(w, http.StatusForbidden, "Only administrators can list deleted negotiations")
			return
		}
		h.logger.Error("failed to list deleted negotiations", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list deleted negotiations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create negotiation
// @Description Open a new negotiation for a property and client
// @Tags Negotiations
// @Accept json
// @Produce json
// @Param request body domain.CreateNegotiationRequest true "Negotiation data"
// @Success 201 {object} domain.NegotiationResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations [post]
func (h *NegotiationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req domain.CreateNegotiationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	negotiation, err := h.negotiationService.Create(r.Context(), &req, userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusBadRequest, "Referenced property or client not found")
			return
		}
		h.logger.Error("failed to create negotiation", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create negotiation")
		return
	}

	w.Header().Set("Location", "/api/v1/negotiations/"+negotiation.ID.String())
	respondJSON(w, http.StatusCreated, negotiation)
}

// @Summary Get negotiation
// @Description Get a negotiation by ID with its documents
// @Tags Negotiations
// @Produce json
// @Param id path string true "Negotiation ID"
// @Success 200 {object} domain.NegotiationResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id} [get]
func (h *NegotiationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	negotiation, err := h.negotiationService.GetByID(r.Context(), id, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		h.respondNegotiationError(w, err, id, "get")
		return
	}

	respondJSON(w, http.StatusOK, negotiation)
}

// @Summary Update negotiation
// @Description Update the mutable fields of a negotiation. Completed or deleted negotiations cannot be updated.
// @Tags Negotiations
// @Accept json
// @Produce json
// @Param id path string true "Negotiation ID"
// @Param request body domain.UpdateNegotiationRequest true "Negotiation data"
// @Success 200 {object} domain.NegotiationResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id} [put]
func (h *NegotiationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	var req domain.UpdateNegotiationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	negotiation, err := h.negotiationService.Update(r.Context(), id, &req, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyCompleted) {
			respondWithError(w, http.StatusConflict, "Completed negotiations cannot be updated")
			return
		}
		h.respondNegotiationError(w, err, id, "update")
		return
	}

	respondJSON(w, http.StatusOK, negotiation)
}

// @Summary Move negotiation stage
// @Description Move a negotiation to another lifecycle stage. Terminal stages cannot be moved into or out of by drag.
// @Tags Negotiations
// @Accept json
// @Produce json
// @Param id path string true "Negotiation ID"
// @Param request body domain.MoveStageRequest true "Target stage"
// @Success 200 {object} domain.NegotiationResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/stage [post]
func (h *NegotiationHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	var req domain.MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	negotiation, err := h.negotiationService.MoveStage(r.Context(), id, req.Stage, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStageMove) {
			respondWithError(w, http.StatusConflict, "This stage move is not allowed")
			return
		}
		h.respondNegotiationError(w, err, id, "move stage of")
		return
	}

	respondJSON(w, http.StatusOK, negotiation)
}

// @Summary Move contract status
// @Description Move a negotiation's contract to another status column
// @Tags Negotiations
// @Accept json
// @Produce json
// @Param id path string true "Negotiation ID"
// @Param request body domain.MoveContractStatusRequest true "Target contract status"
// @Success 200 {object} domain.NegotiationResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/contract-status [post]
func (h *NegotiationHandler) MoveContractStatus(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	var req domain.MoveContractStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	negotiation, err := h.negotiationService.MoveContractStatus(r.Context(), id, req.ContractStatus, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStageMove) {
			respondWithError(w, http.StatusConflict, "This contract status move is not allowed")
			return
		}
		h.respondNegotiationError(w, err, id, "move contract status of")
		return
	}

	respondJSON(w, http.StatusOK, negotiation)
}

// @Summary Generate contract
// @Description Generate the contract for a negotiation, advancing it to the contract stage with pending signatures
// @Tags Negotiations
// @Produce json
// @Param id path string true "Negotiation ID"
// @Success 200 {object} domain.NegotiationResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/generate-contract [post]
func (h *NegotiationHandler) GenerateContract(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	negotiation, err := h.negotiationService.GenerateContract(r.Context(), id, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrContractAlreadyGenerated) {
			respondWithError(w, http.StatusConflict, "Contract has already been generated for this negotiation")
			return
		}
		h.respondNegotiationError(w, err, id, "generate contract for")
		return
	}

	respondJSON(w, http.StatusOK, negotiation)
}

// @Summary Complete sale
// @Description Complete a negotiation: move it to its terminal stage, book the commission, mark the property sold and finalize linked processes. Retrying a completed negotiation returns success=false without touching any records.
// @Tags Negotiations
// @Accept json
// @Produce json
// @Param id path string true "Negotiation ID"
// @Param request body domain.CompleteSaleRequest false "Optional settlement note"
// @Success 200 {object} domain.SettlementResult
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/complete [post]
func (h *NegotiationHandler) CompleteSale(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	var req domain.CompleteSaleRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	result, err := h.settlementService.CompleteSale(r.Context(), id, req.Note, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrRecordDeleted) {
			respondWithError(w, http.StatusConflict, "Deleted negotiations cannot be completed")
			return
		}
		h.respondNegotiationError(w, err, id, "complete")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Archive negotiation
// @Tags Negotiations
// @Param id path string true "Negotiation ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/archive [post]
func (h *NegotiationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.negotiationService.Archive, "archive")
}

// @Summary Unarchive negotiation
// @Tags Negotiations
// @Param id path string true "Negotiation ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/unarchive [post]
func (h *NegotiationHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.negotiationService.Unarchive, "unarchive")
}

// @Summary Delete negotiation
// @Description Mark a negotiation as deleted. The record stays recoverable via restore.
// @Tags Negotiations
// @Param id path string true "Negotiation ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id} [delete]
func (h *NegotiationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.negotiationService.MarkDeleted, "delete")
}

// @Summary Restore negotiation
// @Description Restore a soft-deleted negotiation
// @Tags Negotiations
// @Param id path string true "Negotiation ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/restore [post]
func (h *NegotiationHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.negotiationService.Restore, "restore")
}

func (h *NegotiationHandler) setFlag(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID, role domain.UserRoleType, userID string) error,
	verb string,
) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	if err := op(r.Context(), id, userCtx.PrimaryRole(), userCtx.UserID); err != nil {
		h.respondNegotiationError(w, err, id, verb)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NegotiationHandler) respondNegotiationError(w http.ResponseWriter, err error, id uuid.UUID, verb string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Negotiation not found")
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "You do not have access to this negotiation")
	case errors.Is(err, service.ErrRecordDeleted):
		respondWithError(w, http.StatusConflict, "This negotiation has been deleted")
	default:
		h.logger.Error("negotiation operation failed",
			zap.String("operation", verb),
			zap.String("negotiation_id", id.String()),
			zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+verb+" negotiation")
	}
}
