package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"go.uber.org/zap"
)

type ProcessHandler struct {
	processService *service.ProcessService
	logger         *zap.Logger
}

func NewProcessHandler(processService *service.ProcessService, logger *zap.Logger) *ProcessHandler {
	return &ProcessHandler{
		processService: processService,
		logger:         logger,
	}
}

// @Summary List processes
// @Tags Processes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (active, suspended, cancelled, finalized)"
// @Success 200 {object} domain.PaginatedResponse[domain.Process]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /processes [get]
func (h *ProcessHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var status *domain.ProcessStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.ProcessStatus(s)
		status = &st
	}

	items, total, err := h.processService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list processes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list processes")
		return
	}

	respondJSON(w, http.StatusOK, paginated(items, total, page, pageSize))
}

// @Summary Create process
// @Description Open an administrative process, optionally linked to a negotiation
// @Tags Processes
// @Accept json
// @Produce json
// @Param request body domain.CreateProcessRequest true "Process data"
// @Success 201 {object} domain.Process
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /processes [post]
func (h *ProcessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	process, err := h.processService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusBadRequest, "Linked negotiation not found")
			return
		}
		h.logger.Error("failed to create process", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create process")
		return
	}

	w.Header().Set("Location", "/api/v1/processes/"+process.ID.String())
	respondJSON(w, http.StatusCreated, process)
}

// @Summary Get process
// @Tags Processes
// @Produce json
// @Param id path string true "Process ID"
// @Success 200 {object} domain.Process
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /processes/{id} [get]
func (h *ProcessHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid process ID: must be a valid UUID")
		return
	}

	process, err := h.processService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Process not found")
			return
		}
		h.logger.Error("failed to get process", zap.Error(err), zap.String("process_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get process")
		return
	}

	respondJSON(w, http.StatusOK, process)
}

// @Summary Update process
// @Description Update a process. Finalized processes cannot be updated.
// @Tags Processes
// @Accept json
// @Produce json
// @Param id path string true "Process ID"
// @Param request body domain.UpdateProcessRequest true "Fields to update"
// @Success 200 {object} domain.Process
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /processes/{id} [put]
func (h *ProcessHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid process ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	process, err := h.processService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Process not found")
		case errors.Is(err, service.ErrAlreadyCompleted):
			respondWithError(w, http.StatusConflict, "Finalized processes cannot be updated")
		default:
			h.logger.Error("failed to update process", zap.Error(err), zap.String("process_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to update process")
		}
		return
	}

	respondJSON(w, http.StatusOK, process)
}
