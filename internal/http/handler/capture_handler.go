package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/auth"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"go.uber.org/zap"
)

type CaptureHandler struct {
	captureService *service.CaptureService
	logger         *zap.Logger
}

func NewCaptureHandler(captureService *service.CaptureService, logger *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		captureService: captureService,
		logger:         logger,
	}
}

// @Summary List captures
// @Tags Captures
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} domain.PaginatedResponse[domain.Capture]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /captures [get]
func (h *CaptureHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	items, total, err := h.captureService.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list captures", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list captures")
		return
	}

	respondJSON(w, http.StatusOK, paginated(items, total, page, pageSize))
}

// @Summary Create capture
// @Description Open a property-acquisition effort for the calling realtor
// @Tags Captures
// @Accept json
// @Produce json
// @Param request body domain.CreateCaptureRequest true "Capture data"
// @Success 201 {object} domain.Capture
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /captures [post]
func (h *CaptureHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req domain.CreateCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	capture, err := h.captureService.Create(r.Context(), &req, userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to create capture", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create capture")
		return
	}

	w.Header().Set("Location", "/api/v1/captures/"+capture.ID.String())
	respondJSON(w, http.StatusCreated, capture)
}

// @Summary Get capture
// @Tags Captures
// @Produce json
// @Param id path string true "Capture ID"
// @Success 200 {object} domain.Capture
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /captures/{id} [get]
func (h *CaptureHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid capture ID: must be a valid UUID")
		return
	}

	capture, err := h.captureService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Capture not found")
			return
		}
		h.logger.Error("failed to get capture", zap.Error(err), zap.String("capture_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get capture")
		return
	}

	respondJSON(w, http.StatusOK, capture)
}
