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

type PropertyHandler struct {
	propertyService *service.PropertyService
	logger          *zap.Logger
}

func NewPropertyHandler(propertyService *service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// @Summary List properties
// @Tags Properties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (available, reserved, sold, rented)"
// @Param q query string false "Search in code, name and address"
// @Success 200 {object} domain.PaginatedResponse[domain.Property]
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties [get]
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var status *domain.PropertyStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.PropertyStatus(s)
		status = &st
	}

	items, total, err := h.propertyService.List(r.Context(), page, pageSize, status, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("failed to list properties", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list properties")
		return
	}

	respondJSON(w, http.StatusOK, paginated(items, total, page, pageSize))
}

// @Summary Create property
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body domain.CreatePropertyRequest true "Property data"
// @Success 201 {object} domain.Property
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties [post]
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req domain.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	property, err := h.propertyService.Create(r.Context(), &req, userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to create property", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create property")
		return
	}

	w.Header().Set("Location", "/api/v1/properties/"+property.ID.String())
	respondJSON(w, http.StatusCreated, property)
}

// @Summary Get property
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.Property
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid property ID: must be a valid UUID")
		return
	}

	property, err := h.propertyService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Property not found")
			return
		}
		h.logger.Error("failed to get property", zap.Error(err), zap.String("property_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get property")
		return
	}

	respondJSON(w, http.StatusOK, property)
}
