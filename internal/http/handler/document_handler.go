package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/auth"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, maxUploadMB int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// @Summary Upload negotiation document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Negotiation ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.DocumentResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations/{id}/documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	negotiationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid negotiation ID: must be a valid UUID")
		return
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(r.Context(), negotiationID, header.Filename, header.Header.Get("Content-Type"), file, userCtx.PrimaryRole(), userCtx.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Negotiation not found")
		case errors.Is(err, service.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "You do not have access to this negotiation")
		case errors.Is(err, service.ErrRecordDeleted):
			respondWithError(w, http.StatusConflict, "This negotiation has been deleted")
		default:
			h.logger.Error("failed to upload document", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to upload document")
		}
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// @Summary Download document
// @Tags Documents
// @Produce application/octet-stream
// @Param path query string true "Document storage path"
// @Success 200
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /documents/download [get]
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	storagePath := r.URL.Query().Get("path")
	if storagePath == "" {
		respondWithError(w, http.StatusBadRequest, "Missing path parameter")
		return
	}

	reader, err := h.documentService.Download(r.Context(), storagePath)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Document not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+path.Base(storagePath)+"\"")
	w.Header().Set("Content-Type", "application/octet-stream")

	_, _ = io.Copy(w, reader)
}
