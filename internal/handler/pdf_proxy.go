package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"faturadash/internal/models"
	"faturadash/internal/repository"
	"faturadash/internal/storage"
)

// PdfProxyHandler streams cataloged PDFs through the server so the browser
// never sees bucket URLs or signing credentials.
type PdfProxyHandler struct {
	pdfs   *repository.PdfRepository
	store  *storage.Client
	logger *zap.Logger
}

func NewPdfProxyHandler(pdfs *repository.PdfRepository, store *storage.Client, logger *zap.Logger) *PdfProxyHandler {
	return &PdfProxyHandler{pdfs: pdfs, store: store, logger: logger}
}

// Download resolves the stored bucket key and streams the PDF inline.
// GET /api/pdf/:id
func (h *PdfProxyHandler) Download(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Error: "Invalid PDF id"})
	}

	pdf, err := h.pdfs.FindByID(uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Error: "PDF not found"})
	}

	if !h.store.Configured() {
		return c.JSON(http.StatusInternalServerError, models.APIResponse{Success: false, Error: "Storage not configured"})
	}

	body, err := h.store.Open(c.Request().Context(), pdf.StorageKey)
	if err != nil {
		h.logger.Error("Failed to fetch PDF from storage",
			zap.Uint("id", pdf.ID),
			zap.String("key", pdf.StorageKey),
			zap.Error(err))
		return c.JSON(http.StatusBadGateway, models.APIResponse{Success: false, Error: "Failed to fetch PDF"})
	}
	defer body.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pdf.Filename))
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Stream(http.StatusOK, "application/pdf", body)
}
