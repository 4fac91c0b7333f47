package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PdfHandler exposes the generated PDF catalog.
type PdfHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewPdfHandler(repos *Repos, logger *zap.Logger) *PdfHandler {
	return &PdfHandler{repos: repos, logger: logger}
}

// List returns all cataloged PDFs, newest first.
// GET /api/pdfs
func (h *PdfHandler) List(c echo.Context) error {
	pdfs, err := h.repos.Pdf.FindAll()
	if err != nil {
		h.logger.Error("Failed to list PDFs", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to retrieve PDFs")
	}
	return successResponse(c, pdfs)
}

// Delete removes a PDF from the catalog. Unknown ids still return success.
// DELETE /api/pdfs/:id
func (h *PdfHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid PDF id")
	}
	if err := h.repos.Pdf.Delete(id); err != nil {
		h.logger.Error("Failed to delete PDF", zap.Uint("id", id), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to delete PDF")
	}
	return successResponse(c, nil)
}

// GetURL returns a same-origin proxy URL for a PDF so the browser never
// touches the bucket directly.
// GET /api/pdfs/:id/url
func (h *PdfHandler) GetURL(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid PDF id")
	}
	pdf, err := h.repos.Pdf.FindByID(id)
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "PDF not found")
	}

	url := fmt.Sprintf("%s://%s/api/pdf/%d", c.Scheme(), c.Request().Host, pdf.ID)
	return successResponse(c, map[string]string{"url": url})
}
