package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"faturadash/internal/models"
	"faturadash/internal/repository"
)

func successResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: data})
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, models.APIResponse{Success: false, Error: msg})
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Repos bundles all repositories needed by API handlers.
type Repos struct {
	Dispatch *repository.DispatchRepository
	Pdf      *repository.PdfRepository
	User     *repository.UserRepository
}
