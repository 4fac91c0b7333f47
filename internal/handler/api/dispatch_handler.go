package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"faturadash/internal/models"
	"faturadash/internal/webhook"
)

var birthDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// DispatchHandler handles invoice requests and dispatch scheduling.
type DispatchHandler struct {
	repos   *Repos
	webhook *webhook.Client
	logger  *zap.Logger
}

func NewDispatchHandler(repos *Repos, wh *webhook.Client, logger *zap.Logger) *DispatchHandler {
	return &DispatchHandler{repos: repos, webhook: wh, logger: logger}
}

type invoiceRequest struct {
	UC        string `json:"uc"`
	CpfCnpj   string `json:"cpfCnpj"`
	BirthDate string `json:"birthDate"`
}

func (r *invoiceRequest) validate() error {
	if r.UC == "" {
		return errors.New("uc é obrigatório")
	}
	if len(r.CpfCnpj) < 11 {
		return errors.New("cpfCnpj é obrigatório")
	}
	if !birthDatePattern.MatchString(r.BirthDate) {
		return errors.New("data deve estar no formato dd/mm/aaaa")
	}
	return nil
}

// RequestInvoice fires the automation webhook immediately.
// POST /api/invoices/request
func (h *DispatchHandler) RequestInvoice(c echo.Context) error {
	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.validate(); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	body, err := h.webhook.Submit(c.Request().Context(), req.UC, req.CpfCnpj, req.BirthDate)
	if err != nil {
		h.logger.Error("Webhook request failed", zap.String("uc", req.UC), zap.Error(err))
		return errorResponse(c, http.StatusBadGateway, "Erro ao processar solicitação")
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		data = string(body)
	}
	return successResponse(c, data)
}

type scheduleRequest struct {
	invoiceRequest
	ScheduleType    string    `json:"scheduleType"`
	ScheduledTime   time.Time `json:"scheduledTime"`
	MultipleCount   int       `json:"multipleCount"`
	IntervalMinutes int       `json:"intervalMinutes"`
}

func (r *scheduleRequest) validate(now time.Time) error {
	if err := r.invoiceRequest.validate(); err != nil {
		return err
	}
	if r.ScheduleType != models.ScheduleOnce && r.ScheduleType != models.ScheduleDaily {
		return errors.New("scheduleType deve ser once ou daily")
	}
	if !r.ScheduledTime.After(now) {
		return errors.New("scheduledTime deve estar no futuro")
	}
	if r.MultipleCount == 0 {
		r.MultipleCount = 1
	}
	if r.MultipleCount < 1 || r.MultipleCount > 20 {
		return errors.New("multipleCount deve estar entre 1 e 20")
	}
	if r.IntervalMinutes == 0 {
		r.IntervalMinutes = 3
	}
	if r.IntervalMinutes < 2 || r.IntervalMinutes > 10 {
		return errors.New("intervalMinutes deve estar entre 2 e 10")
	}
	return nil
}

// Schedule creates one or more dispatch rows, each offset by the requested
// interval. All rows of one request share a batch id.
// POST /api/dispatches
func (h *DispatchHandler) Schedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.validate(time.Now()); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	base := &models.ScheduledDispatch{
		UC:            req.UC,
		CpfCnpj:       req.CpfCnpj,
		BirthDate:     req.BirthDate,
		ScheduleType:  req.ScheduleType,
		ScheduledTime: req.ScheduledTime,
		IsActive:      true,
		BatchID:       uuid.NewString(),
	}

	dispatches, err := h.repos.Dispatch.CreateBatch(base, req.MultipleCount, time.Duration(req.IntervalMinutes)*time.Minute)
	if err != nil {
		h.logger.Error("Failed to create dispatches", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to schedule dispatch")
	}

	return successResponse(c, map[string]interface{}{
		"dispatch":   dispatches[0],
		"dispatches": dispatches,
		"count":      len(dispatches),
	})
}

// ListScheduled returns all active dispatches.
// GET /api/dispatches
func (h *DispatchHandler) ListScheduled(c echo.Context) error {
	dispatches, err := h.repos.Dispatch.FindActive()
	if err != nil {
		h.logger.Error("Failed to list dispatches", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to retrieve dispatches")
	}
	return successResponse(c, dispatches)
}

// DeleteScheduled removes a dispatch. Unknown ids still return success.
// DELETE /api/dispatches/:id
func (h *DispatchHandler) DeleteScheduled(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid dispatch id")
	}
	if err := h.repos.Dispatch.Delete(id); err != nil {
		h.logger.Error("Failed to delete dispatch", zap.Uint("id", id), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to delete dispatch")
	}
	return successResponse(c, nil)
}

type toggleRequest struct {
	IsActive bool `json:"isActive"`
}

// ToggleScheduled sets a dispatch's active flag.
// PATCH /api/dispatches/:id/toggle
func (h *DispatchHandler) ToggleScheduled(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid dispatch id")
	}
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := h.repos.Dispatch.Toggle(id, req.IsActive); err != nil {
		h.logger.Error("Failed to toggle dispatch", zap.Uint("id", id), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to toggle dispatch")
	}
	return successResponse(c, nil)
}
