package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"faturadash/internal/models"
)

// UserHandler records dashboard sign-ins. The OAuth flow itself runs in the
// frontend; this side only mirrors the resulting identity.
type UserHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewUserHandler(repos *Repos, logger *zap.Logger) *UserHandler {
	return &UserHandler{repos: repos, logger: logger}
}

type sessionRequest struct {
	OpenID      string `json:"openId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LoginMethod string `json:"loginMethod"`
}

// UpsertSession creates or refreshes the user row for a sign-in.
// POST /api/users/session
func (h *UserHandler) UpsertSession(c echo.Context) error {
	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.OpenID == "" {
		return errorResponse(c, http.StatusBadRequest, "openId é obrigatório")
	}

	user := &models.User{
		OpenID:       req.OpenID,
		Name:         req.Name,
		Email:        req.Email,
		LoginMethod:  req.LoginMethod,
		LastSignedIn: time.Now(),
	}
	if err := h.repos.User.Upsert(user); err != nil {
		h.logger.Error("Failed to upsert user", zap.String("openId", req.OpenID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to record sign-in")
	}

	stored, err := h.repos.User.FindByOpenID(req.OpenID)
	if err != nil {
		h.logger.Error("Failed to load user after upsert", zap.String("openId", req.OpenID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to record sign-in")
	}
	return successResponse(c, stored)
}

// GetSession returns the stored identity for an openId.
// GET /api/users/:openId
func (h *UserHandler) GetSession(c echo.Context) error {
	openID := c.Param("openId")
	if openID == "" {
		return errorResponse(c, http.StatusBadRequest, "openId é obrigatório")
	}

	user, err := h.repos.User.FindByOpenID(openID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "User not found")
		}
		h.logger.Error("Failed to load user", zap.String("openId", openID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to retrieve user")
	}
	return successResponse(c, user)
}
