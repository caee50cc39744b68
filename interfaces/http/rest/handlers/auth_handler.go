package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"contentforge-backend/domain/models"
	"contentforge-backend/pkg/auth"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
	"contentforge-backend/pkg/utils"
)

// AuthHandler exposes the identity endpoints backed by the user pool.
type AuthHandler struct {
	identity   *auth.IdentityService
	errHandler *apperrors.HTTPHandler
	logger     *zap.Logger
}

func NewAuthHandler(identity *auth.IdentityService, errHandler *apperrors.HTTPHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity:   identity,
		errHandler: errHandler,
		logger:     logger,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := common.ParseJSONBody(r, &creds, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(creds); err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	token, err := h.identity.Login(r.Context(), creds)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, token)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	token, err := h.identity.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, token)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, err := accessToken(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	info, err := h.identity.CurrentUser(r.Context(), token)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, info)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := accessToken(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	if err := h.identity.Logout(r.Context(), token); err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// accessToken returns the raw bearer credential so it can be forwarded
// to the identity provider.
func accessToken(r *http.Request) (string, error) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorizedError("missing bearer token")
	}
	return strings.TrimSpace(parts[1]), nil
}
