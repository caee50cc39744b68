package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"contentforge-backend/application/services"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
)

// DashboardHandler serves the aggregated per-project overview.
type DashboardHandler struct {
	dashboard  *services.DashboardService
	errHandler *apperrors.HTTPHandler
	logger     *zap.Logger
}

func NewDashboardHandler(dashboard *services.DashboardService, errHandler *apperrors.HTTPHandler, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard:  dashboard,
		errHandler: errHandler,
		logger:     logger,
	}
}

// Overview handles GET /projects/{projectID}/dashboard
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	data, err := h.dashboard.Overview(r.Context(), userID, chi.URLParam(r, "projectID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, data)
}
