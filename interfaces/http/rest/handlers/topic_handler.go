package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"contentforge-backend/application/services"
	"contentforge-backend/domain/models"
	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
)

// TopicHandler serves model-backed topic suggestions.
type TopicHandler struct {
	topics     *services.TopicService
	errHandler *apperrors.HTTPHandler
	logger     *zap.Logger
}

func NewTopicHandler(topics *services.TopicService, errHandler *apperrors.HTTPHandler, logger *zap.Logger) *TopicHandler {
	return &TopicHandler{
		topics:     topics,
		errHandler: errHandler,
		logger:     logger,
	}
}

type suggestTopicsRequest struct {
	models.TopicRequest
	Exclude []string `json:"exclude,omitempty"`
}

// Suggest handles POST /topics/suggestions
func (h *TopicHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var req suggestTopicsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	suggestions, err := h.topics.Suggest(r.Context(), req.TopicRequest, req.Exclude)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// SuggestForProject handles GET /projects/{projectID}/topics/suggestions
func (h *TopicHandler) SuggestForProject(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	exclude := r.URL.Query()["exclude"]
	suggestions, err := h.topics.SuggestForProject(r.Context(), userID, chi.URLParam(r, "projectID"), exclude)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}
