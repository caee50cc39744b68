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

// ProjectHandler exposes the project CRUD surface.
type ProjectHandler struct {
	projects   *services.ProjectService
	errHandler *apperrors.HTTPHandler
	logger     *zap.Logger
}

func NewProjectHandler(projects *services.ProjectService, errHandler *apperrors.HTTPHandler, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:   projects,
		errHandler: errHandler,
		logger:     logger,
	}
}

// Create handles POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var input models.ProjectInput
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	project, err := h.projects.Create(r.Context(), userID, input)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, project)
}

// Get handles GET /projects/{projectID}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	project, err := h.projects.Get(r.Context(), userID, chi.URLParam(r, "projectID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, project)
}

// List handles GET /projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	page, err := h.projects.List(r.Context(), userID, common.ExtractPageParams(r))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// Update handles PATCH /projects/{projectID}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var patch models.ProjectPatch
	if err := common.ParseJSONBody(r, &patch, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	project, err := h.projects.Update(r.Context(), userID, chi.URLParam(r, "projectID"), patch)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /projects/{projectID}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	if err := h.projects.Delete(r.Context(), userID, chi.URLParam(r, "projectID")); err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectTopic handles POST /projects/{projectID}/topic
func (h *ProjectHandler) SelectTopic(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var selection models.TopicSelection
	if err := common.ParseJSONBody(r, &selection, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	project, err := h.projects.SelectTopic(r.Context(), userID, chi.URLParam(r, "projectID"), selection)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, project)
}
