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

// ScriptHandler exposes script generation, editing, and retention analysis.
type ScriptHandler struct {
	scripts    *services.ScriptService
	errHandler *apperrors.HTTPHandler
	logger     *zap.Logger
}

func NewScriptHandler(scripts *services.ScriptService, errHandler *apperrors.HTTPHandler, logger *zap.Logger) *ScriptHandler {
	return &ScriptHandler{
		scripts:    scripts,
		errHandler: errHandler,
		logger:     logger,
	}
}

// Generate handles POST /projects/{projectID}/scripts
func (h *ScriptHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var req models.ScriptRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	script, err := h.scripts.Generate(r.Context(), userID, chi.URLParam(r, "projectID"), req)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, script)
}

// Get handles GET /projects/{projectID}/scripts/{scriptID}
func (h *ScriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	script, err := h.scripts.Get(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "scriptID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, script)
}

// List handles GET /projects/{projectID}/scripts
func (h *ScriptHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	page, err := h.scripts.List(r.Context(), userID, chi.URLParam(r, "projectID"), common.ExtractPageParams(r))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// Update handles PATCH /projects/{projectID}/scripts/{scriptID}
func (h *ScriptHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var patch models.ScriptPatch
	if err := common.ParseJSONBody(r, &patch, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	script, err := h.scripts.Update(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "scriptID"), patch)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, script)
}

// RegenerateSection handles POST /projects/{projectID}/scripts/{scriptID}/sections
func (h *ScriptHandler) RegenerateSection(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var req models.SectionRegenerateRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	script, err := h.scripts.RegenerateSection(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "scriptID"), req)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, script)
}

// Delete handles DELETE /projects/{projectID}/scripts/{scriptID}
func (h *ScriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	if err := h.scripts.Delete(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "scriptID")); err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Analyze handles POST /projects/{projectID}/scripts/{scriptID}/analysis
func (h *ScriptHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	analysis, err := h.scripts.AnalyzeRetention(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "scriptID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, analysis)
}

// GetAnalysis handles GET /projects/{projectID}/scripts/{scriptID}/analysis
func (h *ScriptHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	analysis, err := h.scripts.GetAnalysis(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "scriptID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, analysis)
}
