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

// VideoHandler exposes upload registration, status tracking, and clip
// suggestions for project videos.
type VideoHandler struct {
	videos     *services.VideoService
	errHandler *apperrors.HTTPHandler
	logger     *zap.Logger
}

func NewVideoHandler(videos *services.VideoService, errHandler *apperrors.HTTPHandler, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		videos:     videos,
		errHandler: errHandler,
		logger:     logger,
	}
}

// Register handles POST /projects/{projectID}/videos
func (h *VideoHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	var req models.VideoUploadRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	target, err := h.videos.RegisterUpload(r.Context(), userID, chi.URLParam(r, "projectID"), req)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, target)
}

// Confirm handles POST /projects/{projectID}/videos/{videoID}/confirm
func (h *VideoHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	video, err := h.videos.ConfirmUpload(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "videoID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, video)
}

// Get handles GET /projects/{projectID}/videos/{videoID}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	video, err := h.videos.Get(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "videoID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, video)
}

// List handles GET /projects/{projectID}/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	page, err := h.videos.List(r.Context(), userID, chi.URLParam(r, "projectID"), common.ExtractPageParams(r))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// Download handles GET /projects/{projectID}/videos/{videoID}/download
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	url, err := h.videos.DownloadURL(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "videoID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"download_url": url})
}

// Clips handles GET /projects/{projectID}/videos/{videoID}/clips
func (h *VideoHandler) Clips(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	clips, err := h.videos.Clips(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "videoID"))
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"clips": clips})
}

// Delete handles DELETE /projects/{projectID}/videos/{videoID}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}

	if err := h.videos.Delete(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "videoID")); err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusUpdateRequest struct {
	Status       models.VideoStatus `json:"status" validate:"required"`
	ErrorMessage string             `json:"error_message,omitempty" validate:"omitempty,max=1000"`
}

// UpdateStatus handles PUT /internal/projects/{projectID}/videos/{videoID}/status.
// It is called by the processing pipeline, not by end users, so it resolves
// the video by project alone.
func (h *VideoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	video, err := h.videos.UpdateStatus(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "videoID"), req.Status, req.ErrorMessage)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, video)
}

type transcriptRequest struct {
	TranscriptKey  string `json:"transcript_key" validate:"required"`
	TranscriptText string `json:"transcript_text" validate:"required"`
}

// AttachTranscript handles POST /internal/projects/{projectID}/videos/{videoID}/transcript.
// The pipeline posts the finished transcript here, which kicks off clip analysis.
func (h *VideoHandler) AttachTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := common.ParseJSONBody(r, &req, maxTranscriptBytes); err != nil {
		h.errHandler.Respond(w, r, apperrors.NewValidationError(err.Error()))
		return
	}
	if req.TranscriptKey == "" || req.TranscriptText == "" {
		h.errHandler.Respond(w, r, apperrors.NewValidationError("transcript_key and transcript_text are required"))
		return
	}

	video, err := h.videos.AttachTranscript(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "videoID"), req.TranscriptKey, req.TranscriptText)
	if err != nil {
		h.errHandler.Respond(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, video)
}
