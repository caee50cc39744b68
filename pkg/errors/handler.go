package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorResponse is the wire shape for failed requests
type errorResponse struct {
	Success bool       `json:"success"`
	Error   *errorBody `json:"error"`
}

type errorBody struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPHandler maps application errors to HTTP responses
type HTTPHandler struct {
	logger *zap.Logger
}

// NewHTTPHandler creates a new error handler
func NewHTTPHandler(logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{logger: logger}
}

// Respond writes an error response, logging server-side failures with full context
func (h *HTTPHandler) Respond(w http.ResponseWriter, r *http.Request, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		appErr = NewInternalError("internal server error").WithCause(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("type", string(appErr.Type)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("type", string(appErr.Type)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("message", appErr.Message),
		)
	}

	body := &errorBody{
		Type:    appErr.Type,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}
	// Internal causes never leak to clients
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		body.Message = httpStatusMessage(appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	json.NewEncoder(w).Encode(errorResponse{Success: false, Error: body})
}

func httpStatusMessage(appErr *AppError) string {
	switch appErr.Type {
	case ErrorTypeDatabase:
		return "storage backend unavailable"
	case ErrorTypeInference:
		return "suggestion service unavailable"
	case ErrorTypeDecode:
		return "stored record is invalid"
	default:
		return "internal server error"
	}
}
