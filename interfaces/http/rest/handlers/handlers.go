package handlers

import (
	"net/http"

	"contentforge-backend/pkg/common"
	apperrors "contentforge-backend/pkg/errors"
)

const (
	// maxBodyBytes bounds JSON request bodies across all handlers.
	maxBodyBytes = 1 << 20

	// maxTranscriptBytes allows full transcripts from the pipeline,
	// which routinely exceed the regular body limit.
	maxTranscriptBytes = 10 << 20
)

// callerID pulls the authenticated user out of the request context.
// The authentication middleware guarantees it for every protected route,
// so a miss here means a route was wired outside the auth group.
func callerID(r *http.Request) (string, error) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		return "", apperrors.NewUnauthorizedError("no authenticated user in request context")
	}
	return userID, nil
}
