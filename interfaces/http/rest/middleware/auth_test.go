package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contentforge-backend/pkg/common"
)

func identityCaptureHandler(t *testing.T, gotUserID *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := common.GetUserID(r.Context())
		require.True(t, ok)
		*gotUserID = userID
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateTrustsGatewayHeaderBehindGateway(t *testing.T) {
	var gotUserID string
	handler := authenticate(true, nil, nil, zap.NewNop())(identityCaptureHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set(HeaderAuthorizerUserID, "u-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", gotUserID)
}

func TestAuthenticateIgnoresGatewayHeaderOnDirectListener(t *testing.T) {
	var gotUserID string
	handler := authenticate(false, nil, nil, zap.NewNop())(identityCaptureHandler(t, &gotUserID))

	// A client talking straight to the HTTP listener cannot pick its own
	// identity by setting the gateway header
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set(HeaderAuthorizerUserID, "u-victim")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, gotUserID)
}

func TestAuthenticateRejectsMissingTokenBehindGateway(t *testing.T) {
	var gotUserID string
	handler := authenticate(true, nil, nil, zap.NewNop())(identityCaptureHandler(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, gotUserID)
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, "header %q", tc.header)
		assert.Equal(t, tc.token, token, "header %q", tc.header)
	}
}
