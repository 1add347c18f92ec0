package web_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accessLine returns the last "http request" log entry written for path.
func (s *testServer) accessLine(path string) map[string]any {
	s.t.Helper()
	var found map[string]any
	sc := bufio.NewScanner(bytes.NewReader(s.logs.Bytes()))
	for sc.Scan() {
		var entry map[string]any
		require.NoError(s.t, json.Unmarshal(sc.Bytes(), &entry))
		if entry["msg"] == "http request" && entry["path"] == path {
			found = entry
		}
	}
	require.NotNil(s.t, found, "no access line for %s in %s", path, s.logs.String())
	return found
}

func TestAccessLogNamesTheActor(t *testing.T) {
	s := newTestServer(t)
	token := s.login("prod")

	req := httptest.NewRequest(http.MethodGet, "/api/statuses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", "trace-42")
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	line := s.accessLine("/api/statuses")
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "trace-42", line["request_id"])
	assert.Equal(t, float64(200), line["status"])
	assert.Equal(t, "produksi", line["role"])
	assert.NotZero(t, line["user_id"])

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	line = s.accessLine("/api/health")
	assert.NotEmpty(t, line["request_id"])
	assert.NotContains(t, line, "user_id")
	assert.NotContains(t, line, "role")
}

func TestRejectedTokenIsLoggedWithoutActor(t *testing.T) {
	s := newTestServer(t)
	rec := s.call("not-a-token", http.MethodGet, "/api/statuses", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	line := s.accessLine("/api/statuses")
	assert.Equal(t, float64(401), line["status"])
	assert.NotContains(t, line, "user_id")
}

func TestUnsignedServerRejectsEmptyKeyTokens(t *testing.T) {
	s := newTestServerWithSecret(t, "")

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	require.NoError(t, err)

	rec := s.call(forged, http.MethodPost, "/api/production-runs", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := `{"username":"admin","password":"password1"}`
	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestOversizedBodyIsRefusedUpFront(t *testing.T) {
	s := newTestServer(t)
	body := `{"username":"admin","password":"` + strings.Repeat("x", 2048) + `"}`
	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "REQUEST_TOO_LARGE")
}
