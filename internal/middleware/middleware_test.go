package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mazeboard/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newJWT(t *testing.T) *config.JWT {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return config.NewJWTWithKeys(key, &key.PublicKey, time.Hour)
}

// claimsEcho replies with the session id found in the context, or 401.
var claimsEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	io.WriteString(w, claims.SessionID.String())
})

func TestAuth(t *testing.T) {
	j := newJWT(t)
	id := uuid.New()
	token, err := j.IssueSessionToken(id)
	require.NoError(t, err)

	h := Wrap(claimsEcho, Auth(discard, j))

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"no token", "/", "", http.StatusUnauthorized},
		{"bearer header", "/", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "/", "bearer " + token, http.StatusOK},
		{"basic scheme", "/", "Basic " + token, http.StatusUnauthorized},
		{"query token", "/?token=" + token, "", http.StatusOK},
		{"garbage token", "/", "Bearer nope", http.StatusUnauthorized},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, test.target, nil)
			if test.header != "" {
				r.Header.Set("Authorization", test.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, test.status, w.Code)
			if test.status == http.StatusOK {
				assert.Equal(t, id.String(), w.Body.String())
			}
		})
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), Logging(discard))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestCorsPreflight(t *testing.T) {
	h := Wrap(claimsEcho, Cors())

	r := httptest.NewRequest(http.MethodOptions, "/board", nil)
	r.Header.Set("Origin", "http://example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
