package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyugp-assistant/internal/session"
)

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionTokens_RoundTrip(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	id := uuid.New()

	tok, err := tokens.Issue(id)
	require.NoError(t, err)

	got, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestSessionTokens_RejectsOtherSecret(t *testing.T) {
	tok, err := NewSessionTokens("one", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewSessionTokens("two", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestSessionTokens_Expired(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	claims := jwt.MapClaims{
		"session_id": uuid.New().String(),
		"exp":        time.Now().Add(-time.Minute).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokens.Secret)
	require.NoError(t, err)

	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionMiddleware(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	manager := session.NewManager(time.Hour)
	sess := manager.Create()
	validToken, _ := tokens.Issue(sess.ID)
	orphanToken, _ := tokens.Issue(uuid.New())

	var seen *session.Session
	handler := tokens.Middleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + validToken, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"unknown session", "Bearer " + orphanToken, http.StatusNotFound},
		{"valid", "Bearer " + validToken, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusOK {
				assert.Same(t, sess, seen)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	handler := RequestID(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "given-id", rr.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	handler := CORS("http://localhost:5173")(okHandler(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/links", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/links", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	handler := rl.Middleware(okHandler(t))
	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/session/messages", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, hit("1.1.1.1:1"))
	assert.Equal(t, http.StatusOK, hit("1.1.1.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("1.1.1.1:1"))
	assert.Equal(t, http.StatusOK, hit("2.2.2.2:1"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, hit("1.1.1.1:1"))
}

func TestRateLimiter_KeysBySession(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	handler := rl.Middleware(okHandler(t))

	a := session.New(uuid.New(), time.Now())
	b := session.New(uuid.New(), time.Now())

	hit := func(s *session.Session) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithSession(req.Context(), s))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, hit(a))
	assert.Equal(t, http.StatusOK, hit(b))
	assert.Equal(t, http.StatusTooManyRequests, hit(a))
}
