package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	claims    *domain.Claims
	err       error
	lastToken string
}

func (f *fakeTokenVerifier) Verify(token string) (*domain.Claims, error) {
	f.lastToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

func TestRequireAuth(t *testing.T) {
	admin := &domain.Claims{UserID: "user-123", Username: "pastor", Role: domain.RoleAdmin}

	tests := []struct {
		name          string
		authHeader    string
		cookie        string
		verifier      *fakeTokenVerifier
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
		wantToken     string
	}{
		{
			name:          "valid bearer token sets context and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{claims: admin},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
			wantToken:     "valid-token",
		},
		{
			name:          "cookie wins over header",
			cookie:        "cookie-token",
			authHeader:    "Bearer header-token",
			verifier:      &fakeTokenVerifier{claims: admin},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
			wantToken:     "cookie-token",
		},
		{
			name:         "missing credentials",
			verifier:     &fakeTokenVerifier{claims: admin},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{claims: admin},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{claims: admin},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := UserIDFromContext(r.Context()); ok {
					capturedUserID = id
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(tt.verifier, testLogger)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/api/members", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantContextID, capturedUserID, "user ID in context")
				assert.Equal(t, tt.wantToken, tt.verifier.lastToken)
			}
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.Claims
		wantStatus int
	}{
		{name: "admin passes", claims: &domain.Claims{UserID: "u1", Role: domain.RoleAdmin}, wantStatus: http.StatusNoContent},
		{name: "non admin forbidden", claims: &domain.Claims{UserID: "u2", Role: "member"}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAdmin(&fakeTokenVerifier{claims: tt.claims}, testLogger)(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			req := httptest.NewRequest(http.MethodDelete, "http://test/editEvent/x", nil)
			req.Header.Set("Authorization", "Bearer t")
			rr := httptest.NewRecorder()

			handler(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}

	unauth := RequireAdmin(&fakeTokenVerifier{}, testLogger)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run without credentials")
	})
	rr := httptest.NewRecorder()
	unauth(rr, httptest.NewRequest(http.MethodGet, "http://test/api/reports/summary", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
