package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewService("secret", time.Hour)
	token, err := s.IssueToken("sess_1")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	got, err := s.ValidateToken(token)
	if err != nil || got != "sess_1" {
		t.Errorf("ValidateToken = %q, %v", got, err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	s := NewService("secret", time.Hour)
	other := NewService("other-secret", time.Hour)

	expired := NewService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	foreign, _ := other.IssueToken("sess_1")
	old, _ := expired.IssueToken("sess_1")
	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("secret"))
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "sess_1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"expired", old},
		{"no subject", noSub},
		{"alg none", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := NewService("secret", time.Hour)
	token, _ := s.IssueToken("sess_a")

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.AuthMiddleware)
	api.HandleFunc("/sessions/{sessionId}/scene", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(SessionIDFromContext(r.Context())))
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"ok", "/api/sessions/sess_a/scene", "Bearer " + token, http.StatusOK},
		{"missing header", "/api/sessions/sess_a/scene", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/sessions/sess_a/scene", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "/api/sessions/sess_a/scene", "Bearer nope", http.StatusUnauthorized},
		{"other session", "/api/sessions/sess_b/scene", "Bearer " + token, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Body.String() != "sess_a" {
				t.Errorf("context session = %q", rec.Body.String())
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	s := NewService("secret", time.Hour)
	h := NewHandler(s, func() string { return "sess_new" })

	rec := httptest.NewRecorder()
	h.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var res CreateSessionResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.SessionID != "sess_new" {
		t.Errorf("sessionId = %q", res.SessionID)
	}
	if got, err := s.ValidateToken(res.Token); err != nil || got != "sess_new" {
		t.Errorf("issued token validates to %q, %v", got, err)
	}
}
