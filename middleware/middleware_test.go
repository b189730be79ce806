package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thor8126/ProShop/globals"
)

func signedToken(t *testing.T, userID string, roles []string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

func TestAuthenticateSetsContext(t *testing.T) {
	var gotUserID string
	var gotRoles []string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRoles, _ = r.Context().Value(globals.RoleKey).([]string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/orders/myorders", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u42", []string{"user"}, time.Hour))
	w := httptest.NewRecorder()
	handler(w, req, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u42", gotUserID)
	assert.Equal(t, []string{"user"}, gotRoles)
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/orders", nil), nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateBadFormat(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	handler(w, req, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u42", nil, -time.Minute))
	w := httptest.NewRecorder()
	handler(w, req, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	admin := RequireRoles("admin")(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name  string
		roles []string
		want  int
	}{
		{"admin allowed", []string{"admin"}, http.StatusOK},
		{"user forbidden", []string{"user"}, http.StatusForbidden},
		{"mixed allowed", []string{"user", "admin"}, http.StatusOK},
		{"no roles forbidden", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/orders", nil)
			ctx := context.WithValue(req.Context(), globals.RoleKey, tc.roles)
			w := httptest.NewRecorder()
			admin(w, req.WithContext(ctx), nil)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestChainOrder(t *testing.T) {
	var calls []string
	tag := func(name string) Middleware {
		return func(next httprouter.Handle) httprouter.Handle {
			return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
				calls = append(calls, name)
				next(w, r, ps)
			}
		}
	}

	handler := Chain(tag("outer"), tag("inner"))(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		calls = append(calls, "handler")
	})
	handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), nil)

	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}
