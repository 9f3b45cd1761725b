package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func newEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r
}

func call(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(AuthMiddleware(secret))
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{name: "valid token", header: "Bearer " + valid, code: http.StatusOK, body: "u-1"},
		{name: "missing header", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + valid, code: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "u-1"}), code: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}), code: http.StatusUnauthorized},
		// 旧版本签发的数字ID不再接受
		{name: "numeric user_id", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": 42}), code: http.StatusUnauthorized},
		{name: "no user_id", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u-1"}), code: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := newEngine(OptionalAuthMiddleware(secret))

	w := call(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": "u-2"})
	w = call(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-2", w.Body.String())

	w = call(r, "Bearer broken")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
