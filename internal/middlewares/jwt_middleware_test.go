package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":      "u-alice",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	rec, c := runProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	uid, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "u-alice", uid)

	username, err := GetUsernameFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestJWTMiddlewareRejections(t *testing.T) {
	valid := jwt.MapClaims{
		"sub":      "u-alice",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", valid)},
		{"expired token", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub":      "u-alice",
			"username": "alice",
			"exp":      time.Now().Add(-time.Hour).Unix(),
		})},
		{"missing sub claim", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"username": "alice",
		})},
		{"missing username claim", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub": "u-alice",
		})},
		{"empty username claim", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub":      "u-alice",
			"username": "",
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := runProtected(t, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")

			_, err := GetUserIDFromContext(c)
			assert.Error(t, err, "no identity may leak past a rejected request")
		})
	}
}

func TestJWTMiddlewareRejectsNonHMACAlg(t *testing.T) {
	// alg=none style tokens must not pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":      "u-alice",
		"username": "alice",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	rec, _ := runProtected(t, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
