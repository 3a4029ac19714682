package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, RoleUser, 5)
	require.NoError(t, err)

	rec, c := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, RoleUser, c.Get("role"))
}

func TestJWTAuthRejects(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		rec, _ := doRequest(t, JWTAuth(testSecret), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("wrong secret", func(t *testing.T) {
		at, err := utils.NewAccessToken("other-secret", 1, RoleUser, 5)
		require.NoError(t, err)
		rec, _ := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("garbage token", func(t *testing.T) {
		rec, _ := doRequest(t, JWTAuth(testSecret), "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalJWTAuth(t *testing.T) {
	t.Run("anonymous passes without claims", func(t *testing.T) {
		rec, c := doRequest(t, OptionalJWTAuth(testSecret), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, c.Get("user_id"))
	})
	t.Run("valid token attaches claims", func(t *testing.T) {
		at, err := utils.NewAccessToken(testSecret, 7, RoleUser, 5)
		require.NoError(t, err)
		rec, c := doRequest(t, OptionalJWTAuth(testSecret), "Bearer "+at.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(7), c.Get("user_id"))
	})
	t.Run("bad token treated as anonymous", func(t *testing.T) {
		rec, c := doRequest(t, OptionalJWTAuth(testSecret), "Bearer junk")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, c.Get("user_id"))
	})
}

func TestRequireRole(t *testing.T) {
	run := func(role interface{}, allowed ...string) int {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		h := RequireRole(allowed...)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(RoleAdmin, RoleAdmin))
	assert.Equal(t, http.StatusOK, run(RoleUser, RoleUser, RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run(RoleUser, RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run(nil, RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run("OTHER", RoleUser, RoleAdmin))
}
