package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetUserIDAcceptsClaimTypes(t *testing.T) {
	cases := []struct {
		name string
		val  interface{}
		want uint64
	}{
		{"uint64", uint64(7), 7},
		{"int", int(8), 8},
		{"int64", int64(9), 9},
		{"float64 from jwt claims", float64(10), 10},
		{"numeric string", "11", 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			c.Set("user_id", tc.val)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		c, _ := newTestContext(t)
		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestViewerIDOptional(t *testing.T) {
	c, _ := newTestContext(t)
	assert.Nil(t, viewerID(c))

	c.Set("user_id", uint64(3))
	id := viewerID(c)
	require.NotNil(t, id)
	assert.Equal(t, uint64(3), *id)
}

func TestIsAdmin(t *testing.T) {
	c, _ := newTestContext(t)
	assert.False(t, isAdmin(c))

	c.Set("role", "USER")
	assert.False(t, isAdmin(c))

	c.Set("role", "ADMIN")
	assert.True(t, isAdmin(c))
}

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{model.ErrEventNotFound, http.StatusNotFound},
		{model.ErrUnknownRank, http.StatusBadRequest},
		{model.ErrEventClosed, http.StatusConflict},
		{model.ErrSoldOut, http.StatusConflict},
		{model.ErrNotReserved, http.StatusConflict},
		{model.ErrForbidden, http.StatusForbidden},
		{model.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t)
		require.NoError(t, writeDomainError(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}

	// Wrapped sentinels map the same as bare ones.
	c, rec := newTestContext(t)
	wrapped := errors.Join(errors.New("context"), model.ErrSoldOut)
	require.NoError(t, writeDomainError(c, wrapped))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestParseID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")

	c.SetParamValues("123")
	id, ok := parseID(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint64(123), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c.SetParamValues(bad)
		_, ok := parseID(c, "id")
		assert.False(t, ok, "value %q", bad)
	}
}
