package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestUserIDNormalizesClaimTypes(t *testing.T) {
	cases := []struct {
		name  string
		claim interface{}
		want  string
	}{
		{"json number", float64(42), "42"},
		{"string", "7", "7"},
		{"uint64", uint64(9), "9"},
		{"empty string", "", "anon"},
		{"unauthenticated", nil, "anon"},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if tc.claim != nil {
			c.Set("user_id", tc.claim)
		}
		if got := userID(c); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
