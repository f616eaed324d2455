package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"commflock/internal/pkg"

	"github.com/gin-gonic/gin"
)

func TestFailMapsErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{pkg.ErrNotFound, http.StatusNotFound, "not_found"},
		{pkg.ErrForbidden, http.StatusForbidden, "forbidden"},
		{pkg.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{pkg.ErrAlreadyRegistered, http.StatusConflict, "conflict"},
		{pkg.ErrEventFull, http.StatusConflict, "capacity_exceeded"},
		{pkg.ErrJoinNotAllowed, http.StatusBadRequest, "policy_violation"},
		{pkg.ErrValidation, http.StatusBadRequest, "validation_error"},
		{pkg.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{errors.New("db exploded"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		fail(c, tc.err)

		if w.Code != tc.wantStatus {
			t.Errorf("fail(%v) status = %d, want %d", tc.err, w.Code, tc.wantStatus)
		}
		var body struct {
			Msg  string `json:"msg"`
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad body for %v: %v", tc.err, err)
		}
		if body.Kind != tc.wantKind {
			t.Errorf("fail(%v) kind = %q, want %q", tc.err, body.Kind, tc.wantKind)
		}
		if body.Kind == "internal" && body.Msg != "internal error" {
			t.Errorf("internal errors must not leak details, got %q", body.Msg)
		}
	}
}
