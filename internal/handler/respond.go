package handler

import (
	"fmt"
	"net/http"

	"commflock/internal/pkg"

	"github.com/gin-gonic/gin"
)

// fail maps a service error onto a JSON envelope with a stable kind string so
// clients can branch without parsing messages.
func fail(c *gin.Context, err error) {
	kind := pkg.Kind(err)
	status := statusFor(kind)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		pkg.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	c.JSON(status, gin.H{"msg": msg, "kind": kind})
}

func statusFor(kind string) int {
	switch kind {
	case "not_found":
		return http.StatusNotFound
	case "forbidden":
		return http.StatusForbidden
	case "unauthorized":
		return http.StatusUnauthorized
	case "conflict", "capacity_exceeded":
		return http.StatusConflict
	case "validation_error", "policy_violation":
		return http.StatusBadRequest
	case "rate_limited":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func bindErr(c *gin.Context, err error) {
	fail(c, fmt.Errorf("%w: %v", pkg.ErrValidation, err))
}

func currentUserID(c *gin.Context) uint64 {
	return c.GetUint64("user_id")
}
