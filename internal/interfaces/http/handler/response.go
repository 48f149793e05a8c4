package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meal_storefront/internal/application/checkout"
	"meal_storefront/internal/domain/apperr"
)

const (
	headerSessionID = "X-Session-ID"
	headerUserID    = "X-User-ID"
)

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch apperr.KindOf(err) {
	case apperr.KindInput:
		return http.StatusBadRequest
	case apperr.KindAvailability:
		return http.StatusConflict
	case apperr.KindResolution:
		return http.StatusUnprocessableEntity
	case apperr.KindSubmission:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), errorBody(err))
}

func errorBody(err error) gin.H {
	body := gin.H{
		"error": apperr.Message(err),
		"kind":  apperr.KindOf(err).String(),
	}
	var unavailable *checkout.UnavailableItemsError
	if errors.As(err, &unavailable) {
		body["unavailable"] = unavailable.Items
	}
	return body
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "kind": apperr.KindInput.String()})
}

// requireHeader aborts with 400 when the header is missing.
func requireHeader(c *gin.Context, name string) (string, bool) {
	v := c.GetHeader(name)
	if v == "" {
		badRequest(c, name+" header is required")
		return "", false
	}
	return v, true
}

func queryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}
