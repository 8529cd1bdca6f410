package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"market-demand-api/analytics"
	"market-demand-api/predict"
	"market-demand-api/store"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, predict.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prediction service unavailable"})
	case errors.Is(err, store.ErrUnavailable):
		log.Printf("record store failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record store unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		log.Printf("unhandled request error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requestCtx bounds a handler's store and prediction calls by the configured
// request timeout.
func requestCtx(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}
