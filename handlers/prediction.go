package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"market-demand-api/analytics"
	"market-demand-api/services"

	"github.com/gin-gonic/gin"
)

// PredictionHandler serves the current-week headline prediction. Each
// served prediction is also published on the live channel for websocket
// subscribers.
type PredictionHandler struct {
	agg     *analytics.Aggregator
	cache   *services.CacheService
	timeout time.Duration
}

func NewPredictionHandler(agg *analytics.Aggregator, cache *services.CacheService, timeout time.Duration) *PredictionHandler {
	return &PredictionHandler{agg: agg, cache: cache, timeout: timeout}
}

func (h *PredictionHandler) GetCurrentWeek(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	pred, err := h.agg.CurrentWeek(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	go func() {
		if err := h.cache.PublishPrediction(context.Background(), pred); err != nil {
			log.Printf("prediction publish failed: %v", err)
		}
	}()

	c.JSON(http.StatusOK, pred)
}
