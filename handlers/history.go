package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"market-demand-api/analytics"
	"market-demand-api/services"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves filtered raw market records.
type HistoryHandler struct {
	agg     *analytics.Aggregator
	cache   *services.CacheService
	timeout time.Duration
}

func NewHistoryHandler(agg *analytics.Aggregator, cache *services.CacheService, timeout time.Duration) *HistoryHandler {
	return &HistoryHandler{agg: agg, cache: cache, timeout: timeout}
}

// GetHistory handles GET /api/market/history?year=&month=&demand=&limit=.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	filters, limit := ParseHistoryParams(c)

	cacheKey := fmt.Sprintf("history:%d:%s:%s:%d", filters.Year, filters.Month, filters.Demand, limit)
	var cached analytics.History
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	hist, err := h.agg.History(ctx, filters, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	go h.cache.Set(context.Background(), cacheKey, hist, 30*time.Second)
	c.JSON(http.StatusOK, hist)
}
