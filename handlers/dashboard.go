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

// DashboardHandler serves the aggregate dashboard views. Computed responses
// are cached briefly in redis since every dashboard client polls them.
type DashboardHandler struct {
	agg     *analytics.Aggregator
	cache   *services.CacheService
	timeout time.Duration
}

func NewDashboardHandler(agg *analytics.Aggregator, cache *services.CacheService, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{agg: agg, cache: cache, timeout: timeout}
}

func (h *DashboardHandler) GetCards(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	cards, err := h.agg.DashboardCards(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *DashboardHandler) GetChartData(c *gin.Context) {
	weeks, err := intQuery(c, "weeks", 12)
	if err != nil || weeks < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weeks parameter, must be a positive integer"})
		return
	}

	cacheKey := fmt.Sprintf("chart:%d", weeks)
	var cached analytics.ChartData
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.TrendData != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	chart, err := h.agg.ChartData(ctx, weeks)
	if err != nil {
		respondError(c, err)
		return
	}

	go h.cache.Set(context.Background(), cacheKey, chart, 30*time.Second)
	c.JSON(http.StatusOK, chart)
}

func (h *DashboardHandler) GetStatusCards(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	cards, err := h.agg.StatusCards(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *DashboardHandler) GetMarketInsights(c *gin.Context) {
	const cacheKey = "insights:market"
	var cached analytics.MarketInsights
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	insights, err := h.agg.MarketInsights(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	go h.cache.Set(context.Background(), cacheKey, insights, 60*time.Second)
	c.JSON(http.StatusOK, insights)
}

func (h *DashboardHandler) GetBusinessInsights(c *gin.Context) {
	const cacheKey = "insights:business"
	var cached analytics.BusinessInsights
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Insights != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	insights, err := h.agg.BusinessInsights(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	go h.cache.Set(context.Background(), cacheKey, insights, 60*time.Second)
	c.JSON(http.StatusOK, insights)
}
