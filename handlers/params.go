package handlers

import (
	"strconv"

	"market-demand-api/models"
	"market-demand-api/store"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ParseHistoryParams reads the market-history filters. Unknown demand
// labels are dropped rather than rejected so a typo'd filter degrades to
// the unfiltered view.
func ParseHistoryParams(c *gin.Context) (store.Filters, int) {
	f := store.Filters{Month: c.Query("month")}

	if yearStr := c.Query("year"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			f.Year = y
		}
	}
	if demand := c.Query("demand"); models.ValidDemand(demand) {
		f.Demand = demand
	}

	limit := DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return f, limit
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	value := c.Query(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
