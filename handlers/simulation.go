package handlers

import (
	"net/http"
	"time"

	"market-demand-api/analytics"

	"github.com/gin-gonic/gin"
)

// SimulationHandler replays a week range through the classifier.
type SimulationHandler struct {
	sim     *analytics.Simulator
	timeout time.Duration
}

func NewSimulationHandler(sim *analytics.Simulator, timeout time.Duration) *SimulationHandler {
	return &SimulationHandler{sim: sim, timeout: timeout}
}

// Simulate handles GET /api/predictions/simulate?start=&end=&year=.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	start, err := intQuery(c, "start", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter, must be an integer"})
		return
	}
	end, err := intQuery(c, "end", 20)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter, must be an integer"})
		return
	}
	year, err := intQuery(c, "year", 2025)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year parameter, must be an integer"})
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	result, err := h.sim.Run(ctx, year, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
