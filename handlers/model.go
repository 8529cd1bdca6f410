package handlers

import (
	"net/http"

	"market-demand-api/predict"

	"github.com/gin-gonic/gin"
)

// ModelHandler exposes classifier metadata and the artifact reload hook the
// refresh procedure calls after dropping a new model file in place.
type ModelHandler struct {
	holder *predict.Holder
}

func NewModelHandler(holder *predict.Holder) *ModelHandler {
	return &ModelHandler{holder: holder}
}

func (h *ModelHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.holder.Info())
}

// Reload swaps in the artifact currently on disk. On failure the previous
// model keeps serving and the error is reported.
func (h *ModelHandler) Reload(c *gin.Context) {
	if err := h.holder.Reload(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "model reloaded",
		"model":   h.holder.Info(),
	})
}
