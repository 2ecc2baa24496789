package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/internal/service"
)

type PairingHandler struct {
	pairs  service.IPairingService
	logger *zap.Logger
}

func NewPairingHandler(pairs service.IPairingService, logger *zap.Logger) *PairingHandler {
	return &PairingHandler{pairs: pairs, logger: logger}
}

// Retrain handles POST /pairings/retrain
func (h *PairingHandler) Retrain(c *gin.Context) {
	res, err := h.pairs.Retrain(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
