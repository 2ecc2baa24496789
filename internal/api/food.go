package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/internal/middleware"
	"github.com/fitmeal/mealplan-backend/internal/service"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

type FoodHandler struct {
	prefs  service.IPreferenceService
	logger *zap.Logger
}

func NewFoodHandler(prefs service.IPreferenceService, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{prefs: prefs, logger: logger}
}

// RateFood handles POST /foods/:name/rating
func (h *FoodHandler) RateFood(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food name is required"})
		return
	}

	var req types.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref, err := h.prefs.Rate(c.Request.Context(), userID, name, req.Rating)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.RatingResponse{
		FoodName:    pref.FoodName,
		Score:       pref.Score,
		RatingCount: pref.RatingCount,
	})
}
