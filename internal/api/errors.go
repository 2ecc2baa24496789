package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/internal/planner"
	"github.com/fitmeal/mealplan-backend/internal/service"
)

// statusClientClosedRequest is the nginx convention for a caller that went away.
const statusClientClosedRequest = 499

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidTarget),
		errors.Is(err, planner.ErrUnknownGoal),
		errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrEmptyPool):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrFoodNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
