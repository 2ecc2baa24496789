package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/internal/middleware"
	"github.com/fitmeal/mealplan-backend/internal/service"
	"github.com/fitmeal/mealplan-backend/internal/types"
)

type PlanHandler struct {
	plans  service.IPlanService
	logger *zap.Logger
}

func NewPlanHandler(plans service.IPlanService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{plans: plans, logger: logger}
}

// CreateDayPlan handles POST /plans/day
func (h *PlanHandler) CreateDayPlan(c *gin.Context) {
	userID, req, ok := h.bind(c)
	if !ok {
		return
	}

	plan, err := h.plans.PlanDay(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": plan.ID, "plan": plan})
}

// CreateWeekPlan handles POST /plans/week
func (h *PlanHandler) CreateWeekPlan(c *gin.Context) {
	userID, req, ok := h.bind(c)
	if !ok {
		return
	}

	plan, err := h.plans.PlanWeek(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": plan.ID, "plan": plan})
}

// GetPlan handles GET /plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan ID"})
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if userID, ok := middleware.UserID(c); !ok || plan.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrPlanNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) bind(c *gin.Context) (uuid.UUID, *types.PlanRequest, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, nil, false
	}

	var req types.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, nil, false
	}
	return userID, &req, true
}
