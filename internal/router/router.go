package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitmeal/mealplan-backend/internal/api"
	"github.com/fitmeal/mealplan-backend/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Plans    *api.PlanHandler
	Foods    *api.FoodHandler
	Pairings *api.PairingHandler
	Health   *api.HealthHandler
}

// Options carries the cross-cutting pieces of the router.
type Options struct {
	Auth           middleware.TokenValidator
	PlanLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), middleware.ErrorHandler(logger))
	if len(opts.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(opts.AllowedOrigins))
	}

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health.Health)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Auth))
	{
		generate := []gin.HandlerFunc{}
		if opts.PlanLimiter != nil {
			generate = append(generate, opts.PlanLimiter.Middleware())
		}

		plans := protected.Group("/plans")
		{
			plans.POST("/day", append(generate, h.Plans.CreateDayPlan)...)
			plans.POST("/week", append(generate, h.Plans.CreateWeekPlan)...)
			plans.GET("/:id", h.Plans.GetPlan)
		}

		protected.POST("/foods/:name/rating", h.Foods.RateFood)
		protected.POST("/pairings/retrain", h.Pairings.Retrain)
	}

	return router
}
