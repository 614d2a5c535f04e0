package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"dutytrip/internal/domain"
	"dutytrip/internal/handler"
	"dutytrip/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	AccountHandler *handler.AccountHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	JWTSecret      string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := middleware.Authenticate(deps.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	driverOnly := middleware.RequireRole(domain.RoleDriver)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Account routes.
		accounts := v1.Group("/accounts")
		{
			accounts.POST("/register", deps.AccountHandler.Register)
			accounts.POST("/login", deps.AccountHandler.Login)
			accounts.GET("", authed, adminOnly, deps.AccountHandler.GetAll)
		}

		// Trip routes.
		trips := v1.Group("/trips", authed)
		{
			trips.POST("", adminOnly, deps.TripHandler.Issue)
			trips.GET("", adminOnly, deps.TripHandler.GetAll)
			trips.POST("/claim", driverOnly, deps.TripHandler.Claim)
			trips.GET("/:code", deps.TripHandler.Get)
			trips.POST("/:code/complete", driverOnly, deps.TripHandler.Complete)
		}

		// Session recovery: the driver's currently active trip.
		v1.GET("/drivers/active", authed, driverOnly, deps.TripHandler.Active)

		// Settlement preview is non-mutating and available to any
		// authenticated caller.
		v1.POST("/settlement/preview", authed, deps.TripHandler.Preview)
	}

	return router
}
