package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmsim/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. metrics may be nil.
func New(handler *handlers.FarmHandler, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/state", handler.State)
		api.GET("/stats", handler.Stats)
		api.GET("/events", handler.Events)
		api.GET("/notifications", handler.Notifications)
		api.GET("/reports", handler.Reports)

		api.POST("/game/new", handler.NewGame)
		api.POST("/game/save", handler.Save)
		api.POST("/game/load", handler.Load)
		api.PUT("/game/speed", handler.SetSpeed)

		api.POST("/animals", handler.BuyAnimal)
		api.DELETE("/animals/:id", handler.SellAnimal)
		api.POST("/animals/:id/feed", handler.FeedAnimal)
		api.POST("/animals/:id/collect", handler.CollectProduct)
		api.POST("/animals/:id/pet", handler.PetAnimal)
		api.POST("/animals/:id/heal", handler.HealAnimal)

		api.POST("/feeds", handler.BuyFeed)
		api.POST("/products/:type/sell", handler.SellProduct)
		api.POST("/buildings/:type/upgrade", handler.UpgradeBuilding)

		api.POST("/actions/feed-all", handler.FeedAll)
		api.POST("/actions/collect-all", handler.CollectAll)
		api.POST("/actions/sell-all", handler.SellAll)
	}

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
