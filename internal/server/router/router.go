package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(advisoryHandler *handlers.AdvisoryHandler, accountHandler *handlers.AccountHandler, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	r.GET("/snapshot", advisoryHandler.Snapshot)

	advisory := r.Group("/advisory")
	advisory.POST("/analyze", advisoryHandler.Analyze)
	advisory.POST("/sessions", advisoryHandler.StartSession)
	advisory.POST("/sessions/:id/messages", advisoryHandler.PostMessage)
	advisory.GET("/sessions/:id/messages", advisoryHandler.History)

	accounts := r.Group("/accounts")
	accounts.GET("", accountHandler.List)
	accounts.POST("", accountHandler.Create)
	accounts.POST("/:id/deposit", accountHandler.Deposit)
	accounts.POST("/:id/withdraw", accountHandler.Withdraw)
	accounts.POST("/:id/toggle-status", accountHandler.ToggleStatus)

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
