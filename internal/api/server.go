package api

import (
	"net/http"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/insights"
	"trading-journal-go/internal/journal"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter assembles the HTTP surface: public auth routes, the
// JWT-protected journal routes and a health endpoint.
func NewRouter(cfg *config.Config, logger *zap.Logger, authService *auth.Service, jwtManager *auth.JWTManager, journalService *journal.Service, summaries insights.ClientInterface) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.CorsOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.CorsOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authHandler := NewAuthHandler(authService, logger)
	handler := NewHandler(journalService, summaries, logger)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		authorized := v1.Group("")
		authorized.Use(auth.Middleware(jwtManager))
		{
			authorized.GET("/sessions", handler.ListSessions)
			authorized.POST("/sessions", handler.CreateSession)
			authorized.DELETE("/sessions/:id", handler.DeleteSession)
			authorized.GET("/sessions/:id/stats", handler.SessionStats)
			authorized.GET("/sessions/:id/trades", handler.ListTrades)
			authorized.POST("/sessions/:id/trades", handler.AddTrade)
			authorized.PATCH("/trades/:id", handler.UpdateTrade)
			authorized.DELETE("/trades/:id", handler.DeleteTrade)

			authorized.GET("/sessions/:id/export/json", handler.ExportJSON)
			authorized.GET("/sessions/:id/export/excel", handler.ExportWorkbook)
			authorized.GET("/sessions/:id/export/trades", handler.ExportTrades)
			authorized.POST("/sessions/import", handler.ImportSession)

			authorized.GET("/sessions/:id/summary", handler.SessionSummary)
		}
	}

	return router
}
