package router

import (
	"time"

	"financeirox/api"
	"financeirox/config"
	_ "financeirox/docs"
	"financeirox/events"
	"financeirox/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter monta as rotas da API
func SetupRouter(cfg *config.Config, version string) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(CORSMiddleware(cfg.Server.BaseURL))

	healthHandler := api.NewHealthHandler(version)
	r.GET("/health", healthHandler.Live)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/db-health", healthHandler.DB)

		authHandler := api.NewAuthHandler(cfg)
		loginWindow := time.Duration(cfg.RateLimit.LoginWindowSeconds) * time.Second
		apiGroup.POST("/signup", authHandler.Signup)
		apiGroup.POST("/login", middleware.LoginRateLimit(cfg.RateLimit.LoginMax, loginWindow), authHandler.Login)
		apiGroup.POST("/logout", authHandler.Logout)

		authorized := apiGroup.Group("")
		authorized.Use(middleware.Auth())
		{
			authorized.GET("/me", authHandler.Me)

			sourceHandler := api.NewSourceHandler()
			authorized.GET("/sources", sourceHandler.List)
			authorized.POST("/sources", sourceHandler.Create)
			authorized.PUT("/sources/:id", sourceHandler.Update)
			authorized.DELETE("/sources", sourceHandler.Delete)
			authorized.DELETE("/sources/:id", sourceHandler.Delete)

			txHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.GET("", txHandler.List)
				transactions.POST("", txHandler.Create)
				transactions.PUT("", txHandler.Update)
				transactions.PUT("/:id", txHandler.Update)
				transactions.DELETE("", txHandler.Delete)
				transactions.DELETE("/:id", txHandler.Delete)
			}

			reportHandler := api.NewReportHandler()
			reports := authorized.Group("/reports")
			{
				reports.GET("/tax", reportHandler.Tax)
				reports.GET("/buckets", reportHandler.Buckets)
				reports.GET("/monthly", reportHandler.Monthly)
				reports.GET("/payouts", reportHandler.Payouts)
			}

			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/xlsx", exportHandler.ExportXLSX)
			}

			authorized.GET("/events", api.NewEventsHandler(events.Default).Stream)
		}
	}

	return r
}

// CORSMiddleware libera o front-end. Com cookies de sessão a origem
// precisa ser explícita; sem base_url ecoa a origem da requisição.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := allowedOrigin
		if origin == "" {
			origin = c.GetHeader("Origin")
		}
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
