package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "quotegen/docs" // registers the OpenAPI document with swag
	"quotegen/internal/handler"
	"quotegen/internal/metrics"
	"quotegen/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	m *metrics.Metrics,
	allowedOrigins []string,
	sessionH *handler.SessionHandler,
	quoteH *handler.QuoteHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.Metrics(m))

	// Health checks and operational endpoints
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Stateless quote routes
	v1.POST("/quotes", quoteH.Calculate)
	v1.GET("/rates", quoteH.Rates)
	v1.GET("/countries", quoteH.Countries)

	// Wizard sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.Get)
	sessions.PUT("/:id/form", sessionH.SubmitForm)
	sessions.POST("/:id/screenshots/:slot", sessionH.Upload)
	sessions.GET("/:id/screenshots/:slot/progress", sessionH.Progress)
	sessions.POST("/:id/analyze", sessionH.Analyze)
	sessions.POST("/:id/manual", sessionH.SubmitManual)
	sessions.DELETE("/:id/error", sessionH.DismissError)
	sessions.POST("/:id/reset", sessionH.Reset)
	sessions.GET("/:id/notifications", sessionH.Notifications)

	// Quote documents
	sessions.GET("/:id/quote.pdf", sessionH.DownloadPDF)
	sessions.GET("/:id/quote.csv", sessionH.DownloadCSV)
	sessions.GET("/:id/quote.xlsx", sessionH.DownloadXLSX)
	sessions.POST("/:id/quote/publish", sessionH.Publish)
	sessions.POST("/:id/quote/email", sessionH.Email)

	return r
}
