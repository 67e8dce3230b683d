package handlers

import (
	"github.com/SscSPs/ledger_assistant/cmd/docs"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/SscSPs/ledger_assistant/internal/middleware"
	"github.com/SscSPs/ledger_assistant/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// ingestLimiter may be nil to disable rate limiting of ingestion routes.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	ingestLimiter *limiter.Limiter,
) {
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		r.Use(cors.New(corsCfg))
	}

	r.GET("/health", getHealth)

	setupAPIV1Routes(r, cfg, services, ingestLimiter)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	ingestLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.TokenSettings()))

	var ingestMiddleware []gin.HandlerFunc
	if ingestLimiter != nil {
		ingestMiddleware = append(ingestMiddleware, middleware.RateLimit(ingestLimiter))
	}

	registerDocumentRoutes(v1, service.Ingestion, ingestMiddleware...)
	registerTransactionRoutes(v1, service.Ingestion)
	registerAccountRoutes(v1, service.Account)
	registerReportingRoutes(v1, service.Reporting)
	registerAssistantRoutes(v1, service.Assistant)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
