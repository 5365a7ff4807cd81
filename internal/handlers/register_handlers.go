package handlers

import (
	"net/http"

	"github.com/SscSPs/bizledger_app/cmd/docs"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/middleware"
	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/SscSPs/bizledger_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the optional collaborators of the HTTP surface. Nil fields disable their feature.
type RouteDeps struct {
	Limiter  *limiter.Limiter
	Posthog  *utils.PosthogClientWrapper
	Gatherer prometheus.Gatherer
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	setupAPIV1Routes(r, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	chain := []gin.HandlerFunc{}
	if deps.Limiter != nil {
		chain = append(chain, middleware.RateLimit(deps.Limiter))
	}
	chain = append(chain, middleware.AuthMiddleware(cfg.JWTSecret))
	if deps.Posthog != nil {
		chain = append(chain, middleware.PosthogMiddleware(deps.Posthog))
	}

	v1 := r.Group("/api/v1", chain...)

	RegisterCompanyRoutes(v1, services.Company)
	RegisterAccountRoutes(v1, services.Account, services.Journal)
	RegisterJournalRoutes(v1, services.Journal)
	RegisterInventoryRoutes(v1, services.Inventory)
	RegisterOrderRoutes(v1, services.Order)
	RegisterPayrollRoutes(v1, services.Payroll)
	RegisterReportingRoutes(v1, services.Reporting)
	RegisterUsageRoutes(v1, services.Usage)
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
