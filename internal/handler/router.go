package handler

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/suteetoe/retail-backend/internal/middleware"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"github.com/suteetoe/retail-backend/internal/service"
	"github.com/suteetoe/retail-backend/pkg/jwtutil"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"github.com/suteetoe/retail-backend/prometheus"
	"golang.org/x/time/rate"
)

// RouterConfig carries everything the HTTP surface depends on
type RouterConfig struct {
	ServiceName      string
	MetricsLabel     string
	Tenants          TenantService
	TenantLookup     middleware.TenantLookup
	Resolver         middleware.SchemaResolver
	Users            *service.UserService
	Orders           *service.SalesOrderService
	Operators        *service.OperatorService
	JWT              *jwtutil.JWTUtil
	Database         Pinger
	ProvisionLimiter *rate.Limiter
}

// NewRouter builds the echo server with all middleware and routes
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	// order matters: metrics wraps the request logger so it sees the final status
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(prometheus.MetricsMiddleware(cfg.MetricsLabel))
	e.Use(logger.Middleware())

	// Public routes
	health := NewHealthHandler(cfg.ServiceName, cfg.Database)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Tenant registry, provisioning and membership. Anonymous calls are allowed; a caller with a
	// token becomes the owner of the tenants it creates.
	tenants := e.Group("/tenants", middleware.OptionalJWTMiddleware(cfg.JWT))
	NewTenantHandler(cfg.Tenants, cfg.ProvisionLimiter).Register(tenants)
	NewMemberHandler(cfg.Users).Register(tenants)

	// Authentication
	auth := NewAuthHandler(cfg.Users)
	authGroup := e.Group("/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWT))
	api.GET("/users/me", auth.Me)

	// Tenant-scoped routes
	tenantContext := middleware.TenantMiddleware(cfg.TenantLookup, cfg.Users, cfg.Resolver)
	scoped := func(prefix string) *echo.Group {
		return api.Group(prefix, tenantContext)
	}

	NewResourceHandler(repository.NewStore[model.Client]("client", "id"), true).Register(scoped("/clients"))
	NewResourceHandler(repository.NewStore[model.Supplier]("supplier", "id"), true).Register(scoped("/suppliers"))
	NewResourceHandler(repository.NewStore[model.Branch]("branch", "id"), true).Register(scoped("/branches"))
	NewResourceHandler(repository.NewStore[model.Department]("department", "id"), true).Register(scoped("/departments"))
	NewResourceHandler(repository.NewStore[model.Section]("section", "id"), true).Register(scoped("/sections"))
	NewResourceHandler(repository.NewStore[model.Category]("category", "id"), true).Register(scoped("/categories"))
	NewResourceHandler(repository.NewStore[model.Unit]("unit", "code"), false).Register(scoped("/units"))
	NewResourceHandler(repository.NewStore[model.Product]("product", "id"), true).Register(scoped("/products"))
	NewResourceHandler(repository.NewStore[model.Stock]("stock", "id"), true).Register(scoped("/stock"))

	NewOperatorHandler(cfg.Operators).Register(scoped("/operators"))
	NewSalesOrderHandler(cfg.Orders).Register(scoped("/sales-orders"))

	return e
}
