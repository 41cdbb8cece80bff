package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/suteetoe/retail-backend/internal/cache"
	"github.com/suteetoe/retail-backend/internal/handler"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"github.com/suteetoe/retail-backend/internal/service"
	"github.com/suteetoe/retail-backend/internal/tenancy"
	"github.com/suteetoe/retail-backend/pkg/config"
	"github.com/suteetoe/retail-backend/pkg/database"
	"github.com/suteetoe/retail-backend/pkg/jwtutil"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "retail-backend"

var rootCmd = &cobra.Command{
	Use:          "retail-backend",
	Short:        "Multi-tenant retail backend",
	Long:         `Serves the tenant registry and the per-tenant retail API. Each tenant lives in its own PostgreSQL schema.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the shared schema and its tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.provisioner.EnsureSharedSchema(cmd.Context(), model.SharedModels()...); err != nil {
			return err
		}
		a.log.Info("Shared schema is up to date", zap.String("schema", a.cfg.DB.SharedSchema))
		return nil
	},
}

var provisionCmd = &cobra.Command{
	Use:   "provision <tenant-id>",
	Short: "Create the schema and tables of a registered tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTenantID(args[0])
		if err != nil {
			return err
		}

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		return provisionTenant(cmd.Context(), a.tenants, id, cmd.OutOrStdout())
	},
}

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "Tenant registry operations",
}

var tenantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tenants",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		return listTenants(cmd.Context(), a.tenants, cmd.OutOrStdout())
	},
}

// tenantRegistry is the part of the tenant service the admin commands use
type tenantRegistry interface {
	ListTenants(ctx context.Context) ([]model.Tenant, error)
	ProvisionTenant(ctx context.Context, id uint) (*model.Tenant, error)
}

func parseTenantID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid tenant id %q", raw)
	}
	return uint(id), nil
}

func provisionTenant(ctx context.Context, tenants tenantRegistry, id uint, out io.Writer) error {
	tenant, err := tenants.ProvisionTenant(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "tenant %d provisioned in schema %q\n", tenant.ID, tenant.SchemaName)
	return nil
}

func listTenants(ctx context.Context, tenants tenantRegistry, out io.Writer) error {
	list, err := tenants.ListTenants(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-6s %-63s %-24s %s\n", "ID", "SCHEMA", "NAME", "STATUS")
	for _, t := range list {
		name := ""
		if t.Name != nil {
			name = *t.Name
		}
		fmt.Fprintf(out, "%-6d %-63s %-24s %s\n", t.ID, t.SchemaName, name, t.Status)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(provisionCmd)

	tenantsCmd.AddCommand(tenantsListCmd)
	rootCmd.AddCommand(tenantsCmd)
}

// app holds the wiring shared by all commands
type app struct {
	cfg         *config.Config
	log         *zap.Logger
	pool        *sql.DB
	resolver    *tenancy.Resolver
	provisioner *tenancy.Provisioner
	cache       cache.TenantCache
	tenants     *service.TenantService
	closers     []func() error
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", cfg.LogConfig()...)

	gormLogger := database.NewGormLogger(&cfg.DB, log)
	pool, err := database.Open(&cfg.DB, gormLogger)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection established")

	a := &app{cfg: cfg, log: log, pool: pool, closers: []func() error{pool.Close}}

	a.resolver = tenancy.NewResolver(pool, gormLogger)
	a.provisioner = tenancy.NewProvisioner(a.resolver, cfg.DB.SharedSchema, model.TenantModels())

	a.cache = cache.NopTenantCache{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisTenantCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.cache = redisCache
		a.closers = append(a.closers, redisCache.Close)
		log.Info("Tenant cache enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	shared, err := a.resolver.For(cfg.DB.SharedSchema)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.tenants = service.NewTenantService(repository.NewTenantRepository(shared), a.provisioner, a.cache, cfg.DB.SharedSchema)

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Failed to close resource", zap.Error(err))
		}
	}
	a.log.Sync()
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.provisioner.EnsureSharedSchema(ctx, model.SharedModels()...); err != nil {
		return err
	}

	shared, err := a.resolver.For(a.cfg.DB.SharedSchema)
	if err != nil {
		return err
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      a.cfg.JWT.SigningKey,
		ExpirationHours: a.cfg.JWT.ExpirationHours,
	})

	e := handler.NewRouter(handler.RouterConfig{
		ServiceName:  a.cfg.ServiceName,
		MetricsLabel: a.cfg.Metrics.Prefix,
		Tenants:      a.tenants,
		TenantLookup: a.tenants,
		Resolver:     a.resolver,
		Users: service.NewUserService(
			repository.NewUserRepository(shared),
			repository.NewMembershipRepository(shared),
			a.tenants,
			jwt,
		),
		Orders:           service.NewSalesOrderService(repository.NewSalesOrderRepository()),
		Operators:        service.NewOperatorService(repository.NewStore[model.Operator]("operator", "id")),
		JWT:              jwt,
		Database:         a.pool,
		ProvisionLimiter: rate.NewLimiter(rate.Limit(a.cfg.Provisioning.RatePerSecond), a.cfg.Provisioning.Burst),
	})

	go a.refreshTenantGauge(ctx, 30*time.Second)

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		serverErr <- e.Start(":" + a.cfg.Server.Port)
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func (a *app) refreshTenantGauge(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if err := a.tenants.RefreshTenantGauge(ctx); err != nil && ctx.Err() == nil {
			a.log.Warn("Failed to refresh tenant gauge", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
