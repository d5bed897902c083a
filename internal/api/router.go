package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fitcoach/coaching-platform/docs"
	"github.com/fitcoach/coaching-platform/internal/api/handler"
	"github.com/fitcoach/coaching-platform/internal/api/middleware"
	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
	"github.com/fitcoach/coaching-platform/internal/core/service"
	"github.com/fitcoach/coaching-platform/internal/infrastructure/config"
	mongodb "github.com/fitcoach/coaching-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/fitcoach/coaching-platform/internal/infrastructure/db/redis"
	"github.com/fitcoach/coaching-platform/internal/infrastructure/queue"
	"github.com/fitcoach/coaching-platform/pkg/logger"
)

// NewRouter wires repositories, services and handlers and returns the
// Echo instance with all routes registered, plus the notification
// dispatcher the caller is responsible for starting.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config) (*echo.Echo, *queue.Notifier) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Component("api"))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("coaching"))

	// --- Repositories ---
	recordStore := mongodb.NewRecordStore(db)
	roleRepo := mongodb.NewRoleRepository(db)
	assignmentRepo := mongodb.NewAssignmentRepository(db)
	accountRepo := mongodb.NewAccountRepository(db)

	var roleCache ports.RoleCache
	if rdb != nil {
		roleCache = redisdb.NewRoleCache(rdb)
	}

	// --- Services ---
	roles := service.NewRoleService(roleRepo, roleCache, logger.Component("roles"))
	relationships := service.NewRelationshipService(assignmentRepo, logger.Component("relationships"))
	gateway := service.NewGatewayService(recordStore, relationships, logger.Component("gateway"))
	resolver := service.NewAuthContextResolver(roles)

	notifier := queue.NewNotifier(cfg.NotifierWorkers, gateway, logger.Component("notifier"))
	accounts := service.NewAccountService(accountRepo, roles, relationships, notifier, cfg.JWTSecret, 0, cfg.DefaultTrainerID, logger.Component("accounts"))

	// --- Handlers ---
	accountHandler := handler.NewAccountHandler(accounts)
	recordsHandler := handler.NewRecordsHandler(gateway, notifier)
	relationshipHandler := handler.NewRelationshipHandler(relationships)
	adminHandler := handler.NewAdminHandler(roles, relationships, gateway, notifier)

	// --- Public routes ---
	e.POST("/v1/auth/register", accountHandler.Register)
	e.POST("/v1/auth/login", accountHandler.Login)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	// Auth validates the token, ResolveAuthContext turns the token's
	// identity into a role-bearing AuthContext. Every handler below
	// receives its caller's context from this chain.
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret), middleware.ResolveAuthContext(resolver))

	v1.GET("/records/:collection", recordsHandler.List)
	v1.POST("/records/:collection", recordsHandler.Create)
	v1.GET("/records/:collection/:id", recordsHandler.Get)
	v1.PUT("/records/:collection/:id", recordsHandler.Update)
	v1.DELETE("/records/:collection/:id", recordsHandler.Delete)

	v1.GET("/clients/:clientId/records/:collection", recordsHandler.ListForClient)
	v1.GET("/trainers/:trainerId/records/:collection", recordsHandler.ListForTrainer)

	v1.GET("/trainers/me/clients", relationshipHandler.MyClients, middleware.RBAC(domain.RoleTrainer, domain.RoleAdmin))
	v1.GET("/clients/me/trainer", relationshipHandler.MyTrainer, middleware.RBAC(domain.RoleClient))

	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.PUT("/members/:memberId/role", adminHandler.SetRole)
	admin.POST("/assignments", adminHandler.Assign)
	admin.POST("/assignments/reassign", adminHandler.Reassign)
	admin.GET("/integrity/:collection", adminHandler.Audit)

	return e, notifier
}
