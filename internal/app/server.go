// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"time"

	"adminboard-service/internal/config"
	"adminboard-service/internal/db"
	authHandler "adminboard-service/internal/handlers/auth"
	userHandler "adminboard-service/internal/handlers/user"
	"adminboard-service/internal/middleware"
	"adminboard-service/internal/pkg/limiter"
	"adminboard-service/internal/pkg/token"
	"adminboard-service/internal/repository/postgres"
	authUsecase "adminboard-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	if err := postgres.Migrate(ctx, s.cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	pool, err := postgres.Connect(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis (optional: token versions + login rate limiting) -----
	var redisClient *redis.Client
	if s.cfg.RedisAddr != "" {
		redisClient, err = db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
	} else {
		logger.Warn("redis not configured, token versioning and login rate limiting disabled")
	}

	// ----- Token codec -----
	codec, err := token.NewCodec(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token codec: %w", err)
	}

	var versions *token.VersionStore
	var loginLimiter *limiter.LoginLimiter
	if redisClient != nil {
		versions = token.NewVersionStore(redisClient)
		loginLimiter = limiter.NewLoginLimiter(redisClient)
	}

	// ----- Repositories & services -----
	userRepo := postgres.NewUserRepository(pool)
	authService := authUsecase.NewService(userRepo, codec, versions, s.cfg.TokenVersionEnforced, logger)

	// ----- Seed admin -----
	if err := s.ensureSeedAdmin(ctx, authService); err != nil {
		// Don't fail startup, just log the error
		logger.Error("failed to ensure seed admin", zap.Error(err))
	}

	// ----- Handlers -----
	cookieMaxAge := int(s.cfg.Token.RefreshTTL.Seconds())
	authHandlerInst := authHandler.NewAuthHandler(authService, loginLimiter, cookieMaxAge, s.cfg.Production(), logger)
	userHandlerInst := userHandler.NewUserHandler(authService, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigins),
		middleware.RequestGate(authHandler.RefreshCookieName),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:    authHandlerInst,
		UserHandler:    userHandlerInst,
		AuthMiddleware: authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}

// ensureSeedAdmin creates the bootstrap ADMIN account if it is missing.
func (s *Server) ensureSeedAdmin(ctx context.Context, authService *authUsecase.Service) error {
	if s.cfg.SeedAdminPassword == "" {
		s.logger.Warn("SEED_ADMIN_PASSWORD not set, skipping seed admin")
		return nil
	}

	seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return authService.EnsureSeedAdmin(seedCtx, s.cfg.SeedAdminEmail, s.cfg.SeedAdminPassword)
}
