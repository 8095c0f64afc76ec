package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mhellwig/forumpulse/internal/config"
	"github.com/mhellwig/forumpulse/internal/domain"
	apperrors "github.com/mhellwig/forumpulse/internal/errors"
)

// ReactionService is the application layer surface the HTTP handlers need.
type ReactionService interface {
	Apply(ctx context.Context, userID int64, target domain.TargetRef, action domain.Action) (*domain.TransitionResult, error)
	Status(ctx context.Context, userID int64, target domain.TargetRef) (domain.ReactionStatus, error)
	Counts(ctx context.Context, target domain.TargetRef) (likes, dislikes int64, err error)
	BatchStatus(ctx context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) (map[int64]domain.ReactionStatus, error)
	WarmTarget(ctx context.Context, target domain.TargetRef) error
	WarmTargets(ctx context.Context, targetType domain.TargetType, targetIDs []int64) int
}

// redisHealthChecker is a minimal interface for Redis health checks
type redisHealthChecker interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       ReactionService
	redis     redisHealthChecker
	postgres  postgresHealthChecker
	startTime time.Time
}

func NewServer(cfg *config.Config, app ReactionService, redis redisHealthChecker, postgres postgresHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		redis:     redis,
		postgres:  postgres,
		startTime: time.Now(),
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
