package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/config"
	"github.com/forkful/forkful-v2/backend/internal/router"
	"github.com/forkful/forkful-v2/backend/internal/service"
)

// Server owns the HTTP listener and the background expiry sweeper.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	httpSrv *http.Server
	sweeper *service.ChatService
	logger  *zap.Logger

	cancelSweeper context.CancelFunc
}

// New builds the server. The sweeper goroutine is started by Run, not here.
func New(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, responder service.Responder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := router.New(db, redisClient, cfg, responder, logger)

	return &Server{
		cfg:    cfg,
		engine: engine,
		httpSrv: &http.Server{
			Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sweeper: service.NewChatService(db, responder, logger),
		logger:  logger,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the expiry sweeper and serves HTTP until the listener fails or
// Shutdown is called.
func (s *Server) Run() error {
	sweepCtx, cancel := context.WithCancel(context.Background())
	s.cancelSweeper = cancel
	go s.sweeper.RunSweeper(sweepCtx, s.cfg.SweepInterval)

	s.logger.Info("server listening",
		zap.String("addr", s.httpSrv.Addr),
		zap.Duration("sweep_interval", s.cfg.SweepInterval),
	)

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the sweeper and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelSweeper != nil {
		s.cancelSweeper()
	}
	s.logger.Info("shutting down server")
	return s.httpSrv.Shutdown(ctx)
}
