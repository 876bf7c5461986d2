package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"github.com/blocodev/wallethub/internal/config"
	"github.com/blocodev/wallethub/internal/metrics"
	sagaHTTP "github.com/blocodev/wallethub/internal/saga/http"
	userHTTP "github.com/blocodev/wallethub/internal/user/http"
	walletHTTP "github.com/blocodev/wallethub/internal/wallet/http"
)

// Server represents the API HTTP server
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server with all routes and middleware wired.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	meterProvider metric.MeterProvider,
	userHandler *userHTTP.UserHandler,
	walletHandler *walletHTTP.WalletHandler,
	sagaHandler *sagaHTTP.SagaHandler,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.RateLimitEnabled {
		router.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/users", userHandler.RegisterUser)
		v1.POST("/login", userHandler.Login)
		v1.GET("/users/:id", userHandler.GetUser)

		v1.POST("/wallets", walletHandler.CreateWallet)
		v1.GET("/wallets", walletHandler.ListWallets)
		v1.GET("/wallets/:id", walletHandler.GetWallet)
		v1.POST("/wallets/:id/deposits", walletHandler.Deposit)
		v1.POST("/wallets/:id/withdrawals", walletHandler.Withdraw)
		v1.GET("/wallets/:id/transactions", walletHandler.ListTransactions)
		v1.POST("/transfers", walletHandler.Transfer)

		v1.GET("/sagas/:correlation_id", sagaHandler.GetSaga)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
