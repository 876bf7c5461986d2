// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/blocodev/wallethub/internal/bus"
	"github.com/blocodev/wallethub/internal/config"
	"github.com/blocodev/wallethub/internal/database"
	"github.com/blocodev/wallethub/internal/http"
	"github.com/blocodev/wallethub/internal/metrics"
	outboxRepository "github.com/blocodev/wallethub/internal/outbox/repository"
	outboxUsecase "github.com/blocodev/wallethub/internal/outbox/usecase"
	sagaHTTP "github.com/blocodev/wallethub/internal/saga/http"
	sagaRepository "github.com/blocodev/wallethub/internal/saga/repository"
	sagaUsecase "github.com/blocodev/wallethub/internal/saga/usecase"
	userHTTP "github.com/blocodev/wallethub/internal/user/http"
	userRepository "github.com/blocodev/wallethub/internal/user/repository"
	userUsecase "github.com/blocodev/wallethub/internal/user/usecase"
	walletHTTP "github.com/blocodev/wallethub/internal/wallet/http"
	walletRepository "github.com/blocodev/wallethub/internal/wallet/repository"
	walletUsecase "github.com/blocodev/wallethub/internal/wallet/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisBus        *bus.RedisStreamBus
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Repositories
	userRepo        userUsecase.UserRepository
	walletRepo      walletUsecase.WalletRepository
	transactionRepo walletUsecase.TransactionRepository
	outboxRepo      outboxUsecase.OutboxEventRepository
	sagaRepo        sagaUsecase.SagaRepository

	// Use Cases
	publisher     outboxUsecase.DomainEventPublisher
	userUseCase   userUsecase.UseCase
	walletUseCase walletUsecase.UseCase
	sagaMachine   *sagaUsecase.Machine
	outboxRelay   *outboxUsecase.Relay
	sagaListener  *sagaUsecase.Listener

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	redisBusInit        sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	txManagerInit       sync.Once
	userRepoInit        sync.Once
	walletRepoInit      sync.Once
	transactionRepoInit sync.Once
	outboxRepoInit      sync.Once
	sagaRepoInit        sync.Once
	publisherInit       sync.Once
	userUseCaseInit     sync.Once
	walletUseCaseInit   sync.Once
	sagaMachineInit     sync.Once
	outboxRelayInit     sync.Once
	sagaListenerInit    sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = txManager
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MessageBus returns the Redis Streams message bus.
func (c *Container) MessageBus() (*bus.RedisStreamBus, error) {
	c.redisBusInit.Do(func() {
		redisBus, err := bus.NewRedisStreamBus(context.Background(), bus.RedisConfig{
			Addr:     c.config.RedisAddr,
			Password: c.config.RedisPassword,
			DB:       c.config.RedisDB,
			Group:    c.config.BusConsumerGroup,
			Consumer: c.config.BusConsumerName,
		}, c.Logger())
		if err != nil {
			c.initErrors["redisBus"] = err
			return
		}
		c.redisBus = redisBus
	})
	if storedErr, exists := c.initErrors["redisBus"]; exists {
		return nil, storedErr
	}
	return c.redisBus, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Falls back to a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.userRepo = userRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.userRepo = userRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// WalletRepository returns the wallet repository instance.
func (c *Container) WalletRepository() (walletUsecase.WalletRepository, error) {
	c.walletRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["walletRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.walletRepo = walletRepository.NewMySQLWalletRepository(db)
		case "postgres":
			c.walletRepo = walletRepository.NewPostgreSQLWalletRepository(db)
		default:
			c.initErrors["walletRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["walletRepo"]; exists {
		return nil, storedErr
	}
	return c.walletRepo, nil
}

// TransactionRepository returns the transaction repository instance.
func (c *Container) TransactionRepository() (walletUsecase.TransactionRepository, error) {
	c.transactionRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["transactionRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.transactionRepo = walletRepository.NewMySQLTransactionRepository(db)
		case "postgres":
			c.transactionRepo = walletRepository.NewPostgreSQLTransactionRepository(db)
		default:
			c.initErrors["transactionRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["transactionRepo"]; exists {
		return nil, storedErr
	}
	return c.transactionRepo, nil
}

// OutboxRepository returns the outbox event repository instance.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	c.outboxRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["outboxRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.outboxRepo = outboxRepository.NewMySQLOutboxEventRepository(db)
		case "postgres":
			c.outboxRepo = outboxRepository.NewPostgreSQLOutboxEventRepository(db)
		default:
			c.initErrors["outboxRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// SagaRepository returns the saga repository instance.
func (c *Container) SagaRepository() (sagaUsecase.SagaRepository, error) {
	c.sagaRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["sagaRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.sagaRepo = sagaRepository.NewMySQLSagaRepository(db)
		case "postgres":
			c.sagaRepo = sagaRepository.NewPostgreSQLSagaRepository(db)
		default:
			c.initErrors["sagaRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["sagaRepo"]; exists {
		return nil, storedErr
	}
	return c.sagaRepo, nil
}

// EventPublisher returns the transactional outbox event publisher.
func (c *Container) EventPublisher() (outboxUsecase.DomainEventPublisher, error) {
	c.publisherInit.Do(func() {
		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			c.initErrors["publisher"] = err
			return
		}
		c.publisher = outboxUsecase.NewOutboxPublisher(outboxRepo)
	})
	if storedErr, exists := c.initErrors["publisher"]; exists {
		return nil, storedErr
	}
	return c.publisher, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	c.userUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		publisher, err := c.EventPublisher()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		useCase, err := userUsecase.NewUserUseCase(txManager, userRepo, publisher)
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		c.userUseCase = useCase
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// WalletUseCase returns the wallet use case instance.
func (c *Container) WalletUseCase() (walletUsecase.UseCase, error) {
	c.walletUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["walletUseCase"] = err
			return
		}
		walletRepo, err := c.WalletRepository()
		if err != nil {
			c.initErrors["walletUseCase"] = err
			return
		}
		transactionRepo, err := c.TransactionRepository()
		if err != nil {
			c.initErrors["walletUseCase"] = err
			return
		}
		publisher, err := c.EventPublisher()
		if err != nil {
			c.initErrors["walletUseCase"] = err
			return
		}
		c.walletUseCase = walletUsecase.NewWalletUseCase(txManager, walletRepo, transactionRepo, publisher)
	})
	if storedErr, exists := c.initErrors["walletUseCase"]; exists {
		return nil, storedErr
	}
	return c.walletUseCase, nil
}

// SagaMachine returns the saga state machine instance.
func (c *Container) SagaMachine() (*sagaUsecase.Machine, error) {
	c.sagaMachineInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["sagaMachine"] = err
			return
		}
		sagaRepo, err := c.SagaRepository()
		if err != nil {
			c.initErrors["sagaMachine"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["sagaMachine"] = err
			return
		}
		c.sagaMachine = sagaUsecase.NewMachine(txManager, sagaRepo, businessMetrics, c.Logger())
	})
	if storedErr, exists := c.initErrors["sagaMachine"]; exists {
		return nil, storedErr
	}
	return c.sagaMachine, nil
}

// OutboxRelay returns the outbox relay instance.
func (c *Container) OutboxRelay() (*outboxUsecase.Relay, error) {
	c.outboxRelayInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["outboxRelay"] = err
			return
		}
		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			c.initErrors["outboxRelay"] = err
			return
		}
		messageBus, err := c.MessageBus()
		if err != nil {
			c.initErrors["outboxRelay"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["outboxRelay"] = err
			return
		}
		relayConfig := outboxUsecase.Config{
			Interval:    c.config.OutboxInterval,
			BatchSize:   c.config.OutboxBatchSize,
			MaxAttempts: c.config.OutboxMaxAttempts,
		}
		c.outboxRelay = outboxUsecase.NewRelay(
			relayConfig, txManager, outboxRepo, messageBus, businessMetrics, c.Logger())
	})
	if storedErr, exists := c.initErrors["outboxRelay"]; exists {
		return nil, storedErr
	}
	return c.outboxRelay, nil
}

// SagaListener returns the saga event listener bound to all wallet event consumers.
func (c *Container) SagaListener() (*sagaUsecase.Listener, error) {
	c.sagaListenerInit.Do(func() {
		machine, err := c.SagaMachine()
		if err != nil {
			c.initErrors["sagaListener"] = err
			return
		}
		messageBus, err := c.MessageBus()
		if err != nil {
			c.initErrors["sagaListener"] = err
			return
		}
		logger := c.Logger()
		c.sagaListener = sagaUsecase.NewListener(
			messageBus,
			logger,
			sagaUsecase.NewWalletCreatedConsumer(machine, logger),
			sagaUsecase.NewFundsAddedConsumer(machine, logger),
			sagaUsecase.NewFundsWithdrawnConsumer(machine, logger),
			sagaUsecase.NewFundsTransferredConsumer(machine, logger),
		)
	})
	if storedErr, exists := c.initErrors["sagaListener"]; exists {
		return nil, storedErr
	}
	return c.sagaListener, nil
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisBus != nil {
		if err := c.redisBus.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("message bus close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	walletUseCase, err := c.WalletUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet use case for http server: %w", err)
	}

	machine, err := c.SagaMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to get saga machine for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(
		c.config,
		logger,
		meterProviderOrNil(provider),
		userHTTP.NewUserHandler(userUseCase, logger),
		walletHTTP.NewWalletHandler(walletUseCase, logger),
		sagaHTTP.NewSagaHandler(machine, logger),
	)

	return server, nil
}

// meterProviderOrNil unwraps the provider so a disabled metrics setup passes a
// nil interface instead of a typed nil pointer.
func meterProviderOrNil(provider *metrics.Provider) metric.MeterProvider {
	if provider == nil {
		return nil
	}
	return provider.MeterProvider()
}
