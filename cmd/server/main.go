package main

import (
	"context"
	"dm-lab/auth"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"dm-lab/infrastructure/grpc/api"
	"dm-lab/infrastructure/grpc/server"
	"dm-lab/infrastructure/rest"
	"dm-lab/internal"
	"dm-lab/moderation"
	"dm-lab/presence"
	"dm-lab/repositories"
	"dm-lab/runtime"
	"dm-lab/runtime/workers"
	"dm-lab/search"
	"dm-lab/services"
	"dm-lab/sink"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	grpclog "github.com/mama165/sdk-go/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const (
	presencePrefix  = "dm:presence"
	shutdownTimeout = 5 * time.Second
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups (stores, index, brokers) run before the exit code reaches main.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if config.DebugPort > 0 && logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, RecordMapper)
	}

	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger)

	// 3. Presence
	tracker, closeTracker, err := buildPresence(ctx, config)
	if err != nil {
		return exitRuntime, err
	}
	defer closeTracker()

	// 4. Fan-out (hub, supervised workers, permanent sinks)
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	hub := runtime.NewHub(logger, supervisor, runtime.NewRegistry(),
		config.NumberOfWorkers, config.BufferSize, config.SinkTimeout)

	supervisor.Add(workers.NewChannelCapacityWorker(logger, hub.Channels(),
		event.NewChannelCapacityHandler(logger, config.LowCapacityThreshold), config.MetricInterval))

	hub.Add(sink.NewLatencySink(logger, config.LatencyThreshold))

	var searcher contract.MessageSearcher
	if config.BlugeFilepath != "" {
		blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
		}
		defer func() {
			logger.Info("Closing Bluge...")
			_ = blugeWriter.Close()
		}()
		index := search.NewIndex(blugeWriter, logger)
		searcher = index
		hub.Add(sink.NewSearchSink(index, logger))
	}

	if brokers := config.Brokers(); len(brokers) > 0 {
		kafkaSink := sink.NewKafkaSink(sink.NewKafkaWriter(brokers, config.KafkaTopic), logger)
		defer func() {
			logger.Info("Closing Kafka writer...")
			_ = kafkaSink.Close()
		}()
		hub.Add(kafkaSink)
		logger.Info("Event stream enabled", "brokers", brokers, "topic", config.KafkaTopic)
	}

	var filter contract.ContentFilter
	if config.ModerationEnabled {
		words, err := moderation.NewEmbeddedLoader().LoadAll(moderation.CensoredDir)
		if err != nil {
			return exitConfig, fmt.Errorf("censored words: %w", err)
		}
		moderator, err := moderation.NewModerator(words.Words, charReplacement, logger)
		if err != nil {
			return exitConfig, err
		}
		filter = moderator
		logger.Info("Moderation enabled", "words", len(words.Words), "languages", words.Languages)
	}

	// 5. Services
	tokens := auth.NewTokenManager(config.TokenKey, config.AuthTokenDuration)
	messageService := services.NewMessageService(logger, userRepository, messageRepository,
		tracker, hub, searcher, filter, config.MaxContentLength)
	connectionService := services.NewConnectionService(logger, userRepository, tracker, hub,
		messageService, config.ConnectionBufferSize, presenceRefreshInterval(config))
	authService := services.NewAuthService(userRepository, tokens)

	errChan := make(chan error, 2)

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Start(ctx)
	}()

	// 6. gRPC Server Setup
	grpcAddress := fmt.Sprintf("%s:%d", config.Host, config.GRPCPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}
	interceptor := auth.NewInterceptor(tokens, api.PublicMethods...)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpclog.UnaryLoggingInterceptor(logger),
			interceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	api.RegisterMessageServiceServer(grpcServer, server.NewMessageServer(logger, messageService, connectionService))
	api.RegisterAuthServiceServer(grpcServer, server.NewAuthServer(authService))

	go func() {
		logger.Info("Starting gRPC server", "address", grpcAddress, "at", time.Now().UTC())
		for serviceName := range grpcServer.GetServiceInfo() {
			logger.Debug("gRPC exposed service", "name", serviceName)
		}
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. HTTP & websocket Server Setup
	httpAddress := fmt.Sprintf("%s:%d", config.Host, config.HTTPPort)
	app := rest.NewServer(logger, tokens, messageService, connectionService, authService).App()
	go func() {
		logger.Info("Starting HTTP server", "address", httpAddress)
		if err := app.Listen(httpAddress); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		logger.Error("Server failure, shutting down", "error", runErr)
	}

	// 9. Final Cleanup (Graceful Shutdown)
	// Transports stop first so no connection publishes into a stopped hub.
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	grpcServer.GracefulStop()
	hub.Stop()
	<-hubDone
	logger.Info("Program stopped cleanly")

	if runErr != nil {
		return exitRuntime, runErr
	}
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// presenceRefreshInterval keeps redis entries alive at half their ttl.
func presenceRefreshInterval(config internal.Config) time.Duration {
	if config.PresenceBackend != internal.PresenceRedis {
		return 0
	}
	return config.PresenceTTL / 2
}

// buildPresence returns the tracker selected by PRESENCE_BACKEND and its cleanup.
func buildPresence(ctx context.Context, config internal.Config) (contract.PresenceTracker, func(), error) {
	if config.PresenceBackend != internal.PresenceRedis {
		return presence.NewMemoryTracker(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis unreachable at %s: %w", config.RedisAddr, err)
	}
	return presence.NewRedisTracker(client, presencePrefix, config.PresenceTTL), func() { _ = client.Close() }, nil
}
