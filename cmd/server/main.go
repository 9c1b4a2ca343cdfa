package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/repository"
	"github.com/curtaincall/curtaincall-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

const shutdownTimeout = 15 * time.Second

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting curtain call server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := content.NewLoader(logger).Load(ctx, cfg.Content.Path)
	if err != nil {
		logger.Fatal("failed to load content", zap.Error(err))
	}

	store, err := repository.NewStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	var managerOpts []server.ManagerOption
	if cfg.Replay.Dir != "" {
		managerOpts = append(managerOpts, server.WithReplayRecorder(game.NewReplayRecorder(logger, cfg.Replay.Dir)))
		logger.Info("replay recording enabled", zap.String("dir", cfg.Replay.Dir))
	}
	sessions := server.NewSessionManager(catalog, cfg.Engine, store, logger, managerOpts...)

	go sessions.CleanupExpiredSessions(ctx, cfg.Server.SessionTTL, time.Minute)

	grpcServer := grpc.NewServer(append(server.ServerOptions(logger),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)...)
	server.RegisterCombatServer(grpcServer, server.NewCombatServer(sessions, logger))

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.Error(err))
	}

	go func() {
		logger.Info("starting gRPC server", zap.String("address", cfg.Server.GRPCAddr))
		if serveErr := grpcServer.Serve(lis); serveErr != nil {
			logger.Error("gRPC server error", zap.Error(serveErr))
			stop()
		}
	}()

	logger.Info("curtain call server initialized",
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("difficulty", cfg.Engine.Difficulty),
		zap.Duration("session_ttl", cfg.Server.SessionTTL),
	)

	<-ctx.Done()
	logger.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		logger.Warn("graceful stop timed out, forcing")
		grpcServer.Stop()
	}

	if err := sessions.CloseAll(shutdownCtx); err != nil {
		logger.Error("failed to persist sessions", zap.Error(err))
	}

	logger.Info("curtain call server stopped")
}

// initLogger builds the zap logger described by the logging section.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
