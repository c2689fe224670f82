package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/omniagent/cognition/internal/agents"
	"github.com/omniagent/cognition/internal/config"
	"github.com/omniagent/cognition/internal/persona"
	"github.com/omniagent/cognition/internal/policy"
	"github.com/omniagent/cognition/internal/reason"
	"github.com/omniagent/cognition/internal/server"
	"github.com/omniagent/cognition/internal/supervisor"
)

// #region main

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	constants, err := config.LoadWorldConstants(cfg.ConstantsPath, logger)
	if err != nil {
		logger.Fatal("failed to load world constants", zap.Error(err))
	}

	store, err := policy.NewStore(cfg.PolicyDB)
	if err != nil {
		logger.Fatal("failed to open policy store", zap.Error(err))
	}
	defer store.Close()

	gemini, err := reason.NewGeminiProvider(ctx, reason.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.ReasonModel,
		Timeout: cfg.ReasonTimeout,
	})
	if err != nil {
		logger.Fatal("failed to create reasoning provider", zap.Error(err))
	}
	provider := reason.WithRetry(gemini, cfg.ReasonRetries)

	personas := persona.NewStore(cfg.PersonaDir)
	runner := supervisor.NewRunner(
		agents.NewInterfaceAgent(provider, logger),
		agents.NewRulesAgent(provider, constants, logger),
		agents.NewDialogueAgent(provider, personas, cfg.PersonaName, logger),
		logger,
	)

	go serveHealth(ctx, cfg.HealthAddr, logger)

	ws := server.New(runner, logger)
	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: ws.Handler()}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	logger.Info("cognition engine listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("model", cfg.ReasonModel),
		zap.Float64("max_damage", constants.MaxDamage))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("engine server failed", zap.Error(err))
	}
}

// #endregion main

// #region health

// serveHealth runs the ops-facing gRPC health endpoint on a side port.
func serveHealth(ctx context.Context, addr string, logger *zap.Logger) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Warn("health listener failed", zap.Error(err))
		return
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	if err := grpcServer.Serve(listener); err != nil {
		logger.Warn("health server stopped", zap.Error(err))
	}
}

// #endregion health

// #region logger

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// #endregion logger
