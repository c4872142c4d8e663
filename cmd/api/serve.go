package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/auth"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/gateway"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.serve(cmd.Context())
		},
	}
}

func (e *env) serve(ctx context.Context) error {
	cfg, logger, err := e.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	tp, err := initTracer()
	if err != nil {
		logger.Error("Failed to initialize tracer", zap.Error(err))
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	service, store, err := newService(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize service", zap.Error(err))
		return err
	}
	defer store.Close()

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled() {
		jwtManager, err = auth.NewJWTManager(cfg.JWTSecret)
		if err != nil {
			logger.Error("Failed to initialize JWT manager", zap.Error(err))
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gateway.NewRouter(service, jwtManager, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // a completing turn makes two generator calls
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting Spec Elicitor API server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("Failed to start server", zap.Error(err))
			return err
		}
		return nil
	case <-quit:
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}

// initTracer initializes OpenTelemetry tracing
func initTracer() (*trace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
