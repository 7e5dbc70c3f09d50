// Command taskqueued runs the task-queue server: the HTTP/JSON REST
// API and the MCP tool-invocation surface, both mounted on one
// net/http listener, backed by a shared service layer and bbolt store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hivellm/taskqueue-go/internal/auth"
	"github.com/hivellm/taskqueue-go/internal/config"
	"github.com/hivellm/taskqueue-go/internal/httpapi"
	"github.com/hivellm/taskqueue-go/internal/mcp"
	"github.com/hivellm/taskqueue-go/internal/metrics"
	"github.com/hivellm/taskqueue-go/internal/service"
	"github.com/hivellm/taskqueue-go/internal/sidefile"
	"github.com/hivellm/taskqueue-go/internal/store"
	"github.com/hivellm/taskqueue-go/internal/tools"
	"github.com/hivellm/taskqueue-go/internal/vectorizer"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to task-queue.toml")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level)

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.New(prometheus.NewRegistry())
	}

	kv := store.Open(cfg.Store.DBPath, logger)
	defer kv.Close()

	svc, err := service.New(kv, logger, service.Options{
		Side:      &sidefile.Writer{Dir: cfg.Store.DBPath, Logger: logger},
		Vectorizer: vectorizer.Noop{},
		Metrics:   reg,
	})
	if err != nil {
		logger.Error("constructing service", "error", err)
		os.Exit(1)
	}

	registry := mcp.NewRegistry()
	registerTools(registry, svc)

	mcpServer := mcp.NewServer(registry, mcp.ServerInfo{Name: "taskqueued", Version: "0.1.0"}, logger)
	mcpHTTP := mcp.NewHTTPServer(mcpServer, cfg.Server.CORSOrigins, logger)

	corsOrigins := strings.Split(cfg.Server.CORSOrigins, ",")

	var handler http.Handler = httpapi.New(svc, logger, reg, corsOrigins)
	if cfg.Auth.Enabled {
		gate, err := auth.NewGate(cfg.Auth.Secret, logger)
		if err != nil {
			logger.Error("constructing auth gate", "error", err)
			os.Exit(1)
		}
		handler = gate.Middleware(handler)
		logger.Info("auth gate enabled")
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp/", mcpHTTP.Handler())
	mux.Handle("/", handler)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func registerTools(registry *mcp.Registry, svc *service.Service) {
	registry.Register(tools.NewSubmitTask(svc))
	registry.Register(tools.NewGetTask(svc))
	registry.Register(tools.NewListTasks(svc))
	registry.Register(tools.NewCancelTask(svc))
	registry.Register(tools.NewDeleteTask(svc))
	registry.Register(tools.NewUpdateTask(svc))
	registry.Register(tools.NewUpsertTask(svc))
	registry.Register(tools.NewAdvanceWorkflowPhase(svc))
	registry.Register(tools.NewSetTechnicalDocumentation(svc))
	registry.Register(tools.NewSetTestCoverage(svc))
	registry.Register(tools.NewAddAIReviewReport(svc))
	registry.Register(tools.NewCreateProject(svc))
	registry.Register(tools.NewGetProject(svc))
	registry.Register(tools.NewListProjects(svc))
	registry.Register(tools.NewGetProjectTasks(svc))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
