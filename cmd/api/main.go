package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"

	"pv-forecast/internal/api"
	"pv-forecast/internal/api/handlers"
	"pv-forecast/internal/config"
	"pv-forecast/internal/forecast"
	"pv-forecast/internal/log"
	"pv-forecast/internal/observability/metrics"
)

func main() {
	// get the port from PORT when running in a container
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	cfgPath := lflag.String("config", "examples/config.yaml", "Path to YAML config")
	systemsDir := lflag.String("systems-dir", "examples/systems", "Directory of PV system presets")
	origins := lflag.String("cors-origins", "", "comma-delimited list of allowed CORS origins (empty allows all)")
	cacheTTL := lflag.Duration("cache-ttl", time.Hour, "How long run results are served from cache")
	release := lflag.Bool("release", false, "Run gin in release mode")

	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
	log.SetDefaultLogLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *release {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	var allowed []string
	for _, o := range strings.Split(*origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}

	m := metrics.New()
	router := api.NewRouter(
		handlers.NewForecastHandler(cfg, *systemsDir, forecast.NewResultCache(*cacheTTL), m),
		handlers.NewSystemHandler(cfg, *systemsDir),
		m.Registry(),
	)
	srv := api.NewServer(*listenAddr, router, allowed)

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
