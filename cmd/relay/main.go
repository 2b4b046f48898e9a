package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"shadowtalk/internal/app"
	"shadowtalk/internal/relayserver"
)

type config struct {
	Listen      string        `yaml:"listen"`
	LogLevel    string        `yaml:"log_level"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

func defaultConfig() config {
	return config{
		Listen:      ":8080",
		LogLevel:    "info",
		PollTimeout: relayserver.DefaultPollTimeout,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	var (
		listen     = flag.String("listen", "", "listen address (overrides config)")
		configPath = flag.String("config", "", "path to YAML config")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	log := app.NewLogger(cfg.LogLevel)
	srv := relayserver.New(log, relayserver.WithPollTimeout(cfg.PollTimeout))

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info("relay listening", "addr", cfg.Listen)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("serve failed", "err", err)
		os.Exit(1)
	}
	log.Info("relay stopped")
}
