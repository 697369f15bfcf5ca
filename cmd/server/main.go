package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/moldandyeast/tinyfeed/internal/config"
	"github.com/moldandyeast/tinyfeed/internal/db"
	"github.com/moldandyeast/tinyfeed/internal/handler"
	tfhttp "github.com/moldandyeast/tinyfeed/internal/http"
	"github.com/moldandyeast/tinyfeed/internal/pages"
	"github.com/moldandyeast/tinyfeed/internal/repository"
	"github.com/moldandyeast/tinyfeed/internal/service"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
	"github.com/moldandyeast/tinyfeed/pkg/snowflake"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Docker healthchecks run the binary itself in distroless images.
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(cfg.Addr); err != nil {
			fmt.Fprintf(os.Stderr, "healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger.Init(logger.ParseLevel(cfg.LogLevel))
	if err := run(cfg); err != nil {
		logger.Error("server exited", "module", "main", "action", "run", "resource", "server", "result", "failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited properly", "module", "main", "action", "shutdown", "resource", "server", "result", "ok")
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := snowflake.Init(cfg.SnowflakeNode); err != nil {
		return fmt.Errorf("init snowflake: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	renderer, err := pages.NewRenderer()
	if err != nil {
		return err
	}

	feedService := service.NewFeedService(repository.NewFeedRepository(database), cfg.KeyCost, nil)

	e := tfhttp.NewRouter(
		handler.NewFeedHandler(feedService),
		handler.NewPageHandler(feedService, renderer, cfg.BaseURL, nil),
		cfg.StaticDir,
		cfg.EnableSwagger,
	)
	e.Server.ReadHeaderTimeout = 10 * time.Second

	logger.Info("starting server", "module", "main", "action", "start", "resource", "server", "result", "ok", "addr", cfg.Addr, "db", cfg.DBPath, "swagger", cfg.EnableSwagger)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server", "module", "main", "action", "shutdown", "resource", "server", "result", "ok")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runHealthcheck(addr string) error {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + host + "/healthz")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
