package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"playpedia/internal/api"
	"playpedia/internal/bot"
	"playpedia/internal/catalog"
	"playpedia/internal/config"
	"playpedia/internal/redis"
	"playpedia/internal/web"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load("configs")
	if err != nil {
		slog.Error("init config err", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rawgAPI := api.NewRawgAPI(cfg.Rawg.APIKey, cfg.Rawg.BaseURL, cfg.Rawg.PageSize, cfg.Rawg.Timeout)
	cat := catalog.New(rawgAPI)

	webDone := make(chan error, 1)
	if cfg.HTTP.Enabled {
		srv, err := web.NewServer(web.Config{
			Addr:              cfg.HTTP.Addr,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
			SidebarSize:       cfg.Rawg.SidebarSize,
		}, cat)
		if err != nil {
			slog.Error("failed to create web server", "error", err)
			os.Exit(1)
		}
		go func() { webDone <- srv.ListenAndServe(ctx) }()
	}

	var tgBot *bot.Bot
	var redisClient *redis.RedisClient
	if cfg.Telegram.Enabled {
		redisClient, err = redis.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			slog.Error("failed to create Redis client", "error", err)
			os.Exit(1)
		}

		tgBot, err = bot.NewBot(cfg.Telegram.Token, redisClient, cat, cfg.Redis.TTL)
		if err != nil {
			slog.Error("failed to create bot", "error", err)
			os.Exit(1)
		}
		go tgBot.Start()
	}

	webRunning := cfg.HTTP.Enabled
	select {
	case <-ctx.Done():
	case err := <-webDone:
		webRunning = false
		if err != nil {
			slog.Error("web server stopped", "error", err)
		}
		stop()
	}

	slog.Info("Shutting down gracefully...")
	if tgBot != nil {
		tgBot.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}
	if webRunning {
		if err := <-webDone; err != nil {
			slog.Error("web server shutdown", "error", err)
		}
	}
	slog.Info("Application shutdown complete")
}
