package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/api"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/auth"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/config"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/events"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/middleware"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/repository"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/service"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/sweeper"
	"github.com/ecocaval/Bate-Papo-UOL-API/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	if cfg.App.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	mc, err := repository.NewMongoClient(cfg.Mongo.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	store := repository.NewMongoStore(mc.Database(cfg.Mongo.DB))

	var rdb *redis.Client
	var limiter *middleware.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if cfg.Rate.PerMin > 0 {
			limiter = middleware.NewRateLimiter(rdb, "rl", cfg.Rate.PerMin, time.Minute)
		}
	}

	pub := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	issuer := auth.NewIssuer(cfg.JWT.HSSecret, cfg.JWT.TTLDuration())

	ctx, cancel := context.WithCancel(context.Background())

	hub := ws.NewHub()
	go hub.Run(ctx)

	svc := service.NewChatService(store, hub, pub, issuer, log.Logger)

	sw := sweeper.New(svc, cfg.Sweep.IntervalDuration(), log.Logger)
	go func() {
		if err := sw.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("sweeper stopped")
		}
	}()

	app := api.NewServer(svc, issuer, hub, limiter)
	go func() {
		log.Info().Msgf("batepapo listening on :%s", cfg.App.PortString())
		if err := app.Listen(":" + cfg.App.PortString()); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()
	hub.Close()

	if err := pub.Close(); err != nil {
		log.Error().Err(err).Msg("close kafka publisher")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeoutDuration())
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("fiber shutdown")
	}
	if err := mc.Disconnect(context.Background()); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	log.Info().Msg("stopped")
}
