package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"heartlink/internal/config"
	"heartlink/internal/conversation"
	"heartlink/internal/gateway"
	httpserver "heartlink/internal/http"
	"heartlink/internal/http/handler"
	"heartlink/internal/session"
	"heartlink/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("production")
		log.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.App.Env)

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("load timezone")
	}

	labels, err := conversation.NewLabels(cfg.App.Locale)
	if err != nil {
		log.Fatal().Err(err).Msg("load labels")
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.Session.Store == config.StoreRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
		}
		store = session.NewRedisStore(redisClient, cfg.Session.Key)
	}

	sess := session.New(store)
	if err := sess.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restore session")
	}

	api := gateway.New(sess, gateway.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  &log,
	})

	vm := conversation.New(api, conversation.Options{
		PollInterval: cfg.Poll.Interval,
		Logger:       &log,
		SelfID:       sess.UserID,
	})
	defer vm.Close()

	router := httpserver.NewRouter(httpserver.Handlers{
		Session:      handler.NewSessionHandler(api, sess, vm, log.With().Str("component", "session").Logger()),
		Account:      handler.NewAccountHandler(api),
		Profile:      handler.NewProfileHandler(api),
		Conversation: handler.NewConversationHandler(vm, api, labels, loc),
		Match:        handler.NewMatchHandler(api),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("api", cfg.API.BaseURL).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}
