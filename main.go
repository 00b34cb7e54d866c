package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/studyhub/premium-channel-bot/internal/catalog"
	"github.com/studyhub/premium-channel-bot/internal/config"
	"github.com/studyhub/premium-channel-bot/internal/gateway"
	"github.com/studyhub/premium-channel-bot/internal/handlers"
	"github.com/studyhub/premium-channel-bot/internal/lifecycle"
	"github.com/studyhub/premium-channel-bot/internal/middleware"
	"github.com/studyhub/premium-channel-bot/internal/scheduler"
	"github.com/studyhub/premium-channel-bot/store"
)

func main() {
	_ = config.LoadEnvFile("config.env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cat := catalog.New(cfg.Channels)

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		redisDB, err = strconv.Atoi(v)
		if err != nil {
			log.Printf("Invalid REDIS_DB value, using default: 0")
			redisDB = 0
		}
	}

	rdb, err := store.NewRedisClient(fmt.Sprintf("%s:%s", redisHost, redisPort), redisPassword, redisDB, "premium_bot")
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	stateStore := store.NewRedisStateStore(rdb, 24)

	ledger, err := store.NewPostgresStore(ctx, os.Getenv("POSTGRES_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer ledger.Close()

	httpClient := &http.Client{
		Timeout: 2 * time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		cfg.BotToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
	)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	membership := gateway.NewTelegramMembership(b)
	notifier := gateway.NewTelegramNotifier(b)

	payments := lifecycle.NewPaymentService(ledger, cat, membership, notifier, cfg.AdminID)
	subscriptions := lifecycle.NewSubscriptionService(ledger, cat, membership, notifier, stateStore, cfg.ReminderDays)

	sweeps := scheduler.New(subscriptions)
	if err := sweeps.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sweeps.Stop()

	h := handlers.NewHandlers(cfg, cat, ledger, payments, stateStore)
	tracker := middleware.NewUserTracker(ledger)
	handlerChain := tracker.TrackUser(h.MainHandler)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, handlerChain)

	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, handlerChain)

	log.Println("Bot started. Press Ctrl+C to stop.")
	b.Start(ctx)
}
