package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/exfador/starvell-monitor/internal/bot"
	"github.com/exfador/starvell-monitor/internal/config"
	"github.com/exfador/starvell-monitor/internal/gist"
	"github.com/exfador/starvell-monitor/internal/starvell"
	"github.com/exfador/starvell-monitor/internal/store"
	"github.com/exfador/starvell-monitor/internal/store/postgres"
	"github.com/exfador/starvell-monitor/internal/store/sqlite"
	"github.com/exfador/starvell-monitor/internal/watch"
)

func main() {
	log.Println("Starting Starvell monitor...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Configuration loaded. Chat interval: %ds, orders: %ds, bump: %ds, digest: %ds",
		cfg.ChatPollInterval, cfg.OrdersPollInterval, cfg.BumpInterval, cfg.DigestInterval)

	// Initialize store
	st, err := openStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	log.Println("Ledger store initialized successfully")
	defer st.Close()

	// Initialize Telegram bot
	log.Println("Initializing Telegram bot...")
	telegramBot, err := bot.New(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}
	log.Println("Telegram bot initialized successfully")

	dispatcher := bot.NewDispatcher(telegramBot, st)
	handler := bot.NewHandler(telegramBot, st)

	client := starvell.NewClient()
	digestSource := gist.NewClient(cfg.DigestGistID, cfg.DigestOwnerID, cfg.GitHubToken)

	if cfg.Debug {
		log.Println("Debug logging enabled")
	}
	chatWatcher := &watch.ChatWatcher{Source: client, Ledger: st, Notify: dispatcher, Debug: cfg.Debug}
	orderWatcher := &watch.OrderWatcher{Source: client, Ledger: st, Notify: dispatcher, Debug: cfg.Debug}
	bumpScheduler := &watch.BumpScheduler{Session: client, Inventory: client, Bumper: client, Notify: dispatcher, Debug: cfg.Debug}
	digestPoller := &watch.DigestPoller{Source: digestSource, Ledger: st, Notify: dispatcher, Debug: cfg.Debug}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle system signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, initiating shutdown...", sig)
		cancel()
	}()

	bootstrap(ctx, cfg, client, dispatcher, chatWatcher, orderWatcher, bumpScheduler)

	// Start workers
	var wg sync.WaitGroup

	startWorker(ctx, &wg, "chat watcher", cfg.ChatPollInterval, func(ctx context.Context) error {
		return chatWatcher.Check(ctx, cfg.Credentials())
	})
	startWorker(ctx, &wg, "order watcher", cfg.OrdersPollInterval, func(ctx context.Context) error {
		return orderWatcher.Check(ctx, cfg.Credentials())
	})
	startWorker(ctx, &wg, "bump scheduler", cfg.BumpInterval, func(ctx context.Context) error {
		return bumpScheduler.Check(ctx, cfg.Credentials())
	})
	startWorker(ctx, &wg, "digest poller", cfg.DigestInterval, func(ctx context.Context) error {
		return digestPoller.Check(ctx)
	})

	log.Println("Starting bot update worker...")
	wg.Add(1)
	go func() {
		defer wg.Done()
		botWorker(ctx, handler, cfg)
	}()

	log.Println("Application is now running. Press Ctrl+C to stop.")

	// Wait for workers to finish
	wg.Wait()
	log.Println("Application shutdown complete")
}

// bootstrap runs the synchronous startup pass: auth probe, inventory resolve,
// one chat cycle and one order cycle, before any loop starts. Failures here
// are logged, not fatal; the loops retry with fresh credentials anyway.
func bootstrap(ctx context.Context, cfg *config.Config, client *starvell.Client, dispatcher *bot.Dispatcher,
	chatWatcher *watch.ChatWatcher, orderWatcher *watch.OrderWatcher, bumpScheduler *watch.BumpScheduler) {

	creds := cfg.Credentials()
	sess, err := client.FetchSession(ctx, creds)
	if err != nil || !sess.Authorized || sess.User == nil {
		if err != nil {
			log.Printf("Bootstrap auth probe failed: %v", err)
		} else {
			log.Println("Bootstrap auth probe: session not authorized")
		}
		if err := dispatcher.NotifyAuth(false, nil); err != nil {
			log.Printf("Error sending auth notification: %v", err)
		}
		return
	}

	log.Printf("Authorized as %s (id %s)", sess.User.Username, sess.User.ID)
	if err := dispatcher.NotifyAuth(true, sess.User); err != nil {
		log.Printf("Error sending auth notification: %v", err)
	}
	if sess.SID != "" {
		creds.SID = sess.SID
	}

	if inv, err := bumpScheduler.Resolve(ctx, creds, sess.User.ID); err != nil {
		log.Printf("Bootstrap inventory resolve failed: %v", err)
	} else {
		log.Printf("Resolved %d listings across %d games", inv.Listings(), inv.Games())
	}

	if err := chatWatcher.Check(ctx, creds); err != nil {
		log.Printf("Bootstrap chat pass failed: %v", err)
	}
	if err := orderWatcher.Check(ctx, creds); err != nil {
		log.Printf("Bootstrap order pass failed: %v", err)
	}
}

func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, intervalSeconds int, fn func(context.Context) error) {
	log.Printf("Starting %s worker...", name)
	wg.Add(1)
	go func() {
		defer wg.Done()
		watch.Loop(ctx, name, time.Duration(intervalSeconds)*time.Second, fn)
	}()
}

func openStore(dbURL string) (store.Store, error) {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		log.Printf("Connecting to database: %s", maskDatabaseURL(dbURL))
		return postgres.New(dbURL)
	}
	path := strings.TrimPrefix(dbURL, "sqlite://")
	log.Printf("Opening sqlite database: %s", path)
	return sqlite.New(path)
}

var maskRe = regexp.MustCompile(`://[^:]+:[^@]+@`)

func maskDatabaseURL(url string) string {
	// Simple masking to hide sensitive information while keeping the structure visible
	return maskRe.ReplaceAllString(url, "://*****:*****@")
}

func botWorker(ctx context.Context, handler *bot.Handler, cfg *config.Config) {
	log.Printf("Bot worker started with %d seconds polling timeout", cfg.PollingTimeout)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.PollingTimeout

	updates := handler.Bot.API.GetUpdatesChan(u)
	log.Println("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot worker shutting down...")
			return
		case update := <-updates:
			if update.Message != nil && update.Message.IsCommand() {
				log.Printf("Received command: %s from user %d", update.Message.Command(), update.Message.From.ID)
			}
			if err := handler.HandleUpdate(update); err != nil {
				log.Printf("Error handling update: %v", err)
			}
		}
	}
}
