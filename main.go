package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/marcsello/joingate-bot/api"
	"github.com/marcsello/joingate-bot/challenge"
	"github.com/marcsello/joingate-bot/db"
	"github.com/marcsello/joingate-bot/memdb"
	"github.com/marcsello/joingate-bot/telegram"
	"github.com/marcsello/joingate-bot/utils"
	log "github.com/sirupsen/logrus"
	"gitlab.com/MikeTTh/env"
	"golang.org/x/sync/errgroup"
)

func setupLogging(debug bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, err := log.ParseLevel(env.String("LOG_LEVEL", "info"))
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL, falling back to info: %v", err)
		level = log.InfoLevel
	}
	if debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

func main() {
	debug, _ := strconv.ParseBool(env.String("DEBUG", "false"))
	setupLogging(debug)

	log.Println("Starting Join Gate Telegram Bot...")

	if err := run(debug); err != nil {
		log.Fatalln(err)
	}
}

// run returns instead of exiting so the deferred closes always happen.
func run(debug bool) error {
	reapInterval, err := time.ParseDuration(env.String("REAP_INTERVAL", "1m"))
	if err != nil {
		return fmt.Errorf("invalid REAP_INTERVAL: %w", err)
	}

	var reportChatID int64
	if s := env.String("REPORT_CHAT_ID", ""); s != "" {
		reportChatID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid REPORT_CHAT_ID: %w", err)
		}
	}

	adminIDs, err := utils.ParseIDList(env.String("ADMIN_IDS", ""))
	if err != nil {
		return fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}

	repo, err := db.Connect()
	if err != nil {
		return fmt.Errorf("connecting to the database failed: %w", err)
	}
	defer repo.Close()

	store, err := memdb.Connect()
	if err != nil {
		return fmt.Errorf("connecting to redis failed: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err = repo.EnsureAdmins(ctx, adminIDs); err != nil {
		return fmt.Errorf("setting up admins failed: %w", err)
	}

	bot, err := telegram.NewBot(debug)
	if err != nil {
		return fmt.Errorf("creating the bot failed: %w", err)
	}
	messenger := telegram.NewMessenger(bot)

	challenges, err := challenge.NewService(challenge.Config{
		Store:     store,
		Messenger: messenger,
		AllowList: repo,
		Auditor:   repo,
	})
	if err != nil {
		return fmt.Errorf("setting up challenges failed: %w", err)
	}
	if reapInterval <= 0 || reapInterval >= challenges.ReapThreshold() {
		return fmt.Errorf("REAP_INTERVAL must be positive and shorter than %s", challenges.ReapThreshold())
	}

	handlers := &telegram.Handlers{
		Challenges:   challenges,
		Repo:         repo,
		Messenger:    messenger,
		ReportChatID: reportChatID,
	}
	handlers.Setup(bot)

	apiServer := api.NewServer(api.Config{
		Challenges: challenges,
		Repo:       repo,
		Debug:      debug,
	})

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bot.Start() // returns once Stop is called
		return nil
	})
	g.Go(func() error {
		err := apiServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return challenges.RunReaper(gCtx, reapInterval)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down...")

		bot.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	log.Println("Everything is ready! Listening for updates!")
	if err = g.Wait(); err != nil {
		return fmt.Errorf("stopped with error: %w", err)
	}
	return nil
}
