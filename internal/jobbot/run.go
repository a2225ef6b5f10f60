package jobbot

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"jobbot/internal/board"
	"jobbot/internal/config"
	"jobbot/internal/logging"
	"jobbot/internal/metrics"
	"jobbot/internal/pagination"
	"jobbot/internal/ratelimit"
	"jobbot/internal/store/memory"
	"jobbot/internal/store/postgres"
	"jobbot/internal/telegram"
	"jobbot/internal/wizard"
)

// Run запускает бота вакансий и блокирует выполнение до остановки.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if cfg.LogDir != "" {
		file, err := logging.OpenDailyFile(cfg.LogDir, time.Now())
		if err != nil {
			return err
		}
		defer file.Close()
		out = io.MultiWriter(os.Stdout, file)
	}
	logger := logging.NewLogger(cfg.LogLevel, out)
	slog.SetDefault(logger)
	logger.Info("starting job board bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := connectRedis(ctx, cfg.RedisURL, logger)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("redis close failed", slog.String("error", err.Error()))
			}
		}()
	}

	var gateway board.Gateway
	if cfg.DatabaseURL == "" {
		logger.Warn("database url missing, using in-memory stores")
		gateway = memory.NewStore()
	} else {
		db, err := postgres.Open(ctx, postgres.Config{
			Driver:          cfg.DBDriver,
			DSN:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		}, logger)
		if err != nil {
			return fmt.Errorf("database connect failed: %w", err)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("database migrate failed: %w", err)
		}
		gateway = postgresGateway(db)
	}
	if cfg.SeedEnabled {
		if err := seed(ctx, gateway, cfg.SeedFile, logger); err != nil {
			return err
		}
	}
	logger.Info("database initialized", slog.String("driver", cfg.DBDriver), slog.Bool("persistent", cfg.DatabaseURL != ""))

	var states wizard.StateRepository
	if redisClient != nil {
		states = wizard.NewRedisStateRepository(redisClient, "jobbot:state", cfg.StateTTL)
	} else {
		states = wizard.NewMemoryStateRepository()
	}

	telegramClient := telegram.NewClient(cfg.BotToken, cfg.TelegramAPIURL, &http.Client{Timeout: cfg.TelegramTimeout})
	machine := wizard.NewMachine(states, gateway, gateway, logger)
	presenter := pagination.NewPresenter(gateway)
	inboundLimiter := ratelimit.New(redisClient, cfg.TelegramInboundRateLimit, time.Minute, "", logger)
	collector := metrics.NewCollector()
	bot := telegram.NewBot(telegramClient, machine, gateway, presenter, inboundLimiter, collector, logger)
	logger.Info("handlers registered")

	var poller *telegram.Poller
	if cfg.TelegramPollingEnabled {
		pollTimeout := cfg.TelegramPollingTimeout + 5*time.Second
		if pollTimeout < cfg.TelegramTimeout {
			pollTimeout = cfg.TelegramTimeout
		}
		pollerClient := telegram.NewClient(cfg.BotToken, cfg.TelegramAPIURL, &http.Client{Timeout: pollTimeout})
		poller = telegram.NewPoller(pollerClient, bot, logger, cfg.TelegramPollingTimeout, cfg.TelegramPollingInterval, cfg.TelegramPollingLimit, cfg.TelegramPollingDropPending)
	} else if cfg.TelegramWebhookURL == "" {
		logger.Warn("telegram webhook url missing; bot will not receive updates")
	} else {
		setCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := telegramClient.SetWebhook(setCtx, cfg.TelegramWebhookURL, cfg.WebhookSecret, cfg.TelegramWebhookDropPending)
		cancel()
		if err != nil {
			return fmt.Errorf("telegram set webhook failed: %w", err)
		}
		logger.Info("telegram webhook configured", slog.String("url", cfg.TelegramWebhookURL))
	}

	var webhook http.Handler
	if !cfg.TelegramPollingEnabled {
		webhook = telegram.NewWebhookHandler(bot, cfg.WebhookSecret, logger)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           instrument(logger, collector, newMux(webhook, collector)),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("job bot listening", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("job bot server error", slog.String("error", err.Error()))
		}
	}()
	if poller != nil {
		go poller.Run(ctx)
		logger.Info("telegram polling enabled", slog.Duration("timeout", cfg.TelegramPollingTimeout))
	}
	logger.Info("bot is running")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("job bot shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("bot stopped")
	return nil
}

type gatewayStores struct {
	*postgres.UserStore
	*postgres.VacancyStore
}

func postgresGateway(db *sql.DB) board.Gateway {
	return gatewayStores{
		UserStore:    postgres.NewUserStore(db),
		VacancyStore: postgres.NewVacancyStore(db),
	}
}

func connectRedis(ctx context.Context, url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Error("redis url parse failed", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis ping failed", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	return client
}

func seed(ctx context.Context, repo board.VacancyRepository, path string, logger *slog.Logger) error {
	var (
		items []board.Vacancy
		err   error
	)
	if path != "" {
		items, err = board.LoadSeedFile(path)
	} else {
		items, err = board.DefaultSeed()
	}
	if err != nil {
		return err
	}
	inserted, err := board.Seed(ctx, repo, items, time.Now())
	if err != nil {
		return fmt.Errorf("seed vacancies: %w", err)
	}
	if inserted > 0 {
		logger.Info("sample vacancies inserted", slog.Int("count", inserted))
	}
	return nil
}
