package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MuzBot/cache"
	"MuzBot/config"
	"MuzBot/core/catalog"
	"MuzBot/core/flow"
	"MuzBot/core/recognize"
	"MuzBot/db"
	"MuzBot/logger"
	"MuzBot/repository"
	"MuzBot/server"
	"MuzBot/storage"
	"MuzBot/telegram"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "muzbot",
	Short: "MuzBot is a Telegram music search and delivery bot.",
	Run: func(cmd *cobra.Command, args []string) {
		runBot()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBot() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
		Compress:   true,
	})

	if cfg.BotToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()
	if err := db.InitDB(); err != nil {
		logger.Fatal("failed to migrate database", logger.ErrorField(err))
	}

	var (
		trackCache cache.TrackCache
		queryReg   cache.QueryRegistry
	)
	switch cfg.CacheBackend {
	case "redis":
		if err := db.ConnectRedis(cfg); err != nil {
			logger.Fatal("failed to connect to redis", logger.ErrorField(err))
		}
		defer db.CloseRedis()
		store := cache.NewRedisStore(db.RedisClient, cfg.CacheTTL)
		trackCache, queryReg = store, store
	default:
		store := cache.NewMemoryStore(cfg.CacheTTL, cfg.CacheMaxEntries)
		trackCache, queryReg = store, store
	}

	var media flow.MediaCache
	if cfg.MinioEnabled {
		store, err := storage.NewMediaStore(cfg)
		if err != nil {
			logger.Fatal("failed to init media store", logger.ErrorField(err))
		}
		media = store
	}

	catalogClient := catalog.NewClient(cfg.CatalogAPIURL, cfg.CatalogToken, cfg.CatalogTimeout)
	recognizer := recognize.NewClient(cfg.RecognizeAPIURL, cfg.RecognizeToken, cfg.RecognizeTimeout)
	session := flow.NewSession(catalogClient, trackCache, queryReg, media, cfg.ResultsPerPage, cfg.DownloadTimeout)

	users := repository.NewMySQLUserRepository(db.DB)
	collections := repository.NewMySQLCollectionRepository(db.DB)
	tracks := repository.NewMySQLTrackRepository(db.DB)

	gateway, err := telegram.New(cfg, session, recognizer, users, collections, tracks)
	if err != nil {
		logger.Fatal("failed to create telegram gateway", logger.ErrorField(err))
	}

	admin := server.NewAdminServer(cfg, users, collections, tracks)
	go admin.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("muzbot starting", logger.String("adminAddr", cfg.AdminAddr))
	gateway.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := admin.Shutdown(shutdownCtx); err != nil {
		logger.Warn("admin server shutdown", logger.ErrorField(err))
	}
	logger.Info("muzbot stopped")
}
