package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gennadis/pdfchatui/internal/chat"
	"github.com/gennadis/pdfchatui/internal/client"
	"github.com/gennadis/pdfchatui/internal/config"
	"github.com/gennadis/pdfchatui/internal/session"
	"github.com/gennadis/pdfchatui/internal/status"
	"github.com/gennadis/pdfchatui/internal/upload"
	"github.com/gennadis/pdfchatui/storage"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	logFile, err := setupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to open log file: %s", err)
	}
	defer logFile.Close()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open session store", "store", cfg.Store, "error", err)
		log.Fatalf("Failed to open session store: %s", err)
	}
	defer closeStore()

	holder := session.NewHolder(store)
	if err := holder.Load(ctx); err != nil {
		log.Fatalf("Failed to load session: %s", err)
	}

	api := client.NewClient(*cfg)
	banner := &status.Banner{}
	a := &app{
		cfg:     cfg,
		session: holder,
		banner:  banner,
		uploads: upload.NewController(api, holder, banner),
		chats:   chat.NewController(api, holder, banner),
		out:     os.Stdout,
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) (*os.File, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return f, nil
}

func openStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		rdb, err := storage.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisSessions(rdb, cfg.SessionKey), func() { rdb.Close() }, nil

	case config.StoreMemory:
		return session.NewMemoryStore(""), func() {}, nil

	default:
		db, err := storage.NewSqliteDB(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		sessions, err := storage.NewSessions(db, cfg.SessionKey)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return sessions, func() { db.Close() }, nil
	}
}
