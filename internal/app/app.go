package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mama165/sdk-go/logs"
	"gorm.io/gorm/logger"
	"tush00nka/bbbab_chat/internal/config"
	"tush00nka/bbbab_chat/internal/handler"
	"tush00nka/bbbab_chat/internal/repository"
	"tush00nka/bbbab_chat/internal/service"
	"tush00nka/bbbab_chat/internal/ws"
)

func Run(cfg *config.Config) error {
	log := logs.GetLoggerFromString(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DSN(), gormLogLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	if err := repository.Migrate(db); err != nil {
		return err
	}

	var cache repository.MessageCache = repository.NopMessageCache{}
	if cfg.CacheEnabled() {
		rdb, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()

		cache = repository.NewMessageCache(rdb, cfg.MessageCacheTTL)
		log.Info("message cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.MessageCacheTTL)
	}

	hub := ws.NewHub(log)
	defer hub.Shutdown()

	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	userService := service.NewUserService(userRepo, log)
	conversationService := service.NewConversationService(conversationRepo, userRepo, hub, log,
		service.ConversationOptions{GroupMinParticipants: cfg.GroupMinParticipants})
	messageService := service.NewMessageService(messageRepo, conversationRepo, userRepo, cache, hub, log,
		service.MessageOptions{MaxContentLength: cfg.MaxMessageLength})

	server := NewServer(log, cfg.Origins(), Handlers{
		User:         handler.NewUserHandler(userService, log),
		Conversation: handler.NewConversationHandler(conversationService, log),
		Message:      handler.NewMessageHandler(messageService, log),
		WS:           handler.NewWSHandler(hub, ws.NewUpgrader(cfg.Origins(), cfg.IsDevelopment()), log),
	})

	if err := server.Run(ctx, cfg.ServerPort); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logger.Info
	case "ERROR":
		return logger.Error
	default:
		return logger.Warn
	}
}
