package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"angelina/internal/appointment"
	"angelina/internal/config"
	"angelina/internal/contact"
	"angelina/internal/infrastructure/logger"
	"angelina/internal/infrastructure/mailer"
	"angelina/internal/infrastructure/metrics"
	"angelina/internal/infrastructure/mysql"
	"angelina/internal/infrastructure/ratelimit"
	"angelina/internal/notification"
	"angelina/internal/server"
	"angelina/internal/validation"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
		err := mysql.Migrate(migrateCtx, db, zapLogger)
		cancel()
		if err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
	}

	m := metrics.New()
	if err := m.RegisterDB(db, cfg.Database.Name); err != nil {
		zapLogger.Warn("registering db stats collector", zap.Error(err))
	}

	var transport notification.Mailer
	if cfg.Mail.Driver == "log" {
		transport = mailer.NewLogMailer(zapLogger)
		zapLogger.Info("mail driver is log; emails will not be delivered")
	} else {
		smtpMailer, err := mailer.NewSMTPMailer(cfg.Mail)
		if err != nil {
			zapLogger.Fatal("creating smtp mailer", zap.Error(err))
		}
		transport = smtpMailer
	}

	notifier := notification.NewNotifier(transport, notification.Settings{
		Brand:        cfg.Mail.Brand,
		AdminAddress: cfg.Mail.AdminAddress,
		Phone:        cfg.Mail.Phone,
		WhatsApp:     cfg.Mail.WhatsApp,
	}, m, zapLogger)
	dispatcher := notification.NewDispatcher(cfg.Notify.Async, cfg.Notify.Timeout)

	limiter := newLimiter(ctx, cfg, zapLogger)

	validator := validation.New()
	appointmentCtrl := appointment.NewModule(db, notifier, dispatcher, validator, m, zapLogger)
	contactCtrl := contact.NewModule(db, notifier, dispatcher, validator, zapLogger)

	router := server.NewRouter(
		server.RouterConfig{
			StaticDir:          cfg.Server.StaticDir,
			CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
			TrustedProxies:     cfg.Server.TrustedProxies,
		},
		appointmentCtrl,
		contactCtrl,
		m,
		limiter,
		zapLogger,
	)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}

	if err := dispatcher.Wait(shutdownCtx); err != nil {
		zapLogger.Warn("pending notifications abandoned", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// newLimiter shares rate-limit counters through Redis when REDIS_ADDR is set
// and reachable, and keeps them in process otherwise.
func newLimiter(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) ratelimit.Limiter {
	if cfg.Redis.Addr == "" {
		return ratelimit.NewInMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		zapLogger.Warn("redis unavailable, using in-memory rate limiter", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = client.Close()
		return ratelimit.NewInMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	zapLogger.Info("rate limiting via redis", zap.String("addr", cfg.Redis.Addr))
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
}
