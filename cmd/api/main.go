package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventpro/internal/account"
	"eventpro/internal/booking"
	"eventpro/internal/demo"
	"eventpro/internal/httpapi"
	"eventpro/internal/notify"
	"eventpro/internal/session"
	"eventpro/pkg/config"
	"eventpro/pkg/db"
	"eventpro/pkg/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.AppEnv, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		accountRepo  account.Repository = account.NewMemoryRepository()
		bookingStore booking.Store      = booking.NewMemoryStore()
	)
	if cfg.UsePostgres() {
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			fatal(log, "db open", err)
		}
		defer conn.Close()

		if cfg.MigrationsPath != "" {
			version, err := db.MigrateConfig(cfg.MigrationsPath, cfg)
			if err != nil {
				fatal(log, "migrate", err)
			}
			log.Info("schema migrated", slog.Uint64("version", uint64(version)))
		}
		accountRepo = account.NewPostgresRepository(conn)
		bookingStore = booking.NewPostgresStore(conn)
		log.Info("storage: postgres")
	} else {
		log.Info("storage: memory")
	}

	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb, err := session.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			fatal(log, "redis connect", err)
		}
		defer rdb.Close()
		sessionStore = session.NewRedisStore(rdb)
		log.Info("sessions: redis", slog.String("addr", cfg.Redis.Addr))
	}

	var sink notify.Sink = notify.LogSink{Log: log}
	if cfg.Broker.URL != "" {
		amqpSink, err := notify.NewAMQPSink(cfg.Broker.URL, cfg.Broker.Queue, log)
		if err != nil {
			fatal(log, "amqp connect", err)
		}
		defer amqpSink.Close()
		sink = notify.Multi{sink, amqpSink}
		log.Info("notices: amqp", slog.String("queue", cfg.Broker.Queue))
	}

	accounts := account.NewService(accountRepo, cfg.Admin.BcryptCost, log)
	if _, err := accounts.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		fatal(log, "seed admin", err)
	}

	if cfg.Booking.SeedDemo && !cfg.UsePostgres() {
		fixtures, err := demo.Default()
		if err != nil {
			fatal(log, "demo fixtures", err)
		}
		n, err := demo.Apply(ctx, bookingStore, fixtures, time.Now())
		if err != nil {
			fatal(log, "demo seed", err)
		}
		log.Info("demo bookings loaded", slog.Int("count", n))
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:      cfg,
		Log:      log,
		Accounts: accounts,
		Sessions: session.NewManager(sessionStore, cfg.Session.Secret, cfg.Session.TTL),
		Bookings: booking.NewService(bookingStore, sink, log, booking.Options{
			SubmitDelay: cfg.Booking.SubmitDelay,
			CheckoutURL: cfg.Booking.CheckoutURL,
		}),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(log, "http serve", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
