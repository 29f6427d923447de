package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/cache"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/routes"
)

const shutdownTimeout = 10 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply schema changes before serving")
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, log := bootstrap()

	gdb, err := db.Connect(cfg.DBDSN, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if migrateOnStart {
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(log)
	go hub.Run(ctx)

	deps := routes.Deps{
		Config: cfg,
		DB:     gdb,
		Log:    log,
		Hub:    hub,
		Cache:  cache.Nop{},
	}

	rdb, err := realtime.NewRedis(cfg)
	if err != nil {
		return fmt.Errorf("redis config: %w", err)
	}
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	redisErr := rdb.Ping(pingCtx).Err()
	cancel()
	if redisErr != nil {
		log.WithError(redisErr).Warn("redis unavailable: job cache, shared rate limits and pub/sub are off")
		deps.Notifier = realtime.NewNotifier(hub, nil, log)
	} else {
		log.WithField("addr", cfg.RedisAddr).Info("redis connected")
		deps.Cache = cache.NewRedisCache(rdb)
		deps.LimiterStorage = middleware.NewRedisStorage(rdb, "ratelimit:")
		deps.Notifier = realtime.NewNotifier(hub, rdb, log)
	}

	deps.Ping = func() error {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(c)
	}

	app := routes.NewApp(deps)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.AppPort).Info("http server listening")
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return shutdown(app)
}

func shutdown(app *fiber.App) error {
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
