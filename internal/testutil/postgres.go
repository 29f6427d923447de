//go:build integration

// Package testutil starts throwaway infrastructure for integration tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/db"
)

// StartPostgres runs a PostgreSQL container, connects GORM and applies the
// schema. The returned func terminates the container.
func StartPostgres(ctx context.Context) (*gorm.DB, func(), error) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}
	terminate := func() { _ = pgContainer.Terminate(context.Background()) }

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("connection string: %w", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	gdb, err := db.Connect(dsn, log)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		terminate()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, terminate, nil
}
