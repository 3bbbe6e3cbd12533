package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/robalyx/reaper/internal/database"
	"github.com/robalyx/reaper/internal/database/migrations"
	"github.com/robalyx/reaper/internal/redis"
	"github.com/robalyx/reaper/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var (
	ErrNameRequired   = errors.New("NAME argument required")
	ErrArgsRequired   = errors.New("missing arguments")
	ErrInvalidGuildID = errors.New("invalid guild ID")
)

// toolDeps are opened once for every subcommand.
type toolDeps struct {
	db       database.Client
	migrator *migrate.Migrator
	redis    *redis.Manager
	logger   *zap.Logger
}

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	// Setup dependencies
	deps, err := setupDeps()
	if err != nil {
		return fmt.Errorf("failed to setup database tool: %w", err)
	}
	defer deps.close()

	app := &cli.Command{
		Name:  "db",
		Usage: "Database management tool",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Initialize migration tables",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return deps.migrator.Init(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run pending migrations",
				Action: func(ctx context.Context, _ *cli.Command) error {
					if err := deps.migrator.Lock(ctx); err != nil {
						return err
					}
					defer deps.migrator.Unlock(ctx) //nolint:errcheck

					group, err := deps.migrator.Migrate(ctx)
					if err != nil {
						return err
					}

					if group.IsZero() {
						deps.logger.Info("No new migrations to run (database is up to date)")
						return nil
					}

					deps.logger.Info("Successfully migrated",
						zap.String("group", group.String()),
					)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "Rollback the last migration group",
				Action: func(ctx context.Context, _ *cli.Command) error {
					if err := deps.migrator.Lock(ctx); err != nil {
						return err
					}
					defer deps.migrator.Unlock(ctx) //nolint:errcheck

					group, err := deps.migrator.Rollback(ctx)
					if err != nil {
						return err
					}

					if group.IsZero() {
						deps.logger.Info("No groups to roll back")
						return nil
					}

					deps.logger.Info("Successfully rolled back",
						zap.String("group", group.String()),
					)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Show migration status",
				Action: func(ctx context.Context, _ *cli.Command) error {
					ms, err := deps.migrator.MigrationsWithStatus(ctx)
					if err != nil {
						return err
					}

					deps.logger.Info("Migration status",
						zap.String("migrations", ms.String()),
						zap.String("unapplied", ms.Unapplied().String()),
						zap.String("last_group", ms.LastGroup().String()),
					)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "Create a new Go migration file",
				ArgsUsage: "NAME",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return ErrNameRequired
					}

					mf, err := deps.migrator.CreateGoMigration(ctx, c.Args().First())
					if err != nil {
						return err
					}

					deps.logger.Info("Created Go migration",
						zap.String("name", mf.Name),
						zap.String("path", mf.Path),
					)
					return nil
				},
			},
			killSwitchCommand(deps),
			escalationCommand(deps),
			permissionCommand(deps),
			configCommand(deps),
		},
	}

	return app.Run(context.Background(), os.Args)
}

// setupDeps initializes the database connection, the settings cache and the migrator.
func setupDeps() (*toolDeps, error) {
	// Load full configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Create development logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Settings changes made here must drop the bot's cached copies
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)
	cacheClient, err := redisManager.GetClient(redis.ConfigDBIndex)
	if err != nil {
		logger.Warn("Settings cache unavailable, cached copies expire on their own", zap.Error(err))
		cacheClient = nil
	}

	// Connect to database
	db, err := database.NewConnection(context.Background(), &cfg.Common.PostgreSQL, database.Options{
		CacheClient: cacheClient,
		CacheTTL:    cfg.Bot.Cache.TTLDuration(),
	}, logger, false)
	if err != nil {
		redisManager.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create migrator using database connection and migrations
	migrator := migrate.NewMigrator(db.DB(), migrations.Migrations)

	return &toolDeps{
		db:       db,
		migrator: migrator,
		redis:    redisManager,
		logger:   logger,
	}, nil
}

func (d *toolDeps) close() {
	if err := d.db.Close(); err != nil {
		d.logger.Error("Failed to close database", zap.Error(err))
	}
	d.redis.Close()
	_ = d.logger.Sync()
}
