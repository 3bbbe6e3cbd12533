package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/reaper/internal/bot"
	"github.com/robalyx/reaper/internal/redis"
	"github.com/robalyx/reaper/internal/setup"
	"github.com/robalyx/reaper/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"

	// shutdownTimeout bounds how long the gateway gets to close.
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "bot",
		Usage: "Run the reaper moderation bot",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Connect to Discord and start the expiry sweeper",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-sweeper",
						Usage: "Do not lift expired actions from this process",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runBot(ctx, !c.Bool("no-sweeper"))
				},
			},
		},
		DefaultCommand: "run",
	}

	return app.Run(context.Background(), os.Args)
}

// runBot starts the gateway and, optionally, the sweeper until an interrupt arrives.
func runBot(ctx context.Context, withSweeper bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Initialize application with required dependencies
	app, err := setup.InitializeApp(ctx, telemetry.ServiceBot, BotLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	leaseClient, err := app.RedisManager.GetClient(redis.LeaseDBIndex)
	if err != nil {
		return fmt.Errorf("failed to get lease client: %w", err)
	}

	// Create bot instance
	discordBot, err := bot.New(app.DB, bot.Options{
		Config:      &app.Config.Bot,
		LeaseClient: leaseClient,
		InstanceID:  app.LogManager.GetInstanceID(),
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Start the bot and connect to Discord
	g.Go(func() error {
		return discordBot.Start(ctx)
	})

	if withSweeper {
		g.Go(func() error {
			discordBot.Sweeper().Run(ctx)
			return nil
		})
	}

	app.Logger.Info("Bot has been started. Waiting for interrupt signal to gracefully shutdown...",
		zap.Bool("sweeper", withSweeper))

	<-ctx.Done()

	// Cleanly close down the Discord session
	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	discordBot.Close(closeCtx)

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}
