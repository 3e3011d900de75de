package cmd

import (
	"fmt"
	"log/slog"

	"github.com/nzoschke/goalbot/internal/app"
	"github.com/nzoschke/goalbot/internal/handler"
	"github.com/nzoschke/goalbot/internal/listener"
	"github.com/nzoschke/goalbot/internal/routes"
	"github.com/nzoschke/goalbot/internal/scanner"
	"github.com/nzoschke/goalbot/internal/transport"

	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and run the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireDiscord(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer func() {
		closeErr := a.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	discord, err := transport.NewDiscord(cfg.DiscordToken)
	if err != nil {
		return err
	}
	defer discord.Close()

	goal := handler.NewGoalHandler(a.GoalService, a.VoteService, discord, cfg.Timezone, cfg.AnnounceChannelID)
	router := routes.SetupRoutes(a, goal)

	l := listener.New(discord, router, cfg.CommandPrefix)
	if err := l.Start(ctx); err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}
	defer l.Stop()

	s := scanner.New(a.GoalService, goal, scanner.Options{
		Interval: cfg.ScanInterval,
		Repeat:   cfg.OverdueRepeat,
	})
	s.Start(ctx)
	defer s.Stop()

	slog.Info("bot running", "env", cfg.AppEnv, "store", cfg.StoreDriver)

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}
