package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nzoschke/goalbot/internal/app"
	"github.com/nzoschke/goalbot/internal/handler"
	"github.com/nzoschke/goalbot/internal/listener"
	"github.com/nzoschke/goalbot/internal/routes"
	"github.com/nzoschke/goalbot/internal/scanner"
	"github.com/nzoschke/goalbot/internal/transport"

	"github.com/spf13/cobra"
)

func ConsoleCmd() *cobra.Command {
	var userID string

	c := &cobra.Command{
		Use:   "console",
		Short: "Run the bot against stdin and stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(userID)
		},
	}
	c.Flags().StringVar(&userID, "user", "console", "sender id for typed commands")
	return c
}

func runConsole(userID string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	console := transport.NewConsole(os.Stdin, os.Stdout, userID)

	goal := handler.NewGoalHandler(a.GoalService, a.VoteService, console, cfg.Timezone, transport.ConsoleChannelID)
	router := routes.SetupRoutes(a, goal)

	l := listener.New(console, router, cfg.CommandPrefix)
	if err := l.Start(ctx); err != nil {
		return err
	}
	defer l.Stop()

	s := scanner.New(a.GoalService, goal, scanner.Options{
		Interval: cfg.ScanInterval,
		Repeat:   cfg.OverdueRepeat,
	})
	s.Start(ctx)
	defer s.Stop()

	select {
	case <-ctx.Done():
	case <-console.Done():
		slog.Debug("console input closed")
	}
	return nil
}
