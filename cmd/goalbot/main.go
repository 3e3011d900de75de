package main

import (
	"os"

	"github.com/nzoschke/goalbot/cmd/goalbot/cmd"
	"github.com/nzoschke/goalbot/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "goalbot",
		Short:        "Chat bot for proposing goals and voting on them",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.ServeCmd())
	rootCmd.AddCommand(cmd.ConsoleCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.VotesCmd())

	err := rootCmd.Execute()
	logger.Flush()
	if err != nil {
		os.Exit(1)
	}
}
