package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/nzoschke/goalbot/internal/app"

	"github.com/spf13/cobra"
)

func VotesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "votes",
		Short: "Inspect stored votes",
	}

	c.AddCommand(&cobra.Command{
		Use:   "orphans",
		Short: "List goal ids that have votes but no goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrphans(cmd)
		},
	})

	return c
}

func runOrphans(cmd *cobra.Command) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	ids, err := a.VoteService.OrphanGoalIDs(ctx, a.GoalService)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, color.GreenString("No orphaned votes."))
		return nil
	}

	for _, id := range ids {
		fmt.Fprintf(out, "%s %d\n", color.YellowString("goal"), id)
	}
	return nil
}
