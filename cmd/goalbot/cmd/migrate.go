package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nzoschke/goalbot/internal/config"
	"github.com/nzoschke/goalbot/internal/db"

	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back SQL migrations",
	}

	c.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(db.RunMigrations)
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(db.MigrateDown)
		},
	})

	return c
}

func runMigrate(migrate func(*sql.DB, string) error) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.StoreSQLite && cfg.StoreDriver != config.StorePGX {
		return fmt.Errorf("migrations need STORE_DRIVER sqlite or pgx, got %q", cfg.StoreDriver)
	}

	database, err := db.Init(cfg.StoreDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	err = migrate(database.DB, cfg.StoreDriver)
	if err != nil {
		return err
	}

	slog.Info("migrations done", "driver", cfg.StoreDriver)
	return nil
}
