package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/inkpost/internal/db"
)

func DBCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database commands",
	}

	cmd.AddCommand(dbMigrateCmd(rt))
	cmd.AddCommand(dbRollbackCmd(rt))
	return cmd
}

func dbMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config()
			if err != nil {
				return err
			}

			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}

func dbRollbackCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config()
			if err != nil {
				return err
			}

			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.MigrateDown(database.DB, cfg.DBDriver); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Rolled back one migration")
			return nil
		},
	}
}
