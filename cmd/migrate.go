package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the collections, tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, st, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Migrate(ctx); err != nil {
				return err
			}

			logrus.WithField("driver", cfg.DBDriver).Info("migration complete")
			return nil
		},
	}
}
