package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/theleywin/talentnest/src/config"
	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/store"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "talentnest",
	Short: "TalentNest social network backend",
	Example: `talentnest serve --port 3000
talentnest migrate
talentnest seed --count 20 --posts 3`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(seedCommand())

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// bootstrap loads the configuration, sets up logging and opens the store
func bootstrap(ctx context.Context) (*config.Config, store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	lib.ConfigureLogger(cfg.LogLevel, cfg.LogFormat)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}
