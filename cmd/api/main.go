package main

import (
	"fmt"
	"os"

	"github.com/mashirou1234/yesod-auth/config"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yesod-webhooks",
		Short:         "Webhook delivery pipeline and admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "application config file (default ./config.yaml or ./config/config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newConfigCmd(),
		newSignCmd(),
		newTokenCmd(),
		newEmitCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
