package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/learning-layers/ldocs-updatetime/internal/config"
	"github.com/learning-layers/ldocs-updatetime/internal/service/server"
	"github.com/learning-layers/ldocs-updatetime/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// apiKeyFile overrides the key file from the configuration.
	apiKeyFile string

	// rootCmd represents the base command for running the hook server.
	rootCmd = &cobra.Command{
		Use:   "ldocs-hook-server [listen-address]",
		Short: "Serve pad hooks that report document updates to Living Documents.",
		Long: `Starts the gRPC hook server used by the pad host.

The shared API key is read once at startup; the server refuses to start without it.
Each padUpdate invocation posts one notification to the Living Documents API on this
machine and completes immediately, without waiting for the API to answer.
Listen address can be provided as argument to override config (e.g. 127.0.0.1:9001).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				APIKeyFile:    apiKeyFile,
			})
		},
	}
)

// Execute runs the ldocs-hook-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+")")
	rootCmd.Flags().StringVarP(&apiKeyFile, "api-key-file", "k", "", "path to the API key file (overrides config)")
}
