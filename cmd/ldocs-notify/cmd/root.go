package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/learning-layers/ldocs-updatetime/internal/config"
	"github.com/learning-layers/ldocs-updatetime/internal/service/client"
	"github.com/learning-layers/ldocs-updatetime/internal/service/hook"
	"github.com/learning-layers/ldocs-updatetime/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// apiKeyFile overrides the key file from the configuration.
	apiKeyFile string
	// noWait returns once the request is written.
	noWait bool
	// strict fails the command when the notification is not delivered.
	strict bool
	// serverAddress overrides the hook server address for invoke.
	serverAddress string

	// rootCmd sends one update notification directly.
	rootCmd = &cobra.Command{
		Use:   "ldocs-notify",
		Short: "Report a pad update to Living Documents once.",
		Long: `Posts one update notification to the Living Documents API on this machine.

By default the command waits for the answer and logs it; delivery failures are logged
but do not fail the command unless --strict is given. With --no-wait it returns as soon
as the request has been written, without waiting for the answer.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			_, err := client.Run(ctx, &client.Options{
				ConfigPath: cfgPath,
				APIKeyFile: apiKeyFile,
				NoWait:     noWait,
				Strict:     strict,
			})

			return err
		},
	}

	// invokeCmd fires a hook on a running hook server.
	invokeCmd = &cobra.Command{
		Use:   "invoke [hook]",
		Short: "Fire a hook on a running ldocs-hook-server.",
		Long: `Asks a running ldocs-hook-server to run a hook, padUpdate when no name is given.
The command returns when the hook hands control back, not when the API answers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			name := hook.PadUpdateHook
			if len(args) > 0 {
				name = args[0]
			}

			return client.Invoke(ctx, &client.InvokeOptions{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Hook:          name,
			})
		},
	}
)

// Execute runs the ldocs-notify CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(invokeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+")")

	rootCmd.Flags().StringVarP(&apiKeyFile, "api-key-file", "k", "", "path to the API key file (overrides config)")
	rootCmd.Flags().BoolVar(&noWait, "no-wait", false, "return once the request is written, without waiting for the answer")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "fail when the notification is not delivered")

	invokeCmd.Flags().StringVarP(&serverAddress, "server", "s", "", "hook server address (overrides config)")
}
