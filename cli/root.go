package cli

import (
	"fmt"

	"github.com/compozy/solo/pkg/config"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "solo.yaml"
	defaultEnvFile    = ".env"
)

// RootCmd returns the root command for the solo binary.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "solo",
		Short: "Lazy singleton registry with policy-gated guards",
		Long: `Solo manages a lazily created singleton instance behind a guarded registry.
The registry policy decides whether forced construction, snapshot round trips,
and cloning mint new identities (permissive) or are pinned to the canonical
instance (strict).`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyDebugFlag(cmd); err != nil {
				return err
			}
			return SetupGlobalConfig(cmd)
		},
	}

	addGlobalFlags(root)

	root.AddCommand(
		DemoCmd(),
		VersionCmd(),
	)

	return root
}

// addGlobalFlags registers the flags shared by every subcommand. Defaults
// mirror the configuration defaults so help output shows effective values.
func addGlobalFlags(cmd *cobra.Command) {
	defaults := config.Default()

	cmd.PersistentFlags().String("config", defaultConfigFile, "Path to the configuration file")
	cmd.PersistentFlags().String("env-file", defaultEnvFile, "Path to the environment variables file")
	cmd.PersistentFlags().String("policy", defaults.Policy,
		"Registry policy, strict or permissive (env: SOLO_POLICY)")
	cmd.PersistentFlags().String("log-level", defaults.Log.Level,
		"Log level: debug, info, warn, error, disabled (env: SOLO_LOG_LEVEL)")
	cmd.PersistentFlags().Bool("log-json", defaults.Log.JSON, "Output logs in JSON format (env: SOLO_LOG_JSON)")
	cmd.PersistentFlags().Bool("log-source", defaults.Log.Source,
		"Include source file and line in logs (env: SOLO_LOG_SOURCE)")
	cmd.PersistentFlags().String("store-path", defaults.Store.Path,
		"Snapshot file path (env: SOLO_STORE_PATH)")
	cmd.PersistentFlags().Int("workers", defaults.Stress.Workers,
		"Goroutine count for the stress demo (env: SOLO_STRESS_WORKERS)")
	cmd.PersistentFlags().Duration("timeout", defaults.Stress.Timeout,
		"Deadline for the stress demo (env: SOLO_STRESS_TIMEOUT)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug mode (sets log level to debug)")
}

// applyDebugFlag promotes --debug into an explicit log-level override.
func applyDebugFlag(cmd *cobra.Command) error {
	flagSet := globalFlags(cmd)
	debug, err := flagSet.GetBool("debug")
	if err != nil {
		return fmt.Errorf("failed to get debug flag: %w", err)
	}
	if debug {
		return flagSet.Set("log-level", "debug")
	}
	return nil
}
