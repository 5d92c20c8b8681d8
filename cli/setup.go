package cli

import (
	"context"
	"fmt"

	"github.com/compozy/solo/pkg/config"
	"github.com/compozy/solo/pkg/logger"
	"github.com/compozy/solo/pkg/singleton"
	"github.com/spf13/cobra"
)

// SetupGlobalConfig loads the env file and all configuration sources, then
// attaches the resulting manager, logger, and singleton registry to the
// command context. It runs once per invocation from the root command.
func SetupGlobalConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}

	configFile, err := globalFlags(cmd).GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx, buildConfigSources(cmd, configFile)...)
	if err != nil {
		return err
	}

	log := logger.SetupLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Source)

	policy, err := singleton.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}
	registry := singleton.NewRegistry(singleton.WithPolicy(policy))

	ctx = config.ContextWithManager(ctx, manager)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = singleton.ContextWithRegistry(ctx, registry)
	cmd.SetContext(ctx)

	log.Debug("configuration loaded",
		"policy", cfg.Policy,
		"store_path", cfg.Store.Path,
		"workers", cfg.Stress.Workers)
	return nil
}

// buildConfigSources assembles the configuration sources in precedence order.
func buildConfigSources(cmd *cobra.Command, configFile string) []config.Source {
	// Start with default provider for base configuration
	sources := []config.Source{
		config.NewDefaultProvider(),
	}

	// Add YAML provider if config file is specified
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}

	// Add env provider for environment variables
	sources = append(sources, config.NewEnvProvider())

	// Add CLI source for flag overrides (highest precedence)
	cliFlags := make(map[string]any)
	extractCLIFlags(cmd, cliFlags)
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}

	return sources
}
