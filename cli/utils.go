package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalFlags returns the persistent flag set the global flags are registered
// on. Reads go to the root set directly so they work before cobra has merged
// persistent flags into the executed command's working set.
func globalFlags(cmd *cobra.Command) *pflag.FlagSet {
	return cmd.Root().PersistentFlags()
}

// extractCLIFlags extracts command line flags from a cobra command into a map
// keyed by configuration path. It processes only flags that have been
// explicitly changed by the user, so untouched flags never mask the lower
// configuration layers.
func extractCLIFlags(cmd *cobra.Command, flags map[string]any) {
	flagSet := globalFlags(cmd)

	// Generic helper to add any flag type
	addFlag := func(flagName, key string, getter func(string) (any, error)) {
		if flagSet.Changed(flagName) {
			if value, err := getter(flagName); err == nil {
				flags[key] = value
			}
		}
	}

	// Define flag extractors with proper type conversion
	getString := func(name string) (any, error) { return flagSet.GetString(name) }
	getInt := func(name string) (any, error) { return flagSet.GetInt(name) }
	getBool := func(name string) (any, error) { return flagSet.GetBool(name) }
	getDuration := func(name string) (any, error) { return flagSet.GetDuration(name) }

	// Flag definitions with their configuration paths
	flagDefs := []struct {
		flagName string
		key      string
		getter   func(string) (any, error)
	}{
		{"policy", "policy", getString},

		// Logging flags
		{"log-level", "log.level", getString},
		{"log-json", "log.json", getBool},
		{"log-source", "log.source", getBool},

		// Snapshot store flags
		{"store-path", "store.path", getString},

		// Stress demo flags
		{"workers", "stress.workers", getInt},
		{"timeout", "stress.timeout", getDuration},
	}

	// Process all flags
	for _, def := range flagDefs {
		addFlag(def.flagName, def.key, def.getter)
	}
}

// loadEnvFile loads environment variables from a file with security validation
func loadEnvFile(cmd *cobra.Command) (string, error) {
	envFile, err := globalFlags(cmd).GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile != "" {
		pwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		if !filepath.IsAbs(envFile) {
			envFile = filepath.Join(pwd, envFile)
		}
		cleanPath := filepath.Clean(envFile)
		absPath, err := filepath.Abs(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve env file path: %w", err)
		}
		if !isPathWithinDirectory(absPath, pwd) {
			return "", fmt.Errorf("env file path '%s' is outside the project directory", envFile)
		}
		fileInfo, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return absPath, nil
			}
			return "", fmt.Errorf("failed to stat env file: %w", err)
		}
		if !fileInfo.Mode().IsRegular() {
			return "", fmt.Errorf("env file path '%s' is not a regular file", envFile)
		}
		if err := godotenv.Load(absPath); err != nil {
			if !os.IsNotExist(err) {
				return "", fmt.Errorf("failed to load env file %s: %w", absPath, err)
			}
		}
		return absPath, nil
	}
	return envFile, nil
}

// isPathWithinDirectory checks if a given path is within the specified directory
func isPathWithinDirectory(path, dir string) bool {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return false
	}
	if !strings.HasSuffix(absDir, string(filepath.Separator)) {
		absDir += string(filepath.Separator)
	}
	return strings.HasPrefix(absPath, absDir) || absPath == strings.TrimSuffix(absDir, string(filepath.Separator))
}
