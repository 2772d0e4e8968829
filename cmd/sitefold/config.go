package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/sitefold/sitefold"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".sitefold.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (SITEFOLD_* prefix)
	if err := k.Load(env.Provider("SITEFOLD_", ".", func(s string) string {
		// SITEFOLD_OPTIMIZE_ROOT -> optimize.root
		// SITEFOLD_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "SITEFOLD_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildOptimizeConfig constructs the library's Config struct from koanf state.
func buildOptimizeConfig(rootArg string) sitefold.Config {
	root := rootArg
	if root == "" {
		root = getStringWithFallback("root", "optimize.root", "dist")
	}

	config := sitefold.DefaultConfig(root)
	config.RenameClasses = getBoolWithFallback("classes", "optimize.classes", true)
	config.RenameIDs = getBoolWithFallback("ids", "optimize.ids", true)
	config.RenameVars = getBoolWithFallback("vars", "optimize.vars", true)
	config.MangleShaders = getBoolWithFallback("shaders", "optimize.shaders", true)
	config.FoldCalc = getBoolWithFallback("fold-calc", "optimize.fold-calc", true)
	config.FoldColors = getBoolWithFallback("fold-colors", "optimize.fold-colors", true)
	config.DryRun = getBoolWithFallback("dry-run", "optimize.dry-run", false)
	config.Parallelism = getIntWithFallback("parallelism", "optimize.parallelism", 0)
	config.Verbose = getBoolWithFallback("verbose", "verbose", false)

	// Handle includes: check flag key first, then config key
	if includes := k.Strings("include"); len(includes) > 0 {
		config.Includes = includes
	} else if includes := k.Strings("optimize.include"); len(includes) > 0 {
		config.Includes = includes
	}

	return config
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
