package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sitefold",
	Short: "Post-build size optimizer for static web output",
	Long: `Shrink a finished build tree in place.
sitefold renames CSS classes, ids and custom properties to short generated
names wherever every occurrence is statically visible, mangles GLSL locals
in shader template literals, and folds calc() and oklch() expressions.
Files are only ever rewritten when the result is strictly smaller.`,
	// Default behavior: run optimize when no subcommand is given.
	// We must call loadConfig here because PreRunE of optimizeCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runOptimize(args)
	},
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".sitefold.yaml", "Config file path")

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
