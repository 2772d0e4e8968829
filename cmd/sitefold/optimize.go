package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitefold/sitefold"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [root]",
	Short: "Shrink a build output tree in place",
	Long: `Run one optimization pass over the finished build at root.
Identifiers are harvested across the whole tree, short names allocated by
usage, and every file rewritten only if it gets strictly smaller.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, args []string) error {
		return runOptimize(args)
	},
}

func init() {
	f := optimizeCmd.Flags()
	f.String("root", "dist", "Build output directory to optimize")
	f.StringSlice("include", nil, "Glob patterns relative to the root")
	f.Bool("dry-run", false, "Report savings without writing any file")
	f.Bool("classes", true, "Rename CSS class names")
	f.Bool("ids", true, "Rename CSS id names")
	f.Bool("vars", true, "Rename CSS custom properties")
	f.Bool("shaders", true, "Mangle GLSL locals in shader template literals")
	f.Bool("fold-calc", true, "Fold constant calc() expressions")
	f.Bool("fold-colors", true, "Fold oklch() colors to hex")
	f.Int("parallelism", 0, "Max concurrent file workers (0 = all CPUs)")
	f.String("output-format", "", "Output format: summary|full|json")
}

// runOptimize is shared between `sitefold optimize` and the bare `sitefold`
// invocation.
func runOptimize(args []string) error {
	rootArg := ""
	if len(args) > 0 {
		rootArg = args[0]
	}
	config := buildOptimizeConfig(rootArg)

	result, err := sitefold.Optimize(config)
	if err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	if !quiet {
		format := sitefold.DetermineOutputFormat(
			getStringWithFallback("output-format", "optimize.output-format", ""), quiet)
		useColors := sitefold.ShouldUseColors(getBoolWithFallback("color", "color", false))
		sitefold.WriteOutput(os.Stdout, result, format, useColors)
	}
	return nil
}
