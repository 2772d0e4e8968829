package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .sitefold.yaml config file",
	Long:  `Create a .sitefold.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".sitefold.yaml"); err == nil && !force {
			return fmt.Errorf(".sitefold.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".sitefold.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .sitefold.yaml")
		return nil
	},
}

const defaultConfig = `# sitefold configuration
# Docs: https://github.com/sitefold/sitefold

# Shared settings
verbose: false

# Optimization settings
optimize:
  root: dist
  include:
    - "**/*.css"
    - "**/*.html"
    - "**/*.htm"
    - "**/*.js"
    - "**/*.mjs"
  classes: true            # rename class selectors
  ids: true                # rename id selectors
  vars: true               # rename custom properties
  shaders: true            # mangle GLSL template literals
  fold-calc: true
  fold-colors: true
  dry-run: false
  parallelism: 0           # 0 = all CPUs
  output-format: summary   # summary | full | json
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
