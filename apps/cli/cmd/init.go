package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/pet/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter pet config file",
	Long: `Write pet.config.yaml with the default settings to the current directory.

Examples:
  pet init
  pet init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "pet.config.yaml")
	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return withExitCode(ExitConfigError, fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile))
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.SaveConfig(configFile); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)
	return nil
}
