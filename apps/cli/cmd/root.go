package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/pet/packages/core/config"
	"github.com/abdul-hamid-achik/pet/packages/output"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	verboseFlag int
	noColorFlag bool
	configFlag  string
	outputFlag  string
	historyFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pet",
	Short: "One HTTPS request, one envelope.",
	Long: `pet sends a single HTTPS request and reports the outcome as one
envelope: a status, whether the server produced it, a message and a
body decoded by its content type.

Failures are split into remote ones (the server answered with an error
status) and local ones (the call never got a usable answer).`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}

	// Anything cobra rejects before a command runs is a usage problem.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v shows headers, -vv adds debug logs)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("PET_NO_COLOR", false), "Disable colored output (env: PET_NO_COLOR)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("PET_CONFIG", ""), "Path to config file (env: PET_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", getEnvString("PET_OUTPUT", ""), "Output format: console, json (env: PET_OUTPUT)")
	rootCmd.PersistentFlags().StringVar(&historyFlag, "history", getEnvString("PET_HISTORY", ""), "Record calls in this SQLite database (env: PET_HISTORY)")

	rootCmd.AddCommand(requestCmd)
	for _, c := range methodCmds {
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogger puts a logger in the command context. Debug logs need -vv.
func setupLogger(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "pet",
	})
	if verboseFlag > 1 {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	// Subcommands keep the context of their first run; the root's is fresh.
	cmd.SetContext(log.WithContext(cmd.Root().Context(), logger))
	return nil
}

// resolveConfig layers defaults, the config file and explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}
	cfg := config.DefaultConfig().Merge(fileConfig)

	overrides := &config.Config{
		Output:  outputFlag,
		History: historyFlag,
	}
	if verboseFlag > 0 {
		overrides.Verbose = config.BoolPtr(true)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	cfg = cfg.Merge(overrides)

	switch strings.ToLower(cfg.Output) {
	case "console", "json":
	default:
		return nil, usageErrorf("unknown output format %q (want console or json)", cfg.Output)
	}

	return cfg, nil
}

func newFormatter(cmd *cobra.Command, cfg *config.Config) output.Formatter {
	if strings.EqualFold(cfg.Output, "json") {
		return output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout()))
	}
	return output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)
}
