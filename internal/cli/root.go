package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitRejected     = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitRuntimeError = 4
)

// Persistent flags
var (
	flagConfig    string
	flagVerbose   bool
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "commitgate",
	Short: "Conventional commit message validator",
	Long: "Commitgate validates commit message headers against the \"<type>(<scope>): <subject>\" convention " +
		"as a commit-msg hook, a pre-receive hook, or over a revision range.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(flagLogFormat, flagVerbose)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Run executes the root command and returns an exit code.
func Run() int {
	return run(os.Args[1:])
}

func run(args []string) int {
	exitCode = ExitSuccess

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	setContext(rootCmd, ctx)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// setContext gives every command ctx. Cobra only hands the root context to a
// subcommand that has none, so a second run would keep a cancelled one.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print commitgate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "commitgate version %s\n", version)
	},
}

// newLogger builds the process logger. Logs go to stderr so they never mix
// with report output.
func newLogger(format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: nearest .commitgate.yaml, then user config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(preReceiveCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
