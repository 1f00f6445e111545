package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/dshills/commitgate/internal/config"
	"github.com/dshills/commitgate/internal/gate"
	"github.com/dshills/commitgate/internal/gitctx"
	"github.com/dshills/commitgate/internal/metrics"
	"github.com/dshills/commitgate/internal/output"
	"github.com/spf13/cobra"
)

// Shared check flags
var (
	flagFormat           string
	flagOut              string
	flagWarnOnFail       bool
	flagMaxSubjectLength int
	flagTypes            string
	flagSubjectPattern   string
	flagHelpMessage      string
	flagJobs             int
	flagMetricsFile      string
	flagRepoDir          string
	flagMessage          string
)

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&flagWarnOnFail, "warn-on-fail", false, "Report violations without rejecting")
	cmd.Flags().IntVar(&flagMaxSubjectLength, "max-subject-length", 0, "Maximum header length (negative disables the check)")
	cmd.Flags().StringVar(&flagTypes, "types", "", `Allowed types (comma-separated, or "*" for any)`)
	cmd.Flags().StringVar(&flagSubjectPattern, "subject-pattern", "", "Regular expression the subject must match")
	cmd.Flags().StringVar(&flagHelpMessage, "help-message", "", `Message shown on rejection ("%s" is replaced by the message)`)
	cmd.Flags().IntVar(&flagJobs, "jobs", 0, "Concurrent git reads")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().StringVar(&flagRepoDir, "repo", "", "Repository directory (default: current directory)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagWarnOnFail {
		m["warnOnFail"] = "true"
	}
	if flagMaxSubjectLength != 0 {
		m["maxSubjectLength"] = strconv.Itoa(flagMaxSubjectLength)
	}
	if flagTypes != "" {
		m["types"] = flagTypes
	}
	if flagSubjectPattern != "" {
		m["subjectPattern"] = flagSubjectPattern
	}
	if flagHelpMessage != "" {
		m["helpMessage"] = flagHelpMessage
	}
	if flagJobs > 0 {
		m["jobs"] = strconv.Itoa(flagJobs)
	}
	if flagMetricsFile != "" {
		m["metricsFile"] = flagMetricsFile
	}
	return m
}

// session is a configured checker plus the settings needed to emit its
// report.
type session struct {
	cfg      config.Config
	checker  *gate.Checker
	recorder *metrics.Recorder
}

// newSession loads configuration and builds a checker. It sets exitCode
// and returns nil on failure.
func newSession() *session {
	path, err := config.ResolvePath(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitConfigError
		return nil
	}
	cfg, err := config.Load(path, buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		exitCode = ExitConfigError
		return nil
	}
	rules, err := cfg.Lint()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		exitCode = ExitConfigError
		return nil
	}
	slog.Debug("loaded config", "path", path, "types", cfg.Types.String(), "maxSubjectLength", cfg.MaxSubjectLength)

	s := &session{
		cfg: cfg,
		checker: &gate.Checker{
			Source: &gitctx.Repo{Dir: flagRepoDir},
			Lint:   rules,
			Jobs:   cfg.Jobs,
			Logger: slog.Default(),
		},
	}
	if cfg.MetricsFile != "" {
		s.recorder = metrics.New()
		s.checker.Observer = s.recorder
	}
	return s
}

// loadRepoInfo attaches repository metadata to reports. Failures are not
// fatal: a bare repository may lack some of it.
func (s *session) loadRepoInfo(cmd *cobra.Command) {
	meta, err := gitctx.GetRepoMeta(cmd.Context(), flagRepoDir)
	if err != nil {
		slog.Debug("repository metadata unavailable", "error", err)
		return
	}
	s.checker.Repo = gate.RepoInfo{Root: meta.Root, Head: meta.Head, Branch: meta.Branch}
}

// finish writes the report and metrics and sets the exit code.
func (s *session) finish(cmd *cobra.Command, report *gate.Report) {
	if err := writeReport(cmd.OutOrStdout(), report, s.cfg.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if s.recorder != nil {
		if err := s.recorder.WriteTextfile(s.cfg.MetricsFile); err != nil {
			// Metrics never block a commit or push.
			slog.Warn("writing metrics textfile", "path", s.cfg.MetricsFile, "error", err)
		}
	}

	slog.Debug("check finished",
		"runId", report.RunID,
		"mode", report.Mode,
		"accepted", report.Accepted,
		"checked", report.Summary.Checked,
		"totalMs", report.Timing.TotalMs,
	)

	if report.Accepted {
		exitCode = ExitSuccess
	} else {
		exitCode = ExitRejected
	}
}

func writeReport(w io.Writer, report *gate.Report, format string) error {
	if flagOut != "" {
		return output.WriteReport(report, format, flagOut)
	}
	writer, err := output.GetWriter(format)
	if err != nil {
		return err
	}
	if tw, ok := writer.(*output.TextWriter); ok && w == os.Stdout {
		tw.Color = output.IsTerminal(os.Stdout)
	}
	return writer.Write(w, report)
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a commit message (commit-msg hook)",
	Long: "Validate a single commit message. The message is read from the given file, " +
		"from stdin when the file is \"-\" or absent, or from --message.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readMessage(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		s := newSession()
		if s == nil {
			return nil
		}
		s.finish(cmd, s.checker.CheckMessage(raw))
		return nil
	},
}

func readMessage(cmd *cobra.Command, args []string) (string, error) {
	if cmd.Flags().Changed("message") {
		return flagMessage, nil
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading message from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading message file: %w", err)
	}
	return string(data), nil
}

func init() {
	addCheckFlags(checkCmd)
	checkCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "Validate this message instead of reading a file")
}
