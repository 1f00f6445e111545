package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/commitgate/internal/gitctx"
	"github.com/spf13/cobra"
)

// Supported hook types.
const (
	hookCommitMsg  = "commit-msg"
	hookPreReceive = "pre-receive"
)

var (
	hookType       string
	hookWarnOnFail bool
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage git commit-msg and pre-receive hooks",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install commitgate as a git hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := generateHookScript(hookType, hookWarnOnFail)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		hookPath, err := getHookPath(cmd, hookType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		var content string
		if os.IsNotExist(err) || len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceHookSection(string(existing), hookType, section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating hooks directory: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed commitgate %s hook at %s\n", hookType, hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove a commitgate git hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateHookType(hookType); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		hookPath, err := getHookPath(cmd, hookType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s hook found.\n", hookType)
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		content := removeHookSection(string(existing), hookType)

		// If only shebang (and whitespace) remains, delete the file entirely
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing hook file: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed commitgate %s hook at %s\n", hookType, hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed commitgate section from %s\n", hookPath)
		return nil
	},
}

func validateHookType(t string) error {
	switch t {
	case hookCommitMsg, hookPreReceive:
		return nil
	default:
		return fmt.Errorf("unsupported hook type %q (want %s or %s)", t, hookCommitMsg, hookPreReceive)
	}
}

func getHookPath(cmd *cobra.Command, typ string) (string, error) {
	hooksDir, err := gitctx.HooksDir(cmd.Context(), "")
	if err != nil {
		return "", err
	}
	return filepath.Join(hooksDir, typ), nil
}

func hookMarkers(typ string) (start, end string) {
	return "# >>> commitgate " + typ + " hook >>>", "# <<< commitgate " + typ + " hook <<<"
}

// generateHookScript returns the marker-delimited hook section. Exit code 1
// blocks; configuration and runtime errors (2 and above) warn and let git
// proceed.
func generateHookScript(typ string, warnOnFail bool) (string, error) {
	if err := validateHookType(typ); err != nil {
		return "", err
	}
	start, end := hookMarkers(typ)

	invocation := `commitgate check "$1"`
	what := "commit"
	if typ == hookPreReceive {
		invocation = "commitgate pre-receive"
		what = "push"
	}
	if warnOnFail {
		invocation += " --warn-on-fail"
	}

	var b strings.Builder
	b.WriteString(start + "\n")
	b.WriteString(invocation + "\n")
	b.WriteString("COMMITGATE_EXIT=$?\n")
	b.WriteString("if [ $COMMITGATE_EXIT -eq 1 ]; then\n")
	fmt.Fprintf(&b, "  echo \"commitgate: invalid commit message, %s blocked\" >&2\n", what)
	b.WriteString("  exit 1\n")
	b.WriteString("elif [ $COMMITGATE_EXIT -ge 2 ]; then\n")
	fmt.Fprintf(&b, "  echo \"commitgate: warning: validation encountered an error (exit $COMMITGATE_EXIT), allowing %s\" >&2\n", what)
	b.WriteString("fi\n")
	b.WriteString(end + "\n")
	return b.String(), nil
}

func replaceHookSection(existing, typ, section string) string {
	start, end := hookMarkers(typ)
	startIdx := strings.Index(existing, start)
	endIdx := strings.Index(existing, end)

	if startIdx == -1 || endIdx == -1 {
		// No existing commitgate section, append
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(end):]
	// Trim leading newline from after to avoid double newlines
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

func removeHookSection(existing, typ string) string {
	start, end := hookMarkers(typ)
	startIdx := strings.Index(existing, start)
	endIdx := strings.Index(existing, end)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(end):]
	after = strings.TrimPrefix(after, "\n")

	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookCmd.PersistentFlags().StringVar(&hookType, "type", hookCommitMsg, "Hook type (commit-msg, pre-receive)")
	hookInstallCmd.Flags().BoolVar(&hookWarnOnFail, "warn-on-fail", false, "Install the hook in warn-only mode")
}
