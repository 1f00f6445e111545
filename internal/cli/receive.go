package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/commitgate/internal/gate"
	"github.com/spf13/cobra"
)

var preReceiveCmd = &cobra.Command{
	Use:   "pre-receive",
	Short: "Validate pushed commits (pre-receive hook)",
	Long: "Read \"<old> <new> <ref>\" lines from stdin, as git passes them to a pre-receive hook, " +
		"and validate every commit each update introduces. The push is rejected at the first invalid commit.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		updates, err := gate.ReadRefUpdates(cmd.InOrStdin())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, gate.ErrMalformedRefUpdate) {
				exitCode = ExitUsageError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		s := newSession()
		if s == nil {
			return nil
		}
		s.loadRepoInfo(cmd)

		report, err := s.checker.CheckPush(cmd.Context(), updates)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		s.finish(cmd, report)
		return nil
	},
}

func init() {
	addCheckFlags(preReceiveCmd)
}
