package cli

import (
	"fmt"
	"os"

	"github.com/dshills/commitgate/internal/gate"
	"github.com/spf13/cobra"
)

var rangeCmd = &cobra.Command{
	Use:   "range <old>..<new>",
	Short: "Validate the commits in a revision range",
	Long:  "Validate every commit reachable from <new> but not from <old>, oldest first. An empty <new> means HEAD.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldRev, newRev, err := gate.ParseRange(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		s := newSession()
		if s == nil {
			return nil
		}
		s.loadRepoInfo(cmd)

		report, err := s.checker.CheckRange(cmd.Context(), oldRev, newRev)
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
	addCheckFlags(rangeCmd)
}
