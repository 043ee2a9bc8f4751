package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/output"
)

var currentVersionCmd = &cobra.Command{
	Use:     "current-version",
	Short:   "Show the current version",
	Example: `  semversioner current-version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := newReleaser(cmd)
		if err != nil {
			return err
		}
		version, err := r.GetLastVersion()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}

var nextVersionCmd = &cobra.Command{
	Use:     "next-version",
	Short:   "Show the computed next version",
	Example: `  semversioner next-version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := newReleaser(cmd)
		if err != nil {
			return err
		}
		version, err := r.GetNextVersion()
		if stderrors.Is(err, errors.ErrNoChangesets) {
			output.Errorf(cmd.ErrOrStderr(), "Error: No changes found. No next version available.")
			return reported(err)
		}
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(currentVersionCmd)
	rootCmd.AddCommand(nextVersionCmd)
}
