package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/output"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Release a new version",
	Long: `Release a new version.

Everything pending in the next-release directory is aggregated into a single
release record named after the computed next version, and the pending area is
cleared. Fails when no changesets are pending.`,
	Example: `  semversioner release`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := newReleaser(cmd)
		if err != nil {
			return err
		}

		rel, err := r.Release()
		if stderrors.Is(err, errors.ErrNoChangesets) {
			output.Errorf(cmd.ErrOrStderr(), "Error: No changes to release. Skipping release process.")
			return reported(err)
		}
		if err != nil {
			return err
		}
		output.Successf(cmd.OutOrStdout(), "Successfully created new release: %s", rel.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}
