package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/gitcheck"
	"github.com/raveheart1/semversioner/internal/output"
)

var (
	checkSrcFlag  string
	checkBaseFlag string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify changeset files exist for the current branch",
	Long: `Verify changeset files exist for the current branch.

The current branch (including uncommitted work) is diffed against the base
branch. If any changed file matches the source glob, at least one changeset
document must be among the changed files. Use this in CI to enforce that
changesets are present before merging.`,
	Example: `  semversioner check
  semversioner check --src "src/**/*" --base main`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		src := checkSrcFlag
		if !cmd.Flags().Changed("src") && cfg.CheckSrc != "" {
			src = cfg.CheckSrc
		}
		base := checkBaseFlag
		if !cmd.Flags().Changed("base") && cfg.CheckBase != "" {
			base = cfg.CheckBase
		}

		ok, err := gitcheck.Check(cfg.Path, src, base)
		if err != nil {
			return err
		}
		if !ok {
			output.Errorf(cmd.ErrOrStderr(), "Error: No changes to release.")
			return reported(errors.NewUserInputError("changeset files missing for changes against %s", base))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkSrcFlag, "src", "s", "**/*", "Glob pattern for source files that require a changeset")
	checkCmd.Flags().StringVarP(&checkBaseFlag, "base", "b", "master", "Base branch to compare against")
}
