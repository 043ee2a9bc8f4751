package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raveheart1/semversioner/internal/errors"
)

var (
	changelogVersionFlag  string
	changelogTemplateFlag string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Print the changelog",
	Long: `Print the changelog rendered from the release history, newest version
first. A custom Go text/template can replace the default Markdown layout; the
template receives .Releases, each with .Version, .CreatedAt and .Changes.`,
	Example: `  semversioner changelog > CHANGELOG.md
  semversioner changelog --version 1.2.0
  semversioner changelog --template docs/changelog.tmpl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cfg, err := newReleaser(cmd)
		if err != nil {
			return err
		}

		templatePath := changelogTemplateFlag
		if templatePath == "" {
			templatePath = cfg.Template
		}
		var templateText string
		if templatePath != "" {
			data, err := os.ReadFile(templatePath)
			if err != nil {
				return errors.NewUserInputError("reading template %s: %v", templatePath, err)
			}
			templateText = string(data)
		}

		out, err := r.GenerateChangelog(changelogVersionFlag, templateText)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().StringVar(&changelogVersionFlag, "version", "", "Filter the changelog by version")
	changelogCmd.Flags().StringVar(&changelogTemplateFlag, "template", "", "Path to a custom changelog template")
}
