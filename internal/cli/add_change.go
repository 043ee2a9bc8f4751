package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/output"
)

var (
	addChangeType        string
	addChangeDescription string
	addChangeAttributes  []string
	addChangePre         string
)

var addChangeCmd = &cobra.Command{
	Use:   "add-change",
	Short: "Create a new changeset file",
	Long: `Create a new changeset file in the next-release directory.

Each changeset records one change's severity (major, minor or patch) and a
description that will appear in the changelog. Optional attributes attach
free-form metadata; --pre marks the change as targeting a prerelease channel.`,
	Example: `  semversioner add-change --type minor --description "Add retry support"
  semversioner add-change -t patch -d "Fix panic on empty input" --attributes pr=142
  semversioner add-change -t major -d "New storage engine" --pre alpha`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attributes, err := parseKeyValuePairs(addChangeAttributes)
		if err != nil {
			return err
		}

		r, _, err := newReleaser(cmd)
		if err != nil {
			return err
		}
		path, err := r.AddChange(addChangeType, addChangeDescription, attributes, addChangePre)
		if err != nil {
			return err
		}
		output.Successf(cmd.OutOrStdout(), "Successfully created file %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addChangeCmd)

	addChangeCmd.Flags().StringVarP(&addChangeType, "type", "t", "", "Change type: major, minor or patch")
	addChangeCmd.Flags().StringVarP(&addChangeDescription, "description", "d", "", "Change description")
	addChangeCmd.Flags().StringArrayVar(&addChangeAttributes, "attributes", nil, "Attributes in key=value format (repeatable)")
	addChangeCmd.Flags().StringVar(&addChangePre, "pre", "", "Prerelease channel: alpha, beta or rc")
	addChangeCmd.MarkFlagRequired("type")
	addChangeCmd.MarkFlagRequired("description")
}

// parseKeyValuePairs turns repeated "key=value" flags into a map.
func parseKeyValuePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, item := range pairs {
		key, value, found := strings.Cut(item, "=")
		if !found || key == "" {
			return nil, errors.NewUserInputError("invalid attribute %q (expected key=value)", item)
		}
		out[key] = value
	}
	return out, nil
}
