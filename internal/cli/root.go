// Package cli implements the semversioner command-line interface. It is a
// thin layer over the release coordinator: argument parsing, exit-code
// mapping and terminal formatting live here, nothing else.
package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/raveheart1/semversioner/internal/config"
	"github.com/raveheart1/semversioner/internal/output"
	"github.com/raveheart1/semversioner/internal/release"
)

var pathFlag string

var rootCmd = &cobra.Command{
	Use:   "semversioner",
	Short: "Manage semantic versioning and changelog generation",
	Long: `Semversioner manages semantic versioning properly and simplifies changelog
generation. Small changeset files accumulate under .semversioner/next-release/
as changes are made; cutting a release aggregates them into a single versioned
record and computes the next version number.`,
	Example: `  # Record a pending change
  semversioner add-change --type minor --description "Add --pre flag"

  # Cut a release from everything pending
  semversioner release

  # Write the changelog
  semversioner changelog > CHANGELOG.md`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", "", "Base path (defaults to the current directory)")
}

// Execute runs the root command. Errors a command has already reported to the
// user are returned as-is; anything else is printed here before returning, so
// main only has to map the exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !isReported(err) {
		output.Errorf(rootCmd.ErrOrStderr(), "Error: %v", err)
	}
	return err
}

// reportedError marks an error whose message was already printed by the
// command that produced it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reported wraps err as already shown to the user.
func reported(err error) error {
	return &reportedError{err: err}
}

func isReported(err error) bool {
	var re *reportedError
	return stderrors.As(err, &re)
}

// loadConfig loads configuration, letting the --path flag override the
// configured base path.
func loadConfig() (*config.Configuration, error) {
	base := pathFlag
	if base == "" {
		base = "."
	}
	cfg, err := config.Load(base)
	if err != nil {
		return nil, err
	}
	if pathFlag != "" {
		cfg.Path = pathFlag
	}
	return cfg, nil
}

// newReleaser builds the release coordinator for the configured base path and
// prints the legacy-layout deprecation banner when it applies.
func newReleaser(cmd *cobra.Command) (*release.Releaser, *config.Configuration, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	r, err := release.New(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	if r.IsDeprecated() {
		output.PrintDeprecationWarning(cmd.ErrOrStderr())
	}
	return r, cfg, nil
}
