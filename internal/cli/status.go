package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/raveheart1/semversioner/internal/output"
	"github.com/raveheart1/semversioner/internal/release"
)

// watchDebounce coalesces bursts of filesystem events into one re-render.
const watchDebounce = 200 * time.Millisecond

var statusWatchFlag bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the working directory",
	Long: `Show the current version, the computed next version and the pending
changes. With --watch, the status re-renders whenever the pending area
changes, until interrupted.`,
	Example: `  semversioner status
  semversioner status --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := newReleaser(cmd)
		if err != nil {
			return err
		}
		if statusWatchFlag {
			return watchStatus(cmd, r)
		}
		return printStatus(cmd.OutOrStdout(), r)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusWatchFlag, "watch", false, "Re-render the status when the pending area changes")
}

// printStatus renders one status snapshot.
func printStatus(out io.Writer, r *release.Releaser) error {
	status, err := r.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Version: %s\n", status.Version)
	if len(status.UnreleasedChanges) == 0 {
		fmt.Fprintln(out, `No changes to release (use "semversioner add-change")`)
		return nil
	}

	fmt.Fprintf(out, "Next version: %s\n", status.NextVersion)
	fmt.Fprintln(out, "Unreleased changes:")
	for _, change := range status.UnreleasedChanges {
		output.Changef(out, string(change.Type), change.Description)
	}
	fmt.Fprintln(out, `(use "semversioner release" to release the next version)`)
	return nil
}

// watchStatus re-renders the status whenever the state directory changes.
// The pending directory itself may be created and removed between renders, so
// the watch is on the state directory root.
func watchStatus(cmd *cobra.Command, r *release.Releaser) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	root := r.Store().Root()
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	// Best effort: the pending dir may not exist right now.
	if pending := r.Store().NextReleasePath(); dirExists(pending) {
		_ = watcher.Add(pending)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	if err := printStatus(out, r); err != nil {
		return err
	}

	var debounce *time.Timer
	render := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watcher.Errors:
			return fmt.Errorf("watching %s: %w", root, err)
		case event := <-watcher.Events:
			// A recreated pending directory needs re-adding to the watch.
			if event.Op.Has(fsnotify.Create) && filepath.Base(event.Name) == filepath.Base(r.Store().NextReleasePath()) {
				_ = watcher.Add(event.Name)
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case render <- struct{}{}:
				default:
				}
			})
		case <-render:
			fmt.Fprintln(out)
			if err := printStatus(out, r); err != nil {
				return err
			}
		}
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
