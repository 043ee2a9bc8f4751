// Package release orchestrates the release workflow: it combines the pending
// changeset store with the version bump rules to cut releases, report status
// and generate changelogs.
package release

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/raveheart1/semversioner/internal/changelog"
	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/model"
	"github.com/raveheart1/semversioner/internal/semver"
	"github.com/raveheart1/semversioner/internal/storage"
)

// InitialVersion is the version reported before any release exists.
const InitialVersion = "0.0.0"

// Releaser coordinates changesets and version history under one base path.
// It holds no state beyond the store handle; every operation re-reads the
// filesystem.
type Releaser struct {
	store *storage.Store

	// now is swappable for tests that pin release timestamps.
	now func() time.Time
}

// New opens a Releaser over the given base path.
func New(path string) (*Releaser, error) {
	store, err := storage.New(path)
	if err != nil {
		return nil, err
	}
	return NewWithStore(store), nil
}

// NewWithStore wraps an existing store.
func NewWithStore(store *storage.Store) *Releaser {
	return &Releaser{store: store, now: time.Now}
}

// Store exposes the underlying store, mainly for the CLI layer.
func (r *Releaser) Store() *storage.Store {
	return r.store
}

// IsDeprecated reports whether the repository still uses the legacy
// ".changes" directory.
func (r *Releaser) IsDeprecated() bool {
	return r.store.IsDeprecated()
}

// AddChange records a new pending changeset and returns the path of the file
// created. changeType must be major, minor or patch; pre, when non-empty,
// must be a valid prerelease channel.
func (r *Releaser) AddChange(changeType, description string, attributes map[string]string, pre string) (string, error) {
	t, err := semver.ParseReleaseType(changeType)
	if err != nil {
		return "", errors.NewUserInputError("%v", err)
	}

	var channel semver.Channel
	if pre != "" {
		channel, err = semver.ParseChannel(pre)
		if err != nil {
			return "", errors.NewUserInputError("%v", err)
		}
	}

	return r.store.CreateChangeset(model.Changeset{
		Type:        t,
		Description: description,
		Attributes:  attributes,
		Pre:         channel,
	})
}

// GetLastVersion returns the highest released version, or InitialVersion when
// no release has been cut yet.
func (r *Releaser) GetLastVersion() (string, error) {
	last, err := r.store.GetLastVersion()
	if err != nil {
		return "", err
	}
	if last == "" {
		return InitialVersion, nil
	}
	return last, nil
}

// GetNextVersion computes the version the pending changes would release as.
// Returns errors.ErrNoChangesets when nothing is pending; callers decide
// whether that is a normal state (status) or a failure (release).
func (r *Releaser) GetNextVersion() (string, error) {
	changes, err := r.store.ListChangesets()
	if err != nil {
		return "", err
	}
	return r.nextVersion(changes)
}

// nextVersion applies the bump rules to a batch of pending changes.
func (r *Releaser) nextVersion(changes []model.Changeset) (string, error) {
	if len(changes) == 0 {
		return "", errors.ErrNoChangesets
	}

	var (
		types    []semver.ReleaseType
		channels []semver.Channel
		stable   int
	)
	for _, c := range changes {
		if _, err := semver.ParseReleaseType(string(c.Type)); err != nil {
			return "", errors.WrapIntegrity(err, fmt.Sprintf("changeset %q", c.Description))
		}
		types = append(types, c.Type)
		if c.Pre == "" {
			stable++
		} else {
			channels = append(channels, c.Pre)
		}
	}
	if stable > 0 && len(channels) > 0 {
		return "", errors.ErrMixedChangesets
	}

	lastStr, err := r.GetLastVersion()
	if err != nil {
		return "", err
	}
	current, err := semver.Parse(lastStr)
	if err != nil {
		return "", errors.WrapIntegrity(err, fmt.Sprintf("current version %q", lastStr))
	}

	next := current.Bump(semver.Highest(types), semver.HighestChannel(channels))
	return next.String(), nil
}

// Release cuts a new release: it snapshots the pending changes into an
// immutable release record keyed by the computed next version, then clears
// the pending area. Fails with errors.ErrNoChangesets when nothing is
// pending, without touching the history.
func (r *Releaser) Release() (model.Release, error) {
	changes, err := r.store.ListChangesets()
	if err != nil {
		return model.Release{}, err
	}
	next, err := r.nextVersion(changes)
	if err != nil {
		return model.Release{}, err
	}

	created := r.now().UTC().Truncate(time.Second)
	release := model.Release{
		Version:   next,
		CreatedAt: &created,
		Changes:   changes,
	}

	if err := r.store.CreateVersion(release); err != nil {
		return model.Release{}, err
	}
	if err := r.store.RemoveAllChangesets(); err != nil {
		return model.Release{}, err
	}
	return release, nil
}

// Status returns a read-only snapshot of the working directory. It never
// mutates state; an empty pending area is reported as an empty next version,
// not an error.
func (r *Releaser) Status() (model.ReleaseStatus, error) {
	version, err := r.GetLastVersion()
	if err != nil {
		return model.ReleaseStatus{}, err
	}
	changes, err := r.store.ListChangesets()
	if err != nil {
		return model.ReleaseStatus{}, err
	}

	next, err := r.nextVersion(changes)
	if err != nil && !stderrors.Is(err, errors.ErrNoChangesets) {
		return model.ReleaseStatus{}, err
	}

	return model.ReleaseStatus{
		Version:           version,
		NextVersion:       next,
		UnreleasedChanges: changes,
	}, nil
}

// HasChangesets reports whether at least one changeset file is pending.
func (r *Releaser) HasChangesets() (bool, error) {
	changes, err := r.store.ListChangesets()
	if err != nil {
		return false, err
	}
	return len(changes) > 0, nil
}

// GenerateChangelog renders the release history, newest version first,
// through templateText (changelog.DefaultTemplate when empty). A non-empty
// version filters the history to that single release; filtering to an unknown
// version renders the template with zero releases.
func (r *Releaser) GenerateChangelog(version, templateText string) (string, error) {
	releases, err := r.store.ListVersions()
	if err != nil {
		return "", err
	}

	if version != "" {
		releases = filterByVersion(releases, version)
	}
	if templateText == "" {
		templateText = changelog.DefaultTemplate
	}
	return changelog.Render(releases, templateText)
}

// filterByVersion keeps only the release matching version. Versions compare
// by value, so legacy compact renderings match their canonical form.
func filterByVersion(releases []model.Release, version string) []model.Release {
	want, err := semver.Parse(version)
	if err != nil {
		// Not a parseable version: nothing can match it.
		return nil
	}

	var out []model.Release
	for _, rel := range releases {
		v, err := semver.Parse(rel.Version)
		if err == nil && semver.Compare(v, want) == 0 {
			out = append(out, rel)
		}
	}
	return out
}
