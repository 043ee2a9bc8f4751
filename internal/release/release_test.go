package release

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/storage"
)

func newTestReleaser(t *testing.T) *Releaser {
	t.Helper()
	r, err := New(t.TempDir())
	require.NoError(t, err)
	return r
}

func addChange(t *testing.T, r *Releaser, changeType, description string) {
	t.Helper()
	_, err := r.AddChange(changeType, description, nil, "")
	require.NoError(t, err)
}

func TestRelease_EmptyRepoFirstRelease(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)
	addChange(t, r, "minor", "add feature")
	addChange(t, r, "major", "redesign api")

	rel, err := r.Release()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", rel.Version)
	require.NotNil(t, rel.CreatedAt)
	require.Len(t, rel.Changes, 2)
	// Changes come back in (type, description) order.
	assert.Equal(t, "redesign api", rel.Changes[0].Description)
	assert.Equal(t, "add feature", rel.Changes[1].Description)

	status, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Empty(t, status.NextVersion)
	assert.Empty(t, status.UnreleasedChanges)
}

func TestRelease_NothingPending(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)

	_, err := r.Release()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNoChangesets))

	// No release file may appear on a failed release.
	entries, readErr := os.ReadDir(r.Store().Root())
	require.NoError(t, readErr)
	for _, e := range entries {
		assert.True(t, e.IsDir(), "unexpected release file %s", e.Name())
	}
}

func TestRelease_SequentialHistory(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)

	addChange(t, r, "minor", "one")
	rel, err := r.Release()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", rel.Version)

	addChange(t, r, "patch", "two")
	rel, err = r.Release()
	require.NoError(t, err)
	assert.Equal(t, "0.1.1", rel.Version)

	addChange(t, r, "major", "three")
	rel, err = r.Release()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", rel.Version)

	last, err := r.GetLastVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", last)
}

func TestGetNextVersion(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)

	_, err := r.GetNextVersion()
	assert.True(t, stderrors.Is(err, errors.ErrNoChangesets))

	addChange(t, r, "patch", "small fix")
	next, err := r.GetNextVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.0.1", next)

	addChange(t, r, "minor", "feature")
	next, err = r.GetNextVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", next)

	addChange(t, r, "major", "breaking")
	next, err = r.GetNextVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", next)
}

func TestRelease_PrereleaseFlow(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)

	_, err := r.AddChange("minor", "experimental api", nil, "alpha")
	require.NoError(t, err)

	rel, err := r.Release()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-alpha.1", rel.Version)

	// Same channel again: counter advances at the same triple.
	_, err = r.AddChange("minor", "more experiments", nil, "alpha")
	require.NoError(t, err)
	rel, err = r.Release()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-alpha.2", rel.Version)

	// The highest-priority pending channel wins.
	_, err = r.AddChange("patch", "stabilize", nil, "beta")
	require.NoError(t, err)
	_, err = r.AddChange("patch", "harden", nil, "rc")
	require.NoError(t, err)
	rel, err = r.Release()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-rc.1", rel.Version)

	// A stable batch promotes the prerelease line.
	addChange(t, r, "patch", "ship it")
	rel, err = r.Release()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", rel.Version)
}

func TestRelease_MixedStableAndPrereleaseFails(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)
	addChange(t, r, "minor", "stable change")
	_, err := r.AddChange("patch", "prerelease change", nil, "beta")
	require.NoError(t, err)

	_, err = r.Release()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMixedChangesets))

	// The pending set must survive the failed release.
	has, err := r.HasChangesets()
	require.NoError(t, err)
	assert.True(t, has)
}

func TestAddChange_Validation(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)

	_, err := r.AddChange("huge", "x", nil, "")
	assert.Error(t, err)

	_, err = r.AddChange("minor", "x", nil, "nightly")
	assert.Error(t, err)
}

func TestHasChangesets(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)

	has, err := r.HasChangesets()
	require.NoError(t, err)
	assert.False(t, has)

	addChange(t, r, "patch", "x")
	has, err = r.HasChangesets()
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStatus_WithPendingChanges(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)
	addChange(t, r, "minor", "pending thing")

	status, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", status.Version)
	assert.Equal(t, "0.1.0", status.NextVersion)
	require.Len(t, status.UnreleasedChanges, 1)
	assert.Equal(t, "pending thing", status.UnreleasedChanges[0].Description)
}

func TestGenerateChangelog(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)

	out, err := r.GenerateChangelog("", "")
	require.NoError(t, err)
	assert.Equal(t, "# Changelog\nNote: version releases in the 0.x.y range may introduce breaking changes.\n", out)

	addChange(t, r, "minor", "first feature")
	_, err = r.Release()
	require.NoError(t, err)
	addChange(t, r, "patch", "first fix")
	_, err = r.Release()
	require.NoError(t, err)

	out, err = r.GenerateChangelog("", "")
	require.NoError(t, err)
	assert.Contains(t, out, "## 0.1.1\n\n- patch: first fix\n")
	assert.Contains(t, out, "## 0.1.0\n\n- minor: first feature\n")

	// Filtered to one version.
	out, err = r.GenerateChangelog("0.1.0", "")
	require.NoError(t, err)
	assert.Contains(t, out, "## 0.1.0")
	assert.NotContains(t, out, "## 0.1.1")

	// Filtering to an unknown version renders zero releases, not an error.
	out, err = r.GenerateChangelog("9.9.9", "")
	require.NoError(t, err)
	assert.NotContains(t, out, "##")

	// Custom template.
	out, err = r.GenerateChangelog("", "{{range .Releases}}{{.Version}};{{end}}")
	require.NoError(t, err)
	assert.Equal(t, "0.1.1;0.1.0;", out)
}

func TestRelease_TimestampSecondPrecision(t *testing.T) {
	t.Parallel()

	r := newTestReleaser(t)
	fixed := time.Date(2024, 11, 5, 13, 14, 15, 999999999, time.UTC)
	r.now = func() time.Time { return fixed }

	addChange(t, r, "patch", "x")
	rel, err := r.Release()
	require.NoError(t, err)
	require.NotNil(t, rel.CreatedAt)
	assert.True(t, rel.CreatedAt.Equal(fixed.Truncate(time.Second)))

	// Round trip through the store keeps second precision.
	releases, err := r.Store().ListVersions()
	require.NoError(t, err)
	require.Len(t, releases, 1)
	require.NotNil(t, releases[0].CreatedAt)
	assert.True(t, releases[0].CreatedAt.Equal(fixed.Truncate(time.Second)))
}

func TestLegacyLayoutEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, storage.LegacyDirName), 0o755))

	r, err := New(dir)
	require.NoError(t, err)
	assert.True(t, r.IsDeprecated())

	addChange(t, r, "minor", "still works")
	rel, err := r.Release()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", rel.Version)
	assert.FileExists(t, filepath.Join(dir, storage.LegacyDirName, "0.1.0.json"))
}
