// Package storage manages the on-disk directory tree that is semversioner's
// sole source of truth. At any given time the layout looks like:
//
//	.semversioner/
//	├── next-release/
//	│   ├── minor-20181227010225012345.json
//	│   └── major-20181228010225012345.json
//	├── 1.1.0.json
//	└── 1.1.1.json
//
// Pending changesets live one file per change under next-release/; each
// released version is a single JSON file named after the version. Nothing is
// cached in memory between calls: every read re-scans the filesystem.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/model"
	"github.com/raveheart1/semversioner/internal/semver"
)

const (
	// DirName is the root directory for semversioner state.
	DirName = ".semversioner"
	// LegacyDirName is the deprecated root directory name. It is still used
	// when present without DirName, with a deprecation flag raised.
	LegacyDirName = ".changes"
	// NextReleaseDir holds pending changeset files.
	NextReleaseDir = "next-release"

	// changesetTimeFormat is the UTC timestamp embedded in changeset
	// filenames, to second precision; microseconds are appended separately.
	changesetTimeFormat = "20060102150405"
)

// Store is a filesystem-backed store for changesets and release records,
// rooted at a caller-supplied base path.
type Store struct {
	path        string // caller-supplied base path
	root        string // <path>/.semversioner (or the legacy dir)
	nextRelease string // <root>/next-release
	deprecated  bool

	// now is swappable for tests that force filename collisions.
	now func() time.Time
}

// New opens (creating if needed) the store under path. If the legacy
// ".changes" directory exists and ".semversioner" does not, the store operates
// against the legacy directory and reports itself deprecated.
func New(path string) (*Store, error) {
	legacy := filepath.Join(path, LegacyDirName)
	root := filepath.Join(path, DirName)
	deprecated := false

	if isDir(legacy) && !isDir(root) {
		root = legacy
		deprecated = true
	}
	if err := os.MkdirAll(filepath.Join(root, NextReleaseDir), 0o755); err != nil {
		return nil, errors.WrapIO(err, "creating changeset directories")
	}

	return &Store{
		path:        path,
		root:        root,
		nextRelease: filepath.Join(root, NextReleaseDir),
		deprecated:  deprecated,
		now:         time.Now,
	}, nil
}

// Path returns the caller-supplied base path.
func (s *Store) Path() string {
	return s.path
}

// Root returns the state directory in use (current or legacy).
func (s *Store) Root() string {
	return s.root
}

// NextReleasePath returns the pending-changeset directory.
func (s *Store) NextReleasePath() string {
	return s.nextRelease
}

// IsDeprecated reports whether the store is operating against the legacy
// ".changes" directory.
func (s *Store) IsDeprecated() bool {
	return s.deprecated
}

// CreateChangeset writes a new changeset file and returns its path. The
// filename is "{type}-{utc timestamp with microseconds}.json"; the file is
// created exclusively, and a name collision regenerates the timestamp and
// retries. Concurrent callers therefore never overwrite each other's records.
// The pending directory is recreated if needed, since clearing removes it.
func (s *Store) CreateChangeset(change model.Changeset) (string, error) {
	data, err := json.MarshalIndent(change, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding changeset: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.nextRelease, 0o755); err != nil {
		return "", errors.WrapIO(err, "creating changeset directory")
	}

	for {
		name := fmt.Sprintf("%s-%s.json", change.Type, s.timestamp())
		full := filepath.Join(s.nextRelease, name)

		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", errors.WrapIO(err, "creating changeset file")
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", errors.WrapIO(err, "writing changeset file")
		}
		if err := f.Close(); err != nil {
			return "", errors.WrapIO(err, "closing changeset file")
		}
		return full, nil
	}
}

func (s *Store) timestamp() string {
	t := s.now().UTC()
	return fmt.Sprintf("%s%06d", t.Format(changesetTimeFormat), t.Nanosecond()/1000)
}

// ListChangesets returns all pending changesets sorted by (type, description).
// A missing pending directory yields an empty list.
func (s *Store) ListChangesets() ([]model.Changeset, error) {
	entries, err := os.ReadDir(s.nextRelease)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO(err, "reading changeset directory")
	}

	var changes []model.Changeset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		full := filepath.Join(s.nextRelease, entry.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, errors.WrapIO(err, "reading changeset file")
		}
		var change model.Changeset
		if err := json.Unmarshal(data, &change); err != nil {
			return nil, errors.WrapIntegrity(err, fmt.Sprintf("parsing changeset %s", entry.Name()))
		}
		changes = append(changes, change)
	}

	model.SortChangesets(changes)
	return changes, nil
}

// RemoveAllChangesets deletes every pending changeset file and removes the
// pending directory if it ends up empty. Clearing an absent or already-empty
// directory is a no-op.
func (s *Store) RemoveAllChangesets() error {
	entries, err := os.ReadDir(s.nextRelease)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WrapIO(err, "reading changeset directory")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.nextRelease, entry.Name())); err != nil {
			return errors.WrapIO(err, "removing changeset file")
		}
	}

	entries, err = os.ReadDir(s.nextRelease)
	if err != nil {
		return errors.WrapIO(err, "re-reading changeset directory")
	}
	if len(entries) == 0 {
		if err := os.Remove(s.nextRelease); err != nil {
			return errors.WrapIO(err, "removing changeset directory")
		}
	}
	return nil
}

// releaseFile is the current on-disk release format. Legacy files are a bare
// JSON array of changes with the version taken from the filename; both shapes
// normalize into model.Release immediately on read.
type releaseFile struct {
	Changes   []model.Changeset `json:"changes"`
	CreatedAt *string           `json:"created_at"`
	Version   string            `json:"version"`
}

// CreateVersion persists a release record as "<version>.json" in the state
// directory. The record's changes are written in their sorted order and the
// creation time at second precision.
func (s *Store) CreateVersion(release model.Release) error {
	out := releaseFile{
		Changes: release.Changes,
		Version: release.Version,
	}
	if release.CreatedAt != nil {
		ts := release.CreatedAt.UTC().Format(time.RFC3339)
		out.CreatedAt = &ts
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding release: %w", err)
	}
	data = append(data, '\n')

	full := filepath.Join(s.root, release.Version+".json")
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return errors.WrapIO(err, "writing release file")
	}
	return nil
}

// ListVersions returns every persisted release, newest version first.
func (s *Store) ListVersions() ([]model.Release, error) {
	versions, err := s.listReleaseVersions()
	if err != nil {
		return nil, err
	}

	releases := make([]model.Release, 0, len(versions))
	for _, v := range versions {
		release, err := s.readRelease(v)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}
	return releases, nil
}

// GetLastVersion returns the highest released version string, or "" when no
// release exists yet.
func (s *Store) GetLastVersion() (string, error) {
	versions, err := s.listReleaseVersions()
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", nil
	}
	return versions[0].String(), nil
}

// listReleaseVersions scans the state directory for release files and returns
// their versions sorted descending.
func (s *Store) listReleaseVersions() ([]semver.Version, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO(err, "reading release directory")
	}

	var versions []semver.Version
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		v, err := semver.Parse(name)
		if err != nil {
			return nil, errors.NewIntegrityError("release file %q is not named after a version", entry.Name())
		}
		versions = append(versions, v)
	}

	sort.Slice(versions, func(i, j int) bool {
		return semver.Less(versions[j], versions[i])
	})
	return versions, nil
}

// readRelease loads one release record, accepting both the current wrapped
// object format and the legacy bare-array format.
func (s *Store) readRelease(v semver.Version) (model.Release, error) {
	name := v.String() + ".json"
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		// Legacy files may be named in the compact prerelease form.
		data, err = os.ReadFile(filepath.Join(s.root, legacyFileName(v)))
		if err != nil {
			return model.Release{}, errors.WrapIO(err, "reading release file")
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Legacy format: bare array of changes, version from the filename.
		var changes []model.Changeset
		if err := json.Unmarshal(trimmed, &changes); err != nil {
			return model.Release{}, errors.WrapIntegrity(err, fmt.Sprintf("parsing legacy release %s", name))
		}
		model.SortChangesets(changes)
		return model.Release{Version: v.String(), Changes: changes}, nil
	}

	var file releaseFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return model.Release{}, errors.WrapIntegrity(err, fmt.Sprintf("parsing release %s", name))
	}

	release := model.Release{Version: file.Version, Changes: file.Changes}
	if release.Version == "" {
		release.Version = v.String()
	}
	if file.CreatedAt != nil && *file.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, *file.CreatedAt)
		if err != nil {
			return model.Release{}, errors.WrapIntegrity(err, fmt.Sprintf("parsing created_at in %s", name))
		}
		release.CreatedAt = &t
	}
	model.SortChangesets(release.Changes)
	return release, nil
}

// legacyFileName renders a version the way old releases were named on disk,
// with the compact prerelease suffix ("1.1.0alpha1.json").
func legacyFileName(v semver.Version) string {
	if v.Pre == nil {
		return v.String() + ".json"
	}
	return fmt.Sprintf("%d.%d.%d%s%d.json", v.Major, v.Minor, v.Patch, v.Pre.Channel, v.Pre.Number)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
