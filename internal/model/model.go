// Package model defines the records semversioner keeps on disk: pending
// changesets and released versions.
package model

import (
	"sort"
	"time"

	"github.com/raveheart1/semversioner/internal/semver"
)

// Changeset is a single pending record of a change's severity and description,
// not yet assigned to a version. Attributes carries optional free-form
// key/value metadata for downstream tooling. Pre, when set, marks the change
// as targeting a prerelease channel instead of a stable release.
type Changeset struct {
	Type        semver.ReleaseType `json:"type"`
	Description string             `json:"description"`
	Attributes  map[string]string  `json:"attributes,omitempty"`
	Pre         semver.Channel     `json:"pre,omitempty"`
}

// sortKey matches the on-disk sort convention: type then description.
func (c Changeset) sortKey() string {
	return string(c.Type) + c.Description
}

// SortChangesets orders changes by (type, description) ascending, in place.
// Every listing and every persisted release uses this order so output is
// reproducible.
func SortChangesets(changes []Changeset) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].sortKey() < changes[j].sortKey()
	})
}

// Release is an immutable, version-tagged aggregation of changesets. CreatedAt
// is nil for releases read from legacy record files, which did not store it.
type Release struct {
	Version   string      `json:"version"`
	CreatedAt *time.Time  `json:"created_at"`
	Changes   []Changeset `json:"changes"`
}

// ReleaseStatus is a derived, read-only snapshot of the working directory:
// the current version, the computed next version (empty when nothing is
// pending), and the pending changes themselves.
type ReleaseStatus struct {
	Version           string
	NextVersion       string
	UnreleasedChanges []Changeset
}
