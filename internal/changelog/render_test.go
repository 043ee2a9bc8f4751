package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/semversioner/internal/model"
	"github.com/raveheart1/semversioner/internal/semver"
)

func TestRender_EmptyHistory(t *testing.T) {
	t.Parallel()

	out, err := Render(nil, DefaultTemplate)
	require.NoError(t, err)
	assert.Equal(t, "# Changelog\nNote: version releases in the 0.x.y range may introduce breaking changes.\n", out)
}

func TestRender_SingleRelease(t *testing.T) {
	t.Parallel()

	releases := []model.Release{
		{
			Version: "1.0.0",
			Changes: []model.Changeset{
				{Type: semver.Major, Description: "drop python 2 support"},
				{Type: semver.Minor, Description: "add --pre flag"},
			},
		},
	}

	out, err := Render(releases, DefaultTemplate)
	require.NoError(t, err)
	assert.Equal(t, `# Changelog
Note: version releases in the 0.x.y range may introduce breaking changes.

## 1.0.0

- major: drop python 2 support
- minor: add --pre flag
`, out)
}

func TestRender_MultipleReleasesKeepOrder(t *testing.T) {
	t.Parallel()

	releases := []model.Release{
		{Version: "1.1.0", Changes: []model.Changeset{{Type: semver.Minor, Description: "newer"}}},
		{Version: "1.0.0", Changes: []model.Changeset{{Type: semver.Patch, Description: "older"}}},
	}

	out, err := Render(releases, DefaultTemplate)
	require.NoError(t, err)
	newer := "## 1.1.0"
	older := "## 1.0.0"
	assert.Contains(t, out, newer)
	assert.Contains(t, out, older)
	assert.Less(t, strings.Index(out, newer), strings.Index(out, older))
}

func TestRender_CustomTemplate(t *testing.T) {
	t.Parallel()

	releases := []model.Release{
		{
			Version: "0.3.0",
			Changes: []model.Changeset{
				{Type: semver.Minor, Description: "x", Attributes: map[string]string{"author": "rg"}},
			},
		},
	}

	out, err := Render(releases, `{{range .Releases}}{{.Version}}:{{range .Changes}} {{.Description}} ({{index .Attributes "author"}}){{end}}{{end}}`)
	require.NoError(t, err)
	assert.Equal(t, "0.3.0: x (rg)", out)
}

func TestRender_TemplateWithCreatedAt(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	releases := []model.Release{
		{Version: "0.1.0", CreatedAt: &created},
	}

	out, err := Render(releases, `{{range .Releases}}{{.Version}} {{.CreatedAt.Format "2006-01-02"}}{{end}}`)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0 2024-07-01", out)
}

func TestRender_InvalidTemplate(t *testing.T) {
	t.Parallel()

	_, err := Render(nil, "{{range")
	assert.Error(t, err)
}
