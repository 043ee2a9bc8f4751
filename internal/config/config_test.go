package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Path)
	assert.Empty(t, cfg.Template)
	assert.Equal(t, "**/*", cfg.CheckSrc)
	assert.Equal(t, "master", cfg.CheckBase)
}

func TestLoad_ProjectYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "check_base: main\ntemplate: docs/changelog.tmpl\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.CheckBase)
	assert.Equal(t, "docs/changelog.tmpl", cfg.Template)
	// Untouched keys keep their defaults.
	assert.Equal(t, "**/*", cfg.CheckSrc)
}

func TestLoad_LegacyJSONWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := `{"check_base": "develop"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyProjectConfigName), []byte(content), 0o644))

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{BasePath: dir, WarningWriter: &warnings})
	require.NoError(t, err)

	assert.Equal(t, "develop", cfg.CheckBase)
	assert.Contains(t, warnings.String(), "deprecated JSON config")
}

func TestLoad_YAMLWinsOverLegacyJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("check_base: main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyProjectConfigName), []byte(`{"check_base": "develop"}`), 0o644))

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{BasePath: dir, WarningWriter: &warnings})
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.CheckBase)
	assert.Contains(t, warnings.String(), "ignored")
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("check_base: main\n"), 0o644))

	t.Setenv("SEMVERSIONER_CHECK_BASE", "release")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.CheckBase)
}
