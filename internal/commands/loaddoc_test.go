package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/treeline/internal/core/config"
)

func TestLoadDocument_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outline.yaml")
	content := `
title: Roadmap
nodes:
  - id: a
    title: Alpha
  - id: b
    title: Beta
    children:
      - id: b-1
        title: Beta One
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.DefaultConfig()
	doc, err := loadDocument(path, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "Roadmap", doc.Title)
	assert.Equal(t, 3, doc.Len())
}

func TestLoadDocument_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.md"), []byte("# Intro"), 0o644))
	sub := filepath.Join(dir, "notes")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "one.md"), []byte("body"), 0o644))

	cfg := config.DefaultConfig()
	doc, err := loadDocument(dir, &cfg)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, doc.Len(), 3, "dir, file, and subdir nodes")
}

func TestLoadDocument_Missing(t *testing.T) {
	cfg := config.DefaultConfig()
	_, err := loadDocument(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	assert.Error(t, err)
}
