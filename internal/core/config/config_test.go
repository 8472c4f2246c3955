package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/tmp/data")
		require.NoError(t, err)

		assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
		assert.Equal(t, 80, cfg.Render.Width)
		assert.Equal(t, 1, cfg.Outline.ExpandDepth)
		assert.Equal(t, "/tmp/data", cfg.DataDir)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
tui:
  theme: gruvbox
render:
  width: 100
outline:
  expand_depth: 3
`)
		cfg, err := Load(path, "/tmp/data")
		require.NoError(t, err)

		assert.Equal(t, "gruvbox", cfg.TUI.Theme)
		assert.Equal(t, 100, cfg.Render.Width)
		assert.Equal(t, 3, cfg.Outline.ExpandDepth)
	})

	t.Run("user keybindings merge over defaults", func(t *testing.T) {
		path := writeConfig(t, `
keybindings:
  "x":
    action: collapse-all
    help: fold everything
  "q":
    action: toggle
`)
		cfg, err := Load(path, "/tmp/data")
		require.NoError(t, err)

		assert.Equal(t, ActionCollapseAll, cfg.Keybindings["x"].Action)
		// Default for q is overridden.
		assert.Equal(t, ActionToggle, cfg.Keybindings["q"].Action)
		// Untouched defaults survive.
		assert.Equal(t, ActionExpandAll, cfg.Keybindings["E"].Action)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "tui: [broken\n")
		_, err := Load(path, "/tmp/data")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/data"
		cfg.Keybindings = mergeKeybindings(defaultKeybindings, nil)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.TUI.Theme = "disco" },
			wantErr: "unknown theme",
		},
		{
			name:    "width too small",
			mutate:  func(c *Config) { c.Render.Width = 5 },
			wantErr: "between 20 and 500",
		},
		{
			name:    "negative expand depth",
			mutate:  func(c *Config) { c.Outline.ExpandDepth = -1 },
			wantErr: "must not be negative",
		},
		{
			name:    "bad ignore glob",
			mutate:  func(c *Config) { c.Outline.Ignore = []string{"[oops"} },
			wantErr: "invalid glob pattern",
		},
		{
			name:    "keybinding with unknown action",
			mutate:  func(c *Config) { c.Keybindings["z"] = Keybinding{Action: "explode"} },
			wantErr: "invalid action",
		},
		{
			name:    "keybinding without action",
			mutate:  func(c *Config) { c.Keybindings["z"] = Keybinding{Help: "nothing"} },
			wantErr: "action is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestActions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, map[string]Keybinding{
		"space": {Action: ActionToggle},
	})

	actions := cfg.Actions()
	assert.ElementsMatch(t, []string{"enter", "space"}, actions[ActionToggle])
	assert.Equal(t, []string{"q"}, actions[ActionQuit])
}
