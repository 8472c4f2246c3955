// Package config handles configuration loading and validation for treeline.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in action names for keybindings.
const (
	ActionToggle      = "toggle"
	ActionExpandAll   = "expand-all"
	ActionCollapseAll = "collapse-all"
	ActionTop         = "top"
	ActionBottom      = "bottom"
	ActionQuit        = "quit"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"enter": {Action: ActionToggle, Help: "toggle node"},
	"E":     {Action: ActionExpandAll, Help: "expand all"},
	"C":     {Action: ActionCollapseAll, Help: "collapse all"},
	"g":     {Action: ActionTop, Help: "go to top"},
	"G":     {Action: ActionBottom, Help: "go to bottom"},
	"q":     {Action: ActionQuit, Help: "quit"},
}

// Config holds the application configuration.
type Config struct {
	TUI         TUIConfig             `yaml:"tui"`
	Render      RenderConfig          `yaml:"render"`
	Outline     OutlineConfig         `yaml:"outline"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// TUIConfig holds viewer appearance settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// RenderConfig controls markdown body rendering.
type RenderConfig struct {
	// Width is the maximum wrap width for rendered node bodies.
	Width int `yaml:"width"`
}

// OutlineConfig controls how documents are opened.
type OutlineConfig struct {
	// ExpandDepth is how many levels start expanded when a document opens.
	ExpandDepth int `yaml:"expand_depth"`
	// Ignore lists doublestar glob patterns skipped when building an
	// outline from a directory tree.
	Ignore []string `yaml:"ignore"`
}

// Keybinding maps a key to a built-in viewer action.
type Keybinding struct {
	Action string `yaml:"action"` // built-in action name
	Help   string `yaml:"help"`   // help text shown in TUI
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
		Render: RenderConfig{
			Width: 80,
		},
		Outline: OutlineConfig{
			ExpandDepth: 1,
			Ignore:      []string{".git", "**/node_modules", "**/.DS_Store"},
		},
		Keybindings: map[string]Keybinding{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Render.Width == 0 {
		c.Render.Width = defaults.Render.Width
	}
	if c.Outline.Ignore == nil {
		c.Outline.Ignore = defaults.Outline.Ignore
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}

	return result
}

// Actions returns the keys bound to each action, for keymap construction.
func (c *Config) Actions() map[string][]string {
	out := make(map[string][]string)
	for key, kb := range c.Keybindings {
		out[kb.Action] = append(out[kb.Action], key)
	}
	return out
}

func isValidAction(action string) bool {
	switch action {
	case ActionToggle, ActionExpandAll, ActionCollapseAll, ActionTop, ActionBottom, ActionQuit:
		return true
	default:
		return false
	}
}
