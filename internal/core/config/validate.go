package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/treeline/internal/core/styles"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("tui.theme", c.TUI.Theme, themeExists),
		criterio.Run("render.width", c.Render.Width, widthInRange),
		criterio.Run("outline.expand_depth", c.Outline.ExpandDepth, nonNegative),
		c.validateIgnore(),
		c.validateKeybindings(),
	)
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func widthInRange(width int) error {
	if width < 20 || width > 500 {
		return fmt.Errorf("must be between 20 and 500, got %d", width)
	}
	return nil
}

func nonNegative(depth int) error {
	if depth < 0 {
		return fmt.Errorf("must not be negative, got %d", depth)
	}
	return nil
}

func (c *Config) validateIgnore() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Outline.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("outline.ignore[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return errs.ToError()
}

func (c *Config) validateKeybindings() error {
	var errs criterio.FieldErrorsBuilder
	for key, kb := range c.Keybindings {
		if kb.Action == "" {
			errs = errs.Append(fmt.Sprintf("keybindings[%q]", key), fmt.Errorf("action is required"))
			continue
		}
		if !isValidAction(kb.Action) {
			errs = errs.Append(fmt.Sprintf("keybindings[%q]", key), fmt.Errorf("invalid action %q", kb.Action))
		}
	}
	return errs.ToError()
}
