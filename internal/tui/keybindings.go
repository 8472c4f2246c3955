package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/hay-kot/treeline/internal/core/config"
)

// KeyMap holds the viewer keybindings. Navigation keys are fixed;
// action keys come from the merged config keybindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Quit        key.Binding
}

// NewKeyMap builds the keymap from the config's action bindings.
func NewKeyMap(cfg *config.Config) KeyMap {
	actions := cfg.Actions()

	bind := func(action, help string, fallback ...string) key.Binding {
		keys := actions[action]
		if len(keys) == 0 {
			keys = fallback
		}
		return key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], help),
		)
	}

	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),

		Toggle:      bind(config.ActionToggle, "toggle", "enter"),
		ExpandAll:   bind(config.ActionExpandAll, "expand all", "E"),
		CollapseAll: bind(config.ActionCollapseAll, "collapse all", "C"),
		Top:         bind(config.ActionTop, "top", "g"),
		Bottom:      bind(config.ActionBottom, "bottom", "G"),
		Quit:        bind(config.ActionQuit, "quit", "q", "ctrl+c"),
	}
}
