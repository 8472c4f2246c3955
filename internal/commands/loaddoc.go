package commands

import (
	"fmt"
	"os"

	"github.com/hay-kot/treeline/internal/core/config"
	"github.com/hay-kot/treeline/internal/core/outline"
)

// loadDocument loads an outline from the target path. Directories are
// walked as a markdown tree; anything else is parsed as an outline
// YAML file.
func loadDocument(target string, cfg *config.Config) (*outline.Document, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}

	if info.IsDir() {
		doc, err := outline.FromDir(target, cfg.Outline.Ignore)
		if err != nil {
			return nil, fmt.Errorf("walk directory: %w", err)
		}
		return doc, nil
	}

	doc, err := outline.Load(target)
	if err != nil {
		return nil, fmt.Errorf("load outline: %w", err)
	}
	return doc, nil
}
