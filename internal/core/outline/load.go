package outline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML outline document and normalizes it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse outline: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("parse outline: document has no nodes")
	}
	if err := doc.normalize(); err != nil {
		return nil, fmt.Errorf("parse outline: %w", err)
	}
	return &doc, nil
}

// Load reads and parses an outline document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read outline file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Title == "" {
		doc.Title = path
	}
	return doc, nil
}
