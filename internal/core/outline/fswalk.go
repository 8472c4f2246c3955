package outline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// maxBodyBytes caps how much of a markdown file is loaded into a node
// body. Larger files are truncated with a marker line.
const maxBodyBytes = 64 << 10

// FromDir synthesizes an outline document from a directory tree:
// directories become branch nodes, files become leaves, and markdown
// files carry their content as the node body. Paths matching any of
// the ignore globs (doublestar patterns against the slash-separated
// path relative to root) are skipped.
func FromDir(root string, ignore []string) (*Document, error) {
	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	nodes, err := walkDir(root, root, ignore)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: no entries after applying ignore patterns", root)
	}

	doc := &Document{Title: filepath.Base(root), Nodes: nodes}
	if err := doc.normalize(); err != nil {
		return nil, err
	}
	return doc, nil
}

func walkDir(root, dir string, ignore []string) ([]*Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	// Directories first, then files, each alphabetical.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	var nodes []*Node
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(root, full)
		if err != nil {
			return nil, err
		}
		if ignored(filepath.ToSlash(rel), ignore) {
			continue
		}

		node := &Node{Title: entry.Name()}
		if entry.IsDir() {
			node.Children, err = walkDir(root, full, ignore)
			if err != nil {
				return nil, err
			}
		} else if isMarkdown(entry) {
			node.Body = readBody(full)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func ignored(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		// Pattern validity was checked upfront.
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

func isMarkdown(entry fs.DirEntry) bool {
	ext := strings.ToLower(filepath.Ext(entry.Name()))
	return ext == ".md" || ext == ".markdown"
}

func readBody(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if len(data) > maxBodyBytes {
		return string(data[:maxBodyBytes]) + "\n\n*(truncated)*\n"
	}
	return string(data)
}
