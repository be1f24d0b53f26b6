package seed

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// FromDirectory turns a directory of notes into an outline, in name order.
// Directories become folders, *.md files become documents (front matter
// supplies title, tags and archived) and *.html pages are converted to
// markdown documents. Hidden entries and other file types are skipped.
func FromDirectory(fsys fs.FS, root string) ([]FixtureNode, error) {
	return walkDirectory(fsys, root, newHTMLConverter())
}

func walkDirectory(fsys fs.FS, root string, html *htmlConverter) ([]FixtureNode, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", root, err)
	}

	var out []FixtureNode
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := path.Join(root, name)

		if entry.IsDir() {
			children, err := walkDirectory(fsys, full, html)
			if err != nil {
				return nil, err
			}
			out = append(out, FixtureNode{Title: name, Folder: true, Children: children})
			continue
		}

		ext := strings.ToLower(path.Ext(name))
		stem := strings.TrimSuffix(name, path.Ext(name))
		switch ext {
		case ".md":
			content, err := fs.ReadFile(fsys, full)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", full, err)
			}
			meta, body, err := parseFrontmatter(content)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", full, err)
			}
			title := meta.Title
			if title == "" {
				title = stem
			}
			out = append(out, FixtureNode{
				Title:    title,
				Body:     body,
				Tags:     meta.Tags,
				Archived: meta.Archived,
			})
		case ".html", ".htm":
			content, err := fs.ReadFile(fsys, full)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", full, err)
			}
			body, err := html.Convert(content)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", full, err)
			}
			title := htmlTitle(content)
			if title == "" {
				title = stem
			}
			out = append(out, FixtureNode{Title: title, Body: body})
		}
	}
	return out, nil
}
