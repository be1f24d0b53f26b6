package seed

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// frontmatter holds the optional metadata block of a markdown document
type frontmatter struct {
	Title    string   `yaml:"title"`
	Tags     []string `yaml:"tags"`
	Archived bool     `yaml:"archived"`
}

// parseFrontmatter splits a markdown file into its YAML header and body.
// Expected format:
//
//	---
//	title: Launch plan
//	tags: [work]
//	---
//	# Markdown content here
//
// Files without a leading "---" have no header.
func parseFrontmatter(content []byte) (frontmatter, string, error) {
	var meta frontmatter
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return meta, string(content), nil
	}

	lines := bytes.Split(content, []byte("\n"))
	closing := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closing = i
			break
		}
	}
	if closing == 0 {
		return meta, "", errors.New("missing closing frontmatter delimiter '---'")
	}

	if err := yaml.Unmarshal(bytes.Join(lines[1:closing], []byte("\n")), &meta); err != nil {
		return meta, "", fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	body := bytes.Join(lines[closing+1:], []byte("\n"))
	return meta, string(bytes.TrimLeft(body, "\r\n")), nil
}
