package docsystem

import (
	"encoding/json"
	"strings"
	"unicode"

	"doctree/internal/domain/services"
	"doctree/internal/service/docsystem/sanitizer"
)

type contentAnalyzerService struct {
	html *sanitizer.HTMLSanitizer
}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() services.ContentAnalyzer {
	return &contentAnalyzerService{html: sanitizer.NewStrictHTMLSanitizer()}
}

// PlainText detects the body format and strips it down to words separated by
// single spaces. Block editor JSON (TipTap, BlockNote) contributes its text
// leaves in document order; HTML loses its tags; anything else is treated as
// markdown.
func (s *contentAnalyzerService) PlainText(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}

	var text string
	switch {
	case (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid([]byte(trimmed)):
		var doc any
		_ = json.Unmarshal([]byte(trimmed), &doc)
		var b strings.Builder
		collectText(&b, doc)
		text = b.String()
	case strings.Contains(trimmed, "<") && strings.Contains(trimmed, ">"):
		text = s.html.StripTags(trimmed)
	default:
		text = s.CleanMarkdown(trimmed)
	}

	return strings.Join(strings.Fields(text), " ")
}

// collectText appends every "text" leaf below v. Children are reached through
// "content" (TipTap, BlockNote inline content) and "children" (BlockNote
// nesting). Each block ends with a space so adjacent blocks stay separate words.
func collectText(b *strings.Builder, v any) {
	switch node := v.(type) {
	case []any:
		for _, child := range node {
			collectText(b, child)
		}
	case map[string]any:
		if text, ok := node["text"].(string); ok {
			b.WriteString(text)
		}
		if content, ok := node["content"]; ok {
			if inline, isString := content.(string); isString {
				// BlockNote allows plain string content
				b.WriteString(inline)
			} else {
				collectText(b, content)
			}
		}
		if _, isLeaf := node["text"]; !isLeaf {
			b.WriteByte(' ')
		}
		if children, ok := node["children"]; ok {
			collectText(b, children)
		}
	}
}

// CountWords counts the number of words in a body
func (s *contentAnalyzerService) CountWords(body string) int {
	return len(strings.FieldsFunc(s.PlainText(body), unicode.IsSpace))
}

// CleanMarkdown removes markdown syntax from text
func (s *contentAnalyzerService) CleanMarkdown(markdown string) string {
	text := removeCodeFences(markdown)

	text = strings.ReplaceAll(text, "`", "")

	// Remove bold, italic and strikethrough markers
	for _, marker := range []string{"**", "__", "~~", "*"} {
		text = strings.ReplaceAll(text, marker, "")
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#>")
		line = strings.TrimSpace(line)

		if line == "---" || line == "***" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			line = rest
		}
		// Remove numbered list markers (e.g., "1. ", "12. ")
		if i := strings.IndexByte(line, '.'); i > 0 && i < len(line)-1 && line[i+1] == ' ' && isDigits(line[:i]) {
			line = line[i+2:]
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, " ")
}

// removeCodeFences keeps the code inside ``` fences but drops the fence lines
func removeCodeFences(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
