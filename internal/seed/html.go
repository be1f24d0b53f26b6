package seed

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"doctree/internal/service/docsystem/sanitizer"
)

// htmlConverter turns imported HTML pages into markdown bodies. Input is
// sanitised before conversion so nothing executable survives the import.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

func newHTMLConverter() *htmlConverter {
	return &htmlConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

func (c *htmlConverter) Convert(input []byte) (string, error) {
	out, err := c.converter.ConvertString(c.sanitizer.Sanitize(string(input)))
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// htmlTitle returns the text of the first <title> element, if any
func htmlTitle(input []byte) string {
	s := string(input)
	lower := strings.ToLower(s)
	start := strings.Index(lower, "<title>")
	if start < 0 {
		return ""
	}
	start += len("<title>")
	end := strings.Index(lower[start:], "</title>")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(sanitizer.NewStrictHTMLSanitizer().StripTags(s[start : start+end]))
}
