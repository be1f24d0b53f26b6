package services

// ContentAnalyzer reads node bodies without interpreting their structure
type ContentAnalyzer interface {
	// PlainText projects an editor payload (block JSON, HTML or markdown)
	// onto a single line of text for searching
	PlainText(body string) string

	// CountWords counts words in the plain-text projection of a body
	CountWords(body string) int

	// CleanMarkdown removes markdown syntax from content
	CleanMarkdown(markdown string) string
}
