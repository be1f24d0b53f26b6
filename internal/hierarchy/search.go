package hierarchy

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	models "doctree/internal/domain/models/docsystem"
)

// Projector turns a stored body into the plain text search runs against.
// Stripping editor markup is the projector's job, not the engine's.
type Projector func(body string) string

// Search returns nodes whose title or projected body contains the query,
// ignoring case. A title match wins over a body match; a body match carries a
// snippet of up to SnippetRadius characters on each side of the first hit,
// with an ellipsis on any side that does not reach the end of the text.
//
// Results are ordered newest first by CreatedAt. Ties keep store order.
func Search(nodes []models.Node, opts models.SearchOptions, project Projector) []models.SearchResult {
	query := []rune(norm.NFC.String(strings.TrimSpace(opts.Query)))
	if len(query) == 0 {
		return nil
	}
	radius := opts.SnippetRadius
	if radius <= 0 {
		radius = models.DefaultSnippetRadius
	}
	if project == nil {
		project = func(body string) string { return body }
	}

	var results []models.SearchResult
	for i := range nodes {
		n := &nodes[i]
		if n.IsDeleted && !opts.IncludeDeleted {
			continue
		}

		if indexFold([]rune(norm.NFC.String(n.Title)), query) >= 0 {
			results = append(results, models.SearchResult{
				Node:         n.Clone(),
				MatchedField: models.SearchFieldTitle,
			})
			continue
		}

		text := []rune(norm.NFC.String(project(n.Body)))
		if at := indexFold(text, query); at >= 0 {
			results = append(results, models.SearchResult{
				Node:         n.Clone(),
				MatchedField: models.SearchFieldBody,
				Snippet:      snippet(text, at, len(query), radius),
			})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Node.CreatedAt.After(results[b].Node.CreatedAt)
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// Search runs Search over the store's current sequence
func (s *Store) Search(opts models.SearchOptions, project Projector) []models.SearchResult {
	return Search(s.nodes, opts, project)
}

func snippet(text []rune, at, length, radius int) string {
	start := max(at-radius, 0)
	end := min(at+length+radius, len(text))

	var b strings.Builder
	if start > 0 {
		b.WriteString(models.SnippetEllipsis)
	}
	b.WriteString(string(text[start:end]))
	if end < len(text) {
		b.WriteString(models.SnippetEllipsis)
	}
	return b.String()
}

// indexFold returns the rune index of the first case-insensitive occurrence
// of query in text, or -1
func indexFold(text, query []rune) int {
	m := len(query)
	if m == 0 {
		return -1
	}
	for i := 0; i+m <= len(text); i++ {
		matched := true
		for j := 0; j < m; j++ {
			if !equalFoldRune(text[i+j], query[j]) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

// equalFoldRune walks the simple case-folding orbit of a, as strings.EqualFold does
func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
