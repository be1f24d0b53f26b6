package docsystem

import (
	"fmt"
)

// SearchField names the node field a query matched
type SearchField string

const (
	// SearchFieldTitle matches take priority over body matches
	SearchFieldTitle SearchField = "title"

	// SearchFieldBody matches against the plain-text projection of the body
	SearchFieldBody SearchField = "body"
)

// Default search configuration values
const (
	DefaultSearchLimit   = 50
	MaxSearchLimit       = 500
	DefaultSnippetRadius = 40
	SnippetEllipsis      = "..."
)

// SearchOptions configures a substring search over a node store
type SearchOptions struct {
	// Query is the search string (required)
	Query string

	// Limit caps the number of results. 0 means no cap inside the engine;
	// the service applies DefaultSearchLimit.
	Limit int

	// SnippetRadius is the number of characters kept on each side of a body match
	// Default: 40
	SnippetRadius int

	// IncludeDeleted keeps nodes flagged IsDeleted (trash) in the results
	IncludeDeleted bool
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.SnippetRadius <= 0 {
		opts.SnippetRadius = DefaultSnippetRadius
	}
}

// Validate checks that required fields are set and values are reasonable
func (opts *SearchOptions) Validate() error {
	if opts.Query == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	if opts.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxSearchLimit, opts.Limit)
	}
	if opts.SnippetRadius < 0 {
		return fmt.Errorf("snippet radius cannot be negative")
	}
	return nil
}

// SearchResult is one matching node. A node appears at most once.
type SearchResult struct {
	Node         Node        `json:"node"`
	MatchedField SearchField `json:"matched_field"`

	// Snippet is empty for title matches (the title is the match)
	Snippet string `json:"snippet,omitempty"`
}
