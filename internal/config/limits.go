package config

const (
	// MaxTitleLength is the maximum length for node titles, in characters.
	MaxTitleLength = 255

	// MaxBodyBytes caps the editor payload stored on a node. Request bodies
	// are already capped at 10MB by httputil.ParseJSON.
	MaxBodyBytes = 5 * 1024 * 1024

	// MaxTags is the maximum number of tags on one node
	MaxTags = 32

	// MaxTagLength is the maximum length of a single tag
	MaxTagLength = 64

	// MaxWorkspaceIDLength bounds workspace identifiers used in URLs and keys
	MaxWorkspaceIDLength = 128

	// DefaultSnippetRadius is the number of characters kept either side of a body match
	DefaultSnippetRadius = 40
)
