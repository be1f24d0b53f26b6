package docsystem

import (
	"strings"
	"testing"
)

func TestSearchOptions_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    *SearchOptions
		expected *SearchOptions
	}{
		{
			name:     "applies all defaults",
			input:    &SearchOptions{Query: "test"},
			expected: &SearchOptions{Query: "test", Limit: DefaultSearchLimit, SnippetRadius: DefaultSnippetRadius},
		},
		{
			name:     "preserves custom values",
			input:    &SearchOptions{Query: "test", Limit: 5, SnippetRadius: 10, IncludeDeleted: true},
			expected: &SearchOptions{Query: "test", Limit: 5, SnippetRadius: 10, IncludeDeleted: true},
		},
		{
			name:     "corrects negative limit to default",
			input:    &SearchOptions{Query: "test", Limit: -3},
			expected: &SearchOptions{Query: "test", Limit: DefaultSearchLimit, SnippetRadius: DefaultSnippetRadius},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.ApplyDefaults()

			if *tt.input != *tt.expected {
				t.Errorf("ApplyDefaults() = %+v, want %+v", *tt.input, *tt.expected)
			}
		})
	}
}

func TestSearchOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		options *SearchOptions
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid options",
			options: &SearchOptions{Query: "test", Limit: 20, SnippetRadius: 40},
		},
		{
			name:    "empty query",
			options: &SearchOptions{Limit: 20},
			wantErr: true,
			errMsg:  "query cannot be empty",
		},
		{
			name:    "limit above maximum",
			options: &SearchOptions{Query: "test", Limit: MaxSearchLimit + 1},
			wantErr: true,
			errMsg:  "cannot exceed",
		},
		{
			name:    "negative snippet radius",
			options: &SearchOptions{Query: "test", Limit: 1, SnippetRadius: -1},
			wantErr: true,
			errMsg:  "snippet radius",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()

			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestNodePatch_Apply(t *testing.T) {
	parent := "p"
	n := Node{ID: "a", Title: "old", ParentID: &parent, Tags: []string{"x"}}

	title := "new"
	tags := []string{"b", "a", "b"}
	deleted := true
	patch := NodePatch{Title: &title, Tags: &tags, IsDeleted: &deleted}
	if patch.Empty() {
		t.Fatal("Empty() = true for a patch with fields")
	}
	patch.Apply(&n)

	if n.Title != "new" || !n.IsDeleted {
		t.Errorf("Apply() = %+v, fields not assigned", n)
	}
	if got := strings.Join(n.Tags, ","); got != "b,a" {
		t.Errorf("Tags = %q, want %q", got, "b,a")
	}
	if n.ParentID == nil || *n.ParentID != "p" {
		t.Errorf("ParentID changed by a field patch")
	}

	var empty NodePatch
	if !empty.Empty() {
		t.Error("Empty() = false for zero patch")
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := (&Node{}).DisplayTitle(); got != UntitledTitle {
		t.Errorf("DisplayTitle() = %q, want %q", got, UntitledTitle)
	}
	if got := (&Node{Title: "Plan"}).DisplayTitle(); got != "Plan" {
		t.Errorf("DisplayTitle() = %q, want %q", got, "Plan")
	}
}
