package vault

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a document path does not exist in the vault.
var ErrNotFound = errors.New("document not found")

// LinkKind distinguishes the two reference syntaxes found in notes.
type LinkKind int

const (
	// WikiLink is an [[Note Name]] style reference, resolved by note name.
	WikiLink LinkKind = iota
	// MarkdownLink is a [text](path.md) reference, resolved by path.
	MarkdownLink
)

// Link is an unresolved outbound reference extracted from a document.
type Link struct {
	Target string   `json:"target"`
	Kind   LinkKind `json:"kind"`
}

// Document is a read-only snapshot of one note in the vault.
type Document struct {
	// Path is the vault-relative path using forward slashes (e.g. "projects/plan.md").
	Path string `json:"path"`
	// Title comes from front-matter, then the first level-1 heading, then the file name.
	Title string `json:"title"`
	// Aliases are alternative names declared in front-matter.
	Aliases []string `json:"aliases,omitempty"`
	// Text is the note body without front-matter.
	Text       string    `json:"-"`
	ModifiedAt time.Time `json:"modified_at"`
	Links      []Link    `json:"links,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
}

// Stem returns the file name without directory or .md extension.
func (d Document) Stem() string {
	return stem(d.Path)
}
