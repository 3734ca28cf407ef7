// Package markupify converts between human-authored markup and the messaging
// platform's rich-text model: a plain-text string plus an ordered list of
// formatting entities addressed in UTF-16 code units.
//
// Two fixed dialects are supported, an HTML-like tag dialect and a
// Markdown-like delimiter syntax. Parsing is total: malformed or ambiguous
// markup silently degrades to literal text. Unparsing is the inverse
// transform and fails only when the caller-supplied entity list violates the
// model invariants.
//
// Core API:
//   - ParseHTML / ParseMarkdown: markup → (text, entities)
//   - UnparseHTML / UnparseMarkdown: (text, entities) → markup
//   - Validate: invariant check for caller-constructed entity lists
//   - ScanText: autodetect hashtags, commands, links etc. in plain text
//
// Document API (for whole Markdown documents such as LLM output):
//   - Convert: GFM → (text, entities)
//   - ProcessMarkdown: GFM → sendable Text/File contents, split to size
//
// All conversion functions are pure and safe for concurrent use.
package markupify

import (
	"github.com/markupify/markupify-go/internal/markup"
)

// ParseHTML converts HTML-dialect markup into (text, entities). It never
// fails: unknown tags, malformed attributes and unmatched markers degrade to
// literal text.
func ParseHTML(input string) (string, []MessageEntity) {
	return markup.Parse(markup.HTML, input)
}

// UnparseHTML renders (text, entities) as HTML-dialect markup. The entity
// list may be unsorted and may overlap; the only error is a *ValidationError
// for out-of-range offsets or missing required payload.
func UnparseHTML(text string, entities []MessageEntity) (string, error) {
	return markup.Render(markup.HTML, text, entities)
}

// ParseMarkdown converts Markdown-dialect markup into (text, entities).
// Same contract as ParseHTML.
func ParseMarkdown(input string) (string, []MessageEntity) {
	return markup.Parse(markup.Markdown, input)
}

// UnparseMarkdown renders (text, entities) as Markdown-dialect markup.
// Same contract as UnparseHTML.
func UnparseMarkdown(text string, entities []MessageEntity) (string, error) {
	return markup.Render(markup.Markdown, text, entities)
}

// Validate checks a caller-constructed entity list against text without
// rendering it. It returns nil or a *ValidationError identifying the
// offending entity index and field.
func Validate(text string, entities []MessageEntity) error {
	return markup.Validate(text, entities)
}
