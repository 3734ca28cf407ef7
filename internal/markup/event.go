// Package markup implements the shared conversion engine between human-authored
// markup (an HTML-like tag dialect and a Markdown-like syntax) and a plain-text
// string with UTF-16 offset entities.
//
// A dialect-specific scanner turns markup into a flat event stream, the builder
// folds the stream into (text, entities), and the renderer performs the inverse
// transform. Both dialects share the builder and the renderer; everything
// dialect-specific lives behind the Dialect interface.
package markup

import "github.com/markupify/markupify-go/internal/types"

// EventKind discriminates scanner events.
type EventKind int

const (
	// EventLiteral carries decoded plain text.
	EventLiteral EventKind = iota
	// EventOpen marks the start of a formatting span.
	EventOpen
	// EventClose marks the end of a formatting span.
	EventClose
	// EventSelfClosing is a marker with no content, e.g. a void tag.
	EventSelfClosing
)

// Event is a single tokenizer output: a literal text chunk or a formatting
// marker. Raw preserves the original marker source so that markers which turn
// out to be invalid can be demoted back to literal text by the builder.
type Event struct {
	Kind EventKind
	Type types.EntityType
	Text string // decoded literal text (EventLiteral only)
	Raw  string // original marker spelling (markers only)

	// Marker payload, filled from attributes or delimiter context.
	URL           string
	UserID        int64
	Language      string
	CustomEmojiID string
}

func literal(text string) Event {
	return Event{Kind: EventLiteral, Text: text}
}

func open(t types.EntityType, raw string) Event {
	return Event{Kind: EventOpen, Type: t, Raw: raw}
}

func closing(t types.EntityType, raw string) Event {
	return Event{Kind: EventClose, Type: t, Raw: raw}
}
