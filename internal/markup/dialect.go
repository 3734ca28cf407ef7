package markup

import (
	"strconv"
	"strings"

	"github.com/markupify/markupify-go/internal/types"
)

// Dialect is a stateless strategy supplying everything format-specific to the
// shared engine: the scanner, marker templates and escaping rules. Dialect
// values hold no mutable state, so conversions in both dialects may run
// concurrently without coordination.
type Dialect interface {
	Name() string

	// Scan tokenizes markup into a flat event stream. It never fails;
	// malformed input degrades to literal events.
	Scan(input string) []Event

	// EscapeLiteral escapes a plain-text run for embedding in markup output.
	// inCode is set while inside a code or pre span.
	EscapeLiteral(text string, inCode bool) string

	// OpenMarker and CloseMarker render the marker strings for an entity.
	// Both return "" for entity types the dialect represents implicitly
	// (bare URLs, hashtags and other autodetected kinds).
	OpenMarker(e types.MessageEntity) string
	CloseMarker(e types.MessageEntity) string

	// QuotePrefix returns the per-line prefix for blockquote content, or ""
	// when the dialect wraps quotes in markers instead.
	QuotePrefix() string
}

// HTML is the HTML-like tag dialect.
var HTML Dialect = htmlDialect{}

// Markdown is the Markdown-like delimiter dialect.
var Markdown Dialect = markdownDialect{}

const (
	userLinkPrefix  = "tg://user?id="
	emojiLinkPrefix = "tg://emoji?id="
)

// ResolveLinkPayload classifies a link destination. Platform deep links for
// users and custom emoji map to their own entity types; anything else stays a
// text link. An empty destination yields no entity at all.
func ResolveLinkPayload(url string) (types.EntityType, Event) {
	if strings.HasPrefix(url, userLinkPrefix) {
		if id, err := strconv.ParseInt(strings.TrimPrefix(url, userLinkPrefix), 10, 64); err == nil && id > 0 {
			return types.EntityMention, Event{UserID: id}
		}
	}
	if emojiID := ValidateCustomEmojiURL(url); emojiID != "" {
		return types.EntityCustomEmoji, Event{CustomEmojiID: emojiID}
	}
	return types.EntityTextLink, Event{URL: url}
}

// ValidateCustomEmojiURL returns the emoji id when url is a custom-emoji deep
// link (tg://emoji?id=<19 digits>), or "" otherwise.
func ValidateCustomEmojiURL(url string) string {
	if !strings.HasPrefix(url, emojiLinkPrefix) {
		return ""
	}
	emojiID := strings.TrimPrefix(url, emojiLinkPrefix)
	if len(emojiID) != 19 {
		return ""
	}
	for _, ch := range emojiID {
		if ch < '0' || ch > '9' {
			return ""
		}
	}
	return emojiID
}

// linkDestination renders the URL form for link-like entities.
func linkDestination(e types.MessageEntity) string {
	switch e.Type {
	case types.EntityMention:
		return userLinkPrefix + strconv.FormatInt(e.UserID, 10)
	case types.EntityCustomEmoji:
		return emojiLinkPrefix + e.CustomEmojiID
	default:
		return e.URL
	}
}
