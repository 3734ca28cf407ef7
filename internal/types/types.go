package types

import "fmt"

// EntityType identifies the kind of formatting an entity applies.
// The values match the messaging platform's wire-format type strings.
type EntityType string

const (
	EntityBold                 EntityType = "bold"
	EntityItalic               EntityType = "italic"
	EntityUnderline            EntityType = "underline"
	EntityStrikethrough        EntityType = "strikethrough"
	EntityCode                 EntityType = "code"
	EntityPre                  EntityType = "pre"
	EntityTextLink             EntityType = "text_link"
	EntityURL                  EntityType = "url"
	EntityMention              EntityType = "mention"
	EntityHashtag              EntityType = "hashtag"
	EntityCashtag              EntityType = "cashtag"
	EntityEmail                EntityType = "email"
	EntityPhoneNumber          EntityType = "phone_number"
	EntityBotCommand           EntityType = "bot_command"
	EntityBlockquote           EntityType = "blockquote"
	EntityExpandableBlockquote EntityType = "expandable_blockquote"
	EntitySpoiler              EntityType = "spoiler"
	EntityCustomEmoji          EntityType = "custom_emoji"
)

// MessageEntity is a formatting annotation over a text range.
//
// Offset and Length are measured in UTF-16 code units from the start of the
// plain text, matching the messaging platform's convention. Characters outside
// the BMP (emoji and other astral-plane codepoints) occupy 2 code units.
type MessageEntity struct {
	Type          EntityType `json:"type"`
	Offset        int        `json:"offset"`
	Length        int        `json:"length"`
	URL           string     `json:"url,omitempty"`
	UserID        int64      `json:"user_id,omitempty"`
	Language      string     `json:"language,omitempty"`
	CustomEmojiID string     `json:"custom_emoji_id,omitempty"`
}

// ToDict converts a MessageEntity to a map, omitting empty payload fields.
func (e MessageEntity) ToDict() map[string]interface{} {
	result := map[string]interface{}{
		"type":   string(e.Type),
		"offset": e.Offset,
		"length": e.Length,
	}
	if e.URL != "" {
		result["url"] = e.URL
	}
	if e.UserID != 0 {
		result["user_id"] = e.UserID
	}
	if e.Language != "" {
		result["language"] = e.Language
	}
	if e.CustomEmojiID != "" {
		result["custom_emoji_id"] = e.CustomEmojiID
	}
	return result
}

// RequiresPayload reports whether t must carry a payload field to be valid.
func (t EntityType) RequiresPayload() bool {
	switch t {
	case EntityTextLink, EntityMention, EntityCustomEmoji:
		return true
	}
	return false
}

// ValidationError reports an entity that violates the model invariants.
// It is the only error surfaced by this module; malformed markup degrades
// silently during parsing instead.
type ValidationError struct {
	Index  int    // position of the offending entity in the caller's slice
	Field  string // "offset", "length", "url", "user_id" or "custom_emoji_id"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entity at index %d: field %q: %s", e.Index, e.Field, e.Reason)
}

// Symbol defines the display symbols used by the rich Markdown renderer.
type Symbol struct {
	HeadingLevel1   string
	HeadingLevel2   string
	HeadingLevel3   string
	HeadingLevel4   string
	HeadingLevel5   string
	HeadingLevel6   string
	Quote           string
	Image           string
	TaskCompleted   string
	TaskUncompleted string
}

// DefaultSymbol returns the default symbol configuration.
func DefaultSymbol() *Symbol {
	return &Symbol{
		HeadingLevel1:   "📌",
		HeadingLevel2:   "📝",
		HeadingLevel3:   "📋",
		HeadingLevel4:   "📄",
		HeadingLevel5:   "📃",
		HeadingLevel6:   "🔖",
		Quote:           "💬",
		Image:           "🖼",
		TaskCompleted:   "✅",
		TaskUncompleted: "☑️",
	}
}

// RenderConfig configures the rich Markdown renderer.
type RenderConfig struct {
	MarkdownSymbol *Symbol
	CiteExpandable bool
}

// DefaultRenderConfig returns the default render configuration.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		MarkdownSymbol: DefaultSymbol(),
		CiteExpandable: true,
	}
}
