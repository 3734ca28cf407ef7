package markupify

import (
	"strings"
	"unicode/utf8"

	"github.com/markupify/markupify-go/internal/markup"
	"github.com/markupify/markupify-go/internal/types"
)

// Re-exported model types.
type (
	MessageEntity   = types.MessageEntity
	EntityType      = types.EntityType
	ValidationError = types.ValidationError
)

// Entity type constants. The closed enumeration matches the platform's
// wire-format type strings.
const (
	EntityBold                 = types.EntityBold
	EntityItalic               = types.EntityItalic
	EntityUnderline            = types.EntityUnderline
	EntityStrikethrough        = types.EntityStrikethrough
	EntityCode                 = types.EntityCode
	EntityPre                  = types.EntityPre
	EntityTextLink             = types.EntityTextLink
	EntityURL                  = types.EntityURL
	EntityMention              = types.EntityMention
	EntityHashtag              = types.EntityHashtag
	EntityCashtag              = types.EntityCashtag
	EntityEmail                = types.EntityEmail
	EntityPhoneNumber          = types.EntityPhoneNumber
	EntityBotCommand           = types.EntityBotCommand
	EntityBlockquote           = types.EntityBlockquote
	EntityExpandableBlockquote = types.EntityExpandableBlockquote
	EntitySpoiler              = types.EntitySpoiler
	EntityCustomEmoji          = types.EntityCustomEmoji
)

// UTF16Len returns the length of text measured in UTF-16 code units.
//
// The platform measures entity offsets and lengths in UTF-16 code units, not
// Go string bytes or runes. Characters outside the BMP (codepoint > 0xFFFF)
// take 2 code units (a surrogate pair); all others take 1.
func UTF16Len(text string) int {
	return markup.UTF16Len(text)
}

// TextChunk is a piece of text with the entities that fall inside it.
type TextChunk struct {
	Text     string
	Entities []MessageEntity
}

// utf16OffsetTable returns a table mapping each byte position in text to its
// cumulative UTF-16 offset. The table has len(text)+1 entries; positions in
// the middle of a rune keep a zero entry and must not be used.
func utf16OffsetTable(text string) []int {
	offsets := make([]int, len(text)+1)
	cum := 0
	for i, r := range text {
		offsets[i] = cum
		if r > 0xFFFF {
			cum += 2
		} else {
			cum++
		}
	}
	offsets[len(text)] = cum
	return offsets
}

// newlineSplitPoints returns byte positions immediately after each newline,
// the preferred positions for splitting long messages.
func newlineSplitPoints(text string) []int {
	var points []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			points = append(points, i+1)
		}
	}
	return points
}

// clipEntities returns the entities overlapping [start, end) in UTF-16
// coordinates, clipped to that window and rebased to start.
func clipEntities(entities []MessageEntity, start, end int) []MessageEntity {
	var clipped []MessageEntity
	for _, ent := range entities {
		entStart := ent.Offset
		entEnd := ent.Offset + ent.Length
		if entEnd <= start || entStart >= end {
			continue
		}
		if entStart < start {
			entStart = start
		}
		if entEnd > end {
			entEnd = end
		}
		if entEnd-entStart <= 0 {
			continue
		}
		ne := ent
		ne.Offset = entStart - start
		ne.Length = entEnd - entStart
		clipped = append(clipped, ne)
	}
	return clipped
}

// SplitEntities splits (text, entities) into chunks of at most maxUTF16Len
// UTF-16 code units. Splits happen at newline boundaries where possible, with
// a hard split as fallback. Entities spanning a boundary are clipped into
// both chunks.
func SplitEntities(text string, entities []MessageEntity, maxUTF16Len int) []TextChunk {
	if UTF16Len(text) <= maxUTF16Len {
		return []TextChunk{{Text: text, Entities: entities}}
	}

	offsets := utf16OffsetTable(text)
	splitPoints := newlineSplitPoints(text)

	var ranges [][2]int // byte ranges of the chunks
	byteStart := 0
	for byteStart < len(text) {
		budget := offsets[byteStart] + maxUTF16Len
		if offsets[len(text)] <= budget {
			ranges = append(ranges, [2]int{byteStart, len(text)})
			break
		}

		// Last newline split that fits the budget.
		bestSplit := -1
		for _, sp := range splitPoints {
			if sp <= byteStart {
				continue
			}
			if offsets[sp] <= budget {
				bestSplit = sp
			} else {
				break
			}
		}

		if bestSplit == -1 {
			// Hard split at the last rune boundary within budget.
			bestSplit = byteStart
			for i := byteStart; i <= len(text); {
				if offsets[i] > budget {
					break
				}
				bestSplit = i
				if i == len(text) {
					break
				}
				i += runeWidth(text, i)
			}
			if bestSplit == byteStart {
				bestSplit = byteStart + runeWidth(text, byteStart) // force progress
			}
		}

		ranges = append(ranges, [2]int{byteStart, bestSplit})
		byteStart = bestSplit
	}

	result := make([]TextChunk, 0, len(ranges))
	for _, r := range ranges {
		result = append(result, TextChunk{
			Text:     text[r[0]:r[1]],
			Entities: clipEntities(entities, offsets[r[0]], offsets[r[1]]),
		})
	}
	return result
}

func runeWidth(text string, i int) int {
	_, w := utf8.DecodeRuneInString(text[i:])
	if w == 0 {
		return 1
	}
	return w
}

// stripNewlinesAdjust trims leading and trailing newlines, rebasing entity
// offsets onto the trimmed text.
func stripNewlinesAdjust(text string, entities []MessageEntity) (string, []MessageEntity) {
	leading := 0
	for leading < len(text) && text[leading] == '\n' {
		leading++
	}
	trailing := 0
	for trailing < len(text)-leading && text[len(text)-1-trailing] == '\n' {
		trailing++
	}
	if leading == 0 && trailing == 0 {
		return text, entities
	}

	stripped := text[leading : len(text)-trailing]
	if stripped == "" {
		return "", nil
	}

	// Newlines are 1 code unit each.
	return stripped, clipEntities(entities, leading, leading+UTF16Len(stripped))
}

// TrimSpace removes leading and trailing whitespace while adjusting entity
// offsets accordingly.
func TrimSpace(text string, entities []MessageEntity) (string, []MessageEntity) {
	trimmed := strings.TrimSpace(text)
	if trimmed == text {
		return text, entities
	}
	if trimmed == "" {
		return "", nil
	}

	start := strings.Index(text, trimmed)
	utf16Start := UTF16Len(text[:start])
	return trimmed, clipEntities(entities, utf16Start, utf16Start+UTF16Len(trimmed))
}
