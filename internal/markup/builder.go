package markup

import (
	"sort"

	"github.com/markupify/markupify-go/internal/buffer"
	"github.com/markupify/markupify-go/internal/types"
)

// Span categories. Every markup-bearing entity type gets its own stack so
// interleaved non-matching markers (<b>A<i>B</b>C</i>) are processed
// deterministically: a close pops only its own category, never a sibling's.
const (
	catBold = iota
	catItalic
	catUnderline
	catStrikethrough
	catCode
	catPre
	catTextLink
	catMention
	catCustomEmoji
	catBlockquote
	catSpoiler
	numCategories
)

// categoryOf maps an entity type to its span stack, or -1 for types that
// never originate from markup markers.
func categoryOf(t types.EntityType) int {
	switch t {
	case types.EntityBold:
		return catBold
	case types.EntityItalic:
		return catItalic
	case types.EntityUnderline:
		return catUnderline
	case types.EntityStrikethrough:
		return catStrikethrough
	case types.EntityCode:
		return catCode
	case types.EntityPre:
		return catPre
	case types.EntityTextLink:
		return catTextLink
	case types.EntityMention:
		return catMention
	case types.EntityCustomEmoji:
		return catCustomEmoji
	case types.EntityBlockquote, types.EntityExpandableBlockquote:
		return catBlockquote
	case types.EntitySpoiler:
		return catSpoiler
	}
	return -1
}

// span is an in-progress formatting region: opened by a marker, not yet
// converted into an entity.
type span struct {
	typ           types.EntityType
	start         int // UTF-16 offset at open time
	seq           int // global open order, for deterministic auto-close
	url           string
	userID        int64
	language      string
	customEmojiID string
}

// Build folds a scanner event stream into (text, entities).
//
// Open events push a span onto their category's stack; a close pops the most
// recent span of the same category and converts it into an entity. Unmatched
// closes degrade to literal text, dangling spans are auto-closed at end of
// input, zero-length entities are filtered, and spans missing a required
// payload yield no entity at all. The result is sorted by offset ascending,
// stable, so ties keep close order.
func Build(events []Event) (string, []types.MessageEntity) {
	buf := buffer.New()
	var stacks [numCategories][]span
	var entities []types.MessageEntity
	seq := 0

	for _, ev := range events {
		switch ev.Kind {
		case EventLiteral:
			buf.Write(ev.Text)

		case EventOpen:
			c := categoryOf(ev.Type)
			if c < 0 {
				buf.Write(ev.Raw)
				continue
			}
			stacks[c] = append(stacks[c], span{
				typ:           ev.Type,
				start:         buf.UTF16Offset(),
				seq:           seq,
				url:           ev.URL,
				userID:        ev.UserID,
				language:      ev.Language,
				customEmojiID: ev.CustomEmojiID,
			})
			seq++

		case EventClose:
			c := categoryOf(ev.Type)
			if c < 0 || len(stacks[c]) == 0 {
				// Unmatched close marker: keep it as visible text.
				buf.Write(ev.Raw)
				continue
			}
			sp := stacks[c][len(stacks[c])-1]
			stacks[c] = stacks[c][:len(stacks[c])-1]
			if e, ok := finalizeSpan(sp, buf.UTF16Offset()); ok {
				entities = append(entities, e)
			}

		case EventSelfClosing:
			// A void marker has no content, so it can never produce a
			// non-zero-length entity.
		}
	}

	// Auto-close dangling spans at end of input, innermost first.
	var dangling []span
	for c := range stacks {
		dangling = append(dangling, stacks[c]...)
	}
	sort.Slice(dangling, func(i, j int) bool { return dangling[i].seq > dangling[j].seq })
	end := buf.UTF16Offset()
	for _, sp := range dangling {
		if e, ok := finalizeSpan(sp, end); ok {
			entities = append(entities, e)
		}
	}

	sort.SliceStable(entities, func(i, j int) bool { return entities[i].Offset < entities[j].Offset })
	return buf.String(), entities
}

// finalizeSpan converts a span into an entity. Zero-length spans and spans
// missing a required payload are dropped; the marker has already been removed
// from the text, so dropping is silent.
func finalizeSpan(sp span, end int) (types.MessageEntity, bool) {
	length := end - sp.start
	if length <= 0 {
		return types.MessageEntity{}, false
	}

	e := types.MessageEntity{
		Type:          sp.typ,
		Offset:        sp.start,
		Length:        length,
		URL:           sp.url,
		UserID:        sp.userID,
		Language:      sp.language,
		CustomEmojiID: sp.customEmojiID,
	}

	if e.Type == types.EntityTextLink {
		if e.URL == "" {
			return types.MessageEntity{}, false
		}
		// Platform deep links become their own entity kinds.
		typ, payload := ResolveLinkPayload(e.URL)
		if typ != types.EntityTextLink {
			e.Type = typ
			e.URL = ""
			e.UserID = payload.UserID
			e.CustomEmojiID = payload.CustomEmojiID
		}
	}

	switch e.Type {
	case types.EntityMention:
		if e.UserID <= 0 {
			return types.MessageEntity{}, false
		}
	case types.EntityCustomEmoji:
		if e.CustomEmojiID == "" {
			return types.MessageEntity{}, false
		}
	}

	return e, true
}
