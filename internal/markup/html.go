package markup

import (
	"html"
	"regexp"
	"strings"

	"github.com/markupify/markupify-go/internal/types"
)

// tagSpec describes one markup lexeme: the entity type it maps to and whether
// it is a leaf (its content is taken verbatim, no nested markers).
type tagSpec struct {
	typ  types.EntityType
	leaf bool
}

// htmlTags is the immutable tag table of the HTML dialect, built once at
// startup. Unknown tags are not errors; the scanner demotes them to literal
// text.
var htmlTags = map[string]tagSpec{
	"b":          {typ: types.EntityBold},
	"strong":     {typ: types.EntityBold},
	"i":          {typ: types.EntityItalic},
	"em":         {typ: types.EntityItalic},
	"u":          {typ: types.EntityUnderline},
	"s":          {typ: types.EntityStrikethrough},
	"del":        {typ: types.EntityStrikethrough},
	"strike":     {typ: types.EntityStrikethrough},
	"code":       {typ: types.EntityCode, leaf: true},
	"pre":        {typ: types.EntityPre, leaf: true},
	"a":          {typ: types.EntityTextLink},
	"emoji":      {typ: types.EntityCustomEmoji},
	"blockquote": {typ: types.EntityBlockquote},
	"spoiler":    {typ: types.EntitySpoiler},
	"tg-spoiler": {typ: types.EntitySpoiler},
}

// preCodeWrapRe matches the Bot-API idiom for a language-tagged code block:
// a single <code class="language-x"> wrapper directly inside <pre>.
var preCodeWrapRe = regexp.MustCompile(`(?s)^\s*<code(?:\s+class="language-([^"]*)")?\s*>(.*)</code>\s*$`)

type htmlDialect struct{}

func (htmlDialect) Name() string { return "html" }

func (htmlDialect) QuotePrefix() string { return "" }

func (htmlDialect) Scan(input string) []Event {
	s := htmlScanner{src: input, lower: asciiLower(input)}
	return s.run()
}

// asciiLower lowercases ASCII letters only, keeping byte positions identical
// to the source. Tag and attribute names are ASCII; literal text passes
// through untouched.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// EscapeLiteral escapes &, < and > for HTML output. The same escaping applies
// inside code spans.
func (htmlDialect) EscapeLiteral(text string, _ bool) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

func escapeHTMLAttr(v string) string {
	v = strings.ReplaceAll(v, "&", "&amp;")
	v = strings.ReplaceAll(v, "<", "&lt;")
	v = strings.ReplaceAll(v, ">", "&gt;")
	v = strings.ReplaceAll(v, `"`, "&quot;")
	return v
}

func (htmlDialect) OpenMarker(e types.MessageEntity) string {
	switch e.Type {
	case types.EntityBold:
		return "<b>"
	case types.EntityItalic:
		return "<i>"
	case types.EntityUnderline:
		return "<u>"
	case types.EntityStrikethrough:
		return "<s>"
	case types.EntityCode:
		return "<code>"
	case types.EntityPre:
		if e.Language != "" {
			return `<pre language="` + escapeHTMLAttr(e.Language) + `">`
		}
		return "<pre>"
	case types.EntityTextLink, types.EntityMention:
		return `<a href="` + escapeHTMLAttr(linkDestination(e)) + `">`
	case types.EntityCustomEmoji:
		return `<emoji id="` + escapeHTMLAttr(e.CustomEmojiID) + `">`
	case types.EntityBlockquote:
		return "<blockquote>"
	case types.EntityExpandableBlockquote:
		return "<blockquote expandable>"
	case types.EntitySpoiler:
		return "<tg-spoiler>"
	}
	return ""
}

func (htmlDialect) CloseMarker(e types.MessageEntity) string {
	switch e.Type {
	case types.EntityBold:
		return "</b>"
	case types.EntityItalic:
		return "</i>"
	case types.EntityUnderline:
		return "</u>"
	case types.EntityStrikethrough:
		return "</s>"
	case types.EntityCode:
		return "</code>"
	case types.EntityPre:
		return "</pre>"
	case types.EntityTextLink, types.EntityMention:
		return "</a>"
	case types.EntityCustomEmoji:
		return "</emoji>"
	case types.EntityBlockquote, types.EntityExpandableBlockquote:
		return "</blockquote>"
	case types.EntitySpoiler:
		return "</tg-spoiler>"
	}
	return ""
}

// htmlScanner is a single forward pass over the source. It is local to one
// Scan call; the dialect value itself stays stateless.
type htmlScanner struct {
	src       string
	lower     string // ASCII-lowercased copy, same byte positions
	pos       int
	textStart int
	events    []Event
}

func (s *htmlScanner) run() []Event {
	n := len(s.src)
	for s.pos < n {
		if s.src[s.pos] != '<' {
			s.pos++
			continue
		}
		tag, ok := s.parseTag(s.pos)
		if !ok {
			s.pos++
			continue
		}
		s.flushText(s.pos)
		s.handleTag(tag)
	}
	s.flushText(n)
	return s.events
}

func (s *htmlScanner) flushText(upto int) {
	if upto > s.textStart {
		s.events = append(s.events, literal(html.UnescapeString(s.src[s.textStart:upto])))
	}
	s.textStart = upto
}

// parsedTag is one successfully scanned <...> construct.
type parsedTag struct {
	name        string
	attrs       map[string]string
	closing     bool
	selfClosing bool
	start, end  int // byte range including the angle brackets
}

func (t parsedTag) raw(src string) string { return src[t.start:t.end] }

// parseTag scans a tag starting at the '<' at position start. A malformed tag
// reports !ok and the caller falls back to literal text.
func (s *htmlScanner) parseTag(start int) (parsedTag, bool) {
	src := s.src
	n := len(src)
	i := start + 1
	t := parsedTag{start: start, attrs: map[string]string{}}

	if i < n && src[i] == '/' {
		t.closing = true
		i++
	}

	nameStart := i
	for i < n && (isASCIILetter(src[i]) || isASCIIDigit(src[i]) || src[i] == '-') {
		i++
	}
	if i == nameStart || !isASCIILetter(src[nameStart]) {
		return t, false
	}
	t.name = s.lower[nameStart:i]

	for {
		for i < n && isHTMLSpace(src[i]) {
			i++
		}
		if i >= n {
			return t, false
		}
		if src[i] == '>' {
			t.end = i + 1
			return t, true
		}
		if src[i] == '/' && i+1 < n && src[i+1] == '>' {
			t.selfClosing = true
			t.end = i + 2
			return t, true
		}
		if t.closing {
			// Attributes on a closing tag are malformed.
			return t, false
		}

		attrStart := i
		for i < n && !isHTMLSpace(src[i]) && src[i] != '=' && src[i] != '>' && src[i] != '/' {
			i++
		}
		if i == attrStart {
			return t, false
		}
		attrName := s.lower[attrStart:i]
		attrValue := ""

		for i < n && isHTMLSpace(src[i]) {
			i++
		}
		if i < n && src[i] == '=' {
			i++
			for i < n && isHTMLSpace(src[i]) {
				i++
			}
			if i >= n {
				return t, false
			}
			if src[i] == '"' || src[i] == '\'' {
				quote := src[i]
				i++
				valStart := i
				for i < n && src[i] != quote {
					i++
				}
				if i >= n {
					return t, false
				}
				attrValue = src[valStart:i]
				i++
			} else {
				valStart := i
				for i < n && !isHTMLSpace(src[i]) && src[i] != '>' {
					i++
				}
				attrValue = src[valStart:i]
			}
		}
		t.attrs[attrName] = html.UnescapeString(attrValue)
	}
}

func (s *htmlScanner) handleTag(t parsedTag) {
	advance := func() {
		s.pos = t.end
		s.textStart = t.end
	}

	if t.name == "br" {
		s.events = append(s.events, literal("\n"))
		advance()
		return
	}

	spec, known := htmlTags[t.name]
	if !known {
		// Unknown tag: the whole construct is literal text.
		s.events = append(s.events, literal(t.raw(s.src)))
		advance()
		return
	}

	if t.closing {
		s.events = append(s.events, closing(spec.typ, t.raw(s.src)))
		advance()
		return
	}

	if t.selfClosing {
		s.events = append(s.events, Event{Kind: EventSelfClosing, Type: spec.typ, Raw: t.raw(s.src)})
		advance()
		return
	}

	ev := open(spec.typ, t.raw(s.src))
	switch t.name {
	case "a":
		ev.URL = t.attrs["href"]
	case "emoji":
		ev.CustomEmojiID = t.attrs["id"]
	case "pre":
		ev.Language = t.attrs["language"]
	case "blockquote":
		if _, expandable := t.attrs["expandable"]; expandable {
			ev.Type = types.EntityExpandableBlockquote
		}
	}

	if spec.leaf {
		advance()
		s.scanLeaf(&ev, t.name)
		return
	}

	s.events = append(s.events, ev)
	advance()
}

// scanLeaf consumes raw content up to the matching close tag of a code or pre
// element. Nested markers inside a leaf are plain text. A missing close tag
// leaves the span open; the builder auto-closes it at end of input.
func (s *htmlScanner) scanLeaf(ev *Event, name string) {
	closeTag := "</" + name
	idx := s.findLeafClose(closeTag, s.pos)
	if idx < 0 {
		content := s.src[s.pos:]
		s.emitLeaf(ev, content, "")
		s.pos = len(s.src)
		s.textStart = s.pos
		return
	}

	contentEnd := idx
	end := contentEnd + len(closeTag)
	// Tolerate whitespace before the final '>'.
	for end < len(s.src) && isHTMLSpace(s.src[end]) {
		end++
	}
	if end < len(s.src) && s.src[end] == '>' {
		end++
	}

	s.emitLeaf(ev, s.src[s.pos:contentEnd], s.src[contentEnd:end])
	s.pos = end
	s.textStart = end
}

// findLeafClose returns the absolute position of the next real close tag for a
// leaf element, or -1. A bare prefix match is not enough: "</codeblock>" must
// stay literal inside <code>, so the tag name has to be followed by '>' or
// whitespace (or end of input).
func (s *htmlScanner) findLeafClose(closeTag string, from int) int {
	for from < len(s.lower) {
		idx := strings.Index(s.lower[from:], closeTag)
		if idx < 0 {
			return -1
		}
		abs := from + idx
		after := abs + len(closeTag)
		if after >= len(s.src) || s.src[after] == '>' || isHTMLSpace(s.src[after]) {
			return abs
		}
		from = abs + 1
	}
	return -1
}

func (s *htmlScanner) emitLeaf(ev *Event, content, closeRaw string) {
	if ev.Type == types.EntityPre {
		if m := preCodeWrapRe.FindStringSubmatch(content); m != nil {
			if m[1] != "" {
				ev.Language = m[1]
			}
			content = m[2]
		}
		content = strings.TrimPrefix(content, "\n")
		content = strings.TrimSuffix(content, "\n")
	}
	s.events = append(s.events, *ev)
	s.events = append(s.events, literal(html.UnescapeString(content)))
	if closeRaw != "" {
		s.events = append(s.events, closing(ev.Type, closeRaw))
	}
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHTMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
