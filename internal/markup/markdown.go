package markup

import (
	"strings"

	"github.com/markupify/markupify-go/internal/types"
)

type markdownDialect struct{}

func (markdownDialect) Name() string { return "markdown" }

func (markdownDialect) QuotePrefix() string { return "> " }

func (markdownDialect) Scan(input string) []Event {
	s := mdScanner{src: input, toggles: map[string]bool{}, linkEnd: -1}
	return s.run()
}

// EscapeLiteral backslash-escapes delimiter characters so round-tripped text
// stays literal. Escapes do not work inside code spans, so code content is
// written verbatim.
func (markdownDialect) EscapeLiteral(text string, inCode bool) string {
	if inCode {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\\', '*', '_', '~', '`', '|', '[':
			sb.WriteByte('\\')
		case '>':
			// Only quote markers at line starts need escaping.
			if i == 0 || text[i-1] == '\n' {
				sb.WriteByte('\\')
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func escapeMarkdownURL(url string) string {
	url = strings.ReplaceAll(url, "(", "%28")
	url = strings.ReplaceAll(url, ")", "%29")
	return url
}

func (markdownDialect) OpenMarker(e types.MessageEntity) string {
	switch e.Type {
	case types.EntityBold:
		return "**"
	case types.EntityItalic:
		return "*"
	case types.EntityUnderline:
		return "__"
	case types.EntityStrikethrough:
		return "~~"
	case types.EntitySpoiler:
		return "||"
	case types.EntityCode:
		return "`"
	case types.EntityPre:
		return "```" + e.Language + "\n"
	case types.EntityTextLink, types.EntityMention, types.EntityCustomEmoji:
		return "["
	}
	return ""
}

func (markdownDialect) CloseMarker(e types.MessageEntity) string {
	switch e.Type {
	case types.EntityBold:
		return "**"
	case types.EntityItalic:
		return "*"
	case types.EntityUnderline:
		return "__"
	case types.EntityStrikethrough:
		return "~~"
	case types.EntitySpoiler:
		return "||"
	case types.EntityCode:
		return "`"
	case types.EntityPre:
		return "\n```"
	case types.EntityTextLink, types.EntityMention, types.EntityCustomEmoji:
		return "](" + escapeMarkdownURL(linkDestination(e)) + ")"
	}
	return ""
}

// mdScanner is a single forward pass over Markdown source. Delimiters open a
// span only when a matching closer exists later in the same block; otherwise
// they stay literal. Escaped delimiters are always literal.
type mdScanner struct {
	src       string
	pos       int
	textStart int
	events    []Event

	// toggles tracks which delimiter token currently has an open span, keyed
	// by the token spelling so that "_" cannot close a span opened by "*".
	toggles map[string]bool

	inQuote bool

	// Pending inline link: byte position of the closing ']' and the number of
	// bytes to skip there (the "](url)" tail).
	linkEnd   int
	linkSkip  int
	linkClose Event
}

func (s *mdScanner) flush(upto int) {
	if upto > s.textStart {
		s.events = append(s.events, literal(s.src[s.textStart:upto]))
	}
	s.textStart = upto
}

// emitAt flushes pending text, appends ev and repositions after width bytes.
func (s *mdScanner) emitAt(ev Event, width int) {
	s.flush(s.pos)
	s.events = append(s.events, ev)
	s.pos += width
	s.textStart = s.pos
}

func (s *mdScanner) run() []Event {
	n := len(s.src)
	for s.pos < n {
		if s.linkEnd >= 0 && s.pos >= s.linkEnd {
			skip := s.linkSkip
			if s.pos > s.linkEnd {
				// The closer was swallowed by another construct; close the
				// span here without consuming anything.
				skip = 0
			}
			s.linkEnd = -1
			s.emitAt(s.linkClose, skip)
			continue
		}

		if s.atLineStart() && s.src[s.pos] == '>' {
			s.scanQuoteMarker()
			continue
		}

		switch s.src[s.pos] {
		case '\\':
			s.scanEscape()
		case '\n':
			if s.inQuote && (s.pos+1 >= n || s.src[s.pos+1] != '>') {
				s.flush(s.pos)
				s.events = append(s.events, closing(types.EntityBlockquote, ""))
				s.inQuote = false
			}
			s.pos++
		case '*':
			if s.hasPrefix("**") {
				s.scanDelimiter("**", types.EntityBold)
			} else {
				s.scanDelimiter("*", types.EntityItalic)
			}
		case '_':
			if s.hasPrefix("__") {
				s.scanDelimiter("__", types.EntityUnderline)
			} else {
				s.scanDelimiter("_", types.EntityItalic)
			}
		case '~':
			if s.hasPrefix("~~") {
				s.scanDelimiter("~~", types.EntityStrikethrough)
			} else {
				s.pos++
			}
		case '|':
			if s.hasPrefix("||") {
				s.scanDelimiter("||", types.EntitySpoiler)
			} else {
				s.pos++
			}
		case '`':
			if s.hasPrefix("```") && s.atLineStart() {
				s.scanFence()
			} else {
				s.scanInlineCode()
			}
		case '[':
			s.scanLinkStart()
		default:
			s.pos++
		}
	}
	s.flush(n)
	return s.events
}

func (s *mdScanner) atLineStart() bool {
	return s.pos == 0 || s.src[s.pos-1] == '\n'
}

func (s *mdScanner) hasPrefix(tok string) bool {
	return strings.HasPrefix(s.src[s.pos:], tok)
}

// blockEnd returns the byte offset where the current block ends: the next
// blank line, or end of input.
func (s *mdScanner) blockEnd(from int) int {
	if idx := strings.Index(s.src[from:], "\n\n"); idx >= 0 {
		return from + idx
	}
	return len(s.src)
}

func (s *mdScanner) scanEscape() {
	if s.pos+1 < len(s.src) && isMarkdownSpecial(s.src[s.pos+1]) {
		s.flush(s.pos)
		s.events = append(s.events, literal(string(s.src[s.pos+1])))
		s.pos += 2
		s.textStart = s.pos
		return
	}
	// Backslash before anything else is plain text.
	s.pos++
}

// scanQuoteMarker consumes a "> " line prefix, opening a blockquote span when
// one is not already open.
func (s *mdScanner) scanQuoteMarker() {
	s.flush(s.pos)
	if !s.inQuote {
		s.events = append(s.events, open(types.EntityBlockquote, ">"))
		s.inQuote = true
	}
	s.pos++
	if s.pos < len(s.src) && s.src[s.pos] == ' ' {
		s.pos++
	}
	s.textStart = s.pos
}

// scanDelimiter handles a symmetric delimiter token. A token closes the span
// it opened; otherwise it opens one only when an unescaped matching token
// exists later in the same block.
func (s *mdScanner) scanDelimiter(tok string, typ types.EntityType) {
	if s.toggles[tok] {
		s.toggles[tok] = false
		s.emitAt(closing(typ, tok), len(tok))
		return
	}
	if findToken(s.src, tok, s.pos+len(tok), s.blockEnd(s.pos)) < 0 {
		// No closer in this block: the delimiter is literal text.
		s.pos += len(tok)
		return
	}
	s.toggles[tok] = true
	s.emitAt(open(typ, tok), len(tok))
}

// findToken locates the next unescaped occurrence of tok in src[from:until].
func findToken(src, tok string, from, until int) int {
	for i := from; i+len(tok) <= until; i++ {
		if src[i:i+len(tok)] != tok {
			continue
		}
		if i > 0 && src[i-1] == '\\' {
			continue
		}
		return i
	}
	return -1
}

func (s *mdScanner) scanInlineCode() {
	lineEnd := strings.IndexByte(s.src[s.pos+1:], '\n')
	if lineEnd < 0 {
		lineEnd = len(s.src)
	} else {
		lineEnd += s.pos + 1
	}
	end := findToken(s.src, "`", s.pos+1, lineEnd)
	if end < 0 {
		// Unmatched backtick stays literal.
		s.pos++
		return
	}
	content := s.src[s.pos+1 : end]
	s.flush(s.pos)
	s.events = append(s.events, open(types.EntityCode, "`"), literal(content), closing(types.EntityCode, "`"))
	s.pos = end + 1
	s.textStart = s.pos
}

// scanFence handles a triple-backtick fenced code block with an optional
// language word on the opening fence. An unterminated fence runs to end of
// input and is auto-closed by the builder.
func (s *mdScanner) scanFence() {
	n := len(s.src)
	langStart := s.pos + 3
	lineEnd := strings.IndexByte(s.src[langStart:], '\n')

	openEv := open(types.EntityPre, "```")

	if lineEnd < 0 {
		openEv.Language = fenceLanguage(s.src[langStart:])
		s.flush(s.pos)
		s.events = append(s.events, openEv)
		s.pos = n
		s.textStart = n
		return
	}

	contentStart := langStart + lineEnd + 1
	openEv.Language = fenceLanguage(s.src[langStart : langStart+lineEnd])

	closePos := -1
	for i := contentStart; i+3 <= n; i++ {
		if s.src[i:i+3] == "```" && (i == contentStart || s.src[i-1] == '\n') {
			closePos = i
			break
		}
	}

	s.flush(s.pos)
	if closePos < 0 {
		s.events = append(s.events, openEv, literal(s.src[contentStart:]))
		s.pos = n
		s.textStart = n
		return
	}

	content := strings.TrimSuffix(s.src[contentStart:closePos], "\n")
	s.events = append(s.events, openEv, literal(content), closing(types.EntityPre, "```"))
	s.pos = closePos + 3
	s.textStart = s.pos
}

func fenceLanguage(info string) string {
	info = strings.TrimSpace(info)
	if idx := strings.IndexAny(info, " \t,"); idx >= 0 {
		info = info[:idx]
	}
	return info
}

// scanLinkStart tries to read "[text](url)". The inner text is scanned
// normally so nested formatting works; the close marker fires when the
// scanner reaches the recorded ']' position. Nested links are not supported.
func (s *mdScanner) scanLinkStart() {
	if s.linkEnd >= 0 {
		s.pos++
		return
	}
	until := s.blockEnd(s.pos)
	textEnd := findToken(s.src, "]", s.pos+1, until)
	if textEnd < 0 || textEnd+1 >= len(s.src) || s.src[textEnd+1] != '(' {
		s.pos++
		return
	}
	urlEnd := findToken(s.src, ")", textEnd+2, until)
	if urlEnd < 0 {
		s.pos++
		return
	}

	url := s.src[textEnd+2 : urlEnd]
	typ, payload := ResolveLinkPayload(url)
	ev := open(typ, "[")
	ev.URL = payload.URL
	ev.UserID = payload.UserID
	ev.CustomEmojiID = payload.CustomEmojiID

	s.linkEnd = textEnd
	s.linkSkip = urlEnd + 1 - textEnd
	s.linkClose = closing(typ, "]")

	s.emitAt(ev, 1)
}

func isMarkdownSpecial(b byte) bool {
	switch b {
	case '\\', '*', '_', '~', '`', '|', '[', ']', '(', ')', '>':
		return true
	}
	return false
}
