package markup

import (
	"sort"
	"strings"

	"github.com/markupify/markupify-go/internal/types"
)

// Parse converts markup in the given dialect into (text, entities). It is
// total: malformed markup degrades to literal text and never fails.
func Parse(d Dialect, input string) (string, []types.MessageEntity) {
	return Build(d.Scan(input))
}

// Render converts (text, entities) back into markup. The entity list may be
// unsorted and may contain overlapping ranges; overlaps are resolved by
// closing and reopening markers at the overlap boundary, so the output is
// always well-bracketed at the cost of redundant marker pairs. The only
// failure mode is a *types.ValidationError on an invariant violation.
//
// Output is deterministic: identical input always yields byte-identical
// markup.
func Render(d Dialect, text string, entities []types.MessageEntity) (string, error) {
	if err := Validate(text, entities); err != nil {
		return "", err
	}

	// Zero-length entities are dropped, not rejected.
	items := make([]types.MessageEntity, 0, len(entities))
	for _, e := range entities {
		if e.Length > 0 {
			items = append(items, e)
		}
	}
	if len(items) == 0 {
		return renderEscaped(d, text, false), nil
	}

	units := encodeUnits(text)

	// Boundary marks. At equal positions closes come before opens; wider
	// entities open first and close last, which yields proper nesting for any
	// entity set that nests at all.
	type mark struct {
		pos  int
		open bool
		idx  int
	}
	marks := make([]mark, 0, 2*len(items))
	for i, e := range items {
		marks = append(marks, mark{pos: e.Offset, open: true, idx: i})
		marks = append(marks, mark{pos: e.Offset + e.Length, open: false, idx: i})
	}
	sort.SliceStable(marks, func(a, b int) bool {
		ma, mb := marks[a], marks[b]
		if ma.pos != mb.pos {
			return ma.pos < mb.pos
		}
		if ma.open != mb.open {
			return !ma.open // closes first
		}
		la, lb := items[ma.idx].Length, items[mb.idx].Length
		if ma.open {
			if la != lb {
				return la > lb // wider opens first
			}
			return ma.idx < mb.idx
		}
		if la != lb {
			return la < lb // narrower closes first
		}
		return ma.idx > mb.idx
	})

	w := markupWriter{d: d}
	var stack []int // indices of currently open items
	last := 0

	inCode := func() bool {
		for _, idx := range stack {
			if items[idx].Type == types.EntityCode || items[idx].Type == types.EntityPre {
				return true
			}
		}
		return false
	}

	for _, m := range marks {
		if m.pos > last {
			w.writeLiteral(decodeUnits(units[last:m.pos]), inCode())
			last = m.pos
		}
		if m.open {
			w.writeOpen(items[m.idx])
			stack = append(stack, m.idx)
			continue
		}

		// Find the entity on the open stack. Anything opened after it is
		// closed and reopened around the boundary: this is the segment split
		// for genuinely overlapping, non-nested ranges.
		k := len(stack) - 1
		for k >= 0 && stack[k] != m.idx {
			k--
		}
		if k < 0 {
			continue
		}
		for j := len(stack) - 1; j > k; j-- {
			w.writeClose(items[stack[j]])
		}
		w.writeClose(items[m.idx])
		reopened := append([]int(nil), stack[k+1:]...)
		for _, idx := range reopened {
			w.writeOpen(items[idx])
		}
		stack = append(stack[:k], reopened...)
	}

	if last < len(units) {
		w.writeLiteral(decodeUnits(units[last:]), false)
	}
	return w.String(), nil
}

func renderEscaped(d Dialect, text string, inCode bool) string {
	return d.EscapeLiteral(text, inCode)
}

// markupWriter assembles the output, handling line-prefix style quotes for
// dialects that use them (Markdown's "> ").
type markupWriter struct {
	d          Dialect
	sb         strings.Builder
	lastByte   byte
	quoteDepth int
}

func (w *markupWriter) writeString(s string) {
	if s == "" {
		return
	}
	w.sb.WriteString(s)
	w.lastByte = s[len(s)-1]
}

func (w *markupWriter) writeLiteral(text string, inCode bool) {
	out := w.d.EscapeLiteral(text, inCode)
	if w.quoteDepth > 0 {
		if prefix := w.d.QuotePrefix(); prefix != "" {
			out = strings.ReplaceAll(out, "\n", "\n"+prefix)
		}
	}
	w.writeString(out)
}

func isQuoteType(t types.EntityType) bool {
	return t == types.EntityBlockquote || t == types.EntityExpandableBlockquote
}

func (w *markupWriter) writeOpen(e types.MessageEntity) {
	if isQuoteType(e.Type) {
		if prefix := w.d.QuotePrefix(); prefix != "" {
			if w.sb.Len() > 0 && w.lastByte != '\n' {
				w.writeString("\n")
			}
			w.writeString(prefix)
			w.quoteDepth++
			return
		}
	}
	w.writeString(w.d.OpenMarker(e))
}

func (w *markupWriter) writeClose(e types.MessageEntity) {
	if isQuoteType(e.Type) && w.d.QuotePrefix() != "" {
		if w.quoteDepth > 0 {
			w.quoteDepth--
		}
		return
	}
	w.writeString(w.d.CloseMarker(e))
}

func (w *markupWriter) String() string {
	return w.sb.String()
}
