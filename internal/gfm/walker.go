package gfm

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/markupify/markupify-go/internal/buffer"
	"github.com/markupify/markupify-go/internal/markup"
	"github.com/markupify/markupify-go/internal/types"
)

// expandableQuoteThreshold is the blockquote length, in UTF-16 code units,
// beyond which a quote is upgraded to the collapsible kind.
const expandableQuoteThreshold = 200

// walker traverses a goldmark AST and accumulates (text, entities, segments).
type walker struct {
	buf         *buffer.TextBuffer
	source      []byte
	scopes      []entityScope
	entities    []types.MessageEntity
	segments    []Segment
	config      *types.RenderConfig
	blockCount  int
	listStack   []*int // nil entry = unordered, otherwise next ordinal
	itemIndent  string
	quoteScopes []entityScope

	inTableCell bool
	cellParts   []string
	currentRow  []string
	tableRows   [][]string

	headingTypes []types.EntityType
}

func newWalker(source []byte, config *types.RenderConfig) *walker {
	return &walker{
		buf:    buffer.New(),
		source: source,
		config: config,
	}
}

func (w *walker) result() (string, []types.MessageEntity, []Segment) {
	return w.buf.String(), w.entities, w.segments
}

func (w *walker) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Document:
		if !entering && w.config.CiteExpandable {
			for i := range w.entities {
				if w.entities[i].Type == types.EntityBlockquote && w.entities[i].Length > expandableQuoteThreshold {
					w.entities[i].Type = types.EntityExpandableBlockquote
				}
			}
		}

	case *ast.Text:
		if entering {
			w.onText(n.Segment, n.SoftLineBreak() || n.HardLineBreak())
		}

	case *ast.String:
		if entering {
			w.writeInline(string(n.Value))
		}

	case *ast.CodeSpan:
		if entering {
			w.onInlineCode(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		typ := types.EntityItalic
		if n.Level == 2 {
			typ = types.EntityBold
		}
		if entering {
			w.pushScope(entityScope{typ: typ})
		} else {
			w.popScope(typ)
		}

	case *east.Strikethrough:
		if entering {
			w.pushScope(entityScope{typ: types.EntityStrikethrough})
		} else {
			w.popScope(types.EntityStrikethrough)
		}

	case *ast.Link:
		if entering {
			w.onStartLink(string(n.Destination))
		} else {
			w.popScopeAny()
		}

	case *ast.Image:
		if entering {
			w.onStartImage(string(n.Destination))
		} else {
			w.popScopeAny()
		}

	case *ast.AutoLink:
		if entering {
			url := string(n.URL(w.source))
			w.pushScope(entityScope{typ: types.EntityTextLink, url: url})
			w.buf.Write(url)
			w.popScopeAny()
			return ast.WalkSkipChildren, nil
		}

	case *ast.Paragraph:
		if entering {
			if len(w.listStack) == 0 {
				w.ensureBlockSpacing()
			}
		} else if len(w.listStack) == 0 {
			w.blockCount++
		} else if w.buf.TrailingNewlineCount() == 0 {
			w.buf.Write("\n")
		}

	case *ast.Heading:
		if entering {
			w.onStartHeading(n.Level)
		} else {
			w.onEndHeading()
		}

	case *ast.Blockquote:
		if entering {
			w.onStartBlockquote()
		} else {
			w.onEndBlockquote()
		}

	case *ast.List:
		if entering {
			w.onStartList(n)
		} else {
			w.onEndList()
		}

	case *ast.ListItem:
		if entering {
			w.onStartItem()
		} else if w.buf.TrailingNewlineCount() == 0 {
			w.buf.Write("\n")
		}

	case *east.TaskCheckBox:
		if entering {
			w.onTaskCheckBox(n.IsChecked)
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.onCodeBlock(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.ThematicBreak:
		if entering {
			w.ensureBlockSpacing()
			w.buf.Write("————————")
			w.blockCount++
		}

	case *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			w.onInlineHTML(n)
		}

	case *east.Table:
		if entering {
			w.ensureBlockSpacing()
			w.tableRows = nil
		} else {
			w.onEndTable()
		}

	case *east.TableHeader, *east.TableRow:
		if entering {
			w.currentRow = nil
		} else {
			w.tableRows = append(w.tableRows, w.currentRow)
			w.currentRow = nil
		}

	case *east.TableCell:
		if entering {
			w.cellParts = nil
			w.inTableCell = true
		} else {
			w.currentRow = append(w.currentRow, strings.Join(w.cellParts, ""))
			w.cellParts = nil
			w.inTableCell = false
		}
	}

	return ast.WalkContinue, nil
}

// --- text ---

func (w *walker) onText(seg text.Segment, lineBreak bool) {
	content := string(seg.Value(w.source))
	if w.inTableCell {
		if lineBreak {
			content += " "
		}
		w.cellParts = append(w.cellParts, content)
		return
	}
	if lineBreak {
		content += "\n"
	}
	w.buf.Write(content)
}

func (w *walker) writeInline(content string) {
	if w.inTableCell {
		w.cellParts = append(w.cellParts, content)
		return
	}
	w.buf.Write(content)
}

func (w *walker) onInlineCode(n *ast.CodeSpan) {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(w.source))
		}
	}
	code := sb.String()
	if w.inTableCell {
		w.cellParts = append(w.cellParts, code)
		return
	}
	start := w.buf.UTF16Offset()
	w.buf.Write(code)
	if length := w.buf.UTF16Offset() - start; length > 0 {
		w.entities = append(w.entities, types.MessageEntity{
			Type:   types.EntityCode,
			Offset: start,
			Length: length,
		})
	}
}

func (w *walker) onInlineHTML(n *ast.RawHTML) {
	tag := strings.TrimSpace(strings.ToLower(string(n.Segments.Value(w.source))))
	switch tag {
	case "<tg-spoiler>":
		w.pushScope(entityScope{typ: types.EntitySpoiler})
	case "</tg-spoiler>":
		w.popScope(types.EntitySpoiler)
	}
}

// --- headings ---

var headingEntityTypes = map[int][]types.EntityType{
	1: {types.EntityBold, types.EntityUnderline},
	2: {types.EntityBold, types.EntityUnderline},
	3: {types.EntityBold},
	4: {types.EntityBold},
	5: {types.EntityItalic},
	6: {types.EntityItalic},
}

func (w *walker) onStartHeading(level int) {
	w.ensureBlockSpacing()

	sym := w.config.MarkdownSymbol
	symbols := []string{
		sym.HeadingLevel1, sym.HeadingLevel2, sym.HeadingLevel3,
		sym.HeadingLevel4, sym.HeadingLevel5, sym.HeadingLevel6,
	}
	if level >= 1 && level <= 6 && symbols[level-1] != "" {
		w.buf.Write(symbols[level-1] + " ")
	}

	w.headingTypes = headingEntityTypes[level]
	if w.headingTypes == nil {
		w.headingTypes = []types.EntityType{types.EntityBold}
	}
	for _, typ := range w.headingTypes {
		w.pushScope(entityScope{typ: typ})
	}
}

func (w *walker) onEndHeading() {
	for i := len(w.headingTypes) - 1; i >= 0; i-- {
		w.popScope(w.headingTypes[i])
	}
	w.headingTypes = nil
	w.blockCount++
}

// --- code blocks ---

func (w *walker) onCodeBlock(n ast.Node) {
	lang := ""
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(w.source))
	}
	lang = strings.TrimSpace(strings.Split(lang, ",")[0])

	var parts []string
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, string(seg.Value(w.source)))
	}
	rawCode := strings.TrimSuffix(strings.Join(parts, ""), "\n")

	w.ensureBlockSpacing()

	byteStart := w.buf.ByteOffset()
	start := w.buf.UTF16Offset()
	w.buf.Write(rawCode)
	length := w.buf.UTF16Offset() - start

	if length > 0 {
		e := types.MessageEntity{Type: types.EntityPre, Offset: start, Length: length}
		if lang != "" {
			e.Language = lang
		}
		w.entities = append(w.entities, e)
	}

	w.segments = append(w.segments, Segment{
		TextStart:  byteStart,
		TextEnd:    w.buf.ByteOffset(),
		UTF16Start: start,
		UTF16End:   w.buf.UTF16Offset(),
		Language:   lang,
		RawCode:    rawCode,
	})
	w.blockCount++
}

// --- blockquotes ---

func (w *walker) onStartBlockquote() {
	w.ensureBlockSpacing()
	w.quoteScopes = append(w.quoteScopes, entityScope{
		typ:         types.EntityBlockquote,
		startOffset: w.buf.UTF16Offset(),
	})
	if sym := w.config.MarkdownSymbol.Quote; sym != "" {
		w.buf.Write(sym + " ")
		// The prefix replaces the spacing the quote's first block would add.
		w.blockCount = 0
	}
}

func (w *walker) onEndBlockquote() {
	if len(w.quoteScopes) > 0 {
		scope := w.quoteScopes[len(w.quoteScopes)-1]
		w.quoteScopes = w.quoteScopes[:len(w.quoteScopes)-1]
		if length := w.buf.UTF16Offset() - scope.startOffset; length > 0 {
			w.entities = append(w.entities, types.MessageEntity{
				Type:   types.EntityBlockquote,
				Offset: scope.startOffset,
				Length: length,
			})
		}
	}
	w.blockCount++
}

// --- links & images ---

func (w *walker) onStartLink(dest string) {
	if dest == "" {
		// Link without destination renders as plain text.
		w.pushScope(entityScope{typ: types.EntityTextLink})
		return
	}
	typ, payload := markup.ResolveLinkPayload(dest)
	w.pushScope(entityScope{
		typ:           typ,
		url:           payload.URL,
		userID:        payload.UserID,
		customEmojiID: payload.CustomEmojiID,
	})
}

func (w *walker) onStartImage(dest string) {
	if emojiID := markup.ValidateCustomEmojiURL(dest); emojiID != "" {
		w.pushScope(entityScope{typ: types.EntityCustomEmoji, customEmojiID: emojiID})
		return
	}
	w.buf.Write(w.config.MarkdownSymbol.Image)
	w.pushScope(entityScope{typ: types.EntityTextLink, url: dest})
}

// --- lists ---

func (w *walker) onStartList(n *ast.List) {
	if len(w.listStack) == 0 {
		w.ensureBlockSpacing()
	}
	if n.IsOrdered() {
		start := n.Start
		w.listStack = append(w.listStack, &start)
	} else {
		w.listStack = append(w.listStack, nil)
	}
}

func (w *walker) onStartItem() {
	depth := len(w.listStack)
	indent := strings.Repeat("  ", depth-1)

	if w.buf.ByteOffset() > 0 && w.buf.TrailingNewlineCount() == 0 {
		w.buf.Write("\n")
	}
	w.itemIndent = indent

	if depth > 0 {
		if counter := w.listStack[depth-1]; counter != nil {
			w.buf.Write(fmt.Sprintf("%s%d. ", indent, *counter))
			*counter++
		} else {
			w.buf.Write(indent + "⦁ ")
		}
	}
}

func (w *walker) onTaskCheckBox(checked bool) {
	// Replace the just-written bullet with a task symbol.
	w.buf.PopLast()
	symbol := w.config.MarkdownSymbol.TaskUncompleted
	if checked {
		symbol = w.config.MarkdownSymbol.TaskCompleted
	}
	w.buf.Write(w.itemIndent + symbol + " ")
}

func (w *walker) onEndList() {
	if len(w.listStack) > 0 {
		w.listStack = w.listStack[:len(w.listStack)-1]
	}
	if len(w.listStack) == 0 {
		w.blockCount++
	}
}

// --- tables ---

func (w *walker) onEndTable() {
	tableText := formatTable(w.tableRows)
	start := w.buf.UTF16Offset()
	w.buf.Write(tableText)
	if length := w.buf.UTF16Offset() - start; length > 0 {
		w.entities = append(w.entities, types.MessageEntity{
			Type:   types.EntityPre,
			Offset: start,
			Length: length,
		})
	}
	w.tableRows = nil
	w.blockCount++
}

// formatTable renders rows as an aligned monospace grid with a separator
// after the header row.
func formatTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	colWidths := make([]int, numCols)
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	var lines []string
	for rowIdx, row := range rows {
		cells := make([]string, numCols)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = cell + strings.Repeat(" ", colWidths[i]-len(cell))
		}
		lines = append(lines, strings.Join(cells, " | "))

		if rowIdx == 0 && len(rows) > 1 {
			sep := make([]string, numCols)
			for i := range sep {
				sep[i] = strings.Repeat("-", colWidths[i])
			}
			lines = append(lines, strings.Join(sep, "-+-"))
		}
	}
	return strings.Join(lines, "\n")
}

// --- scopes ---

func (w *walker) pushScope(scope entityScope) {
	scope.startOffset = w.buf.UTF16Offset()
	w.scopes = append(w.scopes, scope)
}

// popScope closes the most recent scope of the given type.
func (w *walker) popScope(typ types.EntityType) {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if w.scopes[i].typ == typ {
			scope := w.scopes[i]
			w.scopes = append(w.scopes[:i], w.scopes[i+1:]...)
			w.finalizeScope(scope)
			return
		}
	}
}

func (w *walker) popScopeAny() {
	if len(w.scopes) == 0 {
		return
	}
	scope := w.scopes[len(w.scopes)-1]
	w.scopes = w.scopes[:len(w.scopes)-1]
	w.finalizeScope(scope)
}

func (w *walker) finalizeScope(scope entityScope) {
	length := w.buf.UTF16Offset() - scope.startOffset
	if length <= 0 {
		return
	}
	if scope.typ == types.EntityTextLink && scope.url == "" {
		return
	}
	w.entities = append(w.entities, types.MessageEntity{
		Type:          scope.typ,
		Offset:        scope.startOffset,
		Length:        length,
		URL:           scope.url,
		UserID:        scope.userID,
		CustomEmojiID: scope.customEmojiID,
	})
}

// ensureBlockSpacing guarantees a blank line between rendered blocks.
func (w *walker) ensureBlockSpacing() {
	if w.blockCount == 0 {
		return
	}
	if needed := 2 - w.buf.TrailingNewlineCount(); needed > 0 {
		w.buf.Write(strings.Repeat("\n", needed))
	}
}
