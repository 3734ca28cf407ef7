package markupify

import (
	"strings"
	"testing"
)

func TestConvert_Paragraph(t *testing.T) {
	text, entities := Convert("Hello **bold** world", nil)
	if text != "Hello bold world" {
		t.Errorf("text = %q", text)
	}
	bold := findEntity(entities, EntityBold)
	if bold == nil {
		t.Fatal("missing bold entity")
	}
	if got := extractEntityText(text, *bold); got != "bold" {
		t.Errorf("bold covers %q", got)
	}
}

func TestConvert_Heading(t *testing.T) {
	text, entities := Convert("# Title", nil)
	if text != "📌 Title" {
		t.Errorf("text = %q", text)
	}
	bold := findEntity(entities, EntityBold)
	under := findEntity(entities, EntityUnderline)
	if bold == nil || under == nil {
		t.Fatalf("entities = %+v, want bold and underline", entities)
	}
	// The heading symbol is astral, so the title starts at unit 3.
	if bold.Offset != 3 || bold.Length != 5 {
		t.Errorf("bold = %+v, want offset 3 length 5", bold)
	}
}

func TestConvert_HeadingLevels(t *testing.T) {
	_, entities := Convert("### Sub", nil)
	if findEntity(entities, EntityBold) == nil {
		t.Error("level-3 heading should be bold")
	}
	if findEntity(entities, EntityUnderline) != nil {
		t.Error("level-3 heading should not be underlined")
	}

	_, entities = Convert("##### Minor", nil)
	if findEntity(entities, EntityItalic) == nil {
		t.Error("level-5 heading should be italic")
	}
}

func TestConvert_Lists(t *testing.T) {
	text, _ := Convert("- first\n- second", nil)
	if !strings.Contains(text, "⦁ first\n⦁ second") {
		t.Errorf("text = %q", text)
	}

	text, _ = Convert("1. one\n2. two", nil)
	if !strings.Contains(text, "1. one\n2. two") {
		t.Errorf("text = %q", text)
	}
}

func TestConvert_TaskList(t *testing.T) {
	text, _ := Convert("- [x] done\n- [ ] todo", nil)
	if !strings.Contains(text, "✅ done") || !strings.Contains(text, "☑️ todo") {
		t.Errorf("text = %q", text)
	}
}

func TestConvert_Spoiler(t *testing.T) {
	text, entities := Convert("||secret||", nil)
	if text != "secret" {
		t.Errorf("text = %q, want secret", text)
	}
	sp := findEntity(entities, EntitySpoiler)
	if sp == nil {
		t.Fatal("missing spoiler entity")
	}
	if sp.Offset != 0 || sp.Length != 6 {
		t.Errorf("spoiler = %+v, want offset 0 length 6", sp)
	}
}

func TestConvert_SpoilerInsideCodeUntouched(t *testing.T) {
	text, entities := Convert("`a || b`", nil)
	if text != "a || b" {
		t.Errorf("text = %q", text)
	}
	if findEntity(entities, EntitySpoiler) != nil {
		t.Error("spoiler delimiters inside code must stay literal")
	}
	if findEntity(entities, EntityCode) == nil {
		t.Error("missing code entity")
	}
}

func TestConvert_InlineCode(t *testing.T) {
	text, entities := Convert("run `go test` locally", nil)
	if text != "run go test locally" {
		t.Errorf("text = %q", text)
	}
	code := findEntity(entities, EntityCode)
	if code == nil {
		t.Fatal("missing code entity")
	}
	if got := extractEntityText(text, *code); got != "go test" {
		t.Errorf("code covers %q", got)
	}
}

func TestConvert_FencedCodeWithSegments(t *testing.T) {
	text, entities, segments := ConvertWithSegments("before\n\n```go\npackage main\n```\n\nafter", nil)
	if text != "before\n\npackage main\n\nafter" {
		t.Errorf("text = %q", text)
	}
	pre := findEntity(entities, EntityPre)
	if pre == nil {
		t.Fatal("missing pre entity")
	}
	if pre.Language != "go" {
		t.Errorf("Language = %q, want go", pre.Language)
	}
	if len(segments) != 1 {
		t.Fatalf("segments = %+v, want 1", segments)
	}
	seg := segments[0]
	if seg.RawCode != "package main" || seg.Language != "go" {
		t.Errorf("segment = %+v", seg)
	}
	if text[seg.TextStart:seg.TextEnd] != seg.RawCode {
		t.Errorf("segment range %q != raw code %q", text[seg.TextStart:seg.TextEnd], seg.RawCode)
	}
}

func TestConvert_Table(t *testing.T) {
	text, entities := Convert("| a | b |\n| --- | --- |\n| c | d |", nil)
	if !strings.Contains(text, "a | b") || !strings.Contains(text, "c | d") {
		t.Errorf("text = %q", text)
	}
	pre := findEntity(entities, EntityPre)
	if pre == nil {
		t.Fatal("table should render as a monospace pre block")
	}
	if got := extractEntityText(text, *pre); !strings.Contains(got, "c | d") {
		t.Errorf("pre covers %q", got)
	}
}

func TestConvert_Blockquote(t *testing.T) {
	text, entities := Convert("> quoted text", nil)
	if text != "💬 quoted text" {
		t.Errorf("text = %q", text)
	}
	quote := findEntity(entities, EntityBlockquote)
	if quote == nil {
		t.Fatal("missing blockquote entity")
	}
	// The quote symbol is astral (2 units) plus a space.
	if quote.Offset != 0 || quote.Length != 14 {
		t.Errorf("quote = %+v, want offset 0 length 14", quote)
	}
}

func TestConvert_QuoteSymbolConfigurable(t *testing.T) {
	cfg := *DefaultConfig()
	sym := *cfg.MarkdownSymbol
	sym.Quote = ""
	cfg.MarkdownSymbol = &sym

	text, entities := Convert("> quoted text", &cfg)
	if text != "quoted text" {
		t.Errorf("text = %q, want no quote prefix", text)
	}
	quote := findEntity(entities, EntityBlockquote)
	if quote == nil {
		t.Fatal("missing blockquote entity")
	}
	if quote.Offset != 0 || quote.Length != 11 {
		t.Errorf("quote = %+v, want offset 0 length 11", quote)
	}
}

func TestConvert_LongBlockquoteExpandable(t *testing.T) {
	long := "> " + strings.Repeat("a", 250)
	_, entities := Convert(long, nil)
	if findEntity(entities, EntityExpandableBlockquote) == nil {
		t.Errorf("entities = %+v, want expandable_blockquote", entities)
	}

	cfg := DefaultConfig()
	noExpand := *cfg
	noExpand.CiteExpandable = false
	_, entities = Convert(long, &noExpand)
	if findEntity(entities, EntityExpandableBlockquote) != nil {
		t.Error("expandable upgrade should be off when CiteExpandable is false")
	}
	if findEntity(entities, EntityBlockquote) == nil {
		t.Error("missing plain blockquote entity")
	}
}

func TestConvert_Link(t *testing.T) {
	text, entities := Convert("[docs](https://example.com)", nil)
	if text != "docs" {
		t.Errorf("text = %q", text)
	}
	link := findEntity(entities, EntityTextLink)
	if link == nil {
		t.Fatal("missing text_link entity")
	}
	if link.URL != "https://example.com" {
		t.Errorf("URL = %q", link.URL)
	}
}

func TestConvert_UserMentionLink(t *testing.T) {
	_, entities := Convert("[user](tg://user?id=99)", nil)
	mention := findEntity(entities, EntityMention)
	if mention == nil {
		t.Fatal("missing mention entity")
	}
	if mention.UserID != 99 {
		t.Errorf("UserID = %d, want 99", mention.UserID)
	}
}

func TestConvert_Strikethrough(t *testing.T) {
	text, entities := Convert("~~old~~ new", nil)
	if text != "old new" {
		t.Errorf("text = %q", text)
	}
	if findEntity(entities, EntityStrikethrough) == nil {
		t.Error("missing strikethrough entity")
	}
}

func TestConvert_ThematicBreak(t *testing.T) {
	text, _ := Convert("a\n\n---\n\nb", nil)
	if !strings.Contains(text, "————————") {
		t.Errorf("text = %q, want a rule line", text)
	}
}

func TestConvert_CJKOffsets(t *testing.T) {
	text, entities := Convert("你好 **世界**", nil)
	if text != "你好 世界" {
		t.Errorf("text = %q", text)
	}
	bold := findEntity(entities, EntityBold)
	if bold == nil {
		t.Fatal("missing bold entity")
	}
	if bold.Offset != 3 || bold.Length != 2 {
		t.Errorf("bold = %+v, want offset 3 length 2", bold)
	}
}

// TestConvert_EntitiesWithinBounds: every produced entity stays inside the
// text across a mixed document.
func TestConvert_EntitiesWithinBounds(t *testing.T) {
	doc := "# Head\n\nSome **bold** and `code`.\n\n> quote\n\n- item **x**\n\n```py\nprint(1)\n```\n"
	text, entities := Convert(doc, nil)
	if err := Validate(text, entities); err != nil {
		t.Errorf("Convert produced invalid entities: %v", err)
	}
}
