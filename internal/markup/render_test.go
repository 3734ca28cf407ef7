package markup

import (
	"errors"
	"testing"

	"github.com/markupify/markupify-go/internal/types"
)

func mustRender(t *testing.T, d Dialect, text string, entities []types.MessageEntity) string {
	t.Helper()
	out, err := Render(d, text, entities)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return out
}

// TestRenderHTML_Nested renders nested entities back to tags.
func TestRenderHTML_Nested(t *testing.T) {
	out := mustRender(t, HTML, "ABC", []types.MessageEntity{
		{Type: types.EntityBold, Offset: 0, Length: 3},
		{Type: types.EntityItalic, Offset: 1, Length: 1},
	})
	if out != "<b>A<i>B</i>C</b>" {
		t.Errorf("out = %q", out)
	}
}

// TestRenderHTML_OverlapSplitting: overlapping entities render by closing and
// reopening so the markup nests properly.
func TestRenderHTML_OverlapSplitting(t *testing.T) {
	out := mustRender(t, HTML, "ABC", []types.MessageEntity{
		{Type: types.EntityBold, Offset: 0, Length: 2},
		{Type: types.EntityItalic, Offset: 1, Length: 2},
	})
	if out != "<b>A<i>B</i></b><i>C</i>" {
		t.Errorf("out = %q", out)
	}
}

// TestRenderHTML_Escaping escapes literal markup characters.
func TestRenderHTML_Escaping(t *testing.T) {
	out := mustRender(t, HTML, "a<b & c>", nil)
	if out != "a&lt;b &amp; c&gt;" {
		t.Errorf("out = %q", out)
	}
}

// TestRenderHTML_LinkAndMention writes payloads back as attributes.
func TestRenderHTML_LinkAndMention(t *testing.T) {
	out := mustRender(t, HTML, "site user", []types.MessageEntity{
		{Type: types.EntityTextLink, Offset: 0, Length: 4, URL: "https://example.com"},
		{Type: types.EntityMention, Offset: 5, Length: 4, UserID: 42},
	})
	want := `<a href="https://example.com">site</a> <a href="tg://user?id=42">user</a>`
	if out != want {
		t.Errorf("out = %q\nwant %q", out, want)
	}
}

// TestRenderHTML_PreLanguage writes the language attribute.
func TestRenderHTML_PreLanguage(t *testing.T) {
	out := mustRender(t, HTML, "x := 1", []types.MessageEntity{
		{Type: types.EntityPre, Offset: 0, Length: 6, Language: "go"},
	})
	if out != `<pre language="go">x := 1</pre>` {
		t.Errorf("out = %q", out)
	}
}

// TestRenderHTML_ZeroLengthSkipped: zero-length entities are valid but
// produce no markup.
func TestRenderHTML_ZeroLengthSkipped(t *testing.T) {
	out := mustRender(t, HTML, "abc", []types.MessageEntity{
		{Type: types.EntityBold, Offset: 1, Length: 0},
	})
	if out != "abc" {
		t.Errorf("out = %q, want abc", out)
	}
}

// TestRenderMarkdown_Basic delimiters.
func TestRenderMarkdown_Basic(t *testing.T) {
	out := mustRender(t, Markdown, "bold plain", []types.MessageEntity{
		{Type: types.EntityBold, Offset: 0, Length: 4},
	})
	if out != "**bold** plain" {
		t.Errorf("out = %q", out)
	}
}

// TestRenderMarkdown_Escaping backslash-escapes delimiter characters.
func TestRenderMarkdown_Escaping(t *testing.T) {
	out := mustRender(t, Markdown, "2 * 3 = 6", nil)
	if out != `2 \* 3 = 6` {
		t.Errorf("out = %q", out)
	}
}

// TestRenderMarkdown_CodeVerbatim: no escaping inside code spans.
func TestRenderMarkdown_CodeVerbatim(t *testing.T) {
	out := mustRender(t, Markdown, "x := *p", []types.MessageEntity{
		{Type: types.EntityCode, Offset: 0, Length: 7},
	})
	if out != "`x := *p`" {
		t.Errorf("out = %q", out)
	}
}

// TestRenderMarkdown_Blockquote prefixes every quoted line.
func TestRenderMarkdown_Blockquote(t *testing.T) {
	out := mustRender(t, Markdown, "line1\nline2", []types.MessageEntity{
		{Type: types.EntityBlockquote, Offset: 0, Length: 11},
	})
	if out != "> line1\n> line2" {
		t.Errorf("out = %q", out)
	}
}

// TestRender_ValidationErrors reports the failing entity and field.
func TestRender_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		entity types.MessageEntity
		field  string
	}{
		{"negative offset", "abc", types.MessageEntity{Type: types.EntityBold, Offset: -1, Length: 1}, "offset"},
		{"negative length", "abc", types.MessageEntity{Type: types.EntityBold, Offset: 0, Length: -1}, "length"},
		{"out of range", "abc", types.MessageEntity{Type: types.EntityBold, Offset: 1, Length: 3}, "length"},
		{"missing url", "abc", types.MessageEntity{Type: types.EntityTextLink, Offset: 0, Length: 3}, "url"},
		{"missing user id", "abc", types.MessageEntity{Type: types.EntityMention, Offset: 0, Length: 3}, "user_id"},
		{"missing emoji id", "abc", types.MessageEntity{Type: types.EntityCustomEmoji, Offset: 0, Length: 3}, "custom_emoji_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Render(HTML, tc.text, []types.MessageEntity{tc.entity})
			var verr *types.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("Field = %q, want %q", verr.Field, tc.field)
			}
			if verr.Index != 0 {
				t.Errorf("Index = %d, want 0", verr.Index)
			}
		})
	}
}

// TestRender_SurrogateBoundary: offsets count UTF-16 units, so an entity may
// end exactly at the text length even with astral codepoints.
func TestRender_SurrogateBoundary(t *testing.T) {
	text := "😀x"
	out := mustRender(t, HTML, text, []types.MessageEntity{
		{Type: types.EntityBold, Offset: 0, Length: 2},
	})
	if out != "<b>😀</b>x" {
		t.Errorf("out = %q", out)
	}

	_, err := Render(HTML, text, []types.MessageEntity{
		{Type: types.EntityBold, Offset: 0, Length: 4},
	})
	if err == nil {
		t.Error("expected range error for length past end")
	}
}

// TestRoundTrip_HTML: parse then render reproduces the same text and
// entities.
func TestRoundTrip_HTML(t *testing.T) {
	inputs := []string{
		"<b>A<i>B</i>C</b>",
		`plain <u>under</u> and <s>gone</s> and <code>x&lt;y</code>`,
		`<a href="https://example.com">link</a> end`,
		"<blockquote>quoted\nlines</blockquote>after",
		"<tg-spoiler>secret</tg-spoiler>",
	}
	for _, in := range inputs {
		text, entities := Parse(HTML, in)
		rendered := mustRender(t, HTML, text, entities)
		text2, entities2 := Parse(HTML, rendered)
		if text2 != text {
			t.Errorf("round trip of %q: text %q != %q", in, text2, text)
		}
		if len(entities2) != len(entities) {
			t.Errorf("round trip of %q: entities %+v != %+v", in, entities2, entities)
			continue
		}
		for i := range entities {
			if entities2[i] != entities[i] {
				t.Errorf("round trip of %q: entity %d: %+v != %+v", in, i, entities2[i], entities[i])
			}
		}
	}
}

// TestRoundTrip_Markdown over the markdown dialect.
func TestRoundTrip_Markdown(t *testing.T) {
	inputs := []string{
		"**bold** and *italic* and __under__",
		"~~strike~~ ||spoiler|| `code`",
		"[link](https://example.com) trail",
		"```go\nfmt.Println()\n```",
		"> quoted\n> lines\nplain",
	}
	for _, in := range inputs {
		text, entities := Parse(Markdown, in)
		rendered := mustRender(t, Markdown, text, entities)
		text2, entities2 := Parse(Markdown, rendered)
		if text2 != text {
			t.Errorf("round trip of %q: text %q != %q", in, text2, text)
		}
		if len(entities2) != len(entities) {
			t.Errorf("round trip of %q: entities %+v != %+v", in, entities2, entities)
			continue
		}
		for i := range entities {
			if entities2[i] != entities[i] {
				t.Errorf("round trip of %q: entity %d: %+v != %+v", in, i, entities2[i], entities[i])
			}
		}
	}
}

// TestRender_Deterministic: equal inputs render identically.
func TestRender_Deterministic(t *testing.T) {
	entities := []types.MessageEntity{
		{Type: types.EntityBold, Offset: 0, Length: 3},
		{Type: types.EntityItalic, Offset: 0, Length: 3},
	}
	first := mustRender(t, HTML, "abc", entities)
	for i := 0; i < 10; i++ {
		if out := mustRender(t, HTML, "abc", entities); out != first {
			t.Fatalf("render %d differs: %q vs %q", i, out, first)
		}
	}
}
