package gfm

import (
	"regexp"
	"strings"
)

// codeRegionRe matches fenced code blocks and inline code, which spoiler
// rewriting must leave untouched.
var codeRegionRe = regexp.MustCompile("(```[\\s\\S]*?```|`[^`\\n]+`)")

// PreprocessSpoilers rewrites ||spoiler|| runs into <tg-spoiler> tags so the
// Markdown parser can carry them through as inline HTML. Code regions are
// skipped.
func PreprocessSpoilers(text string) string {
	parts := codeRegionRe.Split(text, -1)
	matches := codeRegionRe.FindAllString(text, -1)

	var result strings.Builder
	for i, part := range parts {
		result.WriteString(rewriteSpoilerDelims(part))
		if i < len(matches) {
			result.WriteString(matches[i])
		}
	}
	return result.String()
}

func rewriteSpoilerDelims(text string) string {
	var result strings.Builder
	inSpoiler := false
	for i := 0; i < len(text); {
		if text[i] == '|' && i+1 < len(text) && text[i+1] == '|' && (i == 0 || text[i-1] != '\\') {
			if inSpoiler {
				result.WriteString("</tg-spoiler>")
			} else {
				result.WriteString("<tg-spoiler>")
			}
			inSpoiler = !inSpoiler
			i += 2
			continue
		}
		result.WriteByte(text[i])
		i++
	}
	return result.String()
}
