// Package buffer accumulates plain text while tracking the write position in
// UTF-16 code units, the unit the messaging platform counts entity offsets in.
package buffer

import "strings"

func utf16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// TextBuffer accumulates plain text and tracks the current UTF-16 offset.
type TextBuffer struct {
	parts       []string
	byteLen     int
	utf16Offset int
}

// New creates an empty TextBuffer.
func New() *TextBuffer {
	return &TextBuffer{}
}

// Write appends text to the buffer and advances the UTF-16 offset.
// Codepoints above U+FFFF advance the offset by 2.
func (tb *TextBuffer) Write(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
	tb.byteLen += len(text)
	tb.utf16Offset += utf16Len(text)
}

// UTF16Offset returns the current position in UTF-16 code units.
func (tb *TextBuffer) UTF16Offset() int {
	return tb.utf16Offset
}

// ByteOffset returns the current position in bytes.
func (tb *TextBuffer) ByteOffset() int {
	return tb.byteLen
}

// TrailingNewlineCount counts newline characters at the end of the buffer.
func (tb *TextBuffer) TrailingNewlineCount() int {
	count := 0
	for i := len(tb.parts) - 1; i >= 0; i-- {
		part := tb.parts[i]
		for j := len(part) - 1; j >= 0; j-- {
			if part[j] != '\n' {
				return count
			}
			count++
		}
	}
	return count
}

// PopLast removes and returns the most recently written part, rewinding the
// offset. Used to replace just-written prefixes such as list bullets.
func (tb *TextBuffer) PopLast() string {
	if len(tb.parts) == 0 {
		return ""
	}
	last := tb.parts[len(tb.parts)-1]
	tb.parts = tb.parts[:len(tb.parts)-1]
	tb.byteLen -= len(last)
	tb.utf16Offset -= utf16Len(last)
	return last
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	var sb strings.Builder
	sb.Grow(tb.byteLen)
	for _, p := range tb.parts {
		sb.WriteString(p)
	}
	return sb.String()
}

// Reset clears the buffer for reuse.
func (tb *TextBuffer) Reset() {
	tb.parts = tb.parts[:0]
	tb.byteLen = 0
	tb.utf16Offset = 0
}
