package markup

import "unicode/utf16"

// UTF16Len returns the length of text in UTF-16 code units. Codepoints above
// U+FFFF count as 2 (a surrogate pair), so this differs from both byte length
// and rune count for astral-plane characters.
func UTF16Len(text string) int {
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

func encodeUnits(text string) []uint16 {
	return utf16.Encode([]rune(text))
}

func decodeUnits(units []uint16) string {
	return string(utf16.Decode(units))
}
