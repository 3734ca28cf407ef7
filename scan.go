package markupify

import (
	"regexp"
	"sort"
	"strings"
)

// Autodetection patterns, compiled once at startup. These mirror the
// platform's client-side detection of implicit entities in plain text.
var (
	urlRe        = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe      = regexp.MustCompile(`\+[0-9]{7,15}`)
	botCommandRe = regexp.MustCompile(`(?:^|\s)(/[a-zA-Z0-9_]{1,32}(?:@[a-zA-Z0-9_]{3,32})?)`)
	hashtagRe    = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_&])#([\p{L}\p{N}_]{1,255})`)
	cashtagRe    = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_$])\$([A-Z]{1,8})(?:[^A-Za-z]|$)`)
)

// trailingURLPunct are characters stripped from the end of a detected URL;
// they usually belong to the surrounding sentence.
const trailingURLPunct = ".,;:!?)'\""

// ScanText detects implicit entities in plain text: bare URLs, e-mail
// addresses, phone numbers, bot commands, hashtags and cashtags. The result
// is sorted by offset and never overlaps; earlier (higher-priority) kinds win
// over later ones.
//
// @username mentions are deliberately not detected: a mention entity requires
// a resolved user id, which only the caller can supply.
func ScanText(text string) []MessageEntity {
	if text == "" {
		return nil
	}

	offsets := utf16OffsetTable(text)
	var found []MessageEntity
	var taken [][2]int // occupied byte ranges

	overlaps := func(start, end int) bool {
		for _, t := range taken {
			if start < t[1] && end > t[0] {
				return true
			}
		}
		return false
	}
	claim := func(typ EntityType, start, end int) {
		if end <= start || overlaps(start, end) {
			return
		}
		taken = append(taken, [2]int{start, end})
		found = append(found, MessageEntity{
			Type:   typ,
			Offset: offsets[start],
			Length: offsets[end] - offsets[start],
		})
	}

	for _, m := range urlRe.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		if start > 0 && text[start-1] == '@' {
			// www. host inside an e-mail address, not a bare URL.
			continue
		}
		end = start + len(strings.TrimRight(text[start:end], trailingURLPunct))
		claim(EntityURL, start, end)
	}
	for _, m := range emailRe.FindAllStringIndex(text, -1) {
		claim(EntityEmail, m[0], m[1])
	}
	for _, m := range phoneRe.FindAllStringIndex(text, -1) {
		claim(EntityPhoneNumber, m[0], m[1])
	}
	for _, m := range botCommandRe.FindAllStringSubmatchIndex(text, -1) {
		claim(EntityBotCommand, m[2], m[3])
	}
	for _, m := range hashtagRe.FindAllStringSubmatchIndex(text, -1) {
		claim(EntityHashtag, m[2]-1, m[3]) // include the '#'
	}
	for _, m := range cashtagRe.FindAllStringSubmatchIndex(text, -1) {
		claim(EntityCashtag, m[2]-1, m[3]) // include the '$'
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Offset < found[j].Offset })
	return found
}
