package markupify

import "testing"

func scannedText(t *testing.T, text string, e MessageEntity) string {
	t.Helper()
	return extractEntityText(text, e)
}

func TestScanText_URL(t *testing.T) {
	text := "see https://example.com/path for details"
	entities := ScanText(text)
	url := findEntity(entities, EntityURL)
	if url == nil {
		t.Fatalf("entities = %+v, want a url", entities)
	}
	if got := scannedText(t, text, *url); got != "https://example.com/path" {
		t.Errorf("url covers %q", got)
	}
}

func TestScanText_URLTrailingPunctuation(t *testing.T) {
	text := "go to www.example.com."
	entities := ScanText(text)
	url := findEntity(entities, EntityURL)
	if url == nil {
		t.Fatal("missing url entity")
	}
	if got := scannedText(t, text, *url); got != "www.example.com" {
		t.Errorf("url covers %q, want without the final dot", got)
	}
}

func TestScanText_Email(t *testing.T) {
	text := "mail me at user@example.com please"
	entities := ScanText(text)
	email := findEntity(entities, EntityEmail)
	if email == nil {
		t.Fatal("missing email entity")
	}
	if got := scannedText(t, text, *email); got != "user@example.com" {
		t.Errorf("email covers %q", got)
	}
}

// TestScanText_EmailWithWWWHost: a www. host inside an address is part of the
// e-mail, not a bare URL.
func TestScanText_EmailWithWWWHost(t *testing.T) {
	text := "contact user@www.example.com now"
	entities := ScanText(text)
	if findEntity(entities, EntityURL) != nil {
		t.Errorf("entities = %+v, want no url entity", entities)
	}
	email := findEntity(entities, EntityEmail)
	if email == nil {
		t.Fatal("missing email entity")
	}
	if got := scannedText(t, text, *email); got != "user@www.example.com" {
		t.Errorf("email covers %q", got)
	}
}

func TestScanText_Phone(t *testing.T) {
	entities := ScanText("call +79991234567 now")
	phone := findEntity(entities, EntityPhoneNumber)
	if phone == nil {
		t.Fatal("missing phone_number entity")
	}
	if phone.Offset != 5 || phone.Length != 12 {
		t.Errorf("phone = %+v", phone)
	}
}

func TestScanText_BotCommand(t *testing.T) {
	text := "/start@some_bot now"
	entities := ScanText(text)
	cmd := findEntity(entities, EntityBotCommand)
	if cmd == nil {
		t.Fatal("missing bot_command entity")
	}
	if got := scannedText(t, text, *cmd); got != "/start@some_bot" {
		t.Errorf("command covers %q", got)
	}
}

func TestScanText_Hashtag(t *testing.T) {
	text := "news #golang today"
	entities := ScanText(text)
	tag := findEntity(entities, EntityHashtag)
	if tag == nil {
		t.Fatal("missing hashtag entity")
	}
	if got := scannedText(t, text, *tag); got != "#golang" {
		t.Errorf("hashtag covers %q", got)
	}
}

func TestScanText_Cashtag(t *testing.T) {
	text := "buy $GOOG now"
	entities := ScanText(text)
	tag := findEntity(entities, EntityCashtag)
	if tag == nil {
		t.Fatal("missing cashtag entity")
	}
	if got := scannedText(t, text, *tag); got != "$GOOG" {
		t.Errorf("cashtag covers %q", got)
	}
}

// TestScanText_NoOverlap: the e-mail wins over the URL-ish tail and the
// hashtag inside a URL is not detected separately.
func TestScanText_NoOverlap(t *testing.T) {
	text := "https://example.com/#anchor"
	entities := ScanText(text)
	if len(entities) != 1 || entities[0].Type != EntityURL {
		t.Errorf("entities = %+v, want a single url", entities)
	}
}

func TestScanText_EmojiOffsets(t *testing.T) {
	text := "😀 #tag"
	entities := ScanText(text)
	tag := findEntity(entities, EntityHashtag)
	if tag == nil {
		t.Fatal("missing hashtag entity")
	}
	if tag.Offset != 3 || tag.Length != 4 {
		t.Errorf("hashtag = %+v, want offset 3 length 4", tag)
	}
}

func TestScanText_SortedNoUsernames(t *testing.T) {
	text := "hello @someone visit https://example.com and #tag"
	entities := ScanText(text)
	for i := 1; i < len(entities); i++ {
		if entities[i-1].Offset > entities[i].Offset {
			t.Fatalf("entities not sorted: %+v", entities)
		}
	}
	if findEntity(entities, EntityMention) != nil {
		t.Error("bare @username must not produce a mention entity")
	}
}

func TestScanText_Empty(t *testing.T) {
	if got := ScanText(""); got != nil {
		t.Errorf("ScanText(\"\") = %+v, want nil", got)
	}
}
