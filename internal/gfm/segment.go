package gfm

import "github.com/markupify/markupify-go/internal/types"

// Segment records where a code block landed in the rendered text, in both
// byte and UTF-16 coordinates, so the pipeline can extract it later.
type Segment struct {
	TextStart  int // byte offset of the block in the rendered text
	TextEnd    int
	UTF16Start int
	UTF16End   int
	Language   string
	RawCode    string
}

// entityScope tracks a not-yet-closed formatting region during the AST walk.
type entityScope struct {
	typ           types.EntityType
	startOffset   int
	url           string
	userID        int64
	customEmojiID string
}
