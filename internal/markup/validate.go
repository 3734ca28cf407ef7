package markup

import "github.com/markupify/markupify-go/internal/types"

// Validate checks an entity list against the model invariants for text:
// offsets and lengths must stay within the text measured in UTF-16 code
// units, and payload-carrying types must have their payload set. Zero-length
// entities are tolerated here; the renderer drops them silently.
//
// This is the only loud failure in the package: parsing never errors.
func Validate(text string, entities []types.MessageEntity) error {
	total := UTF16Len(text)
	for i, e := range entities {
		if e.Offset < 0 {
			return &types.ValidationError{Index: i, Field: "offset", Reason: "negative offset"}
		}
		if e.Length < 0 {
			return &types.ValidationError{Index: i, Field: "length", Reason: "negative length"}
		}
		if e.Offset+e.Length > total {
			return &types.ValidationError{Index: i, Field: "length", Reason: "range exceeds text length"}
		}
		switch e.Type {
		case types.EntityTextLink:
			if e.URL == "" {
				return &types.ValidationError{Index: i, Field: "url", Reason: "text_link requires a url"}
			}
		case types.EntityMention:
			if e.UserID <= 0 {
				return &types.ValidationError{Index: i, Field: "user_id", Reason: "mention requires a user id"}
			}
		case types.EntityCustomEmoji:
			if e.CustomEmojiID == "" {
				return &types.ValidationError{Index: i, Field: "custom_emoji_id", Reason: "custom_emoji requires an emoji id"}
			}
		}
	}
	return nil
}
