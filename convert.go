package markupify

import (
	"github.com/markupify/markupify-go/internal/gfm"
)

// Segment describes where a code block landed in converted text; the pipeline
// uses it to extract large blocks as file attachments.
type Segment = gfm.Segment

// Convert renders a GitHub-flavored Markdown document into (text, entities).
//
// Unlike ParseMarkdown, which implements the strict inline dialect, Convert
// handles whole documents: headings, lists, task lists, tables and thematic
// breaks get textual renderings, ||spoilers|| are honored, and long
// blockquotes are upgraded to the expandable kind.
func Convert(markdown string, config *RenderConfig) (string, []MessageEntity) {
	text, entities, _ := ConvertWithSegments(markdown, config)
	return text, entities
}

// ConvertWithSegments is Convert plus the code-block segment information
// needed by the message pipeline.
func ConvertWithSegments(markdown string, config *RenderConfig) (string, []MessageEntity, []Segment) {
	if config == nil {
		config = DefaultConfig()
	}
	preprocessed := gfm.PreprocessSpoilers(markdown)
	return gfm.Parse(preprocessed, config)
}
