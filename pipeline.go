package markupify

import (
	"context"
	"strings"

	"github.com/markupify/markupify-go/internal/util"
)

// ProcessMarkdown converts a Markdown document into an ordered list of
// sendable contents: Text chunks within the message length limit, and File
// attachments for code blocks exceeding the line limit.
//
// The conversion itself never fails; the error return exists for parity with
// future sinks and for context cancellation between chunks.
func ProcessMarkdown(ctx context.Context, content string, opts ...Option) ([]Content, error) {
	options := applyOptions(opts...)

	fullText, fullEntities, segments := ConvertWithSegments(content, options.Config)
	offsets := utf16OffsetTable(fullText)

	// Only oversized code blocks split the text; everything else stays inline.
	var extractable []Segment
	for _, s := range segments {
		if strings.Count(s.RawCode, "\n")+1 > options.FileLineLimit {
			extractable = append(extractable, s)
		}
	}

	result := make([]Content, 0)
	cursorByte := 0
	cursorUTF16 := 0

	for _, seg := range extractable {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seg.TextStart > cursorByte {
			chunk := fullText[cursorByte:seg.TextStart]
			ents := clipEntities(fullEntities, cursorUTF16, seg.UTF16Start)
			chunk, ents = stripNewlinesAdjust(chunk, ents)
			if chunk != "" {
				appendTextChunks(&result, chunk, ents, options.MaxMessageLength)
			}
		}
		appendCodeFile(&result, seg)
		cursorByte = seg.TextEnd
		cursorUTF16 = seg.UTF16End
	}

	if cursorByte < len(fullText) {
		chunk := fullText[cursorByte:]
		ents := clipEntities(fullEntities, cursorUTF16, offsets[len(fullText)])
		chunk, ents = stripNewlinesAdjust(chunk, ents)
		if chunk != "" {
			appendTextChunks(&result, chunk, ents, options.MaxMessageLength)
		}
	}

	return result, nil
}

// appendTextChunks splits text to the message length limit and appends the
// resulting Text contents.
func appendTextChunks(result *[]Content, text string, entities []MessageEntity, maxLen int) {
	for _, chunk := range SplitEntities(text, entities, maxLen) {
		chunkText, chunkEntities := stripNewlinesAdjust(chunk.Text, chunk.Entities)
		if chunkText == "" {
			continue
		}
		*result = append(*result, &Text{
			Text:         chunkText,
			Entities:     chunkEntities,
			ContentTrace: newContentTrace("text"),
		})
	}
}

// appendCodeFile extracts a code block as a File attachment with an inferred
// filename.
func appendCodeFile(result *[]Content, seg Segment) {
	lang := seg.Language
	if lang == "" {
		lang = "txt"
	}
	trace := newContentTrace("code_block")
	trace.Extra = map[string]interface{}{"language": lang}
	Logger.Printf("extracting %s code block (%d bytes) as file", lang, len(seg.RawCode))

	*result = append(*result, &File{
		FileName:     util.GetFilename(seg.RawCode, lang),
		FileData:     []byte(seg.RawCode),
		ContentTrace: trace,
	})
}
