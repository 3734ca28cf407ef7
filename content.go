package markupify

import "github.com/google/uuid"

// ContentType represents the kind of a pipeline output item.
type ContentType int

const (
	// ContentTypeText is a text message.
	ContentTypeText ContentType = iota
	// ContentTypeFile is a file attachment.
	ContentTypeFile
)

// String returns the string representation of ContentType.
func (ct ContentType) String() string {
	switch ct {
	case ContentTypeText:
		return "text"
	case ContentTypeFile:
		return "file"
	default:
		return "unknown"
	}
}

// ContentTrace tracks the origin of a content item through the pipeline.
type ContentTrace struct {
	TraceID    string
	SourceType string
	Extra      map[string]interface{}
}

func newContentTrace(sourceType string) ContentTrace {
	return ContentTrace{
		TraceID:    uuid.NewString(),
		SourceType: sourceType,
	}
}

// Content is a piece of output ready to be handed to the messaging API.
type Content interface {
	GetContentType() ContentType
	GetContentTrace() ContentTrace
}

// Text is a message segment with its entities.
type Text struct {
	Text         string
	Entities     []MessageEntity
	ContentTrace ContentTrace
}

// GetContentType returns ContentTypeText.
func (t *Text) GetContentType() ContentType { return ContentTypeText }

// GetContentTrace returns the content trace.
func (t *Text) GetContentTrace() ContentTrace { return t.ContentTrace }

// File is an extracted attachment, e.g. an oversized code block.
type File struct {
	FileName        string
	FileData        []byte
	CaptionText     string
	CaptionEntities []MessageEntity
	ContentTrace    ContentTrace
}

// GetContentType returns ContentTypeFile.
func (f *File) GetContentType() ContentType { return ContentTypeFile }

// GetContentTrace returns the content trace.
func (f *File) GetContentTrace() ContentTrace { return f.ContentTrace }
