package source

import (
	"github.com/a3tai/mcp-docx-filler/internal/docx"
)

// DocxReader reads body paragraphs followed by all table-cell text.
type DocxReader struct{}

// Format implements Reader.
func (DocxReader) Format() Format { return FormatDocx }

// Open implements Reader.
func (DocxReader) Open(data []byte) error {
	_, err := docx.Open(data)
	return err
}

// Read implements Reader.
func (DocxReader) Read(data []byte) (RawText, error) {
	doc, err := docx.Open(data)
	if err != nil {
		return RawText{}, err
	}
	return NewRawText(doc.Text()), nil
}
