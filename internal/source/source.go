// Package source turns uploaded certificate files into flattened raw text.
package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Format identifies a source container format.
type Format string

const (
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

var (
	docxMagic = []byte("PK\x03\x04")
	pdfMagic  = []byte("%PDF-")
)

// RawText is the flattened content of a document: trimmed, non-empty lines
// in the order they were encountered.
type RawText struct {
	Lines []string
}

// NewRawText splits text into lines, NFC-normalizes them and drops blanks.
func NewRawText(text string) RawText {
	text = norm.NFC.String(text)
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return RawText{Lines: lines}
}

// String joins the lines with newlines.
func (t RawText) String() string {
	return strings.Join(t.Lines, "\n")
}

// Empty reports whether no text was extracted.
func (t RawText) Empty() bool {
	return len(t.Lines) == 0
}

// Reader extracts raw text from a document held in memory.
type Reader interface {
	Format() Format
	// Open checks that data is a readable container of this format.
	Open(data []byte) error
	Read(data []byte) (RawText, error)
}

// Detect picks the source format from the file extension, falling back to
// the leading magic bytes when the name carries no known extension.
func Detect(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return FormatDocx, nil
	case ".pdf":
		return FormatPDF, nil
	case "":
		switch {
		case bytes.HasPrefix(data, docxMagic):
			return FormatDocx, nil
		case bytes.HasPrefix(data, pdfMagic):
			return FormatPDF, nil
		}
	}
	return "", fmt.Errorf("unsupported file type: %s", name)
}

// Readers returns the built-in readers keyed by format.
func Readers() map[Format]Reader {
	return map[Format]Reader{
		FormatDocx: DocxReader{},
		FormatPDF:  PDFReader{},
	}
}
