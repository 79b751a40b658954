package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFReader reads the plain text of every page of a text-based PDF. PDFs
// carry no table structure, so the text is taken in page order.
type PDFReader struct {
	// MaxTextSize caps extracted text; zero means 10 MB.
	MaxTextSize int
}

// Format implements Reader.
func (PDFReader) Format() Format { return FormatPDF }

// Open implements Reader. The container is validated in relaxed mode so
// that common producer quirks are tolerated.
func (PDFReader) Open(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	return nil
}

// Read implements Reader.
func (r PDFReader) Read(data []byte) (RawText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return RawText{}, fmt.Errorf("failed to open PDF: %w", err)
	}

	limit := r.MaxTextSize
	if limit <= 0 {
		limit = 10 * 1024 * 1024
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		if builder.Len()+len(content) > limit {
			builder.WriteString(truncateUTF8(content, limit-builder.Len()))
			break
		}
		builder.WriteString(content)
		builder.WriteByte('\n')
	}

	return NewRawText(builder.String()), nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
