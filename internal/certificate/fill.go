package certificate

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/a3tai/mcp-docx-filler/internal/docx"
)

const (
	DefaultFontName = "Times New Roman"
	DefaultFontSize = 13.0

	issueDateLabel = "Ngày, tháng, năm cấp:"
	signerLabel    = "Họ, chữ đệm, tên, chức vụ người ký"
)

// Placeholder describes one template label and the filler run after it.
type Placeholder struct {
	Field Field
	// Labels are the accepted spellings; the first one found in a cell is used.
	Labels []string
	// Tail is a pattern between the label and the filler, e.g. the rest of a
	// long caption up to its colon.
	Tail string
	// Filler is the character class body of the filler run.
	Filler string
	// Rewrite replaces the label and tail when set; otherwise the matched
	// label is kept.
	Rewrite string
}

const (
	dotFiller    = `.…`
	numberFiller = `.…_\-`
	dateFiller   = `.…/\-`
)

// DefaultPlaceholders lists the labels of the certificate template in
// substitution order.
func DefaultPlaceholders() []Placeholder {
	return []Placeholder{
		{Field: FieldNumber, Labels: []string{"Số:"}, Filler: numberFiller},
		{Field: FieldIssueDate, Labels: []string{issueDateLabel}, Filler: dateFiller},
		{Field: FieldFullName, Labels: []string{"Họ, chữ đệm, tên:"}, Filler: dotFiller},
		{
			Field:   FieldSigner,
			Labels:  []string{signerLabel},
			Tail:    `[^:]*:`,
			Filler:  dotFiller,
			Rewrite: signerLabel + " Giấy xác nhận tình trạng hôn nhân:",
		},
		{Field: FieldGender, Labels: []string{"Giới tính:"}, Filler: dotFiller},
		{Field: FieldEthnicity, Labels: []string{"Dân tộc:"}, Filler: dotFiller},
		{Field: FieldNationality, Labels: []string{"Quốc tịch:"}, Filler: dotFiller},
		{Field: FieldDateOfBirth, Labels: []string{"Ngày, tháng, năm sinh:"}, Filler: dotFiller},
		{Field: FieldResidenceAddress, Labels: []string{"Nơi cưu trú:", "Nơi cư trú:"}, Filler: dotFiller},
		{Field: FieldIdentityDocument, Labels: []string{"Giấy tờ tùy thân:"}, Filler: dotFiller},
		{Field: FieldMaritalStatus, Labels: []string{"Tình trạng hôn nhân:"}, Filler: dotFiller},
		{Field: FieldIntendedUse, Labels: []string{"Mục đích sử dụng:"}, Filler: dotFiller},
	}
}

type compiledPlaceholder struct {
	Placeholder
	re *regexp.Regexp
}

func compilePlaceholder(p Placeholder) (compiledPlaceholder, error) {
	quoted := make([]string, len(p.Labels))
	for i, l := range p.Labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	expr := `(` + strings.Join(quoted, "|") + `)` + p.Tail + `\s*[` + p.Filler + `]+`
	re, err := regexp.Compile(expr)
	if err != nil {
		return compiledPlaceholder{}, fmt.Errorf("placeholder for %s: %w", p.Field, err)
	}
	return compiledPlaceholder{Placeholder: p, re: re}, nil
}

// Filler writes a record into the certificate template.
type Filler struct {
	placeholders []compiledPlaceholder
	fontName     string
	fontSize     float64
	logger       *log.Logger
}

// FillerOption configures a Filler.
type FillerOption func(*Filler)

// WithFont sets the font every cell run is normalized to.
func WithFont(name string, sizePt float64) FillerOption {
	return func(f *Filler) {
		if name != "" {
			f.fontName = name
		}
		if sizePt > 0 {
			f.fontSize = sizePt
		}
	}
}

// WithFillerLogger sets the logger used for per-cell diagnostics.
func WithFillerLogger(l *log.Logger) FillerOption {
	return func(f *Filler) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFiller creates a filler for the given placeholders; nil means
// DefaultPlaceholders.
func NewFiller(placeholders []Placeholder, opts ...FillerOption) (*Filler, error) {
	if placeholders == nil {
		placeholders = DefaultPlaceholders()
	}

	f := &Filler{
		fontName: DefaultFontName,
		fontSize: DefaultFontSize,
		logger:   log.Default(),
	}
	for _, p := range placeholders {
		cp, err := compilePlaceholder(p)
		if err != nil {
			return nil, err
		}
		f.placeholders = append(f.placeholders, cp)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// cellResult is the outcome of substituting one cell.
type cellResult struct {
	index       int
	substituted []Field
	err         error
}

// Fill reads the template, substitutes rec into it and writes the filled
// document to w. Nothing is written on failure.
func (f *Filler) Fill(template []byte, rec *Record, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(KindUnknown, "panic while filling template", fmt.Errorf("%v", r))
		}
	}()

	doc, err := docx.Open(template)
	if err != nil {
		return newError(KindTemplateUnavailable, "cannot open template", err)
	}

	results := f.substitute(doc, rec)
	filled := 0
	for _, res := range results {
		if res.err != nil {
			f.logger.Printf("[DEBUG] cell %d skipped: %v", res.index, res.err)
			continue
		}
		filled += len(res.substituted)
	}
	f.logger.Printf("[DEBUG] substituted %d placeholders in %d cells", filled, len(results))

	f.decorate(doc)

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return newError(KindSubstitutionFailed, "cannot save filled document", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return newError(KindSubstitutionFailed, "cannot write filled document", err)
	}
	return nil
}

// FillFile fills the template at templatePath and writes outputPath. The
// output file is only created when filling succeeds.
func (f *Filler) FillFile(templatePath string, rec *Record, outputPath string) error {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return newError(KindTemplateUnavailable, "cannot read template", err)
	}

	var buf bytes.Buffer
	if err := f.Fill(template, rec, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o600); err != nil {
		return newError(KindSubstitutionFailed, "cannot write output file", err)
	}
	return nil
}

// substitute folds over every table cell; a failing cell never stops the
// remaining ones.
func (f *Filler) substitute(doc *docx.Document, rec *Record) []cellResult {
	cells := doc.Cells()
	results := make([]cellResult, 0, len(cells))
	for i, cell := range cells {
		results = append(results, f.substituteCell(i, cell, rec))
	}
	return results
}

func (f *Filler) substituteCell(index int, cell *docx.Cell, rec *Record) (res cellResult) {
	res.index = index
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("%v", r)
		}
	}()

	original := cell.Text()
	text := original
	for _, p := range f.placeholders {
		value := rec.Get(p.Field)
		if value == "" || !containsAny(text, p.Labels) {
			continue
		}
		if next, ok := p.apply(text, value); ok {
			text = next
			res.substituted = append(res.substituted, p.Field)
		}
	}

	if text != original {
		cell.SetText(text)
	}
	return res
}

// apply replaces the first label-and-filler occurrence with the label, a
// space and value. Text around the occurrence is kept.
func (p compiledPlaceholder) apply(text, value string) (string, bool) {
	loc := p.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, false
	}
	label := p.Rewrite
	if label == "" {
		label = text[loc[2]:loc[3]]
	}
	return text[:loc[0]] + label + " " + value + text[loc[1]:], true
}

// decorate right-aligns the issue-date cell, bolds the signer cell and sets
// the font of every run in every cell.
func (f *Filler) decorate(doc *docx.Document) {
	for _, cell := range doc.Cells() {
		text := cell.Text()
		isDate := strings.Contains(text, issueDateLabel)
		isSigner := strings.Contains(text, signerLabel)

		for _, para := range cell.Paragraphs() {
			if isDate {
				para.SetAlignment(docx.AlignRight)
			}
			for _, run := range para.Runs() {
				run.SetFont(f.fontName, f.fontSize)
				if isSigner {
					run.SetBold(true)
				}
			}
		}
	}
}

func containsAny(text string, labels []string) bool {
	for _, l := range labels {
		if strings.Contains(text, l) {
			return true
		}
	}
	return false
}
