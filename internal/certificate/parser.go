package certificate

import (
	"fmt"
	"log"
	"regexp"

	"github.com/a3tai/mcp-docx-filler/internal/source"
)

// Parser turns an uploaded certificate into a Record.
type Parser struct {
	validator *source.Validator
	rules     *RuleSet
	resolver  *Resolver
	marker    *regexp.Regexp
	logger    *log.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserLogger sets the logger used for debug output.
func WithParserLogger(l *log.Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser compiles the profile and binds it to a validator.
func NewParser(profile Profile, validator *source.Validator, opts ...ParserOption) (*Parser, error) {
	rules, err := CompileRules(profile.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}

	marker := profile.DocumentMarker
	if marker == "" {
		marker = DefaultDocumentMarker
	}

	p := &Parser{
		validator: validator,
		rules:     rules,
		resolver:  NewResolver(profile.Lexicon),
		marker:    regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker)),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse validates, reads and extracts one file. When required fields are
// missing it returns the partial record together with a MISSING_FIELDS
// error; every other failure returns a nil record.
func (p *Parser) Parse(name string, data []byte) (rec *Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = newError(KindUnknown, fmt.Sprintf("panic while parsing %s", name), fmt.Errorf("%v", r))
		}
	}()

	reader, err := p.validator.Validate(name, data)
	if err != nil {
		return nil, newError(KindFileInvalid, "invalid file", err)
	}

	text, err := reader.Read(data)
	if err != nil {
		return nil, newError(KindFileInvalid, "failed to read document", err)
	}
	if text.Empty() {
		return nil, newError(KindEmptyContent, "document has no text", nil)
	}

	return p.ParseText(text)
}

// ParseText extracts a record from already-read text.
func (p *Parser) ParseText(text source.RawText) (*Record, error) {
	joined := text.String()
	if !p.marker.MatchString(joined) {
		return nil, newError(KindWrongDocumentType, "not a marital status certificate", nil)
	}

	rec := newRecord()
	for f, v := range p.rules.Extract(joined) {
		rec.Values[f] = v
	}
	rec.Values[FieldIssueDate] = extractIssueDate(joined)

	signer := p.resolver.Resolve(joined)
	rec.Values[FieldSigner] = signer.Composite()
	rec.Values[FieldRequester] = rec.Values[FieldFullName]

	p.logger.Printf("[DEBUG] extracted %d lines, signer phase %d", len(text.Lines), signer.Phase)

	if missing := rec.Missing(); len(missing) > 0 {
		return rec, missingFieldsError(missing)
	}
	return rec, nil
}
