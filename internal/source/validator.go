package source

import (
	"fmt"
)

// Validator checks an upload before any text is extracted from it.
type Validator struct {
	maxFileSize int64
	readers     map[Format]Reader
}

// NewValidator creates a validator with the given size limit and readers.
func NewValidator(maxFileSize int64, readers map[Format]Reader) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		readers:     readers,
	}
}

// Validate checks that the upload is non-empty, within the size limit and
// openable as a supported container. It returns the reader to use.
func (v *Validator) Validate(name string, data []byte) (Reader, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty: %s", name)
	}

	if int64(len(data)) > v.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			len(data), v.maxFileSize)
	}

	format, err := Detect(name, data)
	if err != nil {
		return nil, err
	}

	reader, ok := v.readers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", name)
	}

	if err := reader.Open(data); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	return reader, nil
}

// MaxFileSize returns the configured size limit in bytes.
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}
