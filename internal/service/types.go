package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/a3tai/mcp-docx-filler/internal/batch"
	"github.com/a3tai/mcp-docx-filler/internal/certificate"
)

// Request Types

// ValidateFileRequest represents a request to validate an uploaded certificate
type ValidateFileRequest struct {
	Path string `json:"path" validate:"required"`
}

// ParseFileRequest represents a request to extract the fields of a certificate
type ParseFileRequest struct {
	Path string `json:"path" validate:"required"`
}

// FillFileRequest represents a request to parse a certificate and fill the
// template with it. Empty Template and OutputPath fall back to the
// configured template and a name derived from the holder's full name.
type FillFileRequest struct {
	Path       string `json:"path" validate:"required"`
	Template   string `json:"template,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

// BatchRequest represents a request to fill the template for several
// certificates and package the results
type BatchRequest struct {
	Paths           []string `json:"paths" validate:"required,min=1,dive,required"`
	Template        string   `json:"template,omitempty"`
	OutputDirectory string   `json:"output_directory,omitempty"`
}

// ServerInfoRequest represents a request for server information
type ServerInfoRequest struct {
	// No parameters needed for server info
}

var validate = validator.New()

// Validate checks the required fields of the request
func (r ValidateFileRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the required fields of the request
func (r ParseFileRequest) Validate() error {
	return validate.Struct(r)
}

// Validate checks the required fields of the request
func (r FillFileRequest) Validate() error {
	return validate.Struct(r)
}

// Validate rejects an empty path list and blank entries in it
func (r BatchRequest) Validate() error {
	return validate.Struct(r)
}

// Response Types

// ValidateFileResult represents the result of a validation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Format  string `json:"format,omitempty"`
	Size    int64  `json:"size"`
	Message string `json:"message,omitempty"`
}

// ParseFileResult represents the fields extracted from one certificate.
// Record is set for complete records and for records missing fields.
type ParseFileResult struct {
	Path      string              `json:"path"`
	Record    *certificate.Record `json:"record,omitempty"`
	Complete  bool                `json:"complete"`
	Missing   []string            `json:"missing,omitempty"`
	ErrorKind string              `json:"error_kind,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// FillFileResult represents the outcome of filling the template for one file
type FillFileResult struct {
	ParseFileResult
	Template   string `json:"template"`
	OutputPath string `json:"output_path,omitempty"`
}

// BatchResult represents the outcome of a batch run. Every requested path
// appears either in Entries or in Errors.
type BatchResult struct {
	RunID       string                `json:"run_id"`
	Template    string                `json:"template"`
	ArchivePath string                `json:"archive_path,omitempty"`
	Entries     []string              `json:"entries"`
	Records     []*certificate.Record `json:"records"`
	Errors      []batch.FileError     `json:"errors"`
}

// FieldInfo describes one certificate field
type FieldInfo struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string      `json:"server_name"`
	Version           string      `json:"version"`
	WorkDirectory     string      `json:"work_directory"`
	TemplatePath      string      `json:"template_path"`
	TemplateAvailable bool        `json:"template_available"`
	OutputDirectory   string      `json:"output_directory"`
	MaxFileSize       int64       `json:"max_file_size"`
	MaxFiles          int         `json:"max_files"`
	Workers           int         `json:"workers"`
	DocumentMarker    string      `json:"document_marker"`
	Fields            []FieldInfo `json:"fields"`
	AvailableTools    []ToolInfo  `json:"available_tools"`
	SupportedFormats  []string    `json:"supported_formats"`
	UsageGuidance     string      `json:"usage_guidance"`
}
