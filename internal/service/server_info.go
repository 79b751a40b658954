package service

import (
	"fmt"
	"os"

	"github.com/a3tai/mcp-docx-filler/internal/certificate"
	"github.com/a3tai/mcp-docx-filler/internal/descriptions"
	"github.com/a3tai/mcp-docx-filler/internal/source"
)

// ServerInfo returns server configuration and usage guidance
func (s *Service) ServerInfo(_ ServerInfoRequest) (*ServerInfoResult, error) {
	templateAvailable := false
	if info, err := os.Stat(s.templatePath); err == nil && !info.IsDir() {
		templateAvailable = true
	}

	required := make(map[certificate.Field]bool, len(certificate.RequiredFields))
	for _, f := range certificate.RequiredFields {
		required[f] = true
	}
	fields := make([]FieldInfo, 0, len(certificate.AllFields))
	for _, f := range certificate.AllFields {
		fields = append(fields, FieldInfo{Name: string(f), Label: f.Label(), Required: required[f]})
	}

	return &ServerInfoResult{
		ServerName:        s.serverName,
		Version:           s.version,
		WorkDirectory:     s.pathValidator.Root(),
		TemplatePath:      s.templatePath,
		TemplateAvailable: templateAvailable,
		OutputDirectory:   s.outputDir,
		MaxFileSize:       s.maxFileSize,
		MaxFiles:          s.maxFiles,
		Workers:           s.workers,
		DocumentMarker:    s.profile.DocumentMarker,
		Fields:            fields,
		AvailableTools:    availableTools(),
		SupportedFormats:  []string{string(source.FormatDocx), string(source.FormatPDF)},
		UsageGuidance:     s.usageGuidance(),
	}, nil
}

// availableTools returns the list of available tools
func availableTools() []ToolInfo {
	pathParam := "path (required): Path to the certificate (.docx or .pdf), relative to the working directory or absolute inside it"
	return []ToolInfo{
		{
			Name:        descriptions.ToolValidateFile,
			Description: descriptions.GetToolDescription(descriptions.ToolValidateFile),
			Usage:       "Use this tool to check that a certificate file can be read before parsing it.",
			Parameters:  pathParam,
		},
		{
			Name:        descriptions.ToolParseFile,
			Description: descriptions.GetToolDescription(descriptions.ToolParseFile),
			Usage:       "Use this tool to extract the certificate fields and see which ones are missing.",
			Parameters:  pathParam,
		},
		{
			Name:        descriptions.ToolFillFile,
			Description: descriptions.GetToolDescription(descriptions.ToolFillFile),
			Usage:       "Use this tool to produce one filled confirmation document.",
			Parameters: pathParam + ", template (optional): template .docx (uses the configured template if empty), " +
				"output_path (optional): where to write the filled document",
		},
		{
			Name:        descriptions.ToolBatch,
			Description: descriptions.GetToolDescription(descriptions.ToolBatch),
			Usage:       "Use this tool to fill the template for several certificates and get one zip archive.",
			Parameters: "paths (required): comma or newline separated certificate paths, " +
				"template (optional): template .docx, output_directory (optional): where the archive is written",
		},
		{
			Name:        descriptions.ToolServerInfo,
			Description: descriptions.GetToolDescription(descriptions.ToolServerInfo),
			Usage:       "Use this tool to get the active configuration and the extracted fields.",
			Parameters:  "No parameters required",
		},
	}
}

func (s *Service) usageGuidance() string {
	maxFileSizeMB := s.maxFileSize / (1024 * 1024)

	return fmt.Sprintf(`Certificate Filler Usage Guide:

1. CHECK THE SETUP:
   - Use '%[1]s' to see the template path and whether it exists

2. VALIDATE FILES:
   - Use '%[2]s' to check that an upload is a readable .docx or .pdf

3. EXTRACT FIELDS:
   - Use '%[3]s' to get the certificate fields
   - error_kind explains a failed extraction:
     * FILE_INVALID: the file is empty, too large or not a readable document
     * EMPTY_CONTENT: the document contains no text
     * WRONG_DOCUMENT_TYPE: the certificate title is missing
     * MISSING_FIELDS: some required fields were not found (the partial record is returned)

4. FILL THE TEMPLATE:
   - Use '%[4]s' for one certificate
   - Use '%[5]s' for up to %[6]d certificates packaged as one zip archive

IMPORTANT NOTES:
- Paths must stay inside the working directory
- The server can handle files up to %[7]dMB
- Only complete records are filled; every other file is reported with a reason`,
		descriptions.ToolServerInfo, descriptions.ToolValidateFile, descriptions.ToolParseFile,
		descriptions.ToolFillFile, descriptions.ToolBatch, s.maxFiles, maxFileSizeMB)
}
