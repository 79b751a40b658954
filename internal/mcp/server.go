package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-docx-filler/internal/certificate"
	"github.com/a3tai/mcp-docx-filler/internal/config"
	"github.com/a3tai/mcp-docx-filler/internal/descriptions"
	"github.com/a3tai/mcp-docx-filler/internal/service"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *service.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   svc,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathParam := func() mcp.ToolOption {
		return mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the certificate (.docx or .pdf), relative to the working directory"),
		)
	}

	validateTool := mcp.NewTool(
		descriptions.ToolValidateFile,
		mcp.WithDescription(descriptions.ValidateFileDescription),
		pathParam(),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)

	parseTool := mcp.NewTool(
		descriptions.ToolParseFile,
		mcp.WithDescription(descriptions.ParseFileDescription),
		pathParam(),
	)
	s.mcpServer.AddTool(parseTool, s.handleParseFile)

	fillTool := mcp.NewTool(
		descriptions.ToolFillFile,
		mcp.WithDescription(descriptions.FillFileDescription),
		pathParam(),
		mcp.WithString("template",
			mcp.Description("Template .docx (uses the configured template if empty)"),
		),
		mcp.WithString("output_path",
			mcp.Description("Where to write the filled document (derived from the full name if empty)"),
		),
	)
	s.mcpServer.AddTool(fillTool, s.handleFillFile)

	batchTool := mcp.NewTool(
		descriptions.ToolBatch,
		mcp.WithDescription(descriptions.BatchDescription),
		mcp.WithString("paths",
			mcp.Required(),
			mcp.Description("Certificate paths separated by commas or newlines"),
		),
		mcp.WithString("template",
			mcp.Description("Template .docx (uses the configured template if empty)"),
		),
		mcp.WithString("output_directory",
			mcp.Description("Directory for the zip archive (uses the configured output directory if empty)"),
		),
	)
	s.mcpServer.AddTool(batchTool, s.handleBatch)

	serverInfoTool := mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.ServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ValidateFile(service.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := "Valid"
	if !result.Valid {
		status = "Invalid"
	}
	responseText := fmt.Sprintf("File: %s\nStatus: %s\nSize: %d bytes\n", result.Path, status, result.Size)
	if result.Format != "" {
		responseText += fmt.Sprintf("Format: %s\n", result.Format)
	}
	if result.Message != "" {
		responseText += fmt.Sprintf("Message: %s\n", result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleParseFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ParseFile(service.ParseFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatParseResult(result)), nil
}

func (s *Server) handleFillFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.FillFileRequest{
		Path:       path,
		Template:   stringArgument(request, "template"),
		OutputPath: stringArgument(request, "output_path"),
	}
	result, err := s.service.FillFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := s.formatParseResult(&result.ParseFileResult)
	text += fmt.Sprintf("Template: %s\n", result.Template)
	if result.OutputPath != "" {
		text += fmt.Sprintf("Filled document written to: %s\n", result.OutputPath)
	} else {
		text += "No document was written\n"
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.BatchRequest{
		Paths:           splitPaths(raw),
		Template:        stringArgument(request, "template"),
		OutputDirectory: stringArgument(request, "output_directory"),
	}
	result, err := s.service.Batch(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatBatchResult(result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.service.ServerInfo(service.ServerInfoRequest{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// stringArgument returns an optional string argument, or "" when it is
// absent or not a string.
func stringArgument(request mcp.CallToolRequest, name string) string {
	if v, ok := request.GetArguments()[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// splitPaths splits a comma or newline separated list and drops blanks.
func splitPaths(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			paths = append(paths, f)
		}
	}
	return paths
}

// Format functions

func (s *Server) formatParseResult(result *service.ParseFileResult) string {
	text := fmt.Sprintf("File: %s\n", result.Path)
	switch {
	case result.ErrorKind != "":
		text += fmt.Sprintf("Status: %s\n", result.ErrorKind)
		text += fmt.Sprintf("Reason: %s\n", result.Message)
	case result.Complete:
		text += "Status: COMPLETE\n"
	}

	if result.Record != nil {
		text += "\nFields:\n"
		for _, f := range certificate.AllFields {
			value := result.Record.Get(f)
			if value == "" {
				value = "(missing)"
			}
			text += fmt.Sprintf("  %s (%s): %s\n", f.Label(), f, value)
		}
		text += "\n"
	}

	return text
}

func (s *Server) formatBatchResult(result *service.BatchResult) string {
	text := fmt.Sprintf("Batch %s\n", result.RunID)
	text += fmt.Sprintf("Template: %s\n", result.Template)
	text += fmt.Sprintf("Filled: %d, Failed: %d\n", len(result.Entries), len(result.Errors))

	if result.ArchivePath != "" {
		text += fmt.Sprintf("\nArchive: %s\n", result.ArchivePath)
		for i, name := range result.Entries {
			text += fmt.Sprintf("  %d. %s\n", i+1, name)
		}
	} else {
		text += "\nNo archive was written\n"
	}

	if len(result.Errors) > 0 {
		text += "\nErrors:\n"
		for _, fe := range result.Errors {
			text += fmt.Sprintf("  #%d %s: %s - %s\n", fe.Index, fe.FileName, fe.Kind, fe.Detail)
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *service.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Working Directory: %s\n", result.WorkDirectory)
	availability := "available"
	if !result.TemplateAvailable {
		availability = "MISSING"
	}
	text += fmt.Sprintf("📄 Template: %s (%s)\n", result.TemplatePath, availability)
	text += fmt.Sprintf("📦 Output Directory: %s\n", result.OutputDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🗂️  Max Files Per Batch: %d (workers: %d)\n\n", result.MaxFiles, result.Workers)

	text += fmt.Sprintf("🔎 Document Marker: %s\n", result.DocumentMarker)
	text += "Fields:\n"
	for _, f := range result.Fields {
		req := ""
		if f.Required {
			req = " (required)"
		}
		text += fmt.Sprintf("  • %s: %s%s\n", f.Name, f.Label, req)
	}

	// Available tools
	text += "\n🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	if len(result.SupportedFormats) > 0 {
		text += "\n📑 Supported Formats: " + strings.Join(result.SupportedFormats, ", ") + "\n"
	}

	// Usage guidance
	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting certificate MCP server in stdio mode")
		log.Printf("Working directory: %s", s.service.WorkDirectory())
		log.Printf("Template: %s", s.config.TemplatePath)
		log.Printf("Max file size: %d bytes", s.service.MaxFileSize())
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// HTTP transport is not wired yet; serve over stdio instead
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
