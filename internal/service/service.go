// Package service is the façade shared by the MCP server and the
// command-line tool. It confines request paths to the working directory
// and wires the parser, the template filler and the batch orchestrator.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-docx-filler/internal/batch"
	"github.com/a3tai/mcp-docx-filler/internal/certificate"
	"github.com/a3tai/mcp-docx-filler/internal/config"
	"github.com/a3tai/mcp-docx-filler/internal/security"
	"github.com/a3tai/mcp-docx-filler/internal/source"
)

// Service handles certificate operations by orchestrating the core components
type Service struct {
	serverName   string
	version      string
	templatePath string
	outputDir    string
	maxFileSize  int64
	maxFiles     int
	workers      int

	profile       certificate.Profile
	validator     *source.Validator
	parser        *certificate.Parser
	filler        *certificate.Filler
	pathValidator *security.PathValidator
	logger        *log.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger shared by every component
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a service from a validated configuration
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	pathValidator, err := security.NewPathValidator(cfg.WorkDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	s := &Service{
		serverName:    cfg.ServerName,
		version:       cfg.Version,
		templatePath:  cfg.TemplatePath,
		outputDir:     cfg.OutputDirectory,
		maxFileSize:   cfg.MaxFileSize,
		maxFiles:      cfg.MaxFiles,
		workers:       cfg.Workers,
		pathValidator: pathValidator,
		logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.profile, err = certificate.LoadProfile(cfg.RulesFile)
	if err != nil {
		return nil, err
	}

	s.validator = source.NewValidator(cfg.MaxFileSize, source.Readers())

	s.parser, err = certificate.NewParser(s.profile, s.validator, certificate.WithParserLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}

	s.filler, err = certificate.NewFiller(nil,
		certificate.WithFont(cfg.FontName, cfg.FontSize),
		certificate.WithFillerLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create filler: %w", err)
	}

	return s, nil
}

// ValidateFile checks that a file is a readable certificate container
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	result := &ValidateFileResult{Path: path}

	data, size, err := s.readInput(path)
	result.Size = size
	if err != nil {
		result.Message = err.Error()
		return result, nil
	}

	reader, err := s.validator.Validate(filepath.Base(path), data)
	if err != nil {
		result.Message = err.Error()
		return result, nil
	}

	result.Valid = true
	result.Format = string(reader.Format())
	result.Message = "File is a readable " + strings.ToUpper(result.Format) + " document"
	return result, nil
}

// ParseFile extracts the certificate fields of one file. Extraction
// failures are reported in the result; only path violations are errors.
func (s *Service) ParseFile(req ParseFileRequest) (*ParseFileResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	result, _ := s.parsePath(path)
	return result, nil
}

// FillFile parses one certificate and writes the filled template. The
// output is only written for a complete record.
func (s *Service) FillFile(req FillFileRequest) (*FillFileResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	template, err := s.resolveTemplate(req.Template)
	if err != nil {
		return nil, err
	}

	parsed, rec := s.parsePath(path)
	result := &FillFileResult{ParseFileResult: *parsed, Template: template}
	if rec == nil || !rec.Complete() {
		return result, nil
	}

	output, err := s.resolveOutputPath(req.OutputPath, rec)
	if err != nil {
		return nil, err
	}

	if err := s.filler.FillFile(template, rec, output); err != nil {
		result.ErrorKind = certificate.KindOf(err).String()
		result.Message = errorDetail(err)
		return result, nil
	}

	result.OutputPath = output
	s.logger.Printf("Filled %s into %s", path, output)
	return result, nil
}

// Batch fills the template for every requested file and writes the zip
// archive to the output directory.
func (s *Service) Batch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	templatePath, err := s.resolveTemplate(req.Template)
	if err != nil {
		return nil, err
	}

	outputDir := req.OutputDirectory
	if outputDir == "" {
		outputDir = s.outputDir
	}
	archiveDir, err := s.pathValidator.ResolveDirectory(outputDir, config.DefaultDirPerm)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	template, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, &certificate.Error{
			Kind:    certificate.KindTemplateUnavailable,
			Message: "cannot read template " + templatePath,
			Cause:   err,
		}
	}

	inputs := make([]batch.Input, len(req.Paths))
	for i, p := range req.Paths {
		inputs[i] = batch.Input{Name: filepath.Base(p)}
		path, err := s.pathValidator.Resolve(p)
		if err != nil {
			inputs[i].Err = err
			continue
		}
		inputs[i].Data, _, inputs[i].Err = s.readInput(path)
	}

	orchestrator := batch.New(s.parser, s.filler,
		batch.WithMaxFiles(s.maxFiles),
		batch.WithWorkers(s.workers),
		batch.WithArchiveDir(archiveDir),
		batch.WithLogger(s.logger))
	defer func() {
		if err := orchestrator.Cleanup(); err != nil {
			s.logger.Printf("[WARN] %v", err)
		}
	}()

	res, err := orchestrator.Run(ctx, template, inputs)
	if err != nil {
		return nil, fmt.Errorf("batch failed: %w", err)
	}

	result := &BatchResult{
		RunID:       res.RunID,
		Template:    templatePath,
		ArchivePath: res.ArchivePath,
		Entries:     make([]string, 0, len(res.Outputs)),
		Records:     res.Records,
		Errors:      res.Errors,
	}
	for _, out := range res.Outputs {
		result.Entries = append(result.Entries, out.OutputName)
	}
	s.logger.Printf("Batch %s: %d files, %d filled, %d errors",
		res.RunID, len(req.Paths), len(result.Entries), len(result.Errors))
	return result, nil
}

// MaxFileSize returns the maximum file size limit
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// WorkDirectory returns the directory request paths are confined to
func (s *Service) WorkDirectory() string {
	return s.pathValidator.Root()
}

func (s *Service) parsePath(path string) (*ParseFileResult, *certificate.Record) {
	result := &ParseFileResult{Path: path}

	data, _, err := s.readInput(path)
	if err != nil {
		result.ErrorKind = certificate.KindFileInvalid.String()
		result.Message = err.Error()
		return result, nil
	}

	rec, err := s.parser.Parse(filepath.Base(path), data)
	if rec != nil {
		rec = rec.WithFile(filepath.Base(path), 1)
		result.Record = rec
		result.Complete = rec.Complete()
		for _, f := range rec.Missing() {
			result.Missing = append(result.Missing, string(f))
		}
	}
	if err != nil {
		result.ErrorKind = certificate.KindOf(err).String()
		result.Message = errorDetail(err)
	}
	return result, rec
}

// readInput reads a file after checking its size, so oversized files are
// rejected without being loaded.
func (s *Service) readInput(path string) ([]byte, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("path is a directory: %s", path)
	}
	if info.Size() > s.maxFileSize {
		return nil, info.Size(), fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), s.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, info.Size(), fmt.Errorf("cannot read file: %w", err)
	}
	return data, info.Size(), nil
}

func (s *Service) resolveTemplate(path string) (string, error) {
	if path == "" {
		path = s.templatePath
	}
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// resolveOutputPath returns the explicit output path, or a free name in the
// output directory derived from the record.
func (s *Service) resolveOutputPath(path string, rec *certificate.Record) (string, error) {
	if path != "" {
		resolved, err := s.pathValidator.Resolve(path)
		if err != nil {
			return "", fmt.Errorf("security validation failed: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(resolved), config.DefaultDirPerm); err != nil {
			return "", fmt.Errorf("cannot create output directory: %w", err)
		}
		return resolved, nil
	}

	dir, err := s.pathValidator.ResolveDirectory(s.outputDir, config.DefaultDirPerm)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}

	return freeFileName(dir, certificate.SuggestFileName(rec, rec.FileIndex))
}

// freeFileName returns dir/base.docx, or the first dir/base_N.docx that
// does not exist yet.
func freeFileName(dir, base string) (string, error) {
	candidate := filepath.Join(dir, base+".docx")
	for n := 2; ; n++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("cannot check output path: %w", err)
		}
		candidate = filepath.Join(dir, base+"_"+strconv.Itoa(n)+".docx")
	}
}

func errorDetail(err error) string {
	var ce *certificate.Error
	if errors.As(err, &ce) {
		return ce.Detail()
	}
	return err.Error()
}
