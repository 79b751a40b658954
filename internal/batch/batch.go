// Package batch runs the parser and the template filler over a set of
// uploaded certificates and packages the filled documents.
package batch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/mcp-docx-filler/internal/certificate"
)

const (
	DefaultMaxFiles = 5
	ArchiveName     = "GiayXacNhan_DOCX.zip"
)

// Input is one uploaded file. Err marks a file that could not be read;
// it is reported as invalid without being parsed.
type Input struct {
	Name string
	Data []byte
	Err  error
}

// FileError reports why one input produced no output. Record is set when
// the file parsed but was incomplete.
type FileError struct {
	Index    int                 `json:"index"`
	FileName string              `json:"file_name"`
	Kind     string              `json:"kind"`
	Detail   string              `json:"detail"`
	Record   *certificate.Record `json:"record,omitempty"`
	Err      error               `json:"-"`
}

// Output is one filled certificate.
type Output struct {
	Index      int    `json:"index"`
	FileName   string `json:"file_name"`
	OutputName string `json:"output_name"`
	Path       string `json:"path"`
}

// Result collects every file's outcome in input order.
type Result struct {
	RunID       string                `json:"run_id"`
	Records     []*certificate.Record `json:"records"`
	Errors      []FileError           `json:"errors"`
	Outputs     []Output              `json:"outputs"`
	ArchivePath string                `json:"archive_path,omitempty"`
}

// Orchestrator drives a batch. It is safe for sequential reuse; every Run
// gets its own work directory.
type Orchestrator struct {
	parser     *certificate.Parser
	filler     *certificate.Filler
	maxFiles   int
	workers    int
	workDir    string
	archiveDir string
	logger     *log.Logger

	mu   sync.Mutex
	dirs []string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxFiles sets how many inputs a run accepts.
func WithMaxFiles(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxFiles = n
		}
	}
}

// WithWorkers sets how many files are processed concurrently.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithWorkDir sets the parent of the per-run temporary directories.
func WithWorkDir(dir string) Option {
	return func(o *Orchestrator) {
		o.workDir = dir
	}
}

// WithArchiveDir writes archives to dir instead of the run directory, so
// they survive Cleanup.
func WithArchiveDir(dir string) Option {
	return func(o *Orchestrator) {
		o.archiveDir = dir
	}
}

// WithLogger sets the logger that records per-file failures.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an orchestrator.
func New(parser *certificate.Parser, filler *certificate.Filler, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		parser:   parser,
		filler:   filler,
		maxFiles: DefaultMaxFiles,
		workers:  1,
		workDir:  os.TempDir(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type parsed struct {
	record *certificate.Record
	err    error
}

// Run parses every input, fills the template for every complete record and
// writes the archive. One file's failure never stops the others; the
// returned error is only set for run-level failures.
func (o *Orchestrator) Run(ctx context.Context, template []byte, inputs []Input) (*Result, error) {
	runID := uuid.NewString()
	res := &Result{
		RunID:   runID,
		Records: []*certificate.Record{},
		Errors:  []FileError{},
		Outputs: []Output{},
	}

	accepted := inputs
	if len(inputs) > o.maxFiles {
		accepted = inputs[:o.maxFiles]
		o.logger.Printf("[WARN] batch of %d files truncated to %d", len(inputs), o.maxFiles)
	}

	results, err := o.parseAll(ctx, accepted)
	if err != nil {
		return nil, err
	}

	for i, r := range results {
		index := i + 1
		if r.err != nil {
			res.Errors = append(res.Errors, o.fileError(index, accepted[i].Name, r.record, r.err))
			continue
		}
		res.Records = append(res.Records, r.record.WithFile(accepted[i].Name, index))
	}

	for i := o.maxFiles; i < len(inputs); i++ {
		err := &certificate.Error{
			Kind:    certificate.KindFileInvalid,
			Message: fmt.Sprintf("batch limit of %d files exceeded", o.maxFiles),
		}
		res.Errors = append(res.Errors, o.fileError(i+1, inputs[i].Name, nil, err))
	}

	if len(res.Records) == 0 {
		return res, nil
	}

	dir, err := o.newRunDir(runID)
	if err != nil {
		return res, err
	}

	outputs, fillErrs := o.fillAll(ctx, template, dir, res.Records)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Outputs = outputs
	res.Errors = append(res.Errors, fillErrs...)
	slices.SortStableFunc(res.Errors, func(a, b FileError) int {
		return cmp.Compare(a.Index, b.Index)
	})

	if len(res.Outputs) == 0 {
		return res, nil
	}

	archiveDir := o.archiveDir
	if archiveDir == "" {
		archiveDir = dir
	} else if err := os.MkdirAll(archiveDir, 0o750); err != nil {
		return res, fmt.Errorf("failed to create archive directory: %w", err)
	}
	archivePath := filepath.Join(archiveDir, archiveFileName(o.archiveDir != "", runID))
	if err := WriteArchiveFile(archivePath, res.Outputs); err != nil {
		return res, err
	}
	res.ArchivePath = archivePath
	return res, nil
}

func (o *Orchestrator) parseAll(ctx context.Context, inputs []Input) ([]parsed, error) {
	results := make([]parsed, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if in.Err != nil {
				results[i] = parsed{err: &certificate.Error{
					Kind: certificate.KindFileInvalid, Message: "cannot read file", Cause: in.Err,
				}}
				return nil
			}
			rec, err := o.parser.Parse(in.Name, in.Data)
			results[i] = parsed{record: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fillAll assigns output names in record order, then fills concurrently.
func (o *Orchestrator) fillAll(ctx context.Context, template []byte, dir string, records []*certificate.Record) ([]Output, []FileError) {
	names := UniqueNames(records)
	outputs := make([]*Output, len(records))
	errs := make([]*FileError, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, "output_"+strconv.Itoa(rec.FileIndex)+"_"+uuid.NewString()+".docx")
			f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
			if err != nil {
				fe := o.fileError(rec.FileIndex, rec.FileName, rec, &certificate.Error{
					Kind: certificate.KindSubstitutionFailed, Message: "cannot create output file", Cause: err,
				})
				errs[i] = &fe
				return nil
			}
			fillErr := o.filler.Fill(template, rec, f)
			closeErr := f.Close()
			if fillErr == nil && closeErr != nil {
				fillErr = &certificate.Error{
					Kind: certificate.KindSubstitutionFailed, Message: "cannot write output file", Cause: closeErr,
				}
			}
			if fillErr != nil {
				_ = os.Remove(path)
				fe := o.fileError(rec.FileIndex, rec.FileName, rec, fillErr)
				errs[i] = &fe
				return nil
			}
			outputs[i] = &Output{
				Index:      rec.FileIndex,
				FileName:   rec.FileName,
				OutputName: names[i],
				Path:       path,
			}
			return nil
		})
	}
	_ = g.Wait()

	outs := make([]Output, 0, len(records))
	var fileErrs []FileError
	for i := range records {
		if outputs[i] != nil {
			outs = append(outs, *outputs[i])
		}
		if errs[i] != nil {
			fileErrs = append(fileErrs, *errs[i])
		}
	}
	return outs, fileErrs
}

func (o *Orchestrator) fileError(index int, name string, rec *certificate.Record, err error) FileError {
	fe := FileError{
		Index:    index,
		FileName: name,
		Kind:     certificate.KindOf(err).String(),
		Detail:   err.Error(),
		Err:      err,
	}
	var ce *certificate.Error
	if errors.As(err, &ce) {
		fe.Detail = ce.Detail()
	}
	if rec != nil {
		fe.Record = rec.WithFile(name, index)
	}
	o.logger.Printf("[WARN] %s: %s: %s", name, fe.Kind, fe.Detail)
	return fe
}

func (o *Orchestrator) newRunDir(runID string) (string, error) {
	dir := filepath.Join(o.workDir, "certfill-"+runID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	o.mu.Lock()
	o.dirs = append(o.dirs, dir)
	o.mu.Unlock()
	return dir, nil
}

// Cleanup removes every run directory created so far, including archives
// that were not written to an archive directory.
func (o *Orchestrator) Cleanup() error {
	o.mu.Lock()
	dirs := o.dirs
	o.dirs = nil
	o.mu.Unlock()

	var firstErr error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	return firstErr
}

// UniqueNames returns the archive entry name of each record. Repeated base
// names get _2, _3, ... in record order.
func UniqueNames(records []*certificate.Record) []string {
	used := make(map[string]int, len(records))
	names := make([]string, len(records))
	for i, rec := range records {
		base := certificate.SuggestFileName(rec, rec.FileIndex)
		used[base]++
		if n := used[base]; n > 1 {
			names[i] = base + "_" + strconv.Itoa(n) + ".docx"
		} else {
			names[i] = base + ".docx"
		}
	}
	return names
}

func archiveFileName(shared bool, runID string) string {
	if !shared {
		return ArchiveName
	}
	// several runs may share an archive directory
	return runID[:8] + "_" + ArchiveName
}
