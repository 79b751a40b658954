// Package docx reads and rewrites WordprocessingML (.docx) packages.
//
// Only word/document.xml is parsed; every other part of the package is
// copied through untouched on Save, and markup the package does not model is
// kept in place because the part is held as a full XML tree.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

const documentPart = "word/document.xml"

// ErrNotDocx is returned when data is not a word-processing package.
var ErrNotDocx = errors.New("not a word-processing document")

// Document is an opened .docx package whose main part can be mutated in place.
type Document struct {
	pkg  *zip.Reader
	xml  *etree.Document
	body *etree.Element
	ns   string
}

// Open parses a .docx package held in memory.
func Open(data []byte) (*Document, error) {
	pkg, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	var part *zip.File
	for _, f := range pkg.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%w: %s not found in archive", ErrNotDocx, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrNotDocx, documentPart, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "document" {
		return nil, fmt.Errorf("%w: missing document element", ErrNotDocx)
	}
	ns := root.Space
	body := child(root, ns, "body")
	if body == nil {
		return nil, fmt.Errorf("%w: missing body element", ErrNotDocx)
	}

	return &Document{pkg: pkg, xml: doc, body: body, ns: ns}, nil
}

// OpenFile reads and parses a .docx package from disk.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Open(data)
}

// Paragraphs returns the paragraphs that are direct children of the body.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range children(d.body, d.ns, "p") {
		out = append(out, &Paragraph{el: el, ns: d.ns})
	}
	return out
}

// Tables returns the tables that are direct children of the body.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, el := range children(d.body, d.ns, "tbl") {
		out = append(out, &Table{el: el, ns: d.ns})
	}
	return out
}

// Cells returns every cell of every body table in row-major order.
func (d *Document) Cells() []*Cell {
	var out []*Cell
	for _, t := range d.Tables() {
		for _, r := range t.Rows() {
			out = append(out, r.Cells()...)
		}
	}
	return out
}

// Text flattens the document: body paragraph text first, then the text of
// every table cell, one entry per line.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Paragraphs() {
		sb.WriteString(p.Text())
		sb.WriteByte('\n')
	}
	for _, c := range d.Cells() {
		sb.WriteString(c.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Save writes the package, with the current state of the main part, to w.
func (d *Document) Save(w io.Writer) error {
	part, err := d.xml.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize %s: %w", documentPart, err)
	}

	zw := zip.NewWriter(w)
	for _, f := range d.pkg.File {
		dst, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}

		if f.Name == documentPart {
			if _, err := dst.Write(part); err != nil {
				return fmt.Errorf("write %s: %w", f.Name, err)
			}
			continue
		}

		if err := copyEntry(dst, f); err != nil {
			return err
		}
	}
	return zw.Close()
}

// SaveFile writes the package to path.
func (d *Document) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func copyEntry(dst io.Writer, f *zip.File) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s: %w", f.Name, err)
	}
	return nil
}
