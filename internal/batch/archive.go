package batch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// WriteArchive zips the outputs into w under their output names.
func WriteArchive(w io.Writer, outputs []Output) error {
	zw := zip.NewWriter(w)
	for _, out := range outputs {
		if err := addFile(zw, out.OutputName, out.Path); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// WriteArchiveFile writes the archive to path.
func WriteArchiveFile(path string, outputs []Output) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	if err := WriteArchive(f, outputs); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func addFile(zw *zip.Writer, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer src.Close()

	dst, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	return nil
}
