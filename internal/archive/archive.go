// Package archive serializes bundled documents into a zip archive.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Entry is one named document headed for the archive.
type Entry struct {
	// Name is the full entry name, extension included.
	Name string
	// Lines is the document content, joined by single newlines.
	Lines []string
}

// Build serializes entries into one uncompressed zip archive, one entry
// per document. Duplicate entry names are written as-is; the zip
// format's own duplicate semantics apply.
func Build(entries []Entry) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:   entry.Name,
			Method: zip.Store,
		}
		header.SetMode(0o755)

		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("failed to add archive entry %s: %w", entry.Name, err)
		}
		if _, err := io.WriteString(w, strings.Join(entry.Lines, "\n")); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
