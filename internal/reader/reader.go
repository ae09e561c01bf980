package reader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/document"
)

// Reader converts raw document bytes into the neutral paragraph stream.
type Reader interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can segment.
// Only formats that preserve run-level color survive here; plain-text
// formats carry no highlight information to classify.
var SupportedExtensions = map[string]bool{
	".docx": true,
	".html": true,
	".htm":  true,
}

// ForFile returns the appropriate reader for a filename.
func ForFile(filename string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return &DOCXReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
