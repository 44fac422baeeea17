// =============================================================================
// Register of Information Exporter - Output File Manager
// =============================================================================
//
// File management utilities for export artifacts: directory creation,
// collision-free artifact writing, and filename sanitization. Export
// filenames are derived from the entity LEI, reporting period and
// generation timestamp by the codecs; this module only makes sure they
// land safely on disk.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileManager writes export artifacts into the configured output directory.
type FileManager struct {
	outputDir string
}

// NewFileManager creates a FileManager for an output directory.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{outputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", fm.outputDir, err)
	}
	return nil
}

// WriteArtifact writes one artifact into the output directory, picking a
// numbered variant of the name if the file already exists. Returns the
// final path.
func (fm *FileManager) WriteArtifact(filename string, data []byte) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	path := filepath.Join(fm.outputDir, SanitizeFilename(filename))
	path = uniquePath(path)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// uniquePath appends _1, _2, ... before the extension until the path is
// free.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// SanitizeFilename strips characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
