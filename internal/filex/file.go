// Package filex provides small filesystem helpers shared by the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Describe returns the base name and size of the file at path. Directories
// are rejected.
func Describe(path string) (string, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("%s is a directory", path)
	}
	return info.Name(), info.Size(), nil
}

// Ext returns the lowercase extension of name without the leading dot,
// or "" when name has none.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// MIMEType sniffs the content type of the file at path from its leading
// bytes. The extension plays no part; a renamed file reports what it
// actually contains.
func MIMEType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect %s: %w", path, err)
	}
	return mt.String(), nil
}
