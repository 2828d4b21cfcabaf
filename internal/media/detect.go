// Package media knows which files the file producer can decode.
package media

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var audioExts = []string{".mp3", ".wav", ".flac", ".ogg"}

// IsSupportedExt reports whether ext names a decodable audio format.
func IsSupportedExt(ext string) bool {
	return slices.Contains(audioExts, strings.ToLower(ext))
}

// SupportedExtsList returns the decodable formats for messages.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}

// CheckPath returns an error naming the supported formats when path has an
// extension the file producer cannot decode.
func CheckPath(path string) error {
	ext := filepath.Ext(path)
	if IsSupportedExt(ext) {
		return nil
	}
	if ext == "" {
		return fmt.Errorf("%s: no file extension (supported: %s)", filepath.Base(path), SupportedExtsList())
	}
	return fmt.Errorf("unsupported format %q (supported: %s)", ext, SupportedExtsList())
}
