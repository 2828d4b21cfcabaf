package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExtIsCaseInsensitive(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".Flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".aac", ".m4a", ".m3u", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %q to be unsupported", ext)
		}
	}
}

func TestCheckPathNamesSupportedFormats(t *testing.T) {
	if err := CheckPath("/music/tone.flac"); err != nil {
		t.Fatalf("expected flac to pass, got %v", err)
	}

	err := CheckPath("/music/tone.m4a")
	if err == nil {
		t.Fatal("expected m4a to be rejected")
	}
	if !strings.Contains(err.Error(), ".m4a") || !strings.Contains(err.Error(), ".ogg") {
		t.Fatalf("expected error to name the extension and the supported list, got %q", err)
	}

	if err := CheckPath("README"); err == nil || !strings.Contains(err.Error(), "no file extension") {
		t.Fatalf("expected missing extension error, got %v", err)
	}
}
