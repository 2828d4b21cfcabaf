package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:                              "0:00",
		59 * time.Second:                          "0:59",
		61*time.Second + 900*time.Millisecond:     "1:01",
		time.Hour + 2*time.Minute + 3*time.Second: "1:02:03",
	}
	for d, want := range cases {
		if got := FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%v): expected %q, got %q", d, want, got)
		}
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := Truncate("Ωmega channel", 5); got != "Ωmega" {
		t.Fatalf("expected Ωmega, got %q", got)
	}
	if got := Truncate("FM 0", 31); got != "FM 0" {
		t.Fatalf("expected unchanged label, got %q", got)
	}
	if got := Truncate("FM 0", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
