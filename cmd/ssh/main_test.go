package main

import (
	"strings"
	"testing"

	"github.com/tomz197/flappy/internal/config"
)

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ann", "ann"},
		{"../../etc/passwd", "etcpasswd"},
		{"bob smith", "bobsmith"},
		{"", "player"},
		{"日本", "player"},
		{"under_score-ok", "under_score-ok"},
	}
	for _, tt := range tests {
		if got := sanitizeUsername(tt.in); got != tt.want {
			t.Errorf("sanitizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := sanitizeUsername(strings.Repeat("a", 40))
	if len(long) != config.MaxUsernameLength {
		t.Errorf("long name kept %d chars", len(long))
	}
}

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)
	w, h, err := s.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Errorf("getSize = %d, %d, %v", w, h, err)
	}
}
