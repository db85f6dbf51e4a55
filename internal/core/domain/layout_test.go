package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/stage/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "DefaultStagePath",
			got:      domain.DefaultStagePath(),
			expected: ".stage",
		},
		{
			name:     "DefaultStorePath",
			got:      domain.DefaultStorePath(),
			expected: filepath.Join(".stage", "store"),
		},
		{
			name:     "DefaultChannelCachePath",
			got:      domain.DefaultChannelCachePath(),
			expected: filepath.Join(".stage", "cache", "channels"),
		},
		{
			name:     "DefaultRunsPath",
			got:      domain.DefaultRunsPath(),
			expected: filepath.Join(".stage", "runs"),
		},
		{
			name:     "EntryWorkDir",
			got:      domain.EntryWorkDir("/proj", "run-1", "py2.7"),
			expected: filepath.Join("/proj", ".stage", "runs", "run-1", "py2.7"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestIsPathElement(t *testing.T) {
	for name, want := range map[string]bool{
		"py2.7":   true,
		"pyxsim":  true,
		"a_b-c":   true,
		"":        false,
		".":       false,
		"..":      false,
		"x/env":   false,
		"../../x": false,
		"py 3.5":  false,
	} {
		if got := domain.IsPathElement(name); got != want {
			t.Errorf("IsPathElement(%q) = %v, want %v", name, got, want)
		}
	}
}
