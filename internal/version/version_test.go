package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if got := Get().Version; got != Version {
		t.Errorf("Get().Version = %q, want %q", got, Version)
	}
}

func TestVersion_Overrides(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() {
		GitCommit, BuildDate = origCommit, origDate
	})

	GitCommit = "abc123def4567890"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Get()
	if info.GitCommit != GitCommit {
		t.Errorf("GitCommit = %q, want %q", info.GitCommit, GitCommit)
	}
	if info.BuildDate != BuildDate {
		t.Errorf("BuildDate = %q, want %q", info.BuildDate, BuildDate)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	color.NoColor = true

	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Error("expected escape codes with colors enabled")
	}
}

func TestShortCommit(t *testing.T) {
	if got := ShortCommit("abc123def4567890"); got != "abc123def456" {
		t.Errorf("ShortCommit = %q", got)
	}
	if got := ShortCommit("abc"); got != "abc" {
		t.Errorf("ShortCommit = %q", got)
	}
}
