package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	})

	// simulating build-time ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	if Version != "1.2.3" || GitCommit != "abc123def456" || BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("override lost: %q %q %q", Version, GitCommit, BuildDate)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = true
	tests := []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "dev", "1.2", "1.x.3"}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without colour = %q", v, got)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3-dev"); got == "1.2.3-dev" {
		t.Errorf("expected escape codes, got %q", got)
	}
	if got := Colored("dev"); got != "dev" {
		t.Errorf("non-semver should pass through, got %q", got)
	}
}

// BenchmarkVersionAccess benchmarks accessing version variables
func BenchmarkVersionAccess(b *testing.B) {
	b.Run("Version", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Version
		}
	})
	b.Run("Colored", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Colored(Version)
		}
	})
}
