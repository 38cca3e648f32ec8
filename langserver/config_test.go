package langserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etude-lang/etude-ls/compiler/reference"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestWithConfigFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	s := NewServer("etude-ls-test", "0.0.0", reference.New,
		WithConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"), DefaultConfig()))
	defer s.closeConfig()

	got := s.CurrentConfig()
	want := DefaultConfig()
	if got != want {
		t.Fatalf("expected default config %+v, got %+v", want, got)
	}
}

func TestWithConfigLoadsOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".etude-ls.toml")
	writeFile(t, path, "max_diagnostics_per_file = 5\nlog_level = \"debug\"\n")

	s := NewServer("etude-ls-test", "0.0.0", reference.New, WithConfig(path, DefaultConfig()))
	defer s.closeConfig()

	got := s.CurrentConfig()
	if got.MaxDiagnosticsPerFile != 5 || got.LogLevel != "debug" {
		t.Fatalf("expected overrides applied, got %+v", got)
	}
}

func TestCurrentConfigWithoutWithConfigReturnsDefaults(t *testing.T) {
	s := newTestServer()
	if got, want := s.CurrentConfig(), DefaultConfig(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
