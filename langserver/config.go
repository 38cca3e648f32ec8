package langserver

import (
	"os"

	"github.com/etude-lang/etude-ls/config"
)

// Config holds etude-ls's operational knobs, loaded from an optional
// `.etude-ls.toml` at the workspace root. It has no effect on protocol
// shape -- only on how the server behaves internally -- so its absence
// must be silently fine (config.LoadTOML's missing-file-means-defaults
// semantics).
type Config struct {
	// StdlibPath overrides the ETUDE_STDLIB directory the compiler front
	// end resolves standard-library imports against. Empty means accept
	// whatever cmd/etude-ls derived from argv[0].
	StdlibPath string `toml:"stdlib_path"`

	// MaxDiagnosticsPerFile caps how many diagnostics publishDiagnostics
	// reports for a single file in one publish, so a badly broken file
	// cannot flood the client. Zero means no cap.
	MaxDiagnosticsPerFile int `toml:"max_diagnostics_per_file"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns etude-ls's built-in defaults, used whenever no
// `.etude-ls.toml` is present.
func DefaultConfig() Config {
	return Config{
		MaxDiagnosticsPerFile: 100,
		LogLevel:              "info",
	}
}

// WithConfig loads path as a TOML config (falling back silently to
// defaults if the file does not exist), keeps it in a config.Store for
// the server's lifetime, and wires a config.WorkspaceBridge so both a
// file-system change and a workspace/didChangeConfiguration notification
// reload it the same way. A watch failure (e.g. the workspace directory
// is not watchable) is logged and does not prevent the server from
// starting -- only hot-reload-on-save is lost, not config loading itself.
func WithConfig(path string, defaults Config) Option {
	return func(s *Server) {
		cfg, err := config.LoadTOML(path, &defaults)
		if err != nil {
			s.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
			cfg = &defaults
		}
		if cfg.StdlibPath != "" {
			if err := os.Setenv("ETUDE_STDLIB", cfg.StdlibPath); err != nil {
				s.logger.Warn("failed to set ETUDE_STDLIB from config", "error", err)
			}
		}
		store := config.NewStore(cfg)
		s.configStore = store
		s.configBridge = config.NewWorkspaceBridge(store, path, &defaults)

		watcher, err := config.NewWatcher(path, func() {
			if err := s.configBridge.HandleChange(); err != nil {
				s.logger.Warn("config reload failed, keeping previous config", "path", path, "error", err)
				return
			}
			s.logger.Info("config reloaded", "path", path)
		}, config.WithWatcherLogger(s.logger))
		if err != nil {
			s.logger.Debug("config file watch not started", "path", path, "error", err)
			return
		}
		s.configWatcher = watcher
	}
}

// CurrentConfig returns the server's current configuration, or
// DefaultConfig if WithConfig was never applied.
func (s *Server) CurrentConfig() Config {
	if s.configStore == nil {
		return DefaultConfig()
	}
	return *s.configStore.Get()
}

// closeConfig stops the config watcher, if one was started.
func (s *Server) closeConfig() {
	if s.configWatcher != nil {
		_ = s.configWatcher.Close()
	}
}
