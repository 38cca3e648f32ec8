// Command etude-ls is the etude language server. It speaks LSP 3.17 over
// framed JSON-RPC on stdin/stdout, so all logging goes to stderr.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/etude-lang/etude-ls/compiler/reference"
	"github.com/etude-lang/etude-ls/langserver"
	"github.com/etude-lang/etude-ls/middleware"
)

const serverVersion = "0.1.0"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setStdlibEnv(os.Args, logger)

	metrics := middleware.NewMetrics()
	s := langserver.NewServer("etude-ls", serverVersion, reference.New,
		langserver.WithLogger(logger),
		langserver.WithConfig(".etude-ls.toml", langserver.DefaultConfig()),
		langserver.WithMiddleware(
			middleware.Recovery(logger),
			middleware.Logging(logger),
			middleware.Tracing(),
			middleware.Telemetry(metrics),
		),
	)

	if err := langserver.Serve(s, langserver.WithStdio()); err != nil {
		logger.Error("server exited with error", "error", err, "method_stats", summarizeMetrics(metrics))
		os.Exit(1)
	}
}

// summarizeMetrics reduces a metrics snapshot to the fields worth putting
// in a shutdown log line: call count, error count, and mean latency per
// method, rather than the raw total-duration counters callers would
// otherwise have to divide themselves.
func summarizeMetrics(metrics *middleware.Metrics) map[string]string {
	snap := metrics.Snapshot()
	out := make(map[string]string, len(snap))
	for method, s := range snap {
		out[method] = fmt.Sprintf("count=%d errors=%d avg=%s", s.Count, s.Errors, s.Average())
	}
	return out
}

// setStdlibEnv derives the directory etude's standard library modules
// live in from argv[0] and exports it as ETUDE_STDLIB, exactly as the
// original main() computed exec_dir before constructing any compilation
// driver. If ETUDE_STDLIB is already set (e.g. by the launching editor),
// that value is left untouched. If argv[0] contains no directory
// separator, the original fell back to the current directory; this does
// the same.
func setStdlibEnv(args []string, logger *slog.Logger) {
	if _, ok := os.LookupEnv("ETUDE_STDLIB"); ok {
		return
	}
	if len(args) == 0 {
		return
	}
	execDir := filepath.Dir(args[0])
	if execDir == "" {
		execDir = "."
	}
	stdlib := filepath.Join(execDir, "etude_stdlib")
	if err := os.Setenv("ETUDE_STDLIB", stdlib); err != nil {
		logger.Warn("failed to set ETUDE_STDLIB", "error", err)
		return
	}
	logger.Debug("derived stdlib path", "path", stdlib)
}
