package sqleibniz

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// HookSpec is the driver-facing description of a configured hook: a name,
// the AST node kind it fires on ("ANY" for every node), and an expr-lang
// body. The hooks package's own Hook type mirrors this shape; the cmd/
// wiring translates HookConfig entries into HookSpecs so driver.go doesn't import
// the hooks package's internal naming (kept here to avoid an import cycle:
// hooks imports this package for Node/Sink/Rule, so this package cannot
// import hooks back).
type HookSpec struct {
	Name     string
	NodeKind string
	Body     string
}

// HookLimits bounds one RunHooks call (§4.4, SPEC_FULL.md Open Question 3).
// Analyze calls RunHooks once per top-level statement, so each statement's
// hook walk gets its own budget; a budget hit in one statement does not
// stop hook evaluation for the statements after it.
type HookLimits struct {
	WallClockMillis int
	Steps           int
}

// DefaultHookLimits is 50ms wall-clock and 100,000 steps.
var DefaultHookLimits = HookLimits{WallClockMillis: 50, Steps: 100_000}

// DriverConfig configures one Analyze/AnalyzeFiles run (§5, §6).
type DriverConfig struct {
	DisabledRules map[Rule]bool
	Hooks         []HookSpec
	Limits        HookLimits
	// RunHooks evaluates hookList against root, emitting diagnostics into
	// sink. src is the file's full source buffer, used as a fallback for
	// node kinds whose "content" isn't a single literal/identifier token
	// (§4.4). Set by cmd/ wiring to hooks.RunSpecs, kept as a function value
	// here (rather than a direct import) to avoid the import cycle noted on
	// HookSpec.
	RunHooks func(hookList []HookSpec, limits HookLimits, root Node, src []byte, sink *Sink)
}

// FileResult is one file's complete analysis result (§3's Sink lifecycle:
// one Sink per file).
type FileResult struct {
	Path  string
	Src   []byte
	Stmts []Stmt
	Sink  *Sink
}

// Analyze runs the full lex→parse→hook-walk→aggregate pipeline (§2) over a
// single file's bytes.
func Analyze(path string, src []byte, cfg DriverConfig) FileResult {
	sink := NewSink(len(src), cfg.DisabledRules)
	lexer := NewLexer(src, sink)
	tokens := lexer.Tokenize()

	parser := &Parser{tokens: tokens, sink: sink, src: src}
	stmts := parser.parseFile()

	if cfg.RunHooks != nil {
		for _, stmt := range stmts {
			cfg.RunHooks(cfg.Hooks, cfg.Limits, stmt, src, sink)
		}
	}

	return FileResult{Path: path, Src: src, Stmts: stmts, Sink: sink}
}

// AnalyzeFiles runs Analyze over every (path, src) pair, optionally in
// parallel (§5 permits CLI-level parallelism over multiple files), one
// exclusive analysis per worker so no state is shared across files.
// Results are returned in the same order as paths/srcs were given,
// preserving input-path-order rendering regardless of completion order.
func AnalyzeFiles(ctx context.Context, paths []string, srcs [][]byte, cfg DriverConfig, parallel int) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	if parallel <= 1 {
		for i, path := range paths {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			results[i] = Analyze(path, srcs[i], cfg)
		}

		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = Analyze(path, srcs[i], cfg)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}

// AggregateHasErrors reports whether any result in results carries a
// non-suppressed error-severity diagnostic — the driver-level basis for
// the CLI's exit code (§6).
func AggregateHasErrors(results []FileResult) bool {
	for _, r := range results {
		if r.Sink.HasErrors() {
			return true
		}
	}

	return false
}
