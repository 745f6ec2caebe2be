// Package main provides the sqleibniz CLI tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xnacly/sqleibniz"
	"github.com/xnacly/sqleibniz/hooks"
	"github.com/xnacly/sqleibniz/lsp"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:      "sqleibniz",
		Version:   version,
		Usage:     "static analyzer for a SQLite-like SQL dialect",
		ArgsUsage: "PATHS...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "leibniz.yaml", Usage: "configuration file"},
			&cli.BoolFlag{Name: "ignore-config", Aliases: []string{"i"}, Usage: "do not load any config"},
			&cli.BoolFlag{Name: "silent", Aliases: []string{"s"}, Usage: "suppress rendering; exit code still reflects outcome"},
			&cli.StringSliceFlag{Name: "disable", Aliases: []string{"D"}, Usage: "disable rule by kebab-case name"},
			&cli.BoolFlag{Name: "ast", Usage: "dump the AST as plain text; no analysis rendering"},
			&cli.BoolFlag{Name: "ast-json", Usage: "dump the AST as JSON; no analysis rendering"},
			&cli.BoolFlag{Name: "lsp", Usage: "run as language server over stdio"},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("lsp") {
		return runLSP(ctx)
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return cli.Exit("no input files", 1)
	}

	cfg, err := buildDriverConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v (continuing without it)\n", err)
	}

	srcs := make([][]byte, len(paths))

	for i, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return cli.Exit(fmt.Sprintf("reading %s: %v", p, err), 1)
		}

		srcs[i] = b
	}

	results, err := sqleibniz.AnalyzeFiles(ctx, paths, srcs, cfg, len(paths))
	if err != nil {
		return cli.Exit(fmt.Sprintf("analysis cancelled: %v", err), 1)
	}

	if cmd.Bool("ast") || cmd.Bool("ast-json") {
		dumpAST(results, cmd.Bool("ast-json"))

		return nil
	}

	if !cmd.Bool("silent") {
		renderResults(results, cfg.DisabledRules)
	}

	if sqleibniz.AggregateHasErrors(results) {
		return cli.Exit("", 1)
	}

	return nil
}

func dumpAST(results []sqleibniz.FileResult, asJSON bool) {
	for _, r := range results {
		if asJSON {
			enc, _ := json.MarshalIndent(sqleibniz.DumpAST(r.Stmts), "", "  ")
			fmt.Println(string(enc))

			continue
		}

		fmt.Print(sqleibniz.DumpASTText(r.Stmts))
	}
}

func renderResults(results []sqleibniz.FileResult, disabled map[sqleibniz.Rule]bool) {
	var sb strings.Builder

	sqleibniz.RenderDisabledPreamble(&sb, disabled)

	for _, r := range results {
		sqleibniz.RenderFile(&sb, filepath.Clean(r.Path), r.Src, r.Sink)
	}

	fmt.Print(sb.String())
}

// buildDriverConfig assembles a DriverConfig from the CLI's -c/-i/-D flags,
// loading leibniz.yaml (or the configured path) unless -i was given.
func buildDriverConfig(cmd *cli.Command) (sqleibniz.DriverConfig, error) {
	cfg := sqleibniz.DriverConfig{
		DisabledRules: map[sqleibniz.Rule]bool{},
		Limits:        sqleibniz.DefaultHookLimits,
		RunHooks:      hooks.RunSpecs,
	}

	if !cmd.Bool("ignore-config") {
		loaded, err := loadConfigFile(cmd.String("config"))
		if err != nil {
			return cfg, err
		}

		if loaded != nil {
			cfg.DisabledRules = loaded.DisabledRuleSet()

			for _, hc := range loaded.Hooks {
				cfg.Hooks = append(cfg.Hooks, sqleibniz.HookSpec{Name: hc.Name, NodeKind: hc.Node, Body: hc.Expr})
			}
		}
	}

	for _, name := range cmd.StringSlice("disable") {
		if r, ok := sqleibniz.ParseRuleName(name); ok {
			cfg.DisabledRules[r] = true
		}
	}

	return cfg, nil
}

// loadConfigFile loads path directly if present (the -c default or an
// explicit override); otherwise it falls back to FindConfig's
// walk-up-the-tree search so a run from a subdirectory still picks up a
// parent directory's config. A config that can't be found anywhere is not
// an error — analysis proceeds with zero disabled rules and zero hooks.
func loadConfigFile(path string) (*sqleibniz.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return sqleibniz.LoadConfigFile(path)
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := sqleibniz.LoadConfig(dir)
	if err != nil {
		return nil, nil //nolint:nilnil // absent config is not an error, just nothing to apply
	}

	return cfg, nil
}

// runLSP runs the server over stdio, mirroring cmd/sqleibniz-lsp's wiring
// for callers who prefer a single binary with a --lsp switch.
func runLSP(ctx context.Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.OutputPaths = []string{"stderr"}
	logConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	logger, err := logConfig.Build()
	if err != nil {
		return err
	}

	defer func() { _ = logger.Sync() }()

	stream := jsonrpc2.NewStream(newStdioReadWriteCloser())
	conn := jsonrpc2.NewConn(stream)
	client := protocol.ClientDispatcher(conn, logger)

	cfg, err := buildLSPDriverConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v (continuing without it)\n", err)
	}

	server := lsp.NewServer(client, logger, cfg)

	conn.Go(ctx, protocol.ServerHandler(server, nil))
	<-conn.Done()

	return conn.Err()
}

func buildLSPDriverConfig() (sqleibniz.DriverConfig, error) {
	cfg := sqleibniz.DriverConfig{
		DisabledRules: map[sqleibniz.Rule]bool{},
		Limits:        sqleibniz.DefaultHookLimits,
		RunHooks:      hooks.RunSpecs,
	}

	dir, err := os.Getwd()
	if err != nil {
		return cfg, err
	}

	loaded, err := sqleibniz.LoadConfig(dir)
	if err != nil {
		return cfg, nil // absent config is not an error
	}

	cfg.DisabledRules = loaded.DisabledRuleSet()

	for _, hc := range loaded.Hooks {
		cfg.Hooks = append(cfg.Hooks, sqleibniz.HookSpec{Name: hc.Name, NodeKind: hc.Node, Body: hc.Expr})
	}

	return cfg, nil
}

// stdioReadWriteCloser wraps separate reader/writer into io.ReadWriteCloser,
// mirroring cmd/sqleibniz-lsp's own wrapper.
type stdioReadWriteCloser struct {
	io.Reader
	io.Writer
}

func newStdioReadWriteCloser() *stdioReadWriteCloser {
	return &stdioReadWriteCloser{os.Stdin, os.Stdout}
}

func (s *stdioReadWriteCloser) Close() error {
	if c, ok := s.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
