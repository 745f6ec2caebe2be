// Command sqleibniz-lsp is a Language Server Protocol server for the
// sqleibniz SQL dialect.
package main

import (
	"context"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xnacly/sqleibniz"
	"github.com/xnacly/sqleibniz/hooks"
	"github.com/xnacly/sqleibniz/lsp"
)

func main() {
	// Set up logging to stderr (stdout is for LSP communication)
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting sqleibniz-lsp server")

	ctx := context.Background()

	err = run(ctx, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, logger)

	cfg, err := loadServerConfig()
	if err != nil {
		logger.Warn("failed to load config, continuing without it", zap.Error(err))
	}

	// Create our LSP server
	server := lsp.NewServer(client, logger, cfg)

	// Register the server handler with the connection
	conn.Go(ctx, protocol.ServerHandler(server, nil))

	// Wait for the connection to close
	<-conn.Done()

	return conn.Err()
}

// loadServerConfig loads leibniz.yaml from the process's working directory
// — the root marker for this LSP surface (§6).
func loadServerConfig() (sqleibniz.DriverConfig, error) {
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
		return cfg, nil // absent config is not an error, analysis proceeds without one
	}

	cfg.DisabledRules = loaded.DisabledRuleSet()

	for _, hc := range loaded.Hooks {
		cfg.Hooks = append(cfg.Hooks, sqleibniz.HookSpec{Name: hc.Name, NodeKind: hc.Node, Body: hc.Expr})
	}

	return cfg, nil
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
