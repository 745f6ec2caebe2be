package hooks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnacly/sqleibniz"
	"github.com/xnacly/sqleibniz/hooks"
)

func TestRuntime_Run_ContentFallsBackToSourceSliceForStructuralNode(t *testing.T) {
	t.Parallel()

	src := []byte("VACUUM main;")

	stmts, parseSink := sqleibniz.Parse(src)
	require.False(t, parseSink.HasErrors())
	require.Len(t, stmts, 1)

	sink := sqleibniz.NewSink(len(src), nil)
	rt := hooks.NewRuntime([]hooks.Hook{{
		Name:     "vacuum-content",
		NodeKind: "vacuum",
		Body:     `content == "VACUUM main"`,
	}}, hooks.DefaultLimits)

	rt.Run(stmts[0], src, sink)

	assert.Empty(t, sink.Visible(), "expected hook body to see the full source slice, not just the VACUUM keyword")
}

func TestRuntime_Run_ContentUsesAnchorTokenTextForIdent(t *testing.T) {
	t.Parallel()

	src := []byte("VACUUM main;")

	stmts, parseSink := sqleibniz.Parse(src)
	require.False(t, parseSink.HasErrors())
	require.Len(t, stmts, 1)

	v, ok := stmts[0].(*sqleibniz.VacuumStmt)
	require.True(t, ok)
	require.NotNil(t, v.Schema)

	sink := sqleibniz.NewSink(len(src), nil)
	rt := hooks.NewRuntime([]hooks.Hook{{
		Name:     "ident-content",
		NodeKind: "ident",
		Body:     `content == "main"`,
	}}, hooks.DefaultLimits)

	rt.Run(v.Schema, src, sink)

	assert.Empty(t, sink.Visible(), "expected hook body to see the bare identifier text")
}

func TestRuntime_Run_ContentFallsBackToAnchorTextWithoutSource(t *testing.T) {
	t.Parallel()

	src := []byte("VACUUM main;")

	stmts, parseSink := sqleibniz.Parse(src)
	require.False(t, parseSink.HasErrors())
	require.Len(t, stmts, 1)

	sink := sqleibniz.NewSink(len(src), nil)
	rt := hooks.NewRuntime([]hooks.Hook{{
		Name:     "vacuum-content",
		NodeKind: "vacuum",
		Body:     `content == "VACUUM"`,
	}}, hooks.DefaultLimits)

	rt.Run(stmts[0], nil, sink)

	assert.Empty(t, sink.Visible(), "expected a nil source buffer to fall back to the anchor token's raw text")
}
