package sqleibniz_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/xnacly/sqleibniz"
)

func TestDumpAST_VacuumWithSchema(t *testing.T) {
	t.Parallel()

	stmts, sink := sqleibniz.Parse([]byte("VACUUM my_schema;"))
	require.False(t, sink.HasErrors())

	got := sqleibniz.DumpAST(stmts)
	want := []any{
		map[string]any{
			"type":     "Vacuum",
			"Schema":   map[string]any{"type": "Ident", "Name": "my_schema"},
			"Filename": nil,
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DumpAST mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpAST_ExplainQueryPlanAttach(t *testing.T) {
	t.Parallel()

	stmts, sink := sqleibniz.Parse([]byte(
		`EXPLAIN QUERY PLAN ATTACH DATABASE 'repacked.db' AS my_big_schema;`,
	))
	require.False(t, sink.HasErrors())

	got := sqleibniz.DumpAST(stmts)
	want := []any{
		map[string]any{
			"type":      "Explain",
			"QueryPlan": true,
			"Inner": map[string]any{
				"type":   "Attach",
				"Source": map[string]any{"type": "StringLit", "Value": "repacked.db"},
				"Name":   map[string]any{"type": "Ident", "Name": "my_big_schema"},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DumpAST mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpAST_DropTableIfExists(t *testing.T) {
	t.Parallel()

	stmts, sink := sqleibniz.Parse([]byte("DROP TABLE IF EXISTS main.my_table;"))
	require.False(t, sink.HasErrors())

	got := sqleibniz.DumpAST(stmts)
	want := []any{
		map[string]any{
			"type":       "Drop",
			"ObjectKind": "table",
			"IfExists":   true,
			"Target": map[string]any{
				"type":   "QualifiedName",
				"Schema": map[string]any{"type": "Ident", "Name": "main"},
				"Name":   map[string]any{"type": "Ident", "Name": "my_table"},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DumpAST mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpASTText_Savepoint(t *testing.T) {
	t.Parallel()

	stmts, sink := sqleibniz.Parse([]byte("SAVEPOINT sp1;"))
	require.False(t, sink.HasErrors())

	text := sqleibniz.DumpASTText(stmts)
	require.Contains(t, text, "savepoint")
	require.Contains(t, text, "ident")
}
