//nolint:testpackage // Tests need access to internal types
package hooks

import (
	"strings"
	"testing"
	"time"

	"github.com/xnacly/sqleibniz"
)

func TestEvalExpr_Comparisons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expr   string
		env    map[string]any
		passed bool
	}{
		{"greater than - true", "age > 18", map[string]any{"age": 30}, true},
		{"greater than - false", "age > 18", map[string]any{"age": 15}, false},
		{"greater than equal - equal", "age >= 18", map[string]any{"age": 18}, true},
		{"less than - true", "age < 30", map[string]any{"age": 25}, true},
		{"equal - int", "count == 5", map[string]any{"count": 5}, true},
		{"not equal - true", "count != 5", map[string]any{"count": 10}, true},
		{"string equal - true", `name == "Alice"`, map[string]any{"name": "Alice"}, true},
		{"string equal - false", `name == "Alice"`, map[string]any{"name": "Bob"}, false},
		{"bool equal true", "verified == true", map[string]any{"verified": true}, true},
		{"int64 comparison", "age > 18", map[string]any{"age": int64(30)}, true},
		{"float64 comparison", "age > 18.5", map[string]any{"age": 30.0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := EvalExpr(tt.expr, tt.env)
			if result.Error != nil {
				t.Fatalf("unexpected error: %v", result.Error)
			}

			if result.Passed != tt.passed {
				t.Errorf("EvalExpr(%q) = %v, want %v", tt.expr, result.Passed, tt.passed)
			}
		})
	}
}

func TestEvalExpr_BooleanOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expr   string
		env    map[string]any
		passed bool
	}{
		{"and - both true", "age > 18 && verified", map[string]any{"age": 30, "verified": true}, true},
		{"and - left false", "age > 18 && verified", map[string]any{"age": 15, "verified": true}, false},
		{"or - left true", "age > 18 || verified", map[string]any{"age": 30, "verified": false}, true},
		{"not - true becomes false", "!verified", map[string]any{"verified": true}, false},
		{
			"complex - (a && b) || c",
			"(age > 18 && verified) || admin",
			map[string]any{"age": 15, "verified": false, "admin": true},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := EvalExpr(tt.expr, tt.env)
			if result.Error != nil {
				t.Fatalf("unexpected error: %v", result.Error)
			}

			if result.Passed != tt.passed {
				t.Errorf("EvalExpr(%q) = %v, want %v", tt.expr, result.Passed, tt.passed)
			}
		})
	}
}

func TestEvalExpr_BuiltinFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expr   string
		env    map[string]any
		passed bool
	}{
		{"len string > 0", "len(name) > 0", map[string]any{"name": "Alice"}, true},
		{"contains op - true", `email contains "@"`, map[string]any{"email": "alice@example.com"}, true},
		{"startsWith op - true", `name startsWith "Al"`, map[string]any{"name": "Alice"}, true},
		{"hasSuffix fn - true", `hasSuffix(email, ".com")`, map[string]any{"email": "alice@example.com"}, true},
		{"upper comparison", `upper(name) == "ALICE"`, map[string]any{"name": "Alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := EvalExpr(tt.expr, tt.env)
			if result.Error != nil {
				t.Fatalf("unexpected error: %v", result.Error)
			}

			if result.Passed != tt.passed {
				t.Errorf("EvalExpr(%q) = %v, want %v", tt.expr, result.Passed, tt.passed)
			}
		})
	}
}

func TestEvalExpr_FieldAccess(t *testing.T) {
	t.Parallel()

	result := EvalExpr(`kind == "ident"`, map[string]any{"kind": "ident", "content": "foo"})
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}

	if !result.Passed {
		t.Errorf("expected match on kind field")
	}
}

func TestEvalExpr_ChildrenAccess(t *testing.T) {
	t.Parallel()

	env := map[string]any{
		"kind":     "qualified-name",
		"content":  "",
		"children": []map[string]any{{"kind": "ident", "content": "foo", "children": []map[string]any{}}},
	}

	result := EvalExpr(`len(children) == 1 && children[0].kind == "ident"`, env)
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}

	if !result.Passed {
		t.Errorf("expected children indexing to succeed")
	}
}

func TestEvalExpr_EmptyExpression(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"", "   ", "\t\n  "} {
		result := EvalExpr(expr, map[string]any{})
		if result.Error != nil {
			t.Errorf("unexpected error for empty expression: %v", result.Error)
		}

		if !result.Passed {
			t.Error("empty expression should pass")
		}
	}
}

func TestEvalExpr_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		expr        string
		env         map[string]any
		errContains string
	}{
		{"unknown variable", "unknown > 0", map[string]any{"age": 30}, "unknown"},
		{"syntax error", "age > > 0", map[string]any{"age": 30}, ""},
		{"type mismatch - string > int", "name > 0", map[string]any{"name": "Alice"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := EvalExpr(tt.expr, tt.env)
			if result.Error == nil {
				t.Fatal("expected error, got nil")
			}

			if tt.errContains != "" && !strings.Contains(result.Error.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", result.Error.Error(), tt.errContains)
			}
		})
	}
}

func TestEvalExpr_NotBool(t *testing.T) {
	t.Parallel()

	result := EvalExpr("1 + 1", map[string]any{})
	if result.Error == nil {
		t.Fatal("expected error for non-bool result")
	}

	if !strings.Contains(result.Error.Error(), "bool") {
		t.Errorf("error %q should mention bool", result.Error.Error())
	}
}

func TestRuntime_Run_FiresOnMatchingKind(t *testing.T) {
	t.Parallel()

	anchor := sqleibniz.Token{Kind: sqleibniz.TokenIdent, Text: "MySchema"}
	ident := &sqleibniz.Ident{NodeBase: sqleibniz.NewNodeBase(sqleibniz.Span{}, anchor), Name: "MySchema"}
	sink := sqleibniz.NewSink(20, nil)

	rt := NewRuntime([]Hook{{Name: "no-my", NodeKind: "ident", Body: `content != "MySchema"`}}, DefaultLimits)
	rt.Run(ident, nil, sink)

	visible := sink.Visible()
	if len(visible) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(visible))
	}

	if visible[0].Rule.HookName() != "no-my" {
		t.Errorf("expected Hook(no-my), got %s", visible[0].Rule)
	}
}

func TestRuntime_Run_IgnoresNonMatchingKind(t *testing.T) {
	t.Parallel()

	ident := &sqleibniz.Ident{Name: "whatever"}
	sink := sqleibniz.NewSink(20, nil)

	rt := NewRuntime([]Hook{{Name: "numbers-only", NodeKind: "number", Body: "false"}}, DefaultLimits)
	rt.Run(ident, nil, sink)

	if len(sink.Visible()) != 0 {
		t.Errorf("expected no diagnostics for non-matching kind")
	}
}

func TestRuntime_Run_CompileErrorBecomesDiagnostic(t *testing.T) {
	t.Parallel()

	ident := &sqleibniz.Ident{Name: "x"}
	sink := sqleibniz.NewSink(20, nil)

	rt := NewRuntime([]Hook{{Name: "broken", NodeKind: "ANY", Body: "kind === "}}, DefaultLimits)
	rt.Run(ident, nil, sink)

	if len(sink.Visible()) != 1 {
		t.Fatalf("expected 1 diagnostic for compile error")
	}
}

func TestRuntime_Run_RespectsStepBudget(t *testing.T) {
	t.Parallel()

	ident := &sqleibniz.Ident{Name: "x"}
	sink := sqleibniz.NewSink(20, nil)

	rt := NewRuntime([]Hook{{Name: "always-fails", NodeKind: "ANY", Body: "false"}}, Limits{WallClock: time.Second, Steps: 0})
	rt.Run(ident, nil, sink)

	visible := sink.Visible()
	if len(visible) != 1 {
		t.Fatalf("expected a single budget diagnostic, got %d", len(visible))
	}

	if visible[0].Rule.HookName() != "budget" {
		t.Errorf("expected Hook(budget), got %s", visible[0].Rule)
	}
}
