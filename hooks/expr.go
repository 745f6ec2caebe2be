// Package hooks implements the embedded scripting bridge the Hook Runtime
// uses to evaluate user-supplied expressions against AST node projections
// (§4.4). Hook bodies are github.com/expr-lang/expr expressions, compiled
// and run the same way the teacher's assertion runner evaluates test
// expressions: compile against an environment, run, classify the result.
package hooks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// ErrExprNotBool is returned when a hook body evaluates to a non-boolean
// value; every hook body must be a boolean expression (§4.4).
var ErrExprNotBool = errors.New("hook expression did not evaluate to a bool")

// ExprResult holds the result of evaluating one expression.
type ExprResult struct {
	Expression string
	Passed     bool
	Error      error
}

// EvalExpr compiles and runs exprStr against env, classifying the result as
// pass/fail/error (§4.4: a hook raising means its body returned false, a
// compile/runtime error, or exceeded its budget).
func EvalExpr(exprStr string, env map[string]any) ExprResult {
	result := ExprResult{Expression: exprStr}

	if strings.TrimSpace(exprStr) == "" {
		result.Passed = true

		return result
	}

	program, err := expr.Compile(exprStr, expr.Env(env), expr.AsBool())
	if err != nil {
		result.Error = fmt.Errorf("compile hook expression %q: %w", exprStr, err)

		return result
	}

	output, err := expr.Run(program, env)
	if err != nil {
		result.Error = fmt.Errorf("evaluate hook expression %q: %w", exprStr, err)

		return result
	}

	passed, ok := output.(bool)
	if !ok {
		result.Error = fmt.Errorf("%w: %q returned %T", ErrExprNotBool, exprStr, output)

		return result
	}

	result.Passed = passed

	return result
}
