package hooks

import (
	"time"

	"github.com/xnacly/sqleibniz"
)

// Limits bounds how much work one Run call may do (§4.4, §9, SPEC_FULL.md
// Open Question 3): a wall-clock budget and a step budget. expr-lang's
// public Run API exposes no VM instruction counter, so "steps" here is this
// runtime's own count of nodes visited plus hook bodies evaluated during
// one Run call, not interpreter bytecode ops.
type Limits struct {
	WallClock time.Duration
	Steps     int
}

// DefaultLimits is 50ms wall-clock and 100,000 steps, matching
// SPEC_FULL.md's Open Question 3 resolution.
var DefaultLimits = Limits{WallClock: 50 * time.Millisecond, Steps: 100_000}

// Runtime dispatches configured hooks over an AST via a pre-order walk,
// converting a firing hook (false result, compile/eval error, or budget
// exceedance) into a Hook(<name>) diagnostic (§4.4).
type Runtime struct {
	hooks  []Hook
	limits Limits
}

// NewRuntime builds a Runtime for the given hook set. RunSpecs builds a new
// Runtime for every call, so no Runtime is shared across concurrent file
// analyses (§5).
func NewRuntime(hookList []Hook, limits Limits) *Runtime {
	return &Runtime{hooks: hookList, limits: limits}
}

// Run walks root pre-order, evaluating every matching hook at every node,
// and emits one Hook(<name>) diagnostic per firing hook into sink. src is
// the file's full source buffer, threaded down into each node's Projection
// so anchorText can slice non-literal/identifier nodes' content (§4.4); pass
// nil if unavailable. Run stops the walk early once the wall-clock or step
// budget for this call is exhausted, emitting a single Hook(budget)
// diagnostic for the node where the budget tripped. The budget covers only
// the subtree under root: a later Run call starts with a fresh budget, and
// an earlier budget hit does not stop it.
func (rt *Runtime) Run(root sqleibniz.Node, src []byte, sink *sqleibniz.Sink) {
	if len(rt.hooks) == 0 || root == nil {
		return
	}

	deadline := time.Now().Add(rt.limits.WallClock)
	steps := 0
	budgetHit := false

	exceeded := func() bool {
		return steps >= rt.limits.Steps || time.Now().After(deadline)
	}

	var walk func(n sqleibniz.Node)

	walk = func(n sqleibniz.Node) {
		if n == nil || budgetHit {
			return
		}

		if exceeded() {
			budgetHit = true

			sink.Emit(sqleibniz.HookRule("budget"), sqleibniz.SeverityError, n.Span(),
				"hook exceeded budget")

			return
		}

		steps++

		proj := NewProjection(n, src)
		env := proj.Env()

		for _, h := range rt.hooks {
			if !h.matches(n.Kind()) {
				continue
			}

			if exceeded() {
				budgetHit = true

				sink.Emit(sqleibniz.HookRule("budget"), sqleibniz.SeverityError, n.Span(),
					"hook exceeded budget")

				return
			}

			steps++

			result := EvalExpr(h.Body, env)
			if result.Error != nil {
				sink.Emit(sqleibniz.HookRule(h.Name), sqleibniz.SeverityError, n.Span(),
					"hook "+h.Name+": "+result.Error.Error())

				continue
			}

			if !result.Passed {
				sink.Emit(sqleibniz.HookRule(h.Name), sqleibniz.SeverityError, n.Span(),
					"hook "+h.Name+" failed on "+n.Kind())
			}
		}

		for _, child := range n.Children() {
			if budgetHit {
				return
			}

			walk(child)
		}
	}

	walk(root)
}

// RunSpecs adapts driver.go's HookSpec/HookLimits (the shape DriverConfig
// carries, to avoid this package and the root package importing each
// other) into a Runtime and runs it. This is the function cmd/ wiring
// assigns to DriverConfig.RunHooks. src is the file's source buffer, passed
// straight through to Run.
func RunSpecs(specs []sqleibniz.HookSpec, limits sqleibniz.HookLimits, root sqleibniz.Node, src []byte, sink *sqleibniz.Sink) {
	hookList := make([]Hook, len(specs))
	for i, s := range specs {
		hookList[i] = Hook{Name: s.Name, NodeKind: s.NodeKind, Body: s.Body}
	}

	rt := NewRuntime(hookList, Limits{
		WallClock: time.Duration(limits.WallClockMillis) * time.Millisecond,
		Steps:     limits.Steps,
	})
	rt.Run(root, src, sink)
}
