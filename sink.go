package sqleibniz

// expectation is a byte interval inside which diagnostics are suppressed,
// created by an `@sqleibniz::expect` instruction (§3, §4.2).
type expectation struct {
	span Span
	rule Rule // ruleAny suppresses every rule in span
}

// Sink collects diagnostics for one file's analysis pass in emission order,
// and knows the rule suppression set (globally disabled rules plus
// per-statement expectation ranges) needed to filter them at render time.
// A Sink's lifetime is exactly one file's analysis (§3 Lifecycles).
type Sink struct {
	fileLen      int
	diagnostics  []Diagnostic
	disabled     map[Rule]bool
	expectations []expectation
}

// NewSink creates a Sink for a file of the given byte length. disabled is
// the globally-disabled rule set (shared, read-only, across a run); pass
// nil for none.
func NewSink(fileLen int, disabled map[Rule]bool) *Sink {
	if disabled == nil {
		disabled = map[Rule]bool{}
	}

	return &Sink{fileLen: fileLen, disabled: disabled}
}

// Emit records a new Diagnostic, clamping and non-emptying its span per
// §3's invariants, and returns it. Diagnostics are immutable once emitted:
// nothing later mutates the returned value in place.
func (s *Sink) Emit(rule Rule, sev Severity, span Span, message string) Diagnostic {
	d := newDiagnostic(rule, sev, span, s.fileLen, message)
	s.diagnostics = append(s.diagnostics, d)

	return d
}

// EmitWith is Emit plus optional notes and a suggestion string, for rules
// like UnknownKeyword and Syntax that carry extra rendering detail.
func (s *Sink) EmitWith(rule Rule, sev Severity, span Span, message string, notes []string, suggest string) Diagnostic {
	d := newDiagnostic(rule, sev, span, s.fileLen, message)
	d.Notes = notes
	d.Suggest = suggest
	s.diagnostics = append(s.diagnostics, d)

	return d
}

// AddExpectation records an expectation range produced by an
// `@sqleibniz::expect` instruction. rule is ruleAny unless the instruction
// named a specific rule (SPEC_FULL.md Open Question 2: the bare form
// suppresses everything in scope).
func (s *Sink) AddExpectation(span Span, rule Rule) {
	s.expectations = append(s.expectations, expectation{span: span, rule: rule})
}

// All returns every diagnostic recorded, in emission order, unfiltered by
// suppression. §4.3: suppression is a render-time concern.
func (s *Sink) All() []Diagnostic {
	return s.diagnostics
}

// IsSuppressed reports whether d is suppressed by the disabled-rule set or
// by an enclosing expectation range. Suppression-filtering is idempotent:
// calling this twice on the same Sink state yields the same answer.
func (s *Sink) IsSuppressed(d Diagnostic) bool {
	if s.disabled[d.Rule] {
		return true
	}

	for _, e := range s.expectations {
		if (e.rule == ruleAny || e.rule == d.Rule) && e.span.Contains(d.Span) {
			return true
		}
	}

	return false
}

// Summary is the per-file {detected, ignored} diagnostic count (§7).
type Summary struct {
	Detected int // non-suppressed diagnostics
	Ignored  int // suppressed diagnostics
}

// Summarize computes the Summary for this Sink's current diagnostic set.
func (s *Sink) Summarize() Summary {
	var sum Summary

	for _, d := range s.diagnostics {
		if s.IsSuppressed(d) {
			sum.Ignored++
		} else {
			sum.Detected++
		}
	}

	return sum
}

// Visible returns the diagnostics that survive suppression, in emission
// order — the set a renderer shows by default.
func (s *Sink) Visible() []Diagnostic {
	out := make([]Diagnostic, 0, len(s.diagnostics))

	for _, d := range s.diagnostics {
		if !s.IsSuppressed(d) {
			out = append(out, d)
		}
	}

	return out
}

// HasErrors reports whether any non-suppressed diagnostic is error-severity
// — the condition the CLI's exit code is derived from (§6).
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.Severity == SeverityError && !s.IsSuppressed(d) {
			return true
		}
	}

	return false
}
