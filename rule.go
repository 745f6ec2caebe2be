package sqleibniz

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Rule is the closed-set identity of a diagnostic class, and the unit of
// suppression (§6). The open Hook(<name>) family is represented by HookRule.
type Rule struct {
	name string
}

// String returns the rule's CamelCase identity, e.g. "UnknownKeyword".
func (r Rule) String() string { return r.name }

// Kebab returns the rule's kebab-case spelling, e.g. "unknown-keyword", the
// form the CLI's -D flag accepts per §6.
func (r Rule) Kebab() string { return strcase.ToKebab(r.name) }

// IsHook reports whether this is a member of the open Hook(<name>) family.
func (r Rule) IsHook() bool { return strings.HasPrefix(r.name, "Hook(") }

// HookName returns the hook's name for a Hook(<name>) rule, or "" otherwise.
func (r Rule) HookName() string {
	if !r.IsHook() {
		return ""
	}

	return strings.TrimSuffix(strings.TrimPrefix(r.name, "Hook("), ")")
}

// The closed rule taxonomy (§6). Every diagnostic the core ever emits uses
// one of these, or a HookRule member of the open family.
var (
	RuleNoContent               = Rule{"NoContent"}
	RuleNoStatements            = Rule{"NoStatements"}
	RuleUnimplemented           = Rule{"Unimplemented"}
	RuleUnknownKeyword          = Rule{"UnknownKeyword"}
	RuleBadSqleibnizInstruction = Rule{"BadSqleibnizInstruction"}
	RuleSqliteUnsupported       = Rule{"SqliteUnsupported"}
	RuleQuirk                   = Rule{"Quirk"}
	RuleUnterminatedString      = Rule{"UnterminatedString"}
	RuleUnknownCharacter        = Rule{"UnknownCharacter"}
	RuleInvalidNumericLiteral   = Rule{"InvalidNumericLiteral"}
	RuleInvalidBlob             = Rule{"InvalidBlob"}
	RuleSyntax                  = Rule{"Syntax"}
	RuleSemicolon                = Rule{"Semicolon"}
)

// ruleAny is the suppression sentinel: an expectation range with no named
// rule suppresses every rule within its span (SPEC_FULL.md Open Question 2).
var ruleAny = Rule{"ANY"}

// closedRules is every fixed-taxonomy rule, in documentation order. Used by
// ParseRuleName to resolve -D flags, config entries and instruction names.
var closedRules = []Rule{
	RuleNoContent, RuleNoStatements, RuleUnimplemented, RuleUnknownKeyword,
	RuleBadSqleibnizInstruction, RuleSqliteUnsupported, RuleQuirk,
	RuleUnterminatedString, RuleUnknownCharacter, RuleInvalidNumericLiteral,
	RuleInvalidBlob, RuleSyntax, RuleSemicolon,
}

// HookRule returns the Hook(<name>) rule identity for a given hook name.
func HookRule(name string) Rule { return Rule{"Hook(" + name + ")"} }

// ParseRuleName resolves a rule name in either CamelCase or kebab-case (§6
// requires the core to accept both) to its canonical Rule. Hook(<name>) is
// accepted verbatim in either case form, e.g. "hook(lower)" or "Hook(lower)".
func ParseRuleName(name string) (Rule, bool) {
	trimmed := strings.TrimSpace(name)

	if hookName, ok := parseHookSyntax(trimmed); ok {
		return HookRule(hookName), true
	}

	camel := strcase.ToCamel(trimmed)

	for _, r := range closedRules {
		if strings.EqualFold(r.name, camel) || strings.EqualFold(r.name, trimmed) {
			return r, true
		}
	}

	return Rule{}, false
}

func parseHookSyntax(name string) (string, bool) {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "hook(") && strings.HasSuffix(lower, ")") {
		// Preserve the original (non-lowercased) hook name between the parens.
		inner := name[len("hook(") : len(name)-1]

		return inner, true
	}

	return "", false
}

// DocURL returns the documentation URL a Diagnostic of this rule should
// carry, satisfying §3's requirement that every Diagnostic has one.
func (r Rule) DocURL() string {
	if r.IsHook() {
		return "https://sqleibniz.dev/docs/rules/hook"
	}

	return "https://sqleibniz.dev/docs/rules/" + r.Kebab()
}
