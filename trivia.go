package sqleibniz

import "strings"

// instructionMarker is the comment payload the lexer recognizes and turns
// into a TokenInstructionExpect token instead of discarding as trivia (§3,
// §4.1): `-- @sqleibniz::expect [rule-name]`.
const instructionMarker = "@sqleibniz::expect"

// parsedInstruction is a decoded `@sqleibniz::expect` instruction: the rule
// it names, or ruleAny if the instruction was bare.
type parsedInstruction struct {
	rule    Rule
	bad     bool   // true if a rule name was present but didn't resolve
	badText string // the unresolved text, for the BadSqleibnizInstruction message
}

// parseInstruction decodes an instruction token's payload (the comment text
// starting at the `@sqleibniz::expect` marker) into the rule named by
// whatever follows the marker.
func parseInstruction(payload string) parsedInstruction {
	rest := strings.TrimSpace(strings.TrimPrefix(payload, instructionMarker))
	if rest == "" {
		return parsedInstruction{rule: ruleAny}
	}

	if rule, ok := ParseRuleName(rest); ok {
		return parsedInstruction{rule: rule}
	}

	return parsedInstruction{bad: true, badText: rest}
}
