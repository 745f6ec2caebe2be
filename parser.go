package sqleibniz

import (
	"strconv"
	"strings"
)

// Parser is a hand-rolled recursive-descent parser with one-token lookahead
// and panic-mode statement recovery (§4.2), grounded on the teacher's
// hand-walked recovery technique (peek/next over a token cursor) — here
// generalized into the whole grammar instead of just the error path.
type Parser struct {
	tokens []Token
	pos    int
	sink   *Sink
	src    []byte
}

// Parse tokenizes and parses src, returning every top-level statement
// parsed (including RecoveryStmt placeholders for spans discarded by
// panic-mode recovery) and the diagnostics collected along the way.
func Parse(src []byte) ([]Stmt, *Sink) {
	sink := NewSink(len(src), nil)
	lexer := NewLexer(src, sink)
	tokens := lexer.Tokenize()

	p := &Parser{tokens: tokens, sink: sink, src: src}
	stmts := p.parseFile()

	return stmts, sink
}

// parseFile implements §3/§4.2's top-level loop: NoContent if the source is
// empty or whitespace only, NoStatements if it holds comments or bare
// semicolons but no statement, otherwise one statement per `;`-terminated
// region, synchronizing to the next `;` or EOF on failure.
func (p *Parser) parseFile() []Stmt {
	if len(p.tokens) == 0 || p.cur().Kind == TokenEOF {
		if len(strings.TrimSpace(string(p.src))) == 0 {
			p.sink.Emit(RuleNoContent, SeverityError, Span{Start: 0, End: p.sink.fileLen}, "file has no content")
		} else {
			p.sink.Emit(RuleNoStatements, SeverityError, Span{Start: 0, End: p.sink.fileLen},
				"file has no statements")
		}

		return nil
	}

	var stmts []Stmt

	sawAny := false

	for p.cur().Kind != TokenEOF {
		if p.atPunct(";") {
			p.advance()

			continue
		}

		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
			sawAny = true
		}

		p.expectSemicolon()
	}

	if !sawAny {
		p.sink.Emit(RuleNoStatements, SeverityError, Span{Start: 0, End: p.sink.fileLen},
			"file has no statements")
	}

	return stmts
}

// expectSemicolon enforces the trailing-semicolon requirement between
// statements (§4.2's Semicolon rule), tolerating EOF as an implicit
// terminator for the final statement.
func (p *Parser) expectSemicolon() {
	if p.cur().Kind == TokenEOF {
		return
	}

	if p.atPunct(";") {
		p.advance()

		return
	}

	p.sink.Emit(RuleSemicolon, SeverityError, p.cur().Span, "expected ';' after statement")
}

// parseStatement dispatches on the lead token. When the lead token starts no
// statement form, it discards tokens up to the next `;` or EOF and emits
// exactly one diagnostic for the failure (§4.2): UnknownKeyword with a
// suggestion when the lead identifier is close to a keyword, else Syntax.
// A failure inside a recognized statement form is reported by that form's
// parser, which (except for EXPLAIN's inner statement) does not discard the
// rest of the statement, so the leftover tokens can draw further
// Semicolon and Syntax diagnostics.
func (p *Parser) parseStatement() Stmt {
	if p.cur().Kind == TokenInstructionExpect {
		return p.parseInstructionAndNext()
	}

	start := p.cur()

	stmt, ok := p.tryStatement()
	if ok {
		return stmt
	}

	if start.Kind == TokenIdent {
		if kw, _, ok := NearestKeyword(start.Text); ok {
			end := p.syncToStatementBoundary()
			p.sink.EmitWith(RuleUnknownKeyword, SeverityError, start.Span,
				"unknown keyword: "+start.Text,
				[]string{"no statement begins with " + strconv.Quote(start.Text)},
				string(kw))

			return &RecoveryStmt{NodeBase: NewNodeBase(Span{Start: start.Span.Start, End: end}, start)}
		}
	}

	end := p.syncToStatementBoundary()
	p.sink.Emit(RuleSyntax, SeverityError, Span{Start: start.Span.Start, End: end},
		"unable to parse statement")

	return &RecoveryStmt{NodeBase: NewNodeBase(Span{Start: start.Span.Start, End: end}, start)}
}

// parseInstructionAndNext records an `@sqleibniz::expect` instruction's
// suppression range (covering the following statement) and then parses
// that statement (§3, §4.2).
func (p *Parser) parseInstructionAndNext() Stmt {
	instrTok := p.cur()
	parsed := parseInstruction(instrTok.Text)
	p.advance()

	if p.cur().Kind == TokenEOF || p.atPunct(";") {
		p.sink.Emit(RuleBadSqleibnizInstruction, SeverityError, instrTok.Span,
			"@sqleibniz::expect has no following statement")

		if parsed.bad {
			p.sink.Emit(RuleBadSqleibnizInstruction, SeverityError, instrTok.Span,
				"unknown rule in @sqleibniz::expect: "+parsed.badText)
		}

		return nil
	}

	if parsed.bad {
		p.sink.Emit(RuleBadSqleibnizInstruction, SeverityError, instrTok.Span,
			"unknown rule in @sqleibniz::expect: "+parsed.badText)
	}

	stmt := p.parseStatement()
	if stmt != nil {
		p.sink.AddExpectation(stmt.Span(), parsed.rule)
	}

	return stmt
}

// tryStatement attempts to parse exactly one statement form. ok is false if
// the lead token didn't match any recognized statement start.
func (p *Parser) tryStatement() (Stmt, bool) {
	tok := p.cur()

	if tok.Kind != TokenKeyword {
		return nil, false
	}

	switch tok.Keyword {
	case KwExplain:
		return p.parseExplain(), true
	case KwVacuum:
		return p.parseVacuum(), true
	case KwBegin:
		return p.parseBegin(), true
	case KwCommit, KwEnd:
		return p.parseCommit(), true
	case KwRollback:
		return p.parseRollback(), true
	case KwSavepoint:
		return p.parseSavepoint(), true
	case KwRelease:
		return p.parseRelease(), true
	case KwDetach:
		return p.parseDetach(), true
	case KwAttach:
		return p.parseAttach(), true
	case KwAnalyze:
		return p.parseAnalyze(), true
	case KwReindex:
		return p.parseReindex(), true
	case KwDrop:
		return p.parseDrop(), true
	case KwPragma:
		return p.parsePragma(), true
	case KwAlter:
		return p.parseAlterTable(), true
	case KwSelect, KwInsert, KwUpdate, KwDelete:
		return p.parseUnimplemented(tok.Keyword), true
	case KwCreate:
		return p.parseCreateUnimplemented(), true
	default:
		return nil, false
	}
}

// parseExplain implements `EXPLAIN [QUERY PLAN] stmt` (§3).
func (p *Parser) parseExplain() Stmt {
	start := p.cur()
	p.advance() // EXPLAIN

	queryPlan := false
	if p.atKeyword(KwQuery) {
		p.advance()
		p.expectKeyword(KwPlan)

		queryPlan = true
	}

	end := start.Span.End

	var inner Stmt
	if stmt, ok := p.tryStatement(); ok {
		inner = stmt
		end = inner.Span().End
	} else {
		offender := p.cur()
		p.sink.EmitWith(RuleSyntax, SeverityError, offender.Span,
			"a literal or constant cannot start a statement here; expected a statement after EXPLAIN",
			[]string{"found " + strconv.Quote(offender.Text) + " where a statement keyword was expected"}, "")

		// Panic-mode recovery: the offending tokens belong to this statement.
		end = p.syncToStatementBoundary()
	}

	return &ExplainStmt{
		NodeBase:  NewNodeBase(Span{Start: start.Span.Start, End: end}, start),
		QueryPlan: queryPlan,
		Inner:     inner,
	}
}

// parseVacuum implements `VACUUM [schema-name] [INTO filename]` (§3).
func (p *Parser) parseVacuum() Stmt {
	start := p.cur()
	p.advance()

	var schema *Ident
	if p.cur().Kind == TokenIdent {
		schema = p.parseIdent()
	}

	var filename *StringLit
	if p.atKeyword(KwInto) {
		p.advance()

		tok := p.cur()
		if tok.Kind == TokenString {
			p.advance()

			filename = &StringLit{NodeBase: NewNodeBase(tok.Span, tok), Value: tok.Text}
		} else {
			p.sink.Emit(RuleSyntax, SeverityError, tok.Span, "expected a string literal after INTO")
		}
	}

	return &VacuumStmt{NodeBase: p.spanFrom(start), Schema: schema, Filename: filename}
}

// parseBegin implements `BEGIN [DEFERRED|IMMEDIATE|EXCLUSIVE] [TRANSACTION]`.
func (p *Parser) parseBegin() Stmt {
	start := p.cur()
	p.advance()

	kind := TransactionDeferred

	switch {
	case p.atKeyword(KwDeferred):
		p.advance()
	case p.atKeyword(KwImmediate):
		kind = TransactionImmediate
		p.advance()
	case p.atKeyword(KwExclusive):
		kind = TransactionExclusive
		p.advance()
	}

	if p.atKeyword(KwTransaction) {
		p.advance()
	}

	return &BeginStmt{NodeBase: p.spanFrom(start), TxKind: kind}
}

// parseCommit implements `COMMIT|END [TRANSACTION]`.
func (p *Parser) parseCommit() Stmt {
	start := p.cur()
	p.advance()

	if p.atKeyword(KwTransaction) {
		p.advance()
	}

	return &CommitStmt{NodeBase: p.spanFrom(start)}
}

// parseRollback implements `ROLLBACK [TRANSACTION] [TO [SAVEPOINT] name]`.
func (p *Parser) parseRollback() Stmt {
	start := p.cur()
	p.advance()

	if p.atKeyword(KwTransaction) {
		p.advance()
	}

	var to *Ident

	if p.atKeyword(KwTo) {
		p.advance()

		if p.atKeyword(KwSavepoint) {
			p.advance()
		}

		to = p.parseIdent()
	}

	return &RollbackStmt{NodeBase: p.spanFrom(start), To: to}
}

// parseSavepoint implements `SAVEPOINT name`.
func (p *Parser) parseSavepoint() Stmt {
	start := p.cur()
	p.advance()

	name := p.parseIdent()

	return &SavepointStmt{NodeBase: p.spanFrom(start), Name: name}
}

// parseRelease implements `RELEASE [SAVEPOINT] name`.
func (p *Parser) parseRelease() Stmt {
	start := p.cur()
	p.advance()

	if p.atKeyword(KwSavepoint) {
		p.advance()
	}

	name := p.parseIdent()

	return &ReleaseStmt{NodeBase: p.spanFrom(start), Name: name}
}

// parseDetach implements `DETACH [DATABASE] schema-name`.
func (p *Parser) parseDetach() Stmt {
	start := p.cur()
	p.advance()

	if p.atKeyword(KwDatabase) {
		p.advance()
	}

	name := p.parseIdent()

	return &DetachStmt{NodeBase: p.spanFrom(start), Name: name}
}

// parseAttach implements `ATTACH [DATABASE] expr AS schema-name`.
func (p *Parser) parseAttach() Stmt {
	start := p.cur()
	p.advance()

	if p.atKeyword(KwDatabase) {
		p.advance()
	}

	source := p.parseLiteralExpr()
	p.expectKeyword(KwAs)

	name := p.parseIdent()

	return &AttachStmt{NodeBase: p.spanFrom(start), Source: source, Name: name}
}

// parseAnalyze implements `ANALYZE [schema-name|table-or-index-name]`.
func (p *Parser) parseAnalyze() Stmt {
	start := p.cur()
	p.advance()

	var target *QualifiedName
	if p.cur().Kind == TokenIdent {
		target = p.parseQualifiedName()
	}

	return &AnalyzeStmt{NodeBase: p.spanFrom(start), Target: target}
}

// parseReindex implements `REINDEX [collation-name|table-or-index-name]`.
func (p *Parser) parseReindex() Stmt {
	start := p.cur()
	p.advance()

	var target *QualifiedName
	if p.cur().Kind == TokenIdent {
		target = p.parseQualifiedName()
	}

	return &ReindexStmt{NodeBase: p.spanFrom(start), Target: target}
}

// parseDrop implements `DROP <kind> [IF EXISTS] <qualified-name>`,
// uniformly handling DROP INDEX/TABLE/TRIGGER/VIEW (§3).
func (p *Parser) parseDrop() Stmt {
	start := p.cur()
	p.advance()

	var kind DropKind

	switch {
	case p.atKeyword(KwIndex):
		kind = DropIndex
	case p.atKeyword(KwTable):
		kind = DropTable
	case p.atKeyword(KwTrigger):
		kind = DropTrigger
	case p.atKeyword(KwView):
		kind = DropView
	default:
		p.sink.Emit(RuleSyntax, SeverityError, p.cur().Span,
			"expected INDEX, TABLE, TRIGGER or VIEW after DROP")

		return &DropStmt{NodeBase: p.spanFrom(start), ObjectKind: kind}
	}

	p.advance()

	ifExists := false
	if p.atKeyword(KwIf) {
		p.advance()
		p.expectKeyword(KwExists)

		ifExists = true
	}

	target := p.parseQualifiedName()

	return &DropStmt{NodeBase: p.spanFrom(start), ObjectKind: kind, IfExists: ifExists, Target: target}
}

// parsePragma implements `PRAGMA name [= value | (value)]`.
func (p *Parser) parsePragma() Stmt {
	start := p.cur()
	p.advance()

	name := p.parseQualifiedName()

	var value Expr

	switch {
	case p.atPunct("="):
		p.advance()

		value = p.parseLiteralExpr()
	case p.atPunct("("):
		p.advance()

		value = p.parseLiteralExpr()
		p.expectPunct(")")
	}

	return &PragmaStmt{NodeBase: p.spanFrom(start), Name: name, Value: value}
}

// parseAlterTable implements ALTER TABLE's four sub-forms (§3).
func (p *Parser) parseAlterTable() Stmt {
	start := p.cur()
	p.advance() // ALTER

	p.expectKeyword(KwTable)

	table := p.parseQualifiedName()

	result := &AlterTableStmt{Table: table}

	switch {
	case p.atKeyword(KwRename):
		p.advance()

		switch {
		case p.atKeyword(KwTo):
			p.advance()

			result.Op = AlterRenameTable
			result.To = p.parseIdent()
		case p.atKeyword(KwColumn):
			p.advance()

			result.Op = AlterRenameColumn
			result.From = p.parseIdent()
			p.expectKeyword(KwTo)
			result.To = p.parseIdent()
		default:
			result.Op = AlterRenameColumn
			result.From = p.parseIdent()
			p.expectKeyword(KwTo)
			result.To = p.parseIdent()
		}
	case p.atKeyword(KwAdd):
		p.advance()

		if p.atKeyword(KwColumn) {
			p.advance()
		}

		result.Op = AlterAddColumn
		result.ColName = p.parseIdent()
		result.ColType = p.parseTypeName()
	case p.atKeyword(KwDrop):
		p.advance()

		if p.atKeyword(KwColumn) {
			p.advance()
		}

		result.Op = AlterDropColumn
		result.From = p.parseIdent()
	default:
		p.sink.Emit(RuleSyntax, SeverityError, p.cur().Span,
			"expected RENAME, ADD or DROP after ALTER TABLE name")
	}

	result.NodeBase = p.spanFrom(start)

	return result
}

// parseTypeName consumes a best-effort, unparsed declared type name (one or
// more identifier/keyword tokens, optionally followed by a parenthesized
// size/precision), returning its raw source text.
func (p *Parser) parseTypeName() string {
	startOffset := p.cur().Span.Start
	endOffset := startOffset

	for p.cur().Kind == TokenIdent || p.cur().Kind == TokenKeyword {
		endOffset = p.cur().Span.End
		p.advance()
	}

	if p.atPunct("(") {
		p.advance()

		for !p.atPunct(")") && p.cur().Kind != TokenEOF && !p.atPunct(";") {
			endOffset = p.cur().Span.End
			p.advance()
		}

		if p.atPunct(")") {
			endOffset = p.cur().Span.End
			p.advance()
		}
	}

	if endOffset <= startOffset {
		return ""
	}

	return string(p.sourceSlice(startOffset, endOffset))
}

// parseUnimplemented consumes tokens up to the statement boundary for a
// recognized-but-unimplemented lead keyword (§3's Unimplemented rule):
// SELECT, INSERT, UPDATE, DELETE.
func (p *Parser) parseUnimplemented(lead Keyword) Stmt {
	start := p.cur()

	p.sink.Emit(RuleUnimplemented, SeverityWarning, start.Span,
		string(lead)+" is recognized but not structurally analyzed")

	end := p.syncToStatementBoundary()

	return &UnimplementedStmt{NodeBase: NewNodeBase(Span{Start: start.Span.Start, End: end}, start), Lead: lead}
}

// parseCreateUnimplemented handles CREATE INDEX/TABLE/TRIGGER/VIEW/VIRTUAL
// TABLE, all unimplemented per §3, by consuming to the statement boundary.
func (p *Parser) parseCreateUnimplemented() Stmt {
	start := p.cur()
	p.advance() // CREATE

	// Tolerate UNIQUE/TEMP/TEMPORARY/VIRTUAL/IF NOT EXISTS noise before the
	// object-kind keyword without assigning it semantics.
	for p.cur().Kind == TokenIdent || p.cur().Kind == TokenKeyword {
		if p.atKeyword(KwIndex) || p.atKeyword(KwTable) || p.atKeyword(KwTrigger) || p.atKeyword(KwView) {
			break
		}

		p.advance()
	}

	p.sink.Emit(RuleUnimplemented, SeverityWarning, start.Span,
		"CREATE is recognized but not structurally analyzed")

	end := p.syncToStatementBoundary()

	return &UnimplementedStmt{NodeBase: NewNodeBase(Span{Start: start.Span.Start, End: end}, start), Lead: KwCreate}
}

// --- shared sub-productions ---

func (p *Parser) parseIdent() *Ident {
	tok := p.cur()

	if tok.Kind != TokenIdent {
		p.sink.Emit(RuleSyntax, SeverityError, tok.Span, "expected an identifier")

		return &Ident{NodeBase: NewNodeBase(tok.Span, tok), Name: ""}
	}

	p.advance()

	return &Ident{NodeBase: NewNodeBase(tok.Span, tok), Name: tok.Text}
}

func (p *Parser) parseQualifiedName() *QualifiedName {
	start := p.cur()
	first := p.parseIdent()

	if p.atPunct(".") {
		p.advance()

		second := p.parseIdent()

		return &QualifiedName{NodeBase: p.spanFrom(start), Schema: first, Name: second}
	}

	return &QualifiedName{NodeBase: p.spanFrom(start), Name: first}
}

// parseLiteralExpr parses a single literal expression — a string, number,
// blob, boolean or NULL keyword, or an identifier (for ATTACH's filename
// expression, which SQLite also allows as a bound parameter or column
// reference; this analyzer accepts the literal and identifier forms).
func (p *Parser) parseLiteralExpr() Expr {
	tok := p.cur()

	switch {
	case tok.Kind == TokenString:
		p.advance()

		return &StringLit{NodeBase: NewNodeBase(tok.Span, tok), Value: tok.Text}
	case tok.Kind == TokenNumber:
		p.advance()

		return &NumberLit{NodeBase: NewNodeBase(tok.Span, tok), Value: tok.Number, Text: tok.Text}
	case tok.Kind == TokenBlob:
		p.advance()

		return &BlobLit{NodeBase: NewNodeBase(tok.Span, tok), Value: tok.Blob}
	case tok.Kind == TokenKeyword && tok.Keyword == KwNull:
		p.advance()

		return &NullLit{NodeBase: NewNodeBase(tok.Span, tok)}
	case tok.Kind == TokenKeyword && tok.Keyword == KwTrue:
		p.advance()

		return &BoolLit{NodeBase: NewNodeBase(tok.Span, tok), Value: true}
	case tok.Kind == TokenKeyword && tok.Keyword == KwFalse:
		p.advance()

		return &BoolLit{NodeBase: NewNodeBase(tok.Span, tok), Value: false}
	case tok.Kind == TokenIdent:
		return p.parseIdent()
	default:
		p.sink.Emit(RuleSyntax, SeverityError, tok.Span, "expected a literal value")

		return &NullLit{NodeBase: NewNodeBase(tok.Span, tok)}
	}
}

// syncToStatementBoundary discards tokens up to (but not including) the
// next `;` or EOF, returning the byte offset reached — panic-mode
// recovery's synchronization step (§4.2).
func (p *Parser) syncToStatementBoundary() int {
	for p.cur().Kind != TokenEOF && !p.atPunct(";") {
		p.advance()
	}

	return p.cur().Span.Start
}

// --- token cursor helpers ---

func (p *Parser) cur() Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return Token{Kind: TokenEOF}
		}

		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind != TokenEOF {
		p.pos++
	}
}

func (p *Parser) atKeyword(kw Keyword) bool {
	tok := p.cur()

	return tok.Kind == TokenKeyword && tok.Keyword == kw
}

func (p *Parser) atPunct(text string) bool {
	tok := p.cur()

	return tok.Kind == TokenPunct && tok.Text == text
}

func (p *Parser) expectKeyword(kw Keyword) {
	if p.atKeyword(kw) {
		p.advance()

		return
	}

	p.sink.Emit(RuleSyntax, SeverityError, p.cur().Span, "expected "+string(kw))
}

func (p *Parser) expectPunct(text string) {
	if p.atPunct(text) {
		p.advance()

		return
	}

	p.sink.Emit(RuleSyntax, SeverityError, p.cur().Span, "expected '"+text+"'")
}

// spanFrom builds a NodeBase spanning from start's token to the token just
// consumed (the previous cursor position).
func (p *Parser) spanFrom(start Token) NodeBase {
	end := start.Span.End

	if p.pos > 0 {
		end = p.tokens[p.pos-1].Span.End
	}

	if end < start.Span.Start {
		end = start.Span.Start
	}

	return NewNodeBase(Span{Start: start.Span.Start, End: end}, start)
}

// sourceSlice returns the raw source bytes in [start, end), clamped to the
// buffer bounds, for building advisory (unparsed) text like ColType.
func (p *Parser) sourceSlice(start, end int) []byte {
	if start < 0 {
		start = 0
	}

	if end > len(p.src) {
		end = len(p.src)
	}

	if end < start {
		return nil
	}

	return p.src[start:end]
}
