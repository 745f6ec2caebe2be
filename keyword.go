package sqleibniz

import "strings"

// Keyword is a closed enumeration of the SQL keywords recognized by the
// target engine. Matching is case-insensitive; identity is always the
// upper-case form.
type Keyword string

// The closed keyword table. Grounded on lexer.go's `keywords` map, extended
// to the statement grammar §3/§4.2 require plus the common SQL vocabulary a
// parser needs to recognize (but not necessarily implement) lead tokens for.
const (
	KwExplain     Keyword = "EXPLAIN"
	KwQuery       Keyword = "QUERY"
	KwPlan        Keyword = "PLAN"
	KwVacuum      Keyword = "VACUUM"
	KwInto        Keyword = "INTO"
	KwBegin       Keyword = "BEGIN"
	KwDeferred    Keyword = "DEFERRED"
	KwImmediate   Keyword = "IMMEDIATE"
	KwExclusive   Keyword = "EXCLUSIVE"
	KwTransaction Keyword = "TRANSACTION"
	KwCommit      Keyword = "COMMIT"
	KwEnd         Keyword = "END"
	KwRollback    Keyword = "ROLLBACK"
	KwTo          Keyword = "TO"
	KwSavepoint   Keyword = "SAVEPOINT"
	KwRelease     Keyword = "RELEASE"
	KwDetach      Keyword = "DETACH"
	KwAttach      Keyword = "ATTACH"
	KwDatabase    Keyword = "DATABASE"
	KwAs          Keyword = "AS"
	KwAnalyze     Keyword = "ANALYZE"
	KwReindex     Keyword = "REINDEX"
	KwDrop        Keyword = "DROP"
	KwIndex       Keyword = "INDEX"
	KwTable       Keyword = "TABLE"
	KwTrigger     Keyword = "TRIGGER"
	KwView        Keyword = "VIEW"
	KwIf          Keyword = "IF"
	KwExists      Keyword = "EXISTS"
	KwPragma      Keyword = "PRAGMA"
	KwAlter       Keyword = "ALTER"
	KwRename      Keyword = "RENAME"
	KwAdd         Keyword = "ADD"
	KwColumn      Keyword = "COLUMN"
	KwSelect      Keyword = "SELECT"
	KwInsert      Keyword = "INSERT"
	KwDelete      Keyword = "DELETE"
	KwFrom        Keyword = "FROM"
	KwUpdate      Keyword = "UPDATE"
	KwSet         Keyword = "SET"
	KwWhere       Keyword = "WHERE"
	KwCreate      Keyword = "CREATE"
	KwVirtual     Keyword = "VIRTUAL"
	KwUsing       Keyword = "USING"
	KwAnd         Keyword = "AND"
	KwOr          Keyword = "OR"
	KwNot         Keyword = "NOT"
	KwNull        Keyword = "NULL"
	KwTrue        Keyword = "TRUE"
	KwFalse       Keyword = "FALSE"
	KwIs          Keyword = "IS"
	KwIn          Keyword = "IN"
	KwLike        Keyword = "LIKE"
	KwGlob        Keyword = "GLOB"
	KwBetween     Keyword = "BETWEEN"
	KwJoin        Keyword = "JOIN"
	KwOn          Keyword = "ON"
	KwGroup       Keyword = "GROUP"
	KwBy          Keyword = "BY"
	KwOrder       Keyword = "ORDER"
	KwLimit       Keyword = "LIMIT"
	KwOffset      Keyword = "OFFSET"
	KwHaving      Keyword = "HAVING"
	KwDistinct    Keyword = "DISTINCT"
	KwValues      Keyword = "VALUES"
	KwDefault     Keyword = "DEFAULT"
	KwPrimary     Keyword = "PRIMARY"
	KwKey         Keyword = "KEY"
	KwForeign     Keyword = "FOREIGN"
	KwReferences  Keyword = "REFERENCES"
	KwUnique      Keyword = "UNIQUE"
	KwCheck       Keyword = "CHECK"
	KwConstraint  Keyword = "CONSTRAINT"
	KwWith        Keyword = "WITH"
	KwCase        Keyword = "CASE"
	KwWhen        Keyword = "WHEN"
	KwThen        Keyword = "THEN"
	KwElse        Keyword = "ELSE"
	KwCast        Keyword = "CAST"
	KwCollate     Keyword = "COLLATE"
)

// keywordTable maps the lower-case spelling of every recognized keyword to
// its identity. Built once at startup and never mutated afterwards,
// satisfying §9's "build once, store immutable" note.
var keywordTable = buildKeywordTable()

// allKeywords is the closed, ordered list every keyword constant above
// belongs to. Kept as a literal slice (rather than derived via reflection)
// so the set is visibly closed and easy to audit.
var allKeywords = []Keyword{
	KwExplain, KwQuery, KwPlan, KwVacuum, KwInto, KwBegin, KwDeferred,
	KwImmediate, KwExclusive, KwTransaction, KwCommit, KwEnd, KwRollback,
	KwTo, KwSavepoint, KwRelease, KwDetach, KwAttach, KwDatabase, KwAs,
	KwAnalyze, KwReindex, KwDrop, KwIndex, KwTable, KwTrigger, KwView,
	KwIf, KwExists, KwPragma, KwAlter, KwRename, KwAdd, KwColumn,
	KwSelect, KwInsert, KwDelete, KwFrom, KwUpdate, KwSet, KwWhere,
	KwCreate, KwVirtual, KwUsing, KwAnd, KwOr, KwNot, KwNull, KwTrue,
	KwFalse, KwIs, KwIn, KwLike, KwGlob, KwBetween, KwJoin, KwOn,
	KwGroup, KwBy, KwOrder, KwLimit, KwOffset, KwHaving, KwDistinct,
	KwValues, KwDefault, KwPrimary, KwKey, KwForeign, KwReferences,
	KwUnique, KwCheck, KwConstraint, KwWith, KwCase, KwWhen, KwThen,
	KwElse, KwCast, KwCollate,
}

func buildKeywordTable() map[string]Keyword {
	m := make(map[string]Keyword, len(allKeywords))
	for _, kw := range allKeywords {
		m[strings.ToLower(string(kw))] = kw
	}

	return m
}

// LookupKeyword returns the keyword identity for text (case-insensitive),
// and whether text is a recognized keyword at all.
func LookupKeyword(text string) (Keyword, bool) {
	kw, ok := keywordTable[strings.ToLower(text)]

	return kw, ok
}

// minSuggestSimilarity is the maximum edit distance accepted for a
// "did you mean" suggestion. See SPEC_FULL.md Open Question 1: fixed at 2,
// scored globally against the whole keyword table.
const minSuggestSimilarity = 2

// NearestKeyword finds the closest keyword to text by case-insensitive edit
// distance, for the lexer/parser's "unknown keyword, did you mean K?"
// diagnostic. Returns ok=false if no keyword is within minSuggestSimilarity.
func NearestKeyword(text string) (kw Keyword, distance int, ok bool) {
	lower := strings.ToLower(text)

	best := -1
	var bestKw Keyword

	for _, candidate := range allKeywords {
		if string(candidate) == strings.ToUpper(text) {
			continue // exact match is handled by LookupKeyword, not a suggestion
		}

		d := damerauLevenshtein(lower, strings.ToLower(string(candidate)))
		if best == -1 || d < best {
			best = d
			bestKw = candidate
		}
	}

	if best == -1 || best > minSuggestSimilarity {
		return "", 0, false
	}

	return bestKw, best, true
}

// damerauLevenshtein computes the optimal-string-alignment edit distance
// between a and b (insertions, deletions, substitutions, and adjacent
// transpositions all cost 1). No edit-distance library appears anywhere in
// the retrieved pack, so this ~30-line routine is the grounded choice over
// pulling in an unrelated dependency for it.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}

	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			d[i][j] = minInt(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)

			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d[i][j] = minInt(d[i][j], d[i-2][j-2]+cost) // transposition
			}
		}
	}

	return d[la][lb]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}

	return m
}
