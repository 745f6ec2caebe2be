package sqleibniz

import (
	"fmt"
	"strings"
)

// DumpAST converts a parsed statement list into the stable JSON-dumpable
// shape §6 describes: each node an object `{"type": <Variant>, <field>:
// <value or null>, ...}`, tokens serialized as `{"<Kind>": <content-or-nil>}`.
func DumpAST(stmts []Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, dumpNode(s))
	}

	return out
}

func dumpNode(n Node) map[string]any {
	if n == nil {
		return nil
	}

	switch v := n.(type) {
	case *Ident:
		return map[string]any{"type": "Ident", "Name": v.Name}
	case *QualifiedName:
		return map[string]any{
			"type":   "QualifiedName",
			"Schema": dumpIdent(v.Schema),
			"Name":   dumpNode(v.Name),
		}
	case *NumberLit:
		return map[string]any{"type": "NumberLit", "Value": v.Value, "Text": v.Text}
	case *StringLit:
		return map[string]any{"type": "StringLit", "Value": v.Value}
	case *BlobLit:
		return map[string]any{"type": "BlobLit", "Value": fmt.Sprintf("%x", v.Value)}
	case *BoolLit:
		return map[string]any{"type": "BoolLit", "Value": v.Value}
	case *NullLit:
		return map[string]any{"type": "NullLit"}
	case *VacuumStmt:
		return map[string]any{"type": "Vacuum", "Schema": dumpIdent(v.Schema), "Filename": dumpStringLit(v.Filename)}
	case *BeginStmt:
		return map[string]any{"type": "Begin", "TxKind": txKindName(v.TxKind)}
	case *CommitStmt:
		return map[string]any{"type": "Commit"}
	case *RollbackStmt:
		return map[string]any{"type": "Rollback", "To": dumpIdent(v.To)}
	case *SavepointStmt:
		return map[string]any{"type": "Savepoint", "Name": dumpNode(v.Name)}
	case *ReleaseStmt:
		return map[string]any{"type": "Release", "Name": dumpNode(v.Name)}
	case *DetachStmt:
		return map[string]any{"type": "Detach", "Name": dumpNode(v.Name)}
	case *AttachStmt:
		return map[string]any{"type": "Attach", "Source": dumpNode(v.Source), "Name": dumpNode(v.Name)}
	case *AnalyzeStmt:
		return map[string]any{"type": "Analyze", "Target": dumpQualified(v.Target)}
	case *ReindexStmt:
		return map[string]any{"type": "Reindex", "Target": dumpQualified(v.Target)}
	case *DropStmt:
		return map[string]any{
			"type":       "Drop",
			"ObjectKind": v.ObjectKind.String(),
			"IfExists":   v.IfExists,
			"Target":     dumpNode(v.Target),
		}
	case *PragmaStmt:
		return map[string]any{"type": "Pragma", "Name": dumpNode(v.Name), "Value": dumpNode(v.Value)}
	case *AlterTableStmt:
		return map[string]any{
			"type":    "AlterTable",
			"Table":   dumpNode(v.Table),
			"Op":      alterOpName(v.Op),
			"From":    dumpIdent(v.From),
			"To":      dumpIdent(v.To),
			"ColName": dumpIdent(v.ColName),
			"ColType": v.ColType,
		}
	case *UnimplementedStmt:
		return map[string]any{"type": "Unimplemented", "Lead": keywordToken(v.Lead)}
	case *ExplainStmt:
		return map[string]any{"type": "Explain", "QueryPlan": v.QueryPlan, "Inner": dumpNode(v.Inner)}
	case *RecoveryStmt:
		return map[string]any{"type": "Recovery"}
	default:
		return map[string]any{"type": n.Kind()}
	}
}

func dumpIdent(i *Ident) any {
	if i == nil {
		return nil
	}

	return dumpNode(i)
}

func dumpStringLit(s *StringLit) any {
	if s == nil {
		return nil
	}

	return dumpNode(s)
}

func dumpQualified(q *QualifiedName) any {
	if q == nil {
		return nil
	}

	return dumpNode(q)
}

func txKindName(k TransactionKind) string {
	switch k {
	case TransactionImmediate:
		return "Immediate"
	case TransactionExclusive:
		return "Exclusive"
	default:
		return "Deferred"
	}
}

func alterOpName(op AlterOp) string {
	switch op {
	case AlterRenameColumn:
		return "RenameColumn"
	case AlterAddColumn:
		return "AddColumn"
	case AlterDropColumn:
		return "DropColumn"
	default:
		return "RenameTable"
	}
}

func keywordToken(kw Keyword) map[string]any {
	return map[string]any{"Keyword": string(kw)}
}

// DumpASTText renders the same tree as an indented plain-text tree, used by
// --ast (as opposed to --ast-json's machine-readable form).
func DumpASTText(stmts []Stmt) string {
	var sb strings.Builder

	for _, s := range stmts {
		writeNodeText(&sb, s, 0)
	}

	return sb.String()
}

func writeNodeText(sb *strings.Builder, n Node, depth int) {
	if n == nil {
		return
	}

	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind())
	sb.WriteByte('\n')

	for _, child := range n.Children() {
		writeNodeText(sb, child, depth+1)
	}
}
