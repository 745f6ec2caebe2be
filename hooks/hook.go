package hooks

// Hook is one configured hook (§4.4, §6): Name identifies it for the
// Hook(<name>) diagnostic rule, NodeKind selects which AST node kinds it
// fires on ("ANY" for every node), and Body is the expr-lang expression
// evaluated against that node's Projection.
type Hook struct {
	Name     string
	NodeKind string
	Body     string
}

// anyNodeKind is the sentinel NodeKind that matches every AST node.
const anyNodeKind = "ANY"

// matches reports whether h fires on a node of the given kind.
func (h Hook) matches(kind string) bool {
	return h.NodeKind == anyNodeKind || h.NodeKind == kind
}
