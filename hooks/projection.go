package hooks

import "github.com/xnacly/sqleibniz"

// Projection is the read-only, three-field view of an AST node the Hook
// Runtime exposes to hook bodies (§4.4): `kind`, `content`, and `children`.
// Children are not built lazily: every call to Env projects the node's whole
// subtree, whether or not the hook body references `children`.
type Projection struct {
	node sqleibniz.Node
	src  []byte
}

// NewProjection wraps node for hook evaluation. src is the file's full
// source buffer, used by anchorText as a fallback for node kinds that carry
// no literal/identifier anchor; pass nil if unavailable (content then falls
// back to the anchor token's raw text for every kind).
func NewProjection(node sqleibniz.Node, src []byte) Projection {
	return Projection{node: node, src: src}
}

// Env builds the expr-lang evaluation environment for node: a map with
// `kind` (string), `content` (string, see anchorText), and `children` (a
// []map[string]any, one entry per child projection, built recursively
// before the map is returned).
func (p Projection) Env() map[string]any {
	return map[string]any{
		"kind":     p.node.Kind(),
		"content":  anchorText(p.node, p.src),
		"children": lazyChildren(p.node, p.src),
	}
}

// literalOrIdentKinds are the node Kind() values §4.4 calls out as carrying
// their content directly on the anchor token, rather than needing the
// node's full span sliced out of source. All of them are single-token nodes
// (their span equals their anchor token's span), so either path would
// produce the same text; naming them explicitly keeps anchorText's
// contract matching the spec's wording instead of an implementation detail
// of which token kinds happen to anchor them.
var literalOrIdentKinds = map[string]bool{
	"ident": true, "number": true, "string": true, "blob": true, "bool": true, "null": true,
}

// anchorText returns the node's source content (§4.4): the anchor token's
// text for literal and identifier nodes, else the source slice spanning the
// whole node, since a structural node (vacuum, begin, ...) has no single
// anchor token that represents its full text. Falls back to the anchor
// token's raw text if src is nil or the span is out of range.
func anchorText(n sqleibniz.Node, src []byte) string {
	tok := n.Anchor()

	if literalOrIdentKinds[n.Kind()] {
		return tok.Text
	}

	span := n.Span()
	if src == nil || span.Start < 0 || span.End > len(src) || span.Start > span.End {
		return tok.Text
	}

	return string(src[span.Start:span.End])
}

// lazyChildren eagerly builds the projection env of every non-nil child of
// n, recursing through the whole subtree; nothing is deferred until a hook
// body indexes or ranges over the slice.
func lazyChildren(n sqleibniz.Node, src []byte) []map[string]any {
	kids := n.Children()
	out := make([]map[string]any, 0, len(kids))

	for _, k := range kids {
		if k == nil {
			continue
		}

		out = append(out, NewProjection(k, src).Env())
	}

	return out
}
