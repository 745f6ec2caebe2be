package lsp

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/xnacly/sqleibniz"
)

// URIToPath converts an LSP document URI to a filesystem path, used as the
// display name SourceMap/Diagnostic plumbing expects.
func URIToPath(u protocol.DocumentURI) string {
	return uri.URI(u).Filename()
}

// spanToRange converts a byte Span to an LSP protocol.Range via the
// document's SourceMap, which owns the byte-offset→(line, column)
// conversion (§3). SourceMap positions are one-based; LSP positions are
// zero-based, so both coordinates are shifted down by one.
func spanToRange(sm *sqleibniz.SourceMap, span sqleibniz.Span) protocol.Range {
	start := sm.Position(span.Start)
	end := sm.Position(span.End)

	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(max(0, start.Line-1)),   //nolint:gosec // line numbers fit uint32
			Character: uint32(max(0, start.Column-1)), //nolint:gosec // column numbers fit uint32
		},
		End: protocol.Position{
			Line:      uint32(max(0, end.Line-1)),   //nolint:gosec // line numbers fit uint32
			Character: uint32(max(0, end.Column-1)), //nolint:gosec // column numbers fit uint32
		},
	}
}
