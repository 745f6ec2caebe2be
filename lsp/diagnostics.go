package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/xnacly/sqleibniz"
)

// publishDiagnostics converts a document's visible (suppression-filtered)
// diagnostics to LSP format and publishes them (§6).
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	sink := doc.Result.Sink
	if sink == nil {
		return
	}

	sm := sqleibniz.NewSourceMap(doc.Result.Path, doc.Result.Src)
	visible := sink.Visible()
	diagnostics := make([]protocol.Diagnostic, 0, len(visible))

	for _, d := range visible {
		lspDiag := convertDiagnostic(sm, d)
		s.logger.Debug("Publishing diagnostic",
			zap.String("rule", d.Rule.String()),
			zap.Uint32("lsp.start.line", lspDiag.Range.Start.Line),
			zap.Uint32("lsp.start.char", lspDiag.Range.Start.Character),
			zap.String("message", d.Message))
		diagnostics = append(diagnostics, lspDiag)
	}

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("Failed to publish diagnostics", zap.Error(err))
	}
}

// convertDiagnostic converts a sqleibniz.Diagnostic to an LSP protocol.Diagnostic.
func convertDiagnostic(sm *sqleibniz.SourceMap, d sqleibniz.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    spanToRange(sm, d.Span),
		Severity: convertSeverity(d.Severity),
		Code:     d.Rule.Kebab(),
		Source:   "sqleibniz",
		Message:  d.Message,
	}
}

// convertSeverity converts sqleibniz severity to LSP severity.
func convertSeverity(sev sqleibniz.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case sqleibniz.SeverityError:
		return protocol.DiagnosticSeverityError
	case sqleibniz.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}
