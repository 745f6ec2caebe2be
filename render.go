package sqleibniz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// render.go is the default, non-authoritative text renderer (§1 scopes the
// real terminal renderer out as an external collaborator) — a reference
// implementation any caller-chosen backend would resemble, styled with
// lipgloss the way the teacher's runner/styles.go defines its palette.
var (
	colorError = lipgloss.Color("#ef4444") // red-500
	colorWarn  = lipgloss.Color("#eab308") // yellow-500
	colorDim   = lipgloss.Color("#6b7280") // gray-500
	colorMuted = lipgloss.Color("#9ca3af") // gray-400
	colorPath  = lipgloss.Color("#3b82f6") // blue-500

	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	stylePath    = lipgloss.NewStyle().Foreground(colorPath)
	styleUnderln = lipgloss.NewStyle().Foreground(colorError)
)

// contextLines is the number of source lines shown before/after a
// diagnostic's line in the default rendering.
const contextLines = 2

// RenderFile writes the default text rendering of one file's visible
// diagnostics (suppression already applied) plus its summary line, to sb.
func RenderFile(sb *strings.Builder, path string, src []byte, sink *Sink) {
	sm := NewSourceMap(path, src)
	visible := sink.Visible()

	for _, d := range visible {
		renderDiagnostic(sb, sm, d)
	}

	sum := sink.Summarize()
	fmt.Fprintf(sb, "%s: %s\n", stylePath.Render(path), summaryLine(sum))
}

func summaryLine(sum Summary) string {
	detected := fmt.Sprintf("%d detected", sum.Detected)
	ignored := fmt.Sprintf("%d ignored", sum.Ignored)

	if sum.Detected > 0 {
		detected = styleError.Render(detected)
	} else {
		detected = styleMuted.Render(detected)
	}

	return detected + styleDim.Render(", ") + styleMuted.Render(ignored)
}

func renderDiagnostic(sb *strings.Builder, sm *SourceMap, d Diagnostic) {
	style := styleError
	label := "error"

	if d.Severity == SeverityWarning {
		style = styleWarn
		label = "warning"
	}

	start := sm.Position(d.Span.Start)

	fmt.Fprintf(sb, "%s[%s]: %s\n", style.Render(label), d.Rule.String(), d.Message)
	fmt.Fprintf(sb, "  %s %s:%d:%d\n", styleDim.Render("-->"), sm.Filename, start.Line, start.Column)

	renderSnippet(sb, sm, d.Span)

	if d.Suggest != "" {
		fmt.Fprintf(sb, "  %s did you mean %q?\n", styleMuted.Render("help:"), d.Suggest)
	}

	for _, note := range d.Notes {
		fmt.Fprintf(sb, "  %s %s\n", styleMuted.Render("note:"), note)
	}

	fmt.Fprintf(sb, "  %s %s\n", styleDim.Render("docs:"), d.DocURL)
}

func renderSnippet(sb *strings.Builder, sm *SourceMap, span Span) {
	start := sm.Position(span.Start)
	end := sm.Position(span.End)

	firstLine := start.Line - contextLines
	if firstLine < 1 {
		firstLine = 1
	}

	lastLine := end.Line + contextLines
	if lastLine > sm.LineCount() {
		lastLine = sm.LineCount()
	}

	gutterWidth := len(strconv.Itoa(lastLine))

	for lineNo := firstLine; lineNo <= lastLine; lineNo++ {
		text := sm.Line(lineNo)
		fmt.Fprintf(sb, "  %*d | %s\n", gutterWidth, lineNo, text)

		if lineNo == start.Line {
			underlineStart := start.Column - 1
			underlineEnd := len([]rune(text))

			if lineNo == end.Line {
				underlineEnd = end.Column - 1
			}

			if underlineEnd <= underlineStart {
				underlineEnd = underlineStart + 1
			}

			pad := strings.Repeat(" ", underlineStart)
			marks := strings.Repeat("~", underlineEnd-underlineStart)
			fmt.Fprintf(sb, "  %s | %s%s\n", strings.Repeat(" ", gutterWidth), pad, styleUnderln.Render(marks))
		}
	}
}

// RenderDisabledPreamble writes the "globally disabled rules" preamble a
// run-level report shows once, before any per-file output (§6).
func RenderDisabledPreamble(sb *strings.Builder, disabled map[Rule]bool) {
	if len(disabled) == 0 {
		return
	}

	names := make([]string, 0, len(disabled))
	for r := range disabled {
		names = append(names, r.Kebab())
	}

	fmt.Fprintf(sb, "%s %s\n\n", styleMuted.Render("disabled rules:"), strings.Join(names, ", "))
}
