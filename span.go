package sqleibniz

// Span is a half-open byte range [Start, End) into a single source file.
// Spans are authoritative for rendering: every diagnostic and every AST
// node's anchor ultimately resolves through a Span.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.End <= s.Start }

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Clamp restricts the span to [0, n].
func (s Span) Clamp(n int) Span {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}

	if end > n {
		end = n
	}

	if end < start {
		end = start
	}

	return Span{Start: start, End: end}
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}

	end := s.End
	if other.End > end {
		end = other.End
	}

	return Span{Start: start, End: end}
}
