// Package scanner locates structural context inside CBL source text.
//
// All functions work on raw, possibly incomplete text: editors ask for
// indentation mid-edit, so nothing here assumes balanced delimiters or
// finished tokens. Every operation is a pure function of the text and a
// byte offset.
package scanner

// ParseState describes the innermost enclosing form around a query position.
// One is computed fresh per query and discarded afterwards.
type ParseState struct {
	// Depth is the number of unclosed '(' before the position. Zero means
	// the position is at top level.
	Depth int

	// FormStart is the offset of the innermost unclosed '(', or -1 when
	// Depth is zero.
	FormStart int

	// Head is the head symbol of the enclosing form. Empty when the form
	// has no head yet or its head is itself a sub-expression.
	Head string

	// LastSibling is the offset anchoring default alignment: the first
	// sub-expression on the line where the last complete sub-expression
	// before the position starts. -1 when the form has no complete
	// sub-expression yet.
	LastSibling int
}

// FindEnclosingForm scans the text around pos and reports the innermost
// enclosing form. Unmatched closing delimiters never push the depth below
// zero; comment and string regions do not affect the balance.
func FindEnclosingForm(text string, pos int) ParseState {
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}

	open := scanBalance(text, scanOrigin(text, pos), pos)

	state := ParseState{Depth: len(open), FormStart: -1, LastSibling: -1}
	if state.Depth == 0 {
		return state
	}

	state.FormStart = open[len(open)-1]

	if head, ok := HeadSymbolOf(text, state.FormStart); ok {
		state.Head = head
	}

	if sibling, ok := LastCompleteSiblingBefore(text, state.FormStart, pos); ok {
		state.LastSibling = sibling
	}

	return state
}

// HeadSymbolOf reads the first token after the opening delimiter at
// formStart. It reports false when the form's head is absent or is itself
// a sub-expression rather than a symbol.
func HeadSymbolOf(text string, formStart int) (string, bool) {
	i := skipBlank(text, formStart+1)
	if i >= len(text) || !isIdentByte(text[i]) {
		return "", false
	}

	start := i
	for i < len(text) && isIdentByte(text[i]) {
		i++
	}

	return text[start:i], true
}

// CompleteSiblingsBefore returns the start offsets of every complete
// sub-expression of the form at formStart, skipping the head, that closes
// at or before pos. A sub-expression still open at pos is not counted.
func CompleteSiblingsBefore(text string, formStart, pos int) []int {
	i := skipBlank(text, formStart+1)
	if i >= pos || i >= len(text) {
		return nil
	}

	// Step over the head, whether it is a symbol or a sub-expression.
	end, ok := endOfExpression(text, i)
	if !ok {
		return nil
	}
	i = end

	var starts []int
	for {
		i = skipBlank(text, i)
		if i >= pos || i >= len(text) || text[i] == ')' {
			break
		}

		end, ok := endOfExpression(text, i)
		if !ok || end > pos {
			break
		}

		starts = append(starts, i)
		i = end
	}

	return starts
}

// LastCompleteSiblingBefore returns the offset used to anchor default
// alignment: the first sibling starting on the same line as the last
// complete sibling before pos. When the siblings began on the head's line
// this is the first argument; when they each sit on their own line it is
// the previous sibling itself.
func LastCompleteSiblingBefore(text string, formStart, pos int) (int, bool) {
	starts := CompleteSiblingsBefore(text, formStart, pos)
	if len(starts) == 0 {
		return 0, false
	}

	last := starts[len(starts)-1]
	anchor := lineStart(text, last)

	for _, start := range starts {
		if start >= anchor {
			return start, true
		}
	}

	return last, true
}

// Column returns the zero-based column of offset, measured from the start
// of its line.
func Column(text string, offset int) int {
	return offset - lineStart(text, offset)
}

// scanOrigin finds a safe offset to start a forward balance scan: the last
// opening delimiter at column zero before pos, which by convention begins a
// top-level form. Falls back to the start of the text.
func scanOrigin(text string, pos int) int {
	for i := pos - 1; i > 0; i-- {
		if text[i] == '(' && text[i-1] == '\n' {
			return i
		}
	}
	return 0
}

// scanBalance walks text[from:to] and returns the offsets of the opening
// delimiters left unmatched, innermost last. Closing delimiters with no
// matching opener are ignored so the depth never goes negative.
func scanBalance(text string, from, to int) []int {
	var open []int
	inString, inComment := false, false

	for i := from; i < to; i++ {
		c := text[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		default:
			switch c {
			case ';':
				inComment = true
			case '"':
				inString = true
			case '(':
				open = append(open, i)
			case ')':
				if n := len(open); n > 0 {
					open = open[:n-1]
				}
			}
		}
	}

	return open
}

// endOfExpression consumes one expression starting at start and returns the
// offset just past its end. It reports false when the expression is still
// open at the end of the text.
func endOfExpression(text string, start int) (int, bool) {
	switch text[start] {
	case '(':
		depth := 0
		inString, inComment := false, false

		for i := start; i < len(text); i++ {
			c := text[i]
			switch {
			case inComment:
				if c == '\n' {
					inComment = false
				}
			case inString:
				if c == '\\' {
					i++
				} else if c == '"' {
					inString = false
				}
			default:
				switch c {
				case ';':
					inComment = true
				case '"':
					inString = true
				case '(':
					depth++
				case ')':
					depth--
					if depth == 0 {
						return i + 1, true
					}
				}
			}
		}
		return 0, false

	case '"':
		for i := start + 1; i < len(text); i++ {
			switch text[i] {
			case '\\':
				i++
			case '"':
				return i + 1, true
			}
		}
		return 0, false

	default:
		i := start
		for i < len(text) && isIdentByte(text[i]) {
			i++
		}
		if i == start {
			return 0, false
		}
		return i, true
	}
}

// skipBlank advances past whitespace and line comments.
func skipBlank(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		case ';':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}
	return i
}

// lineStart returns the offset of the first byte of the line containing
// offset.
func lineStart(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	for i := offset - 1; i >= 0; i-- {
		if text[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// isIdentByte reports whether c can appear inside a CBL identifier.
// Alongside alphanumerics, CBL identifiers carry arithmetic and comparison
// punctuation, and '@', ':', '$', '#' are constituent so that sigil-marked
// names and labels scan as single tokens.
func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c >= 0x80: // multibyte runes are identifier constituents
		return true
	}

	switch c {
	case '<', '>', '=', '+', '*', '/', '!', '_', '\\', '?', '-', '@', ':', '$', '#':
		return true
	}

	return false
}
