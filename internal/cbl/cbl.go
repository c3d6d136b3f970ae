// Package cbl ties together the language-support components for the CBL
// control-flow-graph language: structural indentation, token classification
// for highlighting, and keyword completion. Everything operates on a text
// snapshot; no state survives between calls beyond the static tables built
// at startup.
package cbl

import (
	"strings"

	"github.com/GaloisInc/crucibler-mode/internal/cbl/indent"
	"github.com/GaloisInc/crucibler-mode/internal/cbl/syntax"
)

// TargetFileExtensions lists the file extensions this language support
// applies to.
var TargetFileExtensions = []string{"cbl"}

// HasFileExtension reports whether fileName's extension is found within
// extensions.
func HasFileExtension(fileName string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(fileName, "."+ext) {
			return true
		}
	}
	return false
}

// ComputeIndent returns the indentation column for the position pos.
func ComputeIndent(text string, pos int) int {
	return indent.ComputeIndent(text, pos)
}

// IndentForLine returns the indentation column for the given zero-based
// line, queried at the line's first byte.
func IndentForLine(text string, line int) int {
	return indent.ComputeIndent(text, LineStartOffset(text, line))
}

// Reindent rewrites the leading whitespace of every line so the whole text
// satisfies the indentation engine. Lines are fixed top to bottom, each
// against the text as adjusted so far; blank lines are emptied. Running
// Reindent on its own output changes nothing.
func Reindent(text string) string {
	lines := strings.Split(text, "\n")

	for i := range lines {
		body := strings.TrimLeft(lines[i], " \t")
		if body == "" {
			lines[i] = ""
			continue
		}

		current := strings.Join(lines, "\n")
		column := indent.ComputeIndent(current, LineStartOffset(current, i))
		lines[i] = strings.Repeat(" ", column) + body
	}

	return strings.Join(lines, "\n")
}

// ScanTokens classifies the whole text for highlighting.
func ScanTokens(text string) []syntax.Span {
	return syntax.ScanTokens(text)
}

// CompletionPrefix returns the partial token ending at pos.
func CompletionPrefix(text string, pos int) string {
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}

	start := pos
	for start > 0 && syntax.IsTokenByte(text[start-1]) {
		start--
	}

	return text[start:pos]
}

// Completions returns the static vocabulary entries matching the token
// ending at pos. The boolean result reports whether the candidates are
// exclusive; it is always false, since hosts may merge identifiers from
// other sources.
func Completions(text string, pos int) ([]string, bool) {
	return syntax.Complete(CompletionPrefix(text, pos)), false
}

// LineStartOffset returns the byte offset of the first byte of the given
// zero-based line. Lines past the end of the text map to len(text).
func LineStartOffset(text string, line int) int {
	offset := 0
	for line > 0 && offset < len(text) {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
		line--
	}
	return offset
}

// OffsetForPosition converts a zero-based line and character pair to a byte
// offset, clamping to the line's end.
func OffsetForPosition(text string, line, character int) int {
	offset := LineStartOffset(text, line)
	for character > 0 && offset < len(text) && text[offset] != '\n' {
		offset++
		character--
	}
	return offset
}
