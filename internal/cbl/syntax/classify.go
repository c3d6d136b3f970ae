// Package syntax classifies CBL tokens for highlighting and serves keyword
// completion from the language's static vocabulary. Both are table lookups
// over text; no parsing or semantic analysis happens here.
package syntax

import "regexp"

// Literal token patterns, pre-compiled once at package load time.
//
// The numeric pattern rejects a leading zero in each digit group; a lone
// "0" only matches as the prefix of a longer literal, so it is not a
// numeric literal on its own. The denominator of a rational literal has the
// same shape as the numerator.
var (
	numericLiteral = regexp.MustCompile(
		`^[+-]?(?:0x|0)?[1-9a-fA-F][0-9a-fA-F]*(?:/(?:0x|0)?[1-9a-fA-F][0-9a-fA-F]*)?$`,
	)
	booleanLiteral = regexp.MustCompile(`^#[tTfF]$`)
)

// Classify categorizes one token. It is total and deterministic: the checks
// run in a fixed precedence order and the first match wins, so a string
// matching several patterns always lands in the highest-priority category.
func Classify(token string) Category {
	switch {
	case token == "":
		return PlainIdentifier
	case inVocabulary(Statement, token):
		return Statement
	case inVocabulary(MiscKeyword, token):
		return MiscKeyword
	case inVocabulary(Operator, token):
		return Operator
	case inVocabulary(TypeConstructor, token):
		return TypeConstructor
	case numericLiteral.MatchString(token):
		return NumericLiteral
	case booleanLiteral.MatchString(token):
		return BooleanLiteral
	case len(token) > 1 && token[0] == '@':
		return FunctionRef
	case len(token) > 1 && token[0] == '$':
		return GlobalRef
	case len(token) > 1 && token[len(token)-1] == ':':
		return LabelRef
	default:
		return PlainIdentifier
	}
}

// Span is a half-open byte range [Start, End) covering one token, tagged
// with its category.
type Span struct {
	Start    int
	End      int
	Category Category
}

// ScanTokens splits text into identifier-like tokens and classifies each
// one. Comment and string regions produce no spans; the host's tokenizer
// owns those faces. Delimiters and whitespace are skipped.
func ScanTokens(text string) []Span {
	var spans []Span

	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ';':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case c == '"':
			i++
			for i < len(text) {
				if text[i] == '\\' {
					i += 2
					continue
				}
				if text[i] == '"' {
					i++
					break
				}
				i++
			}
		case IsTokenByte(c):
			start := i
			for i < len(text) && IsTokenByte(text[i]) {
				i++
			}
			spans = append(spans, Span{
				Start:    start,
				End:      i,
				Category: Classify(text[start:i]),
			})
		default:
			i++
		}
	}

	return spans
}

// IsTokenByte reports whether c can appear inside a CBL token. The set
// mirrors the language's identifier characters plus the sigil and label
// punctuation, so '@name', '$name' and 'name:' scan as single tokens.
func IsTokenByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c >= 0x80:
		return true
	}

	switch c {
	case '<', '>', '=', '+', '*', '/', '!', '_', '\\', '?', '-', '@', ':', '$', '#':
		return true
	}

	return false
}
