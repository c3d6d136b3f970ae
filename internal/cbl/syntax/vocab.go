package syntax

import (
	"slices"
)

// Category classifies a single CBL token for highlighting.
type Category int

const (
	Statement Category = iota
	MiscKeyword
	Operator
	TypeConstructor
	NumericLiteral
	BooleanLiteral
	GlobalRef
	FunctionRef
	LabelRef
	PlainIdentifier
)

var categoryNames = [...]string{
	Statement:       "Statement",
	MiscKeyword:     "MiscKeyword",
	Operator:        "Operator",
	TypeConstructor: "TypeConstructor",
	NumericLiteral:  "NumericLiteral",
	BooleanLiteral:  "BooleanLiteral",
	GlobalRef:       "GlobalRef",
	FunctionRef:     "FunctionRef",
	LabelRef:        "LabelRef",
	PlainIdentifier: "PlainIdentifier",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Category(?)"
	}
	return categoryNames[c]
}

// The static vocabulary of the CBL language, by category. Control-transfer
// and mutation forms are statements; declaration and control scaffolding are
// misc keywords; builtin functions and predicates are operators.
var (
	statements = []string{
		"assert!", "assume!", "branch", "case", "error", "jump", "let",
		"maybe-branch", "output", "print", "return", "set-global!",
		"set-ref!", "set-register!", "tail-call",
	}

	miscKeywords = []string{
		"declare", "defblock", "defglobal", "defun", "fresh", "funcall",
		"funcall-handle", "if", "registers", "start", "the",
	}

	operators = []string{
		"*", "+", "-", "/", "<", "<=", "abs", "and", "equal?", "from-any",
		"from-just", "just", "mod", "negate", "not", "nothing", "or",
		"show", "string-append", "string-empty?", "to-any", "vector",
		"vector-cons", "vector-get", "vector-is-empty", "vector-replicate",
		"vector-set", "vector-size", "xor",
	}

	typeConstructors = []string{
		"Any", "BitVector", "Bool", "Char", "ComplexReal", "FunctionHandle",
		"Integer", "Maybe", "Nat", "Real", "Ref", "String", "Unit",
		"Variant", "Vector",
	}
)

// tableCategories lists the categories backed by a word table, in classifier
// precedence order.
var tableCategories = []Category{Statement, MiscKeyword, Operator, TypeConstructor}

var builtinSets map[Category]map[string]bool

// customSets holds user-configured vocabulary extensions. Installed once at
// startup, read-only afterwards.
var customSets map[Category]map[string]bool

// completionWords is the sorted union of all table-backed vocabulary,
// rebuilt when custom words are installed.
var completionWords []string

func init() {
	builtinSets = map[Category]map[string]bool{
		Statement:       makeSet(statements),
		MiscKeyword:     makeSet(miscKeywords),
		Operator:        makeSet(operators),
		TypeConstructor: makeSet(typeConstructors),
	}
	rebuildCompletionWords()
}

// SetCustomVocabulary installs extra vocabulary entries per category. Only
// the table-backed categories accept extensions. Call once during startup,
// before serving requests.
func SetCustomVocabulary(words map[Category][]string) {
	customSets = make(map[Category]map[string]bool, len(words))
	for category, list := range words {
		if _, ok := builtinSets[category]; !ok {
			continue
		}
		customSets[category] = makeSet(list)
	}
	rebuildCompletionWords()
}

func inVocabulary(category Category, token string) bool {
	if customSets[category][token] {
		return true
	}
	return builtinSets[category][token]
}

func makeSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}

func rebuildCompletionWords() {
	var words []string
	for _, category := range tableCategories {
		for word := range builtinSets[category] {
			words = append(words, word)
		}
		for word := range customSets[category] {
			words = append(words, word)
		}
	}

	slices.Sort(words)
	completionWords = slices.Compact(words)
}
