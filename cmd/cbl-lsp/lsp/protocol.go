package lsp

import "github.com/GaloisInc/crucibler-mode/internal/cbl/syntax"

// LSP protocol constants.
const (
	// JSONRPCVersion is the JSON-RPC protocol version.
	JSONRPCVersion = "2.0"

	// SeverityError indicates an error diagnostic per LSP spec.
	SeverityError   = 1
	SeverityWarning = 2
	SeverityInfo    = 3
	SeverityHint    = 4

	// TextDocumentSyncFull indicates full document sync mode.
	TextDocumentSyncFull = 1

	// JSON-RPC error codes.
	ErrorInvalidRequest = -32600
	ErrorMethodNotFound = -32601
	ErrorInvalidParams  = -32602
	ErrorParse          = -32700
)

// LSP method names.
const (
	MethodInitialize         = "initialize"
	MethodInitialized        = "initialized"
	MethodShutdown           = "shutdown"
	MethodExit               = "exit"
	MethodDidOpen            = "textDocument/didOpen"
	MethodDidChange          = "textDocument/didChange"
	MethodDidClose           = "textDocument/didClose"
	MethodCompletion         = "textDocument/completion"
	MethodFormatting         = "textDocument/formatting"
	MethodOnTypeFormatting   = "textDocument/onTypeFormatting"
	MethodSemanticTokensFull = "textDocument/semanticTokens/full"
)

// Semantic token types (indices into the legend).
const (
	SemanticTokenKeyword = iota
	SemanticTokenMacro
	SemanticTokenOperator
	SemanticTokenType
	SemanticTokenNumber
	SemanticTokenEnumMember
	SemanticTokenVariable
	SemanticTokenFunction
	SemanticTokenLabel
)

// SemanticTokenTypes is the legend for token types.
var SemanticTokenTypes = []string{
	"keyword",
	"macro",
	"operator",
	"type",
	"number",
	"enumMember",
	"variable",
	"function",
	"label",
}

// SemanticTokenModifiers is the legend for token modifiers. The server
// emits none, but the legend field is mandatory.
var SemanticTokenModifiers = []string{}

// semanticTokenForCategory maps a token category to its legend index.
// Plain identifiers carry no semantic token; the editor's default face
// applies.
func semanticTokenForCategory(category syntax.Category) (int, bool) {
	switch category {
	case syntax.Statement:
		return SemanticTokenKeyword, true
	case syntax.MiscKeyword:
		return SemanticTokenMacro, true
	case syntax.Operator:
		return SemanticTokenOperator, true
	case syntax.TypeConstructor:
		return SemanticTokenType, true
	case syntax.NumericLiteral:
		return SemanticTokenNumber, true
	case syntax.BooleanLiteral:
		return SemanticTokenEnumMember, true
	case syntax.GlobalRef:
		return SemanticTokenVariable, true
	case syntax.FunctionRef:
		return SemanticTokenFunction, true
	case syntax.LabelRef:
		return SemanticTokenLabel, true
	default:
		return 0, false
	}
}

// LSP header constants.
const (
	ContentLengthHeader = "Content-Length"
	HeaderDelimiter     = "\r\n\r\n"
	LineDelimiter       = "\r\n"
)

// File and logging constants.
const (
	DirPermissions  = 0750
	FilePermissions = 0600
	MaxLogFileSize  = 5_000_000 // 5MB
)
