// Package lsp implements LSP message types and handlers for CBL language support.
package lsp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/GaloisInc/crucibler-mode/internal/cbl"
)

// ID represents a JSON-RPC request ID that can be either a string or number.
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	length := len(data)
	if data[0] == '"' && data[length-1] == '"' {
		data = data[1 : length-1]
	}

	number, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.New("'ID' expected either a string or an integer")
	}

	*id = ID(number)
	return nil
}

func (id *ID) MarshalJSON() ([]byte, error) {
	val := strconv.Itoa(int(*id))
	return []byte(val), nil
}

// RequestMessage represents a JSON-RPC request.
type RequestMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Id      ID     `json:"id"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

// ResponseMessage represents a JSON-RPC response.
type ResponseMessage[T any] struct {
	JsonRpc string         `json:"jsonrpc"`
	Id      ID             `json:"id"`
	Result  T              `json:"result"`
	Error   *ResponseError `json:"error"`
}

// ResponseError represents a JSON-RPC error.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NotificationMessage represents a JSON-RPC notification (no response expected).
type NotificationMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

// InitializeParams holds parameters for the initialize request.
type InitializeParams struct {
	ProcessId    int            `json:"processId"`
	Capabilities map[string]any `json:"capabilities"`
	ClientInfo   struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
	Locale                string `json:"locale"`
	RootUri               string `json:"rootUri"`
	Trace                 any    `json:"trace"`
	WorkspaceFolders      any    `json:"workspaceFolders"`
	InitializationOptions any    `json:"initializationOptions"`
}

// CompletionOptions describes the server's completion trigger behavior.
type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

// DocumentOnTypeFormattingOptions names the characters that trigger
// on-type formatting.
type DocumentOnTypeFormattingOptions struct {
	FirstTriggerCharacter string   `json:"firstTriggerCharacter"`
	MoreTriggerCharacter  []string `json:"moreTriggerCharacter,omitempty"`
}

// SemanticTokensLegend declares the token types and modifiers the server
// encodes against.
type SemanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// SemanticTokensOptions describes the semantic token requests the server
// answers.
type SemanticTokensOptions struct {
	Legend SemanticTokensLegend `json:"legend"`
	Full   bool                 `json:"full"`
}

// ServerCapabilities describes the capabilities this server supports.
type ServerCapabilities struct {
	TextDocumentSync                 int                              `json:"textDocumentSync"`
	CompletionProvider               *CompletionOptions               `json:"completionProvider,omitempty"`
	DocumentFormattingProvider       bool                             `json:"documentFormattingProvider"`
	DocumentOnTypeFormattingProvider *DocumentOnTypeFormattingOptions `json:"documentOnTypeFormattingProvider,omitempty"`
	SemanticTokensProvider           *SemanticTokensOptions           `json:"semanticTokensProvider,omitempty"`
}

// InitializeResult is the response to the initialize request.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

// Position represents a position in a text document.
type Position struct {
	Line      uint `json:"line"`
	Character uint `json:"character"`
}

// Range represents a range in a text document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentItem represents a text document.
type TextDocumentItem struct {
	Uri        string `json:"uri"`
	Version    int    `json:"version"`
	LanguageId string `json:"languageId"`
	Text       string `json:"text"`
}

// TextDocumentIdentifier identifies a text document.
type TextDocumentIdentifier struct {
	Uri string `json:"uri"`
}

// TextDocumentPositionParams combines a document identifier with a position.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// TextEdit replaces a range of the document with new text.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// intToUint safely converts int to uint, returning 0 for negative values.
func intToUint(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v) //nolint:gosec // bounds checked above
}

// uintToInt safely converts uint to int, clamping to max int for overflow.
func uintToInt(v uint) int {
	const maxInt = int(^uint(0) >> 1)
	if v > uint(maxInt) {
		return maxInt
	}
	return int(v) //nolint:gosec // bounds checked above
}

// ProcessInitializeRequest handles the initialize request.
func ProcessInitializeRequest(
	data []byte,
	lspName, lspVersion string,
) (response []byte, root string) {
	req := RequestMessage[InitializeParams]{}

	err := json.Unmarshal(data, &req)
	if err != nil {
		msg := "error while unmarshalling data during 'initialize' phase: " + err.Error()
		slog.Error(msg,
			slog.Group("details",
				slog.Any("unmarshalled_req", req),
				slog.String("received_req", string(data)),
			),
		)
		panic(msg)
	}

	res := ResponseMessage[InitializeResult]{
		JsonRpc: JSONRPCVersion,
		Id:      req.Id,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync:           TextDocumentSyncFull,
				CompletionProvider:         &CompletionOptions{},
				DocumentFormattingProvider: true,
				DocumentOnTypeFormattingProvider: &DocumentOnTypeFormattingOptions{
					FirstTriggerCharacter: "\n",
				},
				SemanticTokensProvider: &SemanticTokensOptions{
					Legend: SemanticTokensLegend{
						TokenTypes:     SemanticTokenTypes,
						TokenModifiers: SemanticTokenModifiers,
					},
					Full: true,
				},
			},
		},
	}

	res.Result.ServerInfo.Name = lspName
	res.Result.ServerInfo.Version = lspVersion

	response, err = json.Marshal(res)
	if err != nil {
		msg := "error while marshalling data during 'initialize' phase: " + err.Error()
		slog.Error(msg)
		panic(msg)
	}

	return response, req.Params.RootUri
}

// ProcessInitializedNotification handles the initialized notification.
func ProcessInitializedNotification(data []byte) {
	slog.Info("Received 'initialized' notification", slog.String("data", string(data)))
}

// ProcessShutdownRequest handles the shutdown request.
func ProcessShutdownRequest(jsonVersion string, requestId ID) []byte {
	response := ResponseMessage[any]{
		JsonRpc: jsonVersion,
		Id:      requestId,
		Result:  nil,
		Error:   nil,
	}

	responseText, err := json.Marshal(response)
	if err != nil {
		msg := "Error while marshalling shutdown response: " + err.Error()
		slog.Error(msg)
		panic(msg)
	}

	return responseText
}

// ProcessIllegalRequestAfterShutdown returns an error for requests after shutdown.
func ProcessIllegalRequestAfterShutdown(jsonVersion string, requestId ID) []byte {
	response := ResponseMessage[any]{
		JsonRpc: jsonVersion,
		Id:      requestId,
		Result:  nil,
		Error: &ResponseError{
			Code:    ErrorInvalidRequest,
			Message: "illegal request while server shutting down",
		},
	}

	responseText, err := json.Marshal(response)
	if err != nil {
		msg := "Error while marshalling error response: " + err.Error()
		slog.Error(msg)
		panic(msg)
	}

	return responseText
}

// DidOpenTextDocumentParams holds parameters for textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// ProcessDidOpenTextDocumentNotification handles textDocument/didOpen.
func ProcessDidOpenTextDocumentNotification(
	data []byte,
) (fileURI string, fileContent []byte) {
	request := RequestMessage[DidOpenTextDocumentParams]{}

	err := json.Unmarshal(data, &request)
	if err != nil {
		msg := "error while unmarshalling 'textDocument/didOpen': " + err.Error()
		slog.Error(msg,
			slog.Group("details",
				slog.Any("unmarshalled_req", request),
				slog.String("received_req", string(data)),
			),
		)
		panic(msg)
	}

	documentURI := request.Params.TextDocument.Uri
	documentContent := request.Params.TextDocument.Text

	return documentURI, []byte(documentContent)
}

// TextDocumentContentChangeEvent represents a content change event.
type TextDocumentContentChangeEvent struct {
	Range       Range  `json:"range"`
	RangeLength uint   `json:"rangeLength"`
	Text        string `json:"text"`
}

// DidChangeTextDocumentParams holds parameters for textDocument/didChange.
type DidChangeTextDocumentParams struct {
	TextDocument   TextDocumentItem                 `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// ProcessDidChangeTextDocumentNotification handles textDocument/didChange.
func ProcessDidChangeTextDocumentNotification(
	data []byte,
) (fileURI string, fileContent []byte) {
	var request RequestMessage[DidChangeTextDocumentParams]

	err := json.Unmarshal(data, &request)
	if err != nil {
		msg := "error while unmarshalling 'textDocument/didChange': " + err.Error()
		slog.Error(msg,
			slog.Group("details",
				slog.Any("unmarshalled_req", request),
				slog.String("received_req", string(data)),
			),
		)
		panic(msg)
	}

	documentChanges := request.Params.ContentChanges
	if len(documentChanges) > 1 {
		msg := "server doesn't handle incremental changes yet"
		slog.Error(msg,
			slog.Group("details",
				slog.Any("unmarshalled_req", request),
				slog.String("received_req", string(data)),
			),
		)
		panic(msg)
	}

	if len(documentChanges) == 0 {
		slog.Warn("'documentChanges' field is empty")
		return "", nil
	}

	return request.Params.TextDocument.Uri, []byte(documentChanges[0].Text)
}

// DidCloseTextDocumentParams holds parameters for textDocument/didClose.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// ProcessDidCloseTextDocumentNotification handles textDocument/didClose.
func ProcessDidCloseTextDocumentNotification(data []byte) (fileURI string) {
	var request RequestMessage[DidCloseTextDocumentParams]

	err := json.Unmarshal(data, &request)
	if err != nil {
		msg := "error while unmarshalling 'textDocument/didClose': " + err.Error()
		slog.Error(msg,
			slog.Group("details",
				slog.Any("unmarshalled_req", request),
				slog.String("received_req", string(data)),
			),
		)
		panic(msg)
	}

	return request.Params.TextDocument.Uri
}

// ProcessUnknownMethodRequest answers a request for a method this server
// does not implement. Unknown notifications carry no id and get no reply.
func ProcessUnknownMethodRequest(data []byte) []byte {
	var probe struct {
		JsonRpc string `json:"jsonrpc"`
		Id      *ID    `json:"id"`
		Method  string `json:"method"`
	}

	err := json.Unmarshal(data, &probe)
	if err != nil || probe.Id == nil {
		return nil
	}

	response := ResponseMessage[any]{
		JsonRpc: probe.JsonRpc,
		Id:      *probe.Id,
		Result:  nil,
		Error: &ResponseError{
			Code:    ErrorMethodNotFound,
			Message: "method not supported: " + probe.Method,
		},
	}

	responseText, err := json.Marshal(response)
	if err != nil {
		slog.Warn("Error marshalling method-not-found response: " + err.Error())
		return nil
	}

	return responseText
}

// CompletionItem is one candidate offered to the editor.
type CompletionItem struct {
	Label string `json:"label"`
}

// CompletionList carries completion candidates. IsIncomplete stays false;
// the vocabulary is static so the same prefix always yields the same list.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// ProcessCompletionRequest handles textDocument/completion. Candidates come
// from the static keyword vocabulary, filtered by the partial token under
// the cursor.
func ProcessCompletionRequest(
	data []byte,
	openFiles map[string][]byte,
) []byte {
	var request RequestMessage[TextDocumentPositionParams]

	err := json.Unmarshal(data, &request)
	if err != nil {
		slog.Warn("Error unmarshalling completion request: " + err.Error())
		return nil
	}

	text := lookupOpenFile(openFiles, request.Params.TextDocument.Uri, "completion")

	pos := cbl.OffsetForPosition(
		text,
		uintToInt(request.Params.Position.Line),
		uintToInt(request.Params.Position.Character),
	)

	words, _ := cbl.Completions(text, pos)

	items := make([]CompletionItem, 0, len(words))
	for _, word := range words {
		items = append(items, CompletionItem{Label: word})
	}

	response := ResponseMessage[CompletionList]{
		JsonRpc: request.JsonRpc,
		Id:      request.Id,
		Result: CompletionList{
			IsIncomplete: false,
			Items:        items,
		},
	}

	responseText, err := json.Marshal(response)
	if err != nil {
		slog.Warn("Error marshalling completion response: " + err.Error())
		return nil
	}

	return responseText
}

// FormattingOptions carries the editor's whitespace preferences. The
// indentation engine is structural, so the fields are accepted and ignored.
type FormattingOptions struct {
	TabSize      uint `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

// DocumentFormattingParams holds parameters for textDocument/formatting.
type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}

// ProcessFormattingRequest handles textDocument/formatting by reindenting
// the whole document. The reply is a single edit replacing the full text,
// or an empty edit list when the document is already in shape.
func ProcessFormattingRequest(
	data []byte,
	openFiles map[string][]byte,
) []byte {
	var request RequestMessage[DocumentFormattingParams]

	err := json.Unmarshal(data, &request)
	if err != nil {
		slog.Warn("Error unmarshalling formatting request: " + err.Error())
		return nil
	}

	text := lookupOpenFile(openFiles, request.Params.TextDocument.Uri, "formatting")

	edits := []TextEdit{}
	if reindented := cbl.Reindent(text); reindented != text {
		edits = append(edits, TextEdit{
			Range: Range{
				Start: Position{Line: 0, Character: 0},
				End:   endPosition(text),
			},
			NewText: reindented,
		})
	}

	response := ResponseMessage[[]TextEdit]{
		JsonRpc: request.JsonRpc,
		Id:      request.Id,
		Result:  edits,
	}

	responseText, err := json.Marshal(response)
	if err != nil {
		slog.Warn("Error marshalling formatting response: " + err.Error())
		return nil
	}

	return responseText
}

// DocumentOnTypeFormattingParams holds parameters for textDocument/onTypeFormatting.
type DocumentOnTypeFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	Ch           string                 `json:"ch"`
	Options      FormattingOptions      `json:"options"`
}

// ProcessOnTypeFormattingRequest handles textDocument/onTypeFormatting.
// After a newline it replaces the current line's leading whitespace with
// the structurally computed indentation.
func ProcessOnTypeFormattingRequest(
	data []byte,
	openFiles map[string][]byte,
) []byte {
	var request RequestMessage[DocumentOnTypeFormattingParams]

	err := json.Unmarshal(data, &request)
	if err != nil {
		slog.Warn("Error unmarshalling on-type formatting request: " + err.Error())
		return nil
	}

	text := lookupOpenFile(openFiles, request.Params.TextDocument.Uri, "on-type formatting")

	edits := []TextEdit{}
	if request.Params.Ch == "\n" {
		line := uintToInt(request.Params.Position.Line)
		edits = append(edits, indentLineEdit(text, line))
	}

	response := ResponseMessage[[]TextEdit]{
		JsonRpc: request.JsonRpc,
		Id:      request.Id,
		Result:  edits,
	}

	responseText, err := json.Marshal(response)
	if err != nil {
		slog.Warn("Error marshalling on-type formatting response: " + err.Error())
		return nil
	}

	return responseText
}

// indentLineEdit builds the edit that replaces the leading whitespace of
// one line with the computed indentation.
func indentLineEdit(text string, line int) TextEdit {
	start := cbl.LineStartOffset(text, line)

	end := start
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}

	column := cbl.ComputeIndent(text, start)

	return TextEdit{
		Range: Range{
			Start: Position{Line: intToUint(line), Character: 0},
			End:   Position{Line: intToUint(line), Character: intToUint(end - start)},
		},
		NewText: strings.Repeat(" ", column),
	}
}

// SemanticTokens carries the delta-encoded token stream.
type SemanticTokens struct {
	Data []uint `json:"data"`
}

// SemanticTokensParams holds parameters for textDocument/semanticTokens/full.
type SemanticTokensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// ProcessSemanticTokensRequest handles textDocument/semanticTokens/full.
func ProcessSemanticTokensRequest(
	data []byte,
	openFiles map[string][]byte,
) []byte {
	var request RequestMessage[SemanticTokensParams]

	err := json.Unmarshal(data, &request)
	if err != nil {
		slog.Warn("Error unmarshalling semantic tokens request: " + err.Error())
		return nil
	}

	text := lookupOpenFile(openFiles, request.Params.TextDocument.Uri, "semantic tokens")

	response := ResponseMessage[SemanticTokens]{
		JsonRpc: request.JsonRpc,
		Id:      request.Id,
		Result: SemanticTokens{
			Data: EncodeSemanticTokens(text),
		},
	}

	responseText, err := json.Marshal(response)
	if err != nil {
		slog.Warn("Error marshalling semantic tokens response: " + err.Error())
		return nil
	}

	return responseText
}

// EncodeSemanticTokens classifies every token in text and delta-encodes the
// result as LSP semantic token quintuples: line delta, start character
// delta, length, token type, modifier bitset.
func EncodeSemanticTokens(text string) []uint {
	encoded := []uint{}

	prevLine := 0
	prevChar := 0

	line := 0
	lineStart := 0

	for _, span := range cbl.ScanTokens(text) {
		tokenType, ok := semanticTokenForCategory(span.Category)
		if !ok {
			continue
		}

		for next := strings.IndexByte(text[lineStart:span.Start], '\n'); next >= 0; {
			lineStart += next + 1
			line++
			next = strings.IndexByte(text[lineStart:span.Start], '\n')
		}

		char := span.Start - lineStart

		deltaLine := line - prevLine
		deltaChar := char
		if deltaLine == 0 {
			deltaChar = char - prevChar
		}

		encoded = append(encoded,
			intToUint(deltaLine),
			intToUint(deltaChar),
			intToUint(span.End-span.Start),
			intToUint(tokenType),
			0,
		)

		prevLine = line
		prevChar = char
	}

	return encoded
}

// endPosition returns the position just past the last byte of text.
func endPosition(text string) Position {
	line := strings.Count(text, "\n")
	lastLineStart := strings.LastIndexByte(text, '\n') + 1

	return Position{
		Line:      intToUint(line),
		Character: intToUint(len(text) - lastLineStart),
	}
}

// lookupOpenFile fetches a document the client opened earlier. A request
// against an unknown document is a client protocol violation.
func lookupOpenFile(
	openFiles map[string][]byte,
	uri string,
	requestKind string,
) string {
	content, found := openFiles[uri]
	if !found {
		msg := "file not found on server for " + requestKind + " request"
		slog.Error(msg,
			slog.Group("details",
				slog.String("uri", uri),
			),
		)
		panic(msg)
	}

	return string(content)
}
