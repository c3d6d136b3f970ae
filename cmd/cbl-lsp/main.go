// Command cbl-lsp provides a Language Server Protocol server for the CBL
// control-flow-graph language: structural indentation, keyword completion,
// and semantic token highlighting.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/GaloisInc/crucibler-mode/cmd/cbl-lsp/lsp"
	"github.com/GaloisInc/crucibler-mode/internal/cbl/config"
)

// version is set by goreleaser at build time.
var version = "dev"

const (
	serverName = "CBL LSP"
	appDirName = "cbl-lsp"
)

// requestCounter tracks the number of each request type.
type requestCounter struct {
	Initialize   int
	Initialized  int
	Shutdown     int
	TextDocument struct {
		DidClose  int
		DidOpen   int
		DidChange int
	}
	Completion       int
	Formatting       int
	OnTypeFormatting int
	SemanticTokens   int
	Other            int
}

var serverCounter requestCounter

func main() {
	versionFlag := flag.Bool("version", false, "print the LSP version")
	configFlag := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s -- version %s\n", serverName, version)
		os.Exit(0)
	}

	configureLogging()
	loadConfiguration(*configFlag)

	scanner := lsp.ReceiveInput(os.Stdin)

	openFiles := make(map[string][]byte)

	var request lsp.RequestMessage[any]
	var response []byte
	var isRequestResponse bool
	var isExiting bool
	var fileURI string
	var fileContent []byte

	slog.Info("starting lsp server",
		slog.String("server_name", serverName),
		slog.String("server_version", version),
	)
	defer slog.Info(
		"shutting down lsp server",
		getServerGroupLogging(&serverCounter, request, openFiles),
	)

	for scanner.Scan() {
		data := scanner.Bytes()
		_ = json.Unmarshal(data, &request)

		if isExiting {
			if request.Method == lsp.MethodExit {
				break
			} else {
				response = lsp.ProcessIllegalRequestAfterShutdown(
					request.JsonRpc,
					request.Id,
				)
				lsp.SendToLspClient(os.Stdout, response)
			}
			continue
		}

		slog.Info(
			"request "+request.Method,
			getServerGroupLogging(&serverCounter, request, openFiles),
		)

		switch request.Method {
		case lsp.MethodInitialize:
			serverCounter.Initialize++
			isRequestResponse = true
			response, _ = lsp.ProcessInitializeRequest(data, serverName, version)

		case lsp.MethodInitialized:
			serverCounter.Initialized++
			isRequestResponse = false
			lsp.ProcessInitializedNotification(data)

		case lsp.MethodShutdown:
			serverCounter.Shutdown++
			isExiting = true
			isRequestResponse = true
			response = lsp.ProcessShutdownRequest(request.JsonRpc, request.Id)

		case lsp.MethodDidOpen:
			serverCounter.TextDocument.DidOpen++
			isRequestResponse = false
			fileURI, fileContent = lsp.ProcessDidOpenTextDocumentNotification(data)
			if fileURI != "" {
				openFiles[fileURI] = fileContent
			}

		case lsp.MethodDidChange:
			serverCounter.TextDocument.DidChange++
			isRequestResponse = false
			fileURI, fileContent = lsp.ProcessDidChangeTextDocumentNotification(data)
			if fileURI != "" {
				openFiles[fileURI] = fileContent
			}

		case lsp.MethodDidClose:
			serverCounter.TextDocument.DidClose++
			isRequestResponse = false
			fileURI = lsp.ProcessDidCloseTextDocumentNotification(data)
			delete(openFiles, fileURI)

		case lsp.MethodCompletion:
			serverCounter.Completion++
			isRequestResponse = true
			response = lsp.ProcessCompletionRequest(data, openFiles)

		case lsp.MethodFormatting:
			serverCounter.Formatting++
			isRequestResponse = true
			response = lsp.ProcessFormattingRequest(data, openFiles)

		case lsp.MethodOnTypeFormatting:
			serverCounter.OnTypeFormatting++
			isRequestResponse = true
			response = lsp.ProcessOnTypeFormattingRequest(data, openFiles)

		case lsp.MethodSemanticTokensFull:
			serverCounter.SemanticTokens++
			isRequestResponse = true
			response = lsp.ProcessSemanticTokensRequest(data, openFiles)

		default:
			serverCounter.Other++
			response = lsp.ProcessUnknownMethodRequest(data)
			isRequestResponse = response != nil
		}

		if isRequestResponse {
			lsp.SendToLspClient(os.Stdout, response)

			res := lsp.ResponseMessage[any]{}
			_ = json.Unmarshal(response, &res)
			slog.Info("response "+request.Method,
				slog.Group("server",
					slog.String("name", serverName),
					slog.String("version", version),
					slog.Any("request_counter", serverCounter),
					slog.Any("open_files", mapToKeys(openFiles)),
					slog.Any("last_response", res),
				),
			)
		}

		response = nil
		isRequestResponse = false
	}

	if scanner.Err() != nil {
		msg := "error while closing LSP: " + scanner.Err().Error()
		slog.Error(msg)
		panic(msg)
	}
}

// loadConfiguration reads the optional configuration file and installs its
// rule and vocabulary extensions. A missing file at the default location
// is normal; an explicitly given path or a malformed file is reported and
// the builtin tables stay in force.
func loadConfiguration(path string) {
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			slog.Warn("unable to resolve the default config location",
				slog.String("error", err.Error()),
			)
			return
		}
		path = defaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		slog.Warn("unable to load configuration, using builtin tables",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}

	if cfg == nil {
		return
	}

	cfg.Apply()
	slog.Info("configuration applied", slog.String("path", path))
}

// mapToKeys returns the keys of a map as a slice.
func mapToKeys[K comparable, V any](dict map[K]V) []K {
	list := make([]K, 0, len(dict))
	for key := range dict {
		list = append(list, key)
	}
	return list
}

// createLogFile creates or opens the log file.
func createLogFile() *os.File {
	userCachePath, err := os.UserCacheDir()
	if err != nil {
		return os.Stdout
	}

	appCachePath := filepath.Join(userCachePath, appDirName)
	logFilePath := filepath.Join(appCachePath, appDirName+".log")

	_ = os.Mkdir(appCachePath, lsp.DirPermissions)

	fileInfo, err := os.Stat(logFilePath)
	if err == nil && fileInfo.Size() >= lsp.MaxLogFileSize {
		//nolint:gosec // safe log file path
		file, err := os.OpenFile(logFilePath, os.O_TRUNC|os.O_WRONLY, lsp.FilePermissions)
		if err != nil {
			return os.Stdout
		}
		return file
	}

	//nolint:gosec // safe log file path
	file, err := os.OpenFile(
		logFilePath,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		lsp.FilePermissions,
	)
	if err != nil {
		return os.Stdout
	}

	return file
}

// configureLogging sets up structured logging.
func configureLogging() {
	file := createLogFile()
	if file == nil {
		file = os.Stdout
	}

	logger := slog.New(slog.NewJSONHandler(file, nil))
	slog.SetDefault(logger)
}

// getServerGroupLogging returns a structured logging group with server state.
func getServerGroupLogging[T any](
	counter *requestCounter,
	request lsp.RequestMessage[T],
	openFiles map[string][]byte,
) slog.Attr {
	return slog.Group("server",
		slog.Any("last_request", request),
		slog.Any("open_files", mapToKeys(openFiles)),
		slog.Any("request_counter", counter),
	)
}
