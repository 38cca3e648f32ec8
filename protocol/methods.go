package protocol

// LSP method name constants. Some of them name methods this server does
// not dispatch on.
const (
	// Lifecycle
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"
	MethodShutdown    = "shutdown"
	MethodExit        = "exit"
	MethodSetTrace    = "$/setTrace"

	// Text document sync
	MethodDidOpen   = "textDocument/didOpen"
	MethodDidChange = "textDocument/didChange"
	MethodDidClose  = "textDocument/didClose"
	MethodDidSave   = "textDocument/didSave"

	// Language features
	MethodHover             = "textDocument/hover"
	MethodDefinition        = "textDocument/definition"
	MethodDocumentSymbol    = "textDocument/documentSymbol"
	MethodRename            = "textDocument/rename"
	MethodPrepareRename     = "textDocument/prepareRename"
	MethodDocumentHighlight = "textDocument/documentHighlight"
	MethodDocumentLink      = "textDocument/documentLink"

	// Workspace
	MethodDidChangeConfiguration    = "workspace/didChangeConfiguration"
	MethodDidChangeWorkspaceFolders = "workspace/didChangeWorkspaceFolders"
	MethodDidChangeWatchedFiles     = "workspace/didChangeWatchedFiles"

	// Client notifications (server -> client)
	MethodPublishDiagnostics     = "textDocument/publishDiagnostics"
	MethodLogMessage             = "window/logMessage"
	MethodShowMessage            = "window/showMessage"
	MethodShowMessageRequest     = "window/showMessageRequest"
	MethodWorkspaceConfiguration = "workspace/configuration"

	// Client requests (server -> client)
	MethodApplyEdit            = "workspace/applyEdit"
	MethodRegisterCapability   = "client/registerCapability"
	MethodUnregisterCapability = "client/unregisterCapability"
)
