package langserver

import "github.com/etude-lang/etude-ls/protocol"

// buildCapabilities returns the fixed ServerCapabilities this server
// always advertises. etude-ls has one concrete set of request handlers,
// so the capabilities they imply are a constant: incremental
// document sync with open/close notifications, definition, document
// symbol, document highlight, hover, rename with prepareRename support,
// and document links.
func (s *Server) buildCapabilities() protocol.ServerCapabilities {
	return protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.SyncIncremental,
			Save:      &protocol.SaveOptions{IncludeText: false},
		},
		HoverProvider:             true,
		DefinitionProvider:        true,
		DocumentSymbolProvider:    true,
		DocumentHighlightProvider: true,
		RenameProvider:            &protocol.RenameOptions{PrepareProvider: true},
		DocumentLinkProvider:      &protocol.DocumentLinkOptions{},
		Workspace: &protocol.ServerWorkspaceCapabilities{
			WorkspaceFolders: &protocol.WorkspaceFoldersServerCapabilities{
				Supported: true,
			},
		},
	}
}
