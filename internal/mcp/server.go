// Package mcp exposes the tabdock daemon as Model Context Protocol tools.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/ipc"
	"github.com/1broseidon/tabdock/internal/memo"
)

const (
	ServerName    = "tabdock"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface the tools call. *ipc.Client implements it.
type Daemon interface {
	ListPlugins() (*ipc.PluginsData, error)
	OpenPlugin(pluginID string) (*desktop.WindowInfo, error)
	CloseWindow(windowID string) (*desktop.WindowInfo, error)
	ListWindows() ([]desktop.WindowInfo, error)
	ListMemos() ([]memo.Note, error)
	AddMemo(title, content string) (*memo.Note, error)
	EditMemo(id, title, content string) (*memo.Note, error)
	SearchURL(query string) (string, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for tabdock.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a new MCP server backed by the daemon.
func NewServer(d Daemon) *Server {
	s := &Server{daemon: d}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_plugins",
		Description: "List the dock entries in dock order, whether each can be opened, and the id of its open window if any.",
	}, s.handleListPlugins)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_plugin",
		Description: "Open a plugin window from the dock. Opening a plugin that already has a window returns that window unchanged.",
	}, s.handleOpenPlugin)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. The window stays visible for its close animation (300ms by default) and is then removed. Closes the topmost window when window_id is omitted.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows topmost first with geometry, z-order and view state (dragging, fullscreen, minimized, closing).",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_memos",
		Description: "List memos, most recently created first.",
	}, s.handleListMemos)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_memo",
		Description: "Create a memo. An empty title becomes the default title.",
	}, s.handleAddMemo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "edit_memo",
		Description: "Change the title and/or content of a memo. Omitted fields keep their current value.",
	}, s.handleEditMemo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "search_url",
		Description: "Build the search result URL for a query using the currently selected search engine.",
	}, s.handleSearchURL)
}
