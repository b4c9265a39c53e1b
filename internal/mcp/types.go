package mcp

import (
	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/ipc"
	"github.com/1broseidon/tabdock/internal/memo"
)

// ListPluginsInput is the input for the list_plugins tool.
type ListPluginsInput struct {
	LaunchableOnly bool `json:"launchable_only,omitempty" jsonschema:"When true, omit dock entries that cannot be opened"`
}

// ListPluginsOutput is the output for the list_plugins tool.
type ListPluginsOutput struct {
	Plugins []ipc.PluginInfo `json:"plugins"`
}

// OpenPluginInput is the input for the open_plugin tool.
type OpenPluginInput struct {
	PluginID string `json:"plugin_id" jsonschema:"required,Dock entry id (e.g. memo, bookmarks, settings)"`
}

// WindowOutput describes one window after an operation.
type WindowOutput struct {
	Window desktop.WindowInfo `json:"window"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	WindowID string `json:"window_id,omitempty" jsonschema:"Window id to close (default: topmost window)"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []desktop.WindowInfo `json:"windows"`
}

// ListMemosInput is the input for the list_memos tool.
type ListMemosInput struct {
	Query string `json:"query,omitempty" jsonschema:"Optional case-insensitive filter on title and content"`
}

// ListMemosOutput is the output for the list_memos tool.
type ListMemosOutput struct {
	Memos []memo.Note `json:"memos"`
}

// AddMemoInput is the input for the add_memo tool.
type AddMemoInput struct {
	Title   string `json:"title,omitempty" jsonschema:"Memo title (default: 新建备忘录)"`
	Content string `json:"content,omitempty" jsonschema:"Memo body"`
}

// EditMemoInput is the input for the edit_memo tool.
type EditMemoInput struct {
	ID      string  `json:"id" jsonschema:"required,Memo id from list_memos"`
	Title   *string `json:"title,omitempty" jsonschema:"New title (unchanged when omitted)"`
	Content *string `json:"content,omitempty" jsonschema:"New body (unchanged when omitted)"`
}

// MemoOutput is the memo after an add or edit.
type MemoOutput struct {
	Memo memo.Note `json:"memo"`
}

// SearchURLInput is the input for the search_url tool.
type SearchURLInput struct {
	Query string `json:"query" jsonschema:"required,Search text"`
}

// SearchURLOutput is the output for the search_url tool.
type SearchURLOutput struct {
	URL string `json:"url"`
}
