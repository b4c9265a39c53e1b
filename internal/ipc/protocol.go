package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/memo"
	"github.com/1broseidon/tabdock/internal/sites"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing             CommandType = "PING"
	CommandStatus           CommandType = "STATUS"
	CommandListPlugins      CommandType = "LIST_PLUGINS"
	CommandOpenPlugin       CommandType = "OPEN_PLUGIN"
	CommandCloseWindow      CommandType = "CLOSE_WINDOW"
	CommandToggleFullscreen CommandType = "TOGGLE_FULLSCREEN"
	CommandToggleMinimize   CommandType = "TOGGLE_MINIMIZE"
	CommandInput            CommandType = "INPUT"
	CommandListWindows      CommandType = "LIST_WINDOWS"
	CommandMemoList         CommandType = "MEMO_LIST"
	CommandMemoAdd          CommandType = "MEMO_ADD"
	CommandMemoEdit         CommandType = "MEMO_EDIT"
	CommandMemoDelete       CommandType = "MEMO_DELETE"
	CommandSiteList         CommandType = "SITE_LIST"
	CommandSiteAdd          CommandType = "SITE_ADD"
	CommandSiteDelete       CommandType = "SITE_DELETE"
	CommandSettingGet       CommandType = "SETTING_GET"
	CommandSettingSet       CommandType = "SETTING_SET"
	CommandSearchURL        CommandType = "SEARCH_URL"
	CommandReloadConfig     CommandType = "RELOAD_CONFIG"
	CommandBackupExport     CommandType = "BACKUP_EXPORT"
	CommandBackupImport     CommandType = "BACKUP_IMPORT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	UptimeSeconds int64         `json:"uptime_seconds"`
	DaemonRunning bool          `json:"daemon_running"`
	Viewport      geometry.Size `json:"viewport"`
	WindowCount   int           `json:"window_count"`
	PluginCount   int           `json:"plugin_count"`
	DataDir       string        `json:"data_dir"`
}

// PluginInfo describes one dock entry.
type PluginInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Icon       string `json:"icon,omitempty"`
	Launchable bool   `json:"launchable"`
	WindowID   string `json:"window_id,omitempty"`
}

type PluginsData struct {
	Plugins []PluginInfo `json:"plugins"`
}

type WindowsData struct {
	Windows []desktop.WindowInfo `json:"windows"`
}

type OpenPluginPayload struct {
	PluginID string `json:"plugin_id"`
}

type WindowPayload struct {
	WindowID string `json:"window_id"`
}

type InputData struct {
	Outcome desktop.Outcome      `json:"outcome"`
	Windows []desktop.WindowInfo `json:"windows"`
}

type MemosData struct {
	Memos []memo.Note `json:"memos"`
}

type MemoAddPayload struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

type MemoEditPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type IDPayload struct {
	ID string `json:"id"`
}

type SitesData struct {
	Sites []sites.Site `json:"sites"`
}

type SiteAddPayload struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Icon  string `json:"icon_base64,omitempty"`
}

type SettingSetPayload struct {
	Part  string          `json:"part"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type SearchPayload struct {
	Query string `json:"query"`
}

type SearchData struct {
	URL string `json:"url"`
}

type BackupPayload struct {
	Dir  string `json:"dir,omitempty"`
	Path string `json:"path,omitempty"`
}

type BackupData struct {
	Path string   `json:"path"`
	Keys []string `json:"keys,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
