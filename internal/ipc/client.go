package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/memo"
	"github.com/1broseidon/tabdock/internal/runtimepath"
	"github.com/1broseidon/tabdock/internal/settings"
	"github.com/1broseidon/tabdock/internal/sites"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	return c.call(CommandPing, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListPlugins retrieves the dock entries.
func (c *Client) ListPlugins() (*PluginsData, error) {
	var data PluginsData
	if err := c.call(CommandListPlugins, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// OpenPlugin opens a plugin window, or returns the one already open.
func (c *Client) OpenPlugin(pluginID string) (*desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	if err := c.call(CommandOpenPlugin, OpenPluginPayload{PluginID: pluginID}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CloseWindow starts closing a window.
func (c *Client) CloseWindow(windowID string) (*desktop.WindowInfo, error) {
	return c.windowCall(CommandCloseWindow, windowID)
}

// ToggleFullscreen toggles a window's fullscreen state.
func (c *Client) ToggleFullscreen(windowID string) (*desktop.WindowInfo, error) {
	return c.windowCall(CommandToggleFullscreen, windowID)
}

// ToggleMinimize toggles a window's minimized state.
func (c *Client) ToggleMinimize(windowID string) (*desktop.WindowInfo, error) {
	return c.windowCall(CommandToggleMinimize, windowID)
}

func (c *Client) windowCall(command CommandType, windowID string) (*desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	if err := c.call(command, WindowPayload{WindowID: windowID}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Input dispatches a named input event.
func (c *Client) Input(ev desktop.InputEvent) (*InputData, error) {
	var data InputData
	if err := c.call(CommandInput, ev, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListWindows retrieves the open windows, topmost first.
func (c *Client) ListWindows() ([]desktop.WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// ListMemos retrieves every note.
func (c *Client) ListMemos() ([]memo.Note, error) {
	var data MemosData
	if err := c.call(CommandMemoList, nil, &data); err != nil {
		return nil, err
	}
	return data.Memos, nil
}

// AddMemo creates a note.
func (c *Client) AddMemo(title, content string) (*memo.Note, error) {
	var note memo.Note
	if err := c.call(CommandMemoAdd, MemoAddPayload{Title: title, Content: content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// EditMemo replaces a note's title and content.
func (c *Client) EditMemo(id, title, content string) (*memo.Note, error) {
	var note memo.Note
	if err := c.call(CommandMemoEdit, MemoEditPayload{ID: id, Title: title, Content: content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteMemo removes a note.
func (c *Client) DeleteMemo(id string) error {
	return c.call(CommandMemoDelete, IDPayload{ID: id}, nil)
}

// ListSites retrieves the bookmarks.
func (c *Client) ListSites() ([]sites.Site, error) {
	var data SitesData
	if err := c.call(CommandSiteList, nil, &data); err != nil {
		return nil, err
	}
	return data.Sites, nil
}

// AddSite creates a bookmark.
func (c *Client) AddSite(url, title string) (*sites.Site, error) {
	var site sites.Site
	if err := c.call(CommandSiteAdd, SiteAddPayload{URL: url, Title: title}, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

// DeleteSite removes a bookmark.
func (c *Client) DeleteSite(id string) error {
	return c.call(CommandSiteDelete, IDPayload{ID: id}, nil)
}

// GetSettings retrieves the settings document.
func (c *Client) GetSettings() (*settings.State, error) {
	var state settings.State
	if err := c.call(CommandSettingGet, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SetSetting updates one setting. value is sent as JSON.
func (c *Client) SetSetting(part, key string, value any) (*settings.State, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal setting value: %w", err)
	}
	var state settings.State
	if err := c.call(CommandSettingSet, SettingSetPayload{Part: part, Key: key, Value: raw}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SearchURL builds the search URL for query with the current engine.
func (c *Client) SearchURL(query string) (string, error) {
	var data SearchData
	if err := c.call(CommandSearchURL, SearchPayload{Query: query}, &data); err != nil {
		return "", err
	}
	return data.URL, nil
}

// ReloadConfig asks the daemon to reload its configuration.
func (c *Client) ReloadConfig() error {
	return c.call(CommandReloadConfig, nil, nil)
}

// ExportBackup asks the daemon to write a backup file into dir.
func (c *Client) ExportBackup(dir string) (string, error) {
	var data BackupData
	if err := c.call(CommandBackupExport, BackupPayload{Dir: dir}, &data); err != nil {
		return "", err
	}
	return data.Path, nil
}

// ImportBackup restores a backup file and returns the imported keys.
func (c *Client) ImportBackup(path string) ([]string, error) {
	var data BackupData
	if err := c.call(CommandBackupImport, BackupPayload{Path: path}, &data); err != nil {
		return nil, err
	}
	return data.Keys, nil
}
