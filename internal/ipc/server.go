package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/tabdock/internal/app"
	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/runtimepath"
	"github.com/1broseidon/tabdock/internal/sites"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	app          *app.App
	cfg          *config.Config
	cfgMu        sync.RWMutex
	loadConfig   func() (*config.Config, error)
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(a *app.App, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		app:        a,
		cfg:        a.Config,
		loadConfig: config.Load,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// SetConfigLoader replaces the loader used by RELOAD_CONFIG.
func (s *Server) SetConfigLoader(load func() (*config.Config, error)) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.loadConfig = load
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPing:
		return ok(nil)
	case CommandStatus:
		return s.handleStatus()
	case CommandListPlugins:
		return ok(s.plugins())
	case CommandOpenPlugin:
		return s.handleOpenPlugin(req.Payload)
	case CommandCloseWindow:
		return s.handleWindow(req.Payload, s.app.Desktop.CloseWindow)
	case CommandToggleFullscreen:
		return s.handleWindow(req.Payload, s.app.Desktop.ToggleFullscreen)
	case CommandToggleMinimize:
		return s.handleWindow(req.Payload, s.app.Desktop.ToggleMinimize)
	case CommandInput:
		return s.handleInput(req.Payload)
	case CommandListWindows:
		return ok(WindowsData{Windows: s.app.Desktop.Windows()})
	case CommandMemoList:
		return ok(MemosData{Memos: s.app.Notes.List()})
	case CommandMemoAdd:
		return s.handleMemoAdd(req.Payload)
	case CommandMemoEdit:
		return s.handleMemoEdit(req.Payload)
	case CommandMemoDelete:
		return s.handleMemoDelete(req.Payload)
	case CommandSiteList:
		return ok(SitesData{Sites: s.app.Sites.All()})
	case CommandSiteAdd:
		return s.handleSiteAdd(req.Payload)
	case CommandSiteDelete:
		return s.handleSiteDelete(req.Payload)
	case CommandSettingGet:
		return ok(s.app.Settings.State())
	case CommandSettingSet:
		return s.handleSettingSet(req.Payload)
	case CommandSearchURL:
		return s.handleSearchURL(req.Payload)
	case CommandReloadConfig:
		return s.handleReloadConfig()
	case CommandBackupExport:
		return s.handleBackupExport(req.Payload)
	case CommandBackupImport:
		return s.handleBackupImport(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decode(payload json.RawMessage, v any, what string) *Response {
	if len(payload) == 0 {
		return NewErrorResponse(fmt.Sprintf("Missing %s payload", what))
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", what, err))
	}
	return nil
}

func (s *Server) handleStatus() *Response {
	dataDir := s.app.Store.Dir()
	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		Viewport:      s.app.Desktop.Viewport(),
		WindowCount:   len(s.app.Desktop.Windows()),
		PluginCount:   s.app.Desktop.Registry().Len(),
		DataDir:       dataDir,
	}
	return ok(status)
}

func (s *Server) plugins() PluginsData {
	entries := s.app.Desktop.Registry().Entries()
	out := PluginsData{Plugins: make([]PluginInfo, 0, len(entries))}
	for _, e := range entries {
		info := PluginInfo{ID: e.ID, Title: e.Title, Icon: e.Icon, Launchable: e.Launchable()}
		if w, open := s.app.Desktop.WindowForPlugin(e.ID); open {
			info.WindowID = w.ID
		}
		out.Plugins = append(out.Plugins, info)
	}
	return out
}

func (s *Server) handleOpenPlugin(payload json.RawMessage) *Response {
	var req OpenPluginPayload
	if resp := decode(payload, &req, "open"); resp != nil {
		return resp
	}
	if req.PluginID == "" {
		return NewErrorResponse("plugin_id is required")
	}
	log.Printf("IPC: Open plugin '%s'", req.PluginID)

	info, err := s.app.Desktop.OpenPlugin(req.PluginID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open plugin: %v", err))
	}
	return ok(info)
}

func (s *Server) handleWindow(payload json.RawMessage, fn func(string) (desktop.WindowInfo, error)) *Response {
	var req WindowPayload
	if resp := decode(payload, &req, "window"); resp != nil {
		return resp
	}
	if req.WindowID == "" {
		return NewErrorResponse("window_id is required")
	}
	info, err := fn(req.WindowID)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(info)
}

func (s *Server) handleInput(payload json.RawMessage) *Response {
	var ev desktop.InputEvent
	if resp := decode(payload, &ev, "input"); resp != nil {
		return resp
	}
	outcome, err := s.app.Desktop.Dispatch(ev)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to dispatch input: %v", err))
	}
	return ok(InputData{Outcome: outcome, Windows: s.app.Desktop.Windows()})
}

func (s *Server) handleMemoAdd(payload json.RawMessage) *Response {
	var req MemoAddPayload
	if len(payload) > 0 {
		if resp := decode(payload, &req, "memo"); resp != nil {
			return resp
		}
	}
	note, err := s.app.AddMemo(req.Title, req.Content)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to add memo: %v", err))
	}
	return ok(note)
}

func (s *Server) handleMemoEdit(payload json.RawMessage) *Response {
	var req MemoEditPayload
	if resp := decode(payload, &req, "memo"); resp != nil {
		return resp
	}
	note, err := s.app.EditMemo(req.ID, req.Title, req.Content)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to edit memo: %v", err))
	}
	return ok(note)
}

func (s *Server) handleMemoDelete(payload json.RawMessage) *Response {
	var req IDPayload
	if resp := decode(payload, &req, "memo"); resp != nil {
		return resp
	}
	if err := s.app.DeleteMemo(req.ID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to delete memo: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleSiteAdd(payload json.RawMessage) *Response {
	var req SiteAddPayload
	if resp := decode(payload, &req, "site"); resp != nil {
		return resp
	}
	site, err := s.app.Sites.Add(req.URL, req.Title, req.Icon)
	if err != nil {
		if errors.Is(err, sites.ErrInvalidURL) {
			return NewErrorResponse(err.Error())
		}
		return NewErrorResponse(fmt.Sprintf("Failed to add site: %v", err))
	}
	return ok(site)
}

func (s *Server) handleSiteDelete(payload json.RawMessage) *Response {
	var req IDPayload
	if resp := decode(payload, &req, "site"); resp != nil {
		return resp
	}
	if _, err := s.app.Sites.Delete(req.ID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to delete site: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleSettingSet(payload json.RawMessage) *Response {
	var req SettingSetPayload
	if resp := decode(payload, &req, "setting"); resp != nil {
		return resp
	}
	state, err := s.app.Settings.Update(req.Part, req.Key, req.Value)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to update setting: %v", err))
	}
	return ok(state)
}

func (s *Server) handleSearchURL(payload json.RawMessage) *Response {
	var req SearchPayload
	if resp := decode(payload, &req, "search"); resp != nil {
		return resp
	}
	url, err := s.app.Settings.SearchURL(req.Query)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(SearchData{URL: url})
}

func (s *Server) handleBackupExport(payload json.RawMessage) *Response {
	var req BackupPayload
	if resp := decode(payload, &req, "backup"); resp != nil {
		return resp
	}
	if req.Dir == "" {
		return NewErrorResponse("Backup directory is required")
	}
	path, err := s.app.ExportBackup(req.Dir, time.Now())
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to export backup: %v", err))
	}
	return ok(BackupData{Path: path})
}

func (s *Server) handleBackupImport(payload json.RawMessage) *Response {
	var req BackupPayload
	if resp := decode(payload, &req, "backup"); resp != nil {
		return resp
	}
	if req.Path == "" {
		return NewErrorResponse("Backup path is required")
	}
	keys, err := s.app.ImportBackup(req.Path)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to import backup: %v", err))
	}
	return ok(BackupData{Path: req.Path, Keys: keys})
}

// handleReloadConfig reloads the configuration
func (s *Server) handleReloadConfig() *Response {
	log.Println("IPC: Received RELOAD_CONFIG command")

	s.cfgMu.RLock()
	load := s.loadConfig
	s.cfgMu.RUnlock()

	newCfg, err := load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")
	return ok(nil)
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig replaces the config reported to clients after a SIGHUP reload.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
