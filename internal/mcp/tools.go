package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tabdock/internal/ipc"
	"github.com/1broseidon/tabdock/internal/memo"
)

func (s *Server) handleListPlugins(_ context.Context, _ *mcpsdk.CallToolRequest, args ListPluginsInput) (*mcpsdk.CallToolResult, ListPluginsOutput, error) {
	data, err := s.daemon.ListPlugins()
	if err != nil {
		return nil, ListPluginsOutput{}, fmt.Errorf("failed to list plugins: %w", err)
	}
	plugins := make([]ipc.PluginInfo, 0, len(data.Plugins))
	for _, p := range data.Plugins {
		if args.LaunchableOnly && !p.Launchable {
			continue
		}
		plugins = append(plugins, p)
	}
	return nil, ListPluginsOutput{Plugins: plugins}, nil
}

func (s *Server) handleOpenPlugin(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenPluginInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id := strings.TrimSpace(args.PluginID)
	if id == "" {
		return nil, WindowOutput{}, fmt.Errorf("plugin_id is required")
	}
	info, err := s.daemon.OpenPlugin(id)
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("failed to open plugin %q: %w", id, err)
	}
	return nil, WindowOutput{Window: *info}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id := strings.TrimSpace(args.WindowID)
	if id == "" {
		windows, err := s.daemon.ListWindows()
		if err != nil {
			return nil, WindowOutput{}, fmt.Errorf("failed to list windows: %w", err)
		}
		if len(windows) == 0 {
			return nil, WindowOutput{}, fmt.Errorf("no open windows")
		}
		id = windows[0].ID
	}
	info, err := s.daemon.CloseWindow(id)
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("failed to close window %q: %w", id, err)
	}
	return nil, WindowOutput{Window: *info}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to list windows: %w", err)
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleListMemos(_ context.Context, _ *mcpsdk.CallToolRequest, args ListMemosInput) (*mcpsdk.CallToolResult, ListMemosOutput, error) {
	notes, err := s.daemon.ListMemos()
	if err != nil {
		return nil, ListMemosOutput{}, fmt.Errorf("failed to list memos: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(args.Query))
	if q == "" {
		return nil, ListMemosOutput{Memos: notes}, nil
	}
	out := make([]memo.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return nil, ListMemosOutput{Memos: out}, nil
}

func (s *Server) handleAddMemo(_ context.Context, _ *mcpsdk.CallToolRequest, args AddMemoInput) (*mcpsdk.CallToolResult, MemoOutput, error) {
	n, err := s.daemon.AddMemo(args.Title, args.Content)
	if err != nil {
		return nil, MemoOutput{}, fmt.Errorf("failed to add memo: %w", err)
	}
	return nil, MemoOutput{Memo: *n}, nil
}

func (s *Server) handleEditMemo(_ context.Context, _ *mcpsdk.CallToolRequest, args EditMemoInput) (*mcpsdk.CallToolResult, MemoOutput, error) {
	if args.ID == "" {
		return nil, MemoOutput{}, fmt.Errorf("id is required")
	}
	if args.Title == nil && args.Content == nil {
		return nil, MemoOutput{}, fmt.Errorf("nothing to change: pass title and/or content")
	}

	current, err := s.findMemo(args.ID)
	if err != nil {
		return nil, MemoOutput{}, err
	}
	title, content := current.Title, current.Content
	if args.Title != nil {
		title = *args.Title
	}
	if args.Content != nil {
		content = *args.Content
	}

	n, err := s.daemon.EditMemo(args.ID, title, content)
	if err != nil {
		return nil, MemoOutput{}, fmt.Errorf("failed to edit memo: %w", err)
	}
	return nil, MemoOutput{Memo: *n}, nil
}

func (s *Server) findMemo(id string) (memo.Note, error) {
	notes, err := s.daemon.ListMemos()
	if err != nil {
		return memo.Note{}, fmt.Errorf("failed to list memos: %w", err)
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return memo.Note{}, fmt.Errorf("%w: %s", memo.ErrNoteNotFound, id)
}

func (s *Server) handleSearchURL(_ context.Context, _ *mcpsdk.CallToolRequest, args SearchURLInput) (*mcpsdk.CallToolResult, SearchURLOutput, error) {
	url, err := s.daemon.SearchURL(args.Query)
	if err != nil {
		return nil, SearchURLOutput{}, fmt.Errorf("failed to build search url: %w", err)
	}
	return nil, SearchURLOutput{URL: url}, nil
}
