package settings

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/1broseidon/tabdock/internal/storage"
)

func TestDefaults_Valid(t *testing.T) {
	d := Defaults()
	if err := d.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
	if !d.Search.Show || d.Search.ShowHistory || d.Search.Suggestion != SuggestionNone || d.Search.OpenPageTarget != TargetBlank {
		t.Fatalf("unexpected search defaults: %+v", d.Search)
	}
	if !d.NavList.Show || !d.Dock.Show || !d.TimeCalendar.Show {
		t.Fatalf("expected all parts shown by default")
	}
}

func TestUpdateItem(t *testing.T) {
	tests := []struct {
		name    string
		part    string
		key     string
		value   any
		check   func(State) bool
		wantErr error
	}{
		{name: "dock hide", part: "dock", key: "show", value: "false", check: func(s State) bool { return !s.Dock.Show }},
		{name: "typed bool", part: "navList", key: "show", value: false, check: func(s State) bool { return !s.NavList.Show }},
		{name: "engine", part: "search", key: "currentEngine", value: "bing", check: func(s State) bool { return s.Search.CurrentEngine == "bing" }},
		{name: "suggestion", part: "search", key: "suggestion", value: "google", check: func(s State) bool { return s.Search.Suggestion == SuggestionGoogle }},
		{name: "target", part: "search", key: "openPageTarget", value: "_self", check: func(s State) bool { return s.Search.OpenPageTarget == TargetSelf }},
		{name: "unknown part", part: "wallpaper", key: "show", value: true, wantErr: ErrUnknownSetting},
		{name: "unknown key", part: "dock", key: "size", value: 1, wantErr: ErrUnknownSetting},
		{name: "bad bool", part: "dock", key: "show", value: "maybe", wantErr: ErrInvalidValue},
		{name: "bad engine", part: "search", key: "currentEngine", value: "yahoo", wantErr: ErrUnknownEngine},
		{name: "bad suggestion", part: "search", key: "suggestion", value: "duck", wantErr: ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			err := s.UpdateItem(tt.part, tt.key, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpdateItem() err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateItem() = %v", err)
			}
			if !tt.check(s) {
				t.Fatalf("UpdateItem() did not apply: %+v", s)
			}
		})
	}
}

func TestUpdateItem_SearchEnginesResetsCurrent(t *testing.T) {
	s := Defaults()
	engines := `[{"id":"ddg","name":"DuckDuckGo","url":"https://duckduckgo.com/?q={searchText}","description":""}]`
	if err := s.UpdateItem("search", "searchEngines", engines); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if s.Search.CurrentEngine != "ddg" {
		t.Fatalf("CurrentEngine = %q, want ddg", s.Search.CurrentEngine)
	}
	bad := `[{"id":"x","url":"https://example.com"}]`
	if err := s.UpdateItem("search", "searchEngines", bad); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected placeholder validation error, got %v", err)
	}
}

func TestSearchURL(t *testing.T) {
	s := Defaults()
	got, err := s.SearchURL("  go 泛型 ")
	if err != nil {
		t.Fatalf("SearchURL: %v", err)
	}
	want := "https://www.baidu.com/s?wd=go+%E6%B3%9B%E5%9E%8B"
	if got != want {
		t.Fatalf("SearchURL() = %q, want %q", got, want)
	}
	if _, err := s.SearchURL("   "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("SearchURL(blank) err = %v, want ErrEmptyQuery", err)
	}
}

func TestService_PersistsAndFillsMissingFields(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.PutRaw(StorageKey, json.RawMessage(`{"dock":{"show":false}}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc, err := NewService(store, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	st := svc.State()
	if st.Dock.Show {
		t.Fatalf("expected stored dock.show=false")
	}
	if st.Search.CurrentEngine != "baidu" || !st.NavList.Show {
		t.Fatalf("expected defaults for missing fields, got %+v", st)
	}

	if _, err := svc.Update("timeCalendar", "show", "false"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := NewService(store, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if again.State().TimeCalendar.Show {
		t.Fatalf("update was not persisted")
	}
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	src, _ := storage.NewFileStore(t.TempDir())
	src.PutRaw("memos", json.RawMessage(`[{"id":"1","title":"a"}]`))
	src.PutRaw(StorageKey, json.RawMessage(`{"dock":{"show":false}}`))

	now := time.Date(2024, 10, 1, 8, 30, 0, 0, time.UTC)
	dir := t.TempDir()
	path, err := WriteBackup(src, dir, now)
	if err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if filepath.Base(path) != "backup-2024-10-01T08:30:00Z.json" {
		t.Fatalf("backup name = %q", filepath.Base(path))
	}

	dst, _ := storage.NewFileStore(t.TempDir())
	keys, err := ImportFile(dst, path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"memos", StorageKey}) {
		t.Fatalf("imported keys = %v", keys)
	}
	svc, err := NewService(dst, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if svc.State().Dock.Show {
		t.Fatalf("imported settings not applied")
	}
}

func TestParseBackup_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":     `{`,
		"bad version":  `{"version":9,"data":{}}`,
		"bad key":      `{"version":1,"data":{"../x":{}}}`,
		"bad settings": `{"version":1,"data":{"setting":{"search":{"currentEngine":"nope"}}}}`,
	}
	for name, doc := range cases {
		if _, err := ParseBackup([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestShell_SectionsCycle(t *testing.T) {
	store, _ := storage.NewFileStore(t.TempDir())
	svc, _ := NewService(store, nil)
	sh := NewShell(svc)
	sh.Open()
	sh.NextSection(-1)
	if sh.Section() != SectionBackup {
		t.Fatalf("Section() = %v, want backup", sh.Section())
	}
	sh.NextSection(1)
	if sh.Section() != SectionLayout {
		t.Fatalf("Section() = %v, want layout", sh.Section())
	}
	sh.Mount()
	if lines := sh.Render(40, 8); len(lines) != 8 {
		t.Fatalf("Render() = %d lines, want 8", len(lines))
	}
}
