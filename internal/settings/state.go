// Package settings holds the user-facing preferences of the new tab page:
// search box, navigation list, dock and clock visibility.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid setting value")
	ErrEmptyQuery     = errors.New("empty search query")
	ErrUnknownEngine  = errors.New("unknown search engine")
)

// OpenPageTarget controls where search results open.
type OpenPageTarget string

const (
	TargetBlank OpenPageTarget = "_blank"
	TargetSelf  OpenPageTarget = "_self"
)

// Suggestion selects the search suggestion provider.
type Suggestion string

const (
	SuggestionNone   Suggestion = "none"
	SuggestionBaidu  Suggestion = "baidu"
	SuggestionBing   Suggestion = "bing"
	SuggestionGoogle Suggestion = "google"
)

// SearchEngine is one selectable engine. URL contains a {searchText}
// placeholder.
type SearchEngine struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// Search configures the search box.
type Search struct {
	Show           bool           `json:"show"`
	ShowHistory    bool           `json:"showHistory"`
	AutoFocus      bool           `json:"autoFocus"`
	ShowTranslate  bool           `json:"showTranslate"`
	CurrentEngine  string         `json:"currentEngine"`
	SearchEngines  []SearchEngine `json:"searchEngines"`
	OpenPageTarget OpenPageTarget `json:"openPageTarget"`
	Suggestion     Suggestion     `json:"suggestion"`
}

// Toggle is a part that can only be shown or hidden.
type Toggle struct {
	Show bool `json:"show"`
}

// State is the full settings document.
type State struct {
	Search       Search `json:"search"`
	NavList      Toggle `json:"navList"`
	Dock         Toggle `json:"dock"`
	TimeCalendar Toggle `json:"timeCalendar"`
}

// DefaultEngines returns the built-in engine list.
func DefaultEngines() []SearchEngine {
	return []SearchEngine{
		{ID: "baidu", Name: "百度", URL: "https://www.baidu.com/s?wd={searchText}", Description: "百度搜索"},
		{ID: "bing", Name: "Bing", URL: "https://www.bing.com/search?q={searchText}", Description: "Microsoft Bing"},
		{ID: "google", Name: "Google", URL: "https://www.google.com/search?q={searchText}", Description: "Google Search"},
	}
}

// Defaults returns the initial settings.
func Defaults() State {
	engines := DefaultEngines()
	return State{
		Search: Search{
			Show:           true,
			CurrentEngine:  engines[0].ID,
			SearchEngines:  engines,
			OpenPageTarget: TargetBlank,
			Suggestion:     SuggestionNone,
		},
		NavList:      Toggle{Show: true},
		Dock:         Toggle{Show: true},
		TimeCalendar: Toggle{Show: true},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Search.SearchEngines = append([]SearchEngine(nil), s.Search.SearchEngines...)
	return out
}

// Engine returns the engine with the given id.
func (s State) Engine(id string) (SearchEngine, bool) {
	for _, e := range s.Search.SearchEngines {
		if e.ID == id {
			return e, true
		}
	}
	return SearchEngine{}, false
}

// SearchURL builds the result URL for query using the current engine.
func (s State) SearchURL(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	engine, ok := s.Engine(s.Search.CurrentEngine)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEngine, s.Search.CurrentEngine)
	}
	return strings.ReplaceAll(engine.URL, "{searchText}", url.QueryEscape(query)), nil
}

// Parts lists the settings parts in display order.
func Parts() []string {
	return []string{"search", "navList", "dock", "timeCalendar"}
}

// UpdateItem sets one field. value may be the typed value or its string
// form as typed on a command line; engine lists may also be JSON.
func (s *State) UpdateItem(part, key string, value any) error {
	switch part {
	case "navList":
		return setShow(&s.NavList, part, key, value)
	case "dock":
		return setShow(&s.Dock, part, key, value)
	case "timeCalendar":
		return setShow(&s.TimeCalendar, part, key, value)
	case "search":
		return s.updateSearch(key, value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, part)
	}
}

func setShow(t *Toggle, part, key string, value any) error {
	if key != "show" {
		return fmt.Errorf("%w: %s.%s", ErrUnknownSetting, part, key)
	}
	b, err := toBool(value)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", part, key, err)
	}
	t.Show = b
	return nil
}

func (s *State) updateSearch(key string, value any) error {
	sr := &s.Search
	var err error
	switch key {
	case "show":
		sr.Show, err = toBool(value)
	case "showHistory":
		sr.ShowHistory, err = toBool(value)
	case "autoFocus":
		sr.AutoFocus, err = toBool(value)
	case "showTranslate":
		sr.ShowTranslate, err = toBool(value)
	case "currentEngine":
		var id string
		id, err = toString(value)
		if err == nil {
			if _, ok := s.Engine(id); !ok {
				err = fmt.Errorf("%w: %s", ErrUnknownEngine, id)
			} else {
				sr.CurrentEngine = id
			}
		}
	case "openPageTarget":
		var v string
		v, err = toString(value)
		if err == nil {
			switch OpenPageTarget(v) {
			case TargetBlank, TargetSelf:
				sr.OpenPageTarget = OpenPageTarget(v)
			default:
				err = fmt.Errorf("%w: %q", ErrInvalidValue, v)
			}
		}
	case "suggestion":
		var v string
		v, err = toString(value)
		if err == nil {
			switch Suggestion(v) {
			case SuggestionNone, SuggestionBaidu, SuggestionBing, SuggestionGoogle:
				sr.Suggestion = Suggestion(v)
			default:
				err = fmt.Errorf("%w: %q", ErrInvalidValue, v)
			}
		}
	case "searchEngines":
		var engines []SearchEngine
		engines, err = toEngines(value)
		if err == nil {
			sr.SearchEngines = engines
			if _, ok := s.Engine(sr.CurrentEngine); !ok && len(engines) > 0 {
				sr.CurrentEngine = engines[0].ID
			}
		}
	default:
		return fmt.Errorf("%w: search.%s", ErrUnknownSetting, key)
	}
	if err != nil {
		return fmt.Errorf("search.%s: %w", key, err)
	}
	return nil
}

// Validate checks cross-field consistency.
func (s State) Validate() error {
	seen := make(map[string]bool)
	for _, e := range s.Search.SearchEngines {
		if e.ID == "" {
			return fmt.Errorf("%w: search engine without id", ErrInvalidValue)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate search engine %q", ErrInvalidValue, e.ID)
		}
		seen[e.ID] = true
		if !strings.Contains(e.URL, "{searchText}") {
			return fmt.Errorf("%w: engine %q url lacks {searchText}", ErrInvalidValue, e.ID)
		}
	}
	if len(s.Search.SearchEngines) > 0 && !seen[s.Search.CurrentEngine] {
		return fmt.Errorf("%w: %s", ErrUnknownEngine, s.Search.CurrentEngine)
	}
	return nil
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, x)
		}
		return b, nil
	case json.RawMessage:
		var b bool
		if err := json.Unmarshal(x, &b); err != nil {
			return false, fmt.Errorf("%w: %s is not a boolean", ErrInvalidValue, string(x))
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %v is not a boolean", ErrInvalidValue, v)
	}
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), nil
	case OpenPageTarget:
		return string(x), nil
	case Suggestion:
		return string(x), nil
	case json.RawMessage:
		var s string
		if err := json.Unmarshal(x, &s); err != nil {
			return "", fmt.Errorf("%w: %s is not a string", ErrInvalidValue, string(x))
		}
		return s, nil
	default:
		return "", fmt.Errorf("%w: %v is not a string", ErrInvalidValue, v)
	}
}

func toEngines(v any) ([]SearchEngine, error) {
	var engines []SearchEngine
	switch x := v.(type) {
	case []SearchEngine:
		engines = append(engines, x...)
	case string:
		if err := json.Unmarshal([]byte(x), &engines); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	case json.RawMessage:
		if err := json.Unmarshal(x, &engines); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	default:
		return nil, fmt.Errorf("%w: %v is not an engine list", ErrInvalidValue, v)
	}
	candidate := State{Search: Search{SearchEngines: engines}}
	if len(engines) > 0 {
		candidate.Search.CurrentEngine = engines[0].ID
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	return engines, nil
}
