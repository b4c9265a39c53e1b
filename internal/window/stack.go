package window

import "sort"

// Stack assigns z-order values. A new window is placed one above every
// element currently stacked, fixed layers included.
type Stack struct {
	base    int
	layers  map[string]int
	windows map[string]int
}

// NewStack creates a stack whose lowest window z-order is base.
func NewStack(base int) *Stack {
	if base <= 0 {
		base = DefaultZ
	}
	return &Stack{
		base:    base,
		layers:  make(map[string]int),
		windows: make(map[string]int),
	}
}

// SetLayer registers a fixed, non-window element such as the dock.
func (s *Stack) SetLayer(name string, z int) {
	s.layers[name] = z
}

// Max returns the highest z-order currently stacked, or zero.
func (s *Stack) Max() int {
	m := 0
	for _, z := range s.layers {
		m = max(m, z)
	}
	for _, z := range s.windows {
		m = max(m, z)
	}
	return m
}

// Push assigns a z-order to id and returns it.
func (s *Stack) Push(id string) int {
	z := max(s.base, s.Max()+1)
	s.windows[id] = z
	return z
}

// Remove drops id from the stack.
func (s *Stack) Remove(id string) {
	delete(s.windows, id)
}

// Z returns the z-order of id.
func (s *Stack) Z(id string) (int, bool) {
	z, ok := s.windows[id]
	return z, ok
}

// Top returns the window with the highest z-order.
func (s *Stack) Top() (string, bool) {
	ids := s.Ordered()
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// Ordered returns window ids from topmost to bottommost.
func (s *Stack) Ordered() []string {
	ids := make([]string, 0, len(s.windows))
	for id := range s.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		zi, zj := s.windows[ids[i]], s.windows[ids[j]]
		if zi != zj {
			return zi > zj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Len returns the number of stacked windows.
func (s *Stack) Len() int {
	return len(s.windows)
}
