package spritegroup

// Set is the arena holding every group of one mod file.
type Set struct {
	groups []*Group
	byName map[string]*Group
}

// NewSet returns an empty arena.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Group)}
}

// Add stores g in the arena and assigns its ID.
func (s *Set) Add(g *Group) *Group {
	g.ID = len(s.groups)
	s.groups = append(s.groups, g)
	if g.Name != "" {
		s.byName[g.Name] = g
	}
	return g
}

// Get returns the group with the given ID, or nil.
func (s *Set) Get(id int) *Group {
	if id < 0 || id >= len(s.groups) {
		return nil
	}
	return s.groups[id]
}

// Lookup finds a group by name.
func (s *Set) Lookup(name string) (*Group, bool) {
	g, ok := s.byName[name]
	return g, ok
}

// Names lists the named groups in arena order.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.byName))
	for _, g := range s.groups {
		if g.Name != "" {
			out = append(out, g.Name)
		}
	}
	return out
}

// Len is the number of groups in the arena.
func (s *Set) Len() int { return len(s.groups) }
