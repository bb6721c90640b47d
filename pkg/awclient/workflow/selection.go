package workflow

// SelectionSet tracks the keys picked for a bulk action in insertion order.
// Bulk submission walks the set in exactly this order.
type SelectionSet struct {
	members map[string]bool
	order   []string
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{members: make(map[string]bool)}
}

func (s *SelectionSet) Add(key string) {
	if s.members[key] {
		return
	}

	s.members[key] = true
	s.order = append(s.order, key)
}

func (s *SelectionSet) Remove(key string) {
	if !s.members[key] {
		return
	}

	delete(s.members, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SelectionSet) Has(key string) bool {
	return s.members[key]
}

func (s *SelectionSet) Len() int {
	return len(s.order)
}

// Keys returns the selection in insertion order. The slice is a copy.
func (s *SelectionSet) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

func (s *SelectionSet) Clear() {
	s.members = make(map[string]bool)
	s.order = nil
}

// Prune removes every key not present in keep. It runs after every load so
// stale selections never leak into a bulk submission.
func (s *SelectionSet) Prune(keep map[string]bool) {
	var kept []string
	for _, key := range s.order {
		if keep[key] {
			kept = append(kept, key)
		} else {
			delete(s.members, key)
		}
	}

	s.order = kept
}
