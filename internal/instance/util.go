package instance

import "sort"

type strset map[string]struct{}

func (s strset) add(v string) {
	s[v] = struct{}{}
}

func (s strset) has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s strset) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether key is active.
func (r *Registry) Has(key string) bool {
	return r.Active.has(key)
}

// Activate marks key active.
func (r *Registry) Activate(key string) {
	if r.Active == nil {
		r.Active = make(strset)
	}
	r.Active.add(key)
}
