package gen

import "github.com/leapstack-labs/lvglgen/internal/uispec"

// scope is one frame of context bindings, chained to its enclosing frame.
type scope struct {
	values *uispec.Object
	parent *scope
}

// extend returns a child frame. An empty object still opens a frame.
func (s *scope) extend(values *uispec.Object) *scope {
	if values == nil {
		return s
	}
	return &scope{values: values, parent: s}
}

// lookup finds name in the innermost frame that binds it. It also returns
// the frame enclosing the binding one: a bound value is evaluated there, so a
// binding can refer to an outer variable of the same name without looping.
func (s *scope) lookup(name string) (uispec.Value, *scope, bool) {
	for f := s; f != nil; f = f.parent {
		if f.values == nil {
			continue
		}
		if v, ok := f.values.Get(name); ok {
			return v, f.parent, true
		}
	}
	return nil, nil, false
}

// names lists every visible binding, innermost first, without duplicates.
func (s *scope) names() []string {
	seen := make(map[string]bool)
	var out []string
	for f := s; f != nil; f = f.parent {
		if f.values == nil {
			continue
		}
		for _, k := range f.values.Keys() {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
