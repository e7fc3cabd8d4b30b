package api

import (
	"fmt"
	"regexp"
)

// DefaultInclude selects every LVGL function.
const DefaultInclude = `^lv_`

// Filter selects functions by name with include and exclude regexps.
type Filter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewFilter compiles the patterns. An empty include list selects all names.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		f.include = append(f.include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.exclude = append(f.exclude, re)
	}
	return f, nil
}

// Allows reports whether name passes the filter. A nil filter allows all.
func (f *Filter) Allows(name string) bool {
	if f == nil {
		return true
	}
	for _, re := range f.exclude {
		if re.MatchString(name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, re := range f.include {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Skipped is a function left out of generated tables.
type Skipped struct {
	Function *FunctionInfo
	Reason   string
}

// Selection is the outcome of applying a filter and the representability
// rules to every function.
type Selection struct {
	Included []*FunctionInfo
	Skipped  []Skipped
	// Filtered counts functions rejected by name.
	Filtered int

	byName map[string]bool
}

// Select partitions the index's functions.
func (ix *Index) Select(f *Filter) *Selection {
	s := &Selection{byName: make(map[string]bool)}
	for _, fn := range ix.order {
		if !f.Allows(fn.Name) {
			s.Filtered++
			continue
		}
		if err := ix.Representable(fn); err != nil {
			reason := err.Error()
			if ue, ok := err.(*UnrepresentableError); ok {
				reason = ue.Reason
				if ue.Param != "" {
					reason = ue.Param + ": " + ue.Reason
				}
			}
			s.Skipped = append(s.Skipped, Skipped{Function: fn, Reason: reason})
			continue
		}
		s.Included = append(s.Included, fn)
		s.byName[fn.Name] = true
	}
	return s
}

// Has reports whether the named function was included.
func (s *Selection) Has(name string) bool {
	return s.byName[name]
}
