package api

import "strings"

// Signature is a canonical (return type, ordered argument types) tuple.
type Signature struct {
	Return string
	Args   []string
}

// Key is a stable map key for the signature.
func (s Signature) Key() string {
	return s.Return + "(" + strings.Join(s.Args, ",") + ")"
}

// String prints the signature as a C prototype shape.
func (s Signature) String() string {
	args := "void"
	if len(s.Args) > 0 {
		args = strings.Join(s.Args, ", ")
	}
	return s.Return + " (*)(" + args + ")"
}

// Equal reports whether two signatures are the same class.
func (s Signature) Equal(o Signature) bool {
	if s.Return != o.Return || len(s.Args) != len(o.Args) {
		return false
	}
	for i := range s.Args {
		if s.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// SignatureGroup is one signature class and its member functions.
type SignatureGroup struct {
	Signature Signature
	Functions []*FunctionInfo
}

// GroupBySignature groups functions by signature class. Groups are ordered by
// the first appearance of their class; nil fns groups every function.
func (ix *Index) GroupBySignature(fns []*FunctionInfo) []SignatureGroup {
	if fns == nil {
		fns = ix.order
	}
	var groups []SignatureGroup
	byKey := make(map[string]int)
	for _, f := range fns {
		sig := f.Signature()
		key := sig.Key()
		i, ok := byKey[key]
		if !ok {
			i = len(groups)
			byKey[key] = i
			groups = append(groups, SignatureGroup{Signature: sig})
		}
		groups[i].Functions = append(groups[i].Functions, f)
	}
	return groups
}
