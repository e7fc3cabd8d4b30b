package uispec

import (
	"strconv"
	"strings"
)

// Pointer is an RFC 6901 JSON pointer into a document.
// The zero value points at the document root.
type Pointer struct {
	tokens []string
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Key returns the pointer to member key of the object p points at.
func (p Pointer) Key(key string) Pointer {
	return p.with(key)
}

// Index returns the pointer to element i of the array p points at.
func (p Pointer) Index(i int) Pointer {
	return p.with(strconv.Itoa(i))
}

func (p Pointer) with(tok string) Pointer {
	tokens := make([]string, len(p.tokens), len(p.tokens)+1)
	copy(tokens, p.tokens)
	return Pointer{tokens: append(tokens, tok)}
}

// String renders the pointer; the root is "".
func (p Pointer) String() string {
	if len(p.tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(t))
	}
	return b.String()
}

// Display renders the pointer for messages, showing "/" for the root.
func (p Pointer) Display() string {
	if s := p.String(); s != "" {
		return s
	}
	return "/"
}
