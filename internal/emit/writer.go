// Package emit provides the indented C writer behind every emission buffer.
package emit

import (
	"bytes"
	"fmt"
	"strings"
)

const indentSize = 4

// Writer accumulates C source with proper indentation.
type Writer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

// New returns an empty writer.
func New() *Writer {
	return &Writer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the accumulated source.
func (w *Writer) String() string {
	return w.output.String()
}

// Len is the number of bytes written.
func (w *Writer) Len() int {
	return w.output.Len()
}

// Empty reports whether nothing was written.
func (w *Writer) Empty() bool {
	return w.output.Len() == 0
}

// Write implements io.Writer; text is indented at line starts.
func (w *Writer) Write(p []byte) (int, error) {
	for _, line := range strings.SplitAfter(string(p), "\n") {
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "\n") {
			w.write(strings.TrimSuffix(line, "\n"))
			w.writeln()
			continue
		}
		w.write(line)
	}
	return len(p), nil
}

func (w *Writer) write(s string) {
	if w.atLineStart && len(s) > 0 && s[0] != '\n' {
		w.writeIndent()
	}
	w.output.WriteString(s)
	w.atLineStart = false
}

func (w *Writer) writeln() {
	w.output.WriteByte('\n')
	w.atLineStart = true
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.depth*indentSize; i++ {
		w.output.WriteByte(' ')
	}
	w.atLineStart = false
}

// Line writes one indented line.
func (w *Writer) Line(s string) {
	w.write(s)
	w.writeln()
}

// Linef writes one formatted, indented line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.writeln()
}

// Raw writes s verbatim with no indentation.
func (w *Writer) Raw(s string) {
	w.output.WriteString(s)
	w.atLineStart = s == "" || strings.HasSuffix(s, "\n")
}

// Indent increases the indentation depth.
func (w *Writer) Indent() {
	w.depth++
}

// Dedent decreases the indentation depth.
func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Block writes "open {", the body one level deeper, and "}" + closeSuffix.
func (w *Writer) Block(open string, body func(), closeSuffix string) {
	w.Line(open + " {")
	w.Indent()
	body()
	w.Dedent()
	w.Line("}" + closeSuffix)
}

// Comment writes a /* ... */ comment line.
func (w *Writer) Comment(text string) {
	w.Line("/* " + CommentSafe(text) + " */")
}

// Append copies another writer's content at the current position, indenting
// each of its lines.
func (w *Writer) Append(other *Writer) {
	if other == nil || other.Empty() {
		return
	}
	_, _ = w.Write(other.output.Bytes())
}

// formatList writes count items separated by sep.
func (w *Writer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			w.write(sep)
		}
	}
}

// List writes items joined by ", " on the current line.
func (w *Writer) List(items []string) {
	w.formatList(len(items), func(i int) { w.write(items[i]) }, ", ")
}
