package uispec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DecodeError reports a malformed document.
type DecodeError struct {
	File    string
	Offset  int64
	Pointer Pointer
	Msg     string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Offset > 0 {
		fmt.Fprintf(&b, "offset %d: ", e.Offset)
	}
	fmt.Fprintf(&b, "%s (at %s)", e.Msg, e.Pointer.Display())
	return b.String()
}

// Decode parses one JSON document, preserving key order and duplicates.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec, Pointer{})
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Offset: dec.InputOffset(), Msg: "unexpected data after top-level value"}
	}
	return v, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// MustDecode parses a JSON literal and panics on error. Meant for tests.
func MustDecode(s string) Value {
	v, err := Decode(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return v
}

func decodeValue(dec *json.Decoder, at Pointer) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, wrapSyntax(dec, at, err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, at)
		case '[':
			return decodeArray(dec, at)
		default:
			return nil, &DecodeError{Offset: dec.InputOffset(), Pointer: at, Msg: fmt.Sprintf("unexpected delimiter %q", t)}
		}
	case string, json.Number, bool, nil:
		return t, nil
	default:
		return nil, &DecodeError{Offset: dec.InputOffset(), Pointer: at, Msg: fmt.Sprintf("unexpected token %v", tok)}
	}
}

func decodeObject(dec *json.Decoder, at Pointer) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, wrapSyntax(dec, at, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &DecodeError{Offset: dec.InputOffset(), Pointer: at, Msg: "object key is not a string"}
		}
		v, err := decodeValue(dec, at.Key(key))
		if err != nil {
			return nil, err
		}
		obj.Append(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, wrapSyntax(dec, at, err)
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder, at Pointer) ([]Value, error) {
	arr := []Value{}
	for i := 0; dec.More(); i++ {
		v, err := decodeValue(dec, at.Index(i))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, wrapSyntax(dec, at, err)
	}
	return arr, nil
}

func wrapSyntax(dec *json.Decoder, at Pointer, err error) error {
	if errors.Is(err, io.EOF) {
		return &DecodeError{Offset: dec.InputOffset(), Pointer: at, Msg: "unexpected end of input"}
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &DecodeError{Offset: se.Offset, Pointer: at, Msg: se.Error()}
	}
	return &DecodeError{Offset: dec.InputOffset(), Pointer: at, Msg: err.Error()}
}

// LoadFile reads a UI document, choosing the YAML decoder for .yaml/.yml
// files and JSON otherwise.
func LoadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read UI document: %w", err)
	}
	var v Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v, err = DecodeYAML(data)
	default:
		v, err = DecodeBytes(data)
	}
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) && de.File == "" {
			de.File = path
		}
		return nil, err
	}
	return v, nil
}
