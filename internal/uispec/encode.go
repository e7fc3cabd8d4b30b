package uispec

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON writes the pairs in document order, duplicates included.
func (o *Object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, p := range o.Pairs() {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := encodeTo(&b, p.Key); err != nil {
			return nil, err
		}
		b.WriteByte(':')
		if err := encodeTo(&b, p.Value); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Encode renders a document as compact JSON. HTML characters are not escaped.
func Encode(v Value) ([]byte, error) {
	var b bytes.Buffer
	if err := encodeTo(&b, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func encodeTo(b *bytes.Buffer, v Value) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	b.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
