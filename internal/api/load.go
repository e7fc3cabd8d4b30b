package api

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// descriptionDoc accepts both the "structs" key and LVGL's "structures".
type descriptionDoc struct {
	Functions  []Function `json:"functions"`
	Enums      []Enum     `json:"enums"`
	Structs    []Struct   `json:"structs"`
	Structures []Struct   `json:"structures"`
	Unions     []Struct   `json:"unions"`
	Typedefs   []Typedef  `json:"typedefs"`
	Macros     []Macro    `json:"macros"`
}

// Decode reads an API description. Unknown fields are ignored and record
// order is preserved.
func Decode(r io.Reader) (*Description, error) {
	var doc descriptionDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode API description: %w", err)
	}
	d := &Description{
		Functions: doc.Functions,
		Enums:     doc.Enums,
		Structs:   append(doc.Structs, doc.Structures...),
		Unions:    doc.Unions,
		Typedefs:  doc.Typedefs,
		Macros:    doc.Macros,
	}
	return d, nil
}

// LoadFile reads and decodes an API description file.
func LoadFile(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open API description: %w", err)
	}
	defer func() { _ = f.Close() }()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
