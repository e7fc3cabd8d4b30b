package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Source chunks in file order; the invokers are written between value and
// render.
const (
	chunkHead   = "head.c.tmpl"
	chunkEnums  = "enums.c.tmpl"
	chunkPrims  = "prims.c.tmpl"
	chunkValue  = "value.c.tmpl"
	chunkRender = "render.c.tmpl"
	chunkEmbed  = "embedded.c.tmpl"
	chunkHeader = "header.h.tmpl"
)

type enumRow struct {
	Hash  uint32
	Name  string
	Value string
}

// runtimeData feeds every template.
type runtimeData struct {
	Banner       string
	Header       string
	MaxUserEnums int
	Embedded     bool
	Enums        []enumRow
	EnumTypes    []enumType
	Structs      []structType
	Types        []typeEntry
	// UILines are the quoted pieces of the embedded document.
	UILines []string
}

func execute(name string, data *runtimeData) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}
