package uispec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML UI document. It walks the yaml.Node tree rather
// than decoding into maps so key order and duplicate keys survive.
func DecodeYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &DecodeError{Msg: err.Error()}
	}
	if root.Kind == 0 {
		return nil, &DecodeError{Msg: "empty document"}
	}
	return fromYAML(&root, Pointer{})
}

func fromYAML(n *yaml.Node, at Pointer) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0], at)
	case yaml.AliasNode:
		return fromYAML(n.Alias, at)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, yamlError(k, at, "mapping key is not a scalar")
			}
			v, err := fromYAML(n.Content[i+1], at.Key(k.Value))
			if err != nil {
				return nil, err
			}
			obj.Append(k.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]Value, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAML(c, at.Index(i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n, at)
	default:
		return nil, yamlError(n, at, fmt.Sprintf("unsupported node kind %d", n.Kind))
	}
}

func yamlScalar(n *yaml.Node, at Pointer) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			var v bool
			if derr := n.Decode(&v); derr != nil {
				return nil, yamlError(n, at, "invalid boolean")
			}
			return v, nil
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, yamlError(n, at, "invalid integer")
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, yamlError(n, at, "invalid float")
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return n.Value, nil
	}
}

func yamlError(n *yaml.Node, at Pointer, msg string) error {
	return &DecodeError{Pointer: at, Msg: fmt.Sprintf("line %d: %s", n.Line, msg)}
}
