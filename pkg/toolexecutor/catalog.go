package toolexecutor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Parameter is one positional tool parameter.
type Parameter struct {
	Name        string
	Type        string
	ItemsType   string
	Description string
}

// Descriptor describes a tool advertised by the provider.
type Descriptor struct {
	Name        string
	Description string
	Params      []Parameter
	// Schema is the inputSchema exactly as the server sent it.
	Schema json.RawMessage
}

// Lookup returns the descriptor with the given name.
func Lookup(tools []Descriptor, name string) (Descriptor, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Descriptor{}, false
}

// Names lists tool names in catalog order.
func Names(tools []Descriptor) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

// ParseParameters returns the parameters of an inputSchema in declaration order.
func ParseParameters(schema json.RawMessage) ([]Parameter, error) {
	params, _, err := schemaProperties(schema)
	return params, err
}

// schemaProperties walks inputSchema.properties with gjson so keys come back
// in document order. ok reports whether a properties object was present.
func schemaProperties(schema json.RawMessage) (params []Parameter, ok bool, err error) {
	if len(bytes.TrimSpace(schema)) == 0 {
		return nil, false, nil
	}
	if !gjson.ValidBytes(schema) {
		return nil, false, errors.New("input schema is not valid JSON")
	}

	root := gjson.ParseBytes(schema)
	if !root.IsObject() {
		return nil, false, errors.New("input schema is not an object")
	}

	props := root.Get("properties")
	if !props.Exists() {
		return nil, false, nil
	}
	if !props.IsObject() {
		return nil, false, errors.New("input schema properties is not an object")
	}

	params = []Parameter{}
	props.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			err = fmt.Errorf("property %q is not an object", key.String())
			return false
		}
		params = append(params, Parameter{
			Name:        key.String(),
			Type:        value.Get("type").String(),
			ItemsType:   value.Get("items.type").String(),
			Description: value.Get("description").String(),
		})
		return true
	})
	if err != nil {
		return nil, false, err
	}
	return params, true, nil
}

// Describe renders the catalog one tool per line:
//
//	1. add(a: integer, b: integer) - Add two numbers
//
// A tool whose schema cannot be read becomes "N. Error processing tool"
// without affecting the other lines.
func Describe(tools []Descriptor) string {
	lines := make([]string, 0, len(tools))
	for i, t := range tools {
		line, err := describeTool(i, t)
		if err != nil {
			line = fmt.Sprintf("%d. Error processing tool", i+1)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func describeTool(i int, t Descriptor) (string, error) {
	name := t.Name
	if name == "" {
		name = fmt.Sprintf("tool_%d", i)
	}
	desc := t.Description
	if desc == "" {
		desc = "No description available"
	}

	params, ok, err := schemaProperties(t.Schema)
	if err != nil {
		return "", err
	}

	paramsStr := "no parameters"
	if ok {
		details := make([]string, 0, len(params))
		for _, p := range params {
			typ := p.Type
			if typ == "" {
				typ = "unknown"
			}
			details = append(details, p.Name+": "+typ)
		}
		paramsStr = strings.Join(details, ", ")
	}

	return fmt.Sprintf("%d. %s(%s) - %s", i+1, name, paramsStr, desc), nil
}
