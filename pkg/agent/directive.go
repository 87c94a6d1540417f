package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var directiveSchema = mustSchema(`{
	"type": "object",
	"required": ["function_name", "parameters"],
	"properties": {
		"function_name": {"type": "string", "minLength": 1},
		"parameters": {"type": "array"}
	}
}`)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return schema
}

// ParseDirective decodes a model response. Numbers keep their literal text
// as json.Number so integer parameters survive intact.
func ParseDirective(text string) (Directive, error) {
	trimmed := strings.TrimSpace(text)

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Response: text, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Response: text, Err: errors.New("unexpected data after JSON object")}
	}

	result, err := directiveSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &ParseError{Response: text, Err: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &ParseError{Response: text, Err: fmt.Errorf("validation errors: %s", strings.Join(msgs, "; "))}
	}

	obj := doc.(map[string]any)
	name := obj["function_name"].(string)
	params := obj["parameters"].([]any)

	if name == FinalAnswerName {
		var value any
		if len(params) > 0 {
			value = params[0]
		}
		return FinalAnswer{Value: value}, nil
	}
	return ToolCall{Name: name, Params: params}, nil
}
