package toolexecutor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParameters(t *testing.T) {
	t.Run("keeps declaration order", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"b":{"type":"integer"},"a":{"type":"integer"},"c":{"type":"array","items":{"type":"number"}}}}`)

		params, err := ParseParameters(schema)
		require.NoError(t, err)
		require.Len(t, params, 3)
		assert.Equal(t, "b", params[0].Name)
		assert.Equal(t, "a", params[1].Name)
		assert.Equal(t, "c", params[2].Name)
		assert.Equal(t, "array", params[2].Type)
		assert.Equal(t, "number", params[2].ItemsType)
	})

	t.Run("no properties", func(t *testing.T) {
		params, err := ParseParameters(json.RawMessage(`{"type":"object"}`))
		require.NoError(t, err)
		assert.Empty(t, params)
	})

	t.Run("empty schema", func(t *testing.T) {
		params, err := ParseParameters(nil)
		require.NoError(t, err)
		assert.Nil(t, params)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, schema := range []string{`[1,2]`, `{"properties":[1]}`, `{"properties":{"a":3}}`, `{not json`} {
			_, err := ParseParameters(json.RawMessage(schema))
			assert.Error(t, err, schema)
		}
	})
}

func TestDescribe(t *testing.T) {
	t.Run("formats each tool", func(t *testing.T) {
		tools := []Descriptor{
			{
				Name:        "add",
				Description: "Add two numbers",
				Schema:      json.RawMessage(`{"type":"object","properties":{"a":{"type":"integer"},"b":{"type":"integer"}}}`),
			},
			{
				Name:        "strings_to_chars_to_int",
				Description: "Return the ASCII values of the characters in a word",
				Schema:      json.RawMessage(`{"type":"object","properties":{"string":{"type":"string"}}}`),
			},
		}

		expected := "1. add(a: integer, b: integer) - Add two numbers\n" +
			"2. strings_to_chars_to_int(string: string) - Return the ASCII values of the characters in a word"
		assert.Equal(t, expected, Describe(tools))
	})

	t.Run("fallbacks", func(t *testing.T) {
		tools := []Descriptor{
			{Schema: json.RawMessage(`{"type":"object"}`)},
			{Name: "mystery", Schema: json.RawMessage(`{"type":"object","properties":{"x":{}}}`)},
		}

		expected := "1. tool_0(no parameters) - No description available\n" +
			"2. mystery(x: unknown) - No description available"
		assert.Equal(t, expected, Describe(tools))
	})

	t.Run("malformed entry degrades alone", func(t *testing.T) {
		tools := []Descriptor{
			{Name: "broken", Description: "bad", Schema: json.RawMessage(`{"properties":"nope"}`)},
			{Name: "ping", Description: "Health check", Schema: json.RawMessage(`{"type":"object","properties":{}}`)},
		}

		expected := "1. Error processing tool\n" +
			"2. ping() - Health check"
		assert.Equal(t, expected, Describe(tools))
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Equal(t, "", Describe(nil))
	})
}

func TestLookup(t *testing.T) {
	tools := []Descriptor{{Name: "add"}, {Name: "verify"}}

	d, ok := Lookup(tools, "verify")
	assert.True(t, ok)
	assert.Equal(t, "verify", d.Name)

	_, ok = Lookup(tools, "subtract")
	assert.False(t, ok)

	assert.Equal(t, []string{"add", "verify"}, Names(tools))
}
