package toolexecutor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name     string
		param    Parameter
		value    any
		expected any
	}{
		{"integer from number", Parameter{Type: "integer"}, json.Number("42"), int64(42)},
		{"integer from text", Parameter{Type: "integer"}, "7", int64(7)},
		{"integer truncates", Parameter{Type: "integer"}, json.Number("3.9"), int64(3)},
		{"integer truncates negative", Parameter{Type: "integer"}, json.Number("-3.9"), int64(-3)},
		{"integer from bool", Parameter{Type: "integer"}, true, int64(1)},
		{"number from text", Parameter{Type: "number"}, "2.5", 2.5},
		{"number from number", Parameter{Type: "number"}, json.Number("10"), 10.0},
		{"boolean text true", Parameter{Type: "boolean"}, "TRUE", true},
		{"boolean text other", Parameter{Type: "boolean"}, "yes", false},
		{"boolean truthy number", Parameter{Type: "boolean"}, json.Number("2"), true},
		{"boolean zero", Parameter{Type: "boolean"}, json.Number("0"), false},
		{"boolean empty list", Parameter{Type: "boolean"}, []any{}, false},
		{"array as is", Parameter{Type: "array"}, []any{json.Number("1"), "x"}, []any{json.Number("1"), "x"}},
		{"array text integers", Parameter{Type: "array", ItemsType: "integer"}, "[1, 2,3]", []any{int64(1), int64(2), int64(3)}},
		{"array text numbers", Parameter{Type: "array", ItemsType: "number"}, "1.5,2", []any{1.5, 2.0}},
		{"array text strings", Parameter{Type: "array"}, "[a, b]", []any{"a", "b"}},
		{"array empty text", Parameter{Type: "array", ItemsType: "integer"}, "[]", []any{}},
		{"string from number", Parameter{Type: "string"}, json.Number("73"), "73"},
		{"unknown type stringifies", Parameter{}, true, "true"},
		{"string list", Parameter{Type: "string"}, []any{"a"}, `["a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceValue(tt.param, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoerceValueErrors(t *testing.T) {
	tests := []struct {
		name  string
		param Parameter
		value any
	}{
		{"integer from word", Parameter{Type: "integer"}, "abc"},
		{"integer from decimal text", Parameter{Type: "integer"}, "3.5"},
		{"integer from list", Parameter{Type: "integer"}, []any{}},
		{"integer beyond int64", Parameter{Type: "integer"}, json.Number("99999999999999999999")},
		{"integer text beyond int64", Parameter{Type: "integer"}, "99999999999999999999"},
		{"number from word", Parameter{Type: "number"}, "abc"},
		{"number from nil", Parameter{Type: "number"}, nil},
		{"array from number", Parameter{Type: "array"}, json.Number("5")},
		{"array bad item", Parameter{Type: "array", ItemsType: "integer"}, "[1, x]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CoerceValue(tt.param, tt.value)
			assert.Error(t, err)
		})
	}
}

func TestCoerce(t *testing.T) {
	params := []Parameter{
		{Name: "b", Type: "integer"},
		{Name: "a", Type: "integer"},
	}

	t.Run("positional in declaration order", func(t *testing.T) {
		args, err := Coerce(params, []any{json.Number("2"), "3"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, args.Keys())

		data, err := json.Marshal(args)
		require.NoError(t, err)
		assert.JSONEq(t, `{"b":2,"a":3}`, string(data))
		assert.Equal(t, `{"b":2,"a":3}`, string(data))
		assert.Equal(t, "{b: 2, a: 3}", args.String())
	})

	t.Run("extra values dropped", func(t *testing.T) {
		args, err := Coerce(params, []any{json.Number("1"), json.Number("2"), json.Number("3")})
		require.NoError(t, err)
		assert.Equal(t, 2, args.Len())
	})

	t.Run("missing trailing left unset", func(t *testing.T) {
		args, err := Coerce(params, []any{json.Number("1")})
		require.NoError(t, err)
		assert.Equal(t, 1, args.Len())
		_, ok := args.Get("a")
		assert.False(t, ok)
	})

	t.Run("failure names the parameter", func(t *testing.T) {
		args, err := Coerce(params, []any{json.Number("1"), "abc"})
		assert.Nil(t, args)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArgumentCoercion))

		var coercionErr *CoercionError
		require.True(t, errors.As(err, &coercionErr))
		assert.Equal(t, "a", coercionErr.Param)
		assert.Equal(t, "abc", coercionErr.Value)
		assert.Contains(t, err.Error(), "invalid value for parameter a")
	})
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "[1, 2.5, x]", FormatValue([]any{int64(1), 2.5, "x"}))
	assert.Equal(t, "null", FormatValue(nil))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "1e+21", FormatValue(1e21))
}
