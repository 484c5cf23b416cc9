package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/dynabaml/schema"
	"github.com/BaSui01/dynabaml/types"
)

func compile(t *testing.T, schemaDict map[string]any) *schema.CompiledSchema {
	t.Helper()
	cs, err := schema.NewGenerator().Generate(schemaDict, "Root")
	require.NoError(t, err)
	return cs
}

func TestParseResponseFlatObject(t *testing.T) {
	cs := compile(t, map[string]any{"name": "string", "age": "int"})

	data, err := ParseResponse(`{"name": "John Doe", "age": 30}`, cs)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", data["name"])
	assert.Equal(t, int64(30), data["age"])
}

func TestParseResponseFencedJSON(t *testing.T) {
	cs := compile(t, map[string]any{"name": "string"})

	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"name\": \"Ana\"}\n```"},
		{"bare fence", "```\n{\"name\": \"Ana\"}\n```"},
		{"prose around object", "Sure, here is the data: {\"name\": \"Ana\"} hope that helps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseResponse(tt.raw, cs)
			require.NoError(t, err)
			assert.Equal(t, "Ana", data["name"])
		})
	}
}

func TestParseResponseEnumNormalization(t *testing.T) {
	cs := compile(t, map[string]any{
		"status": map[string]any{"type": "enum", "values": []any{"active", "on-hold"}},
	})

	// the declared spelling wins regardless of the response casing
	data, err := ParseResponse(`{"status": "ACTIVE"}`, cs)
	require.NoError(t, err)
	assert.Equal(t, "active", data["status"])

	data, err = ParseResponse(`{"status": "ON_HOLD"}`, cs)
	require.NoError(t, err)
	assert.Equal(t, "on-hold", data["status"])

	_, err = ParseResponse(`{"status": "archived"}`, cs)
	require.Error(t, err)
	assert.Equal(t, types.ErrResponseParsing, types.GetErrorCode(err))
}

func TestParseResponseOptionalFields(t *testing.T) {
	cs := compile(t, map[string]any{
		"name":  "string",
		"email": map[string]any{"type": "string", "optional": true},
	})

	// missing optional materializes as explicit nil
	data, err := ParseResponse(`{"name": "Ana"}`, cs)
	require.NoError(t, err)
	v, present := data["email"]
	assert.True(t, present)
	assert.Nil(t, v)

	// explicit null stays nil
	data, err = ParseResponse(`{"name": "Ana", "email": null}`, cs)
	require.NoError(t, err)
	assert.Nil(t, data["email"])

	// provided optional is validated
	data, err = ParseResponse(`{"name": "Ana", "email": "a@b.c"}`, cs)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", data["email"])

	_, err = ParseResponse(`{"name": "Ana", "email": 7}`, cs)
	require.Error(t, err)
}

func TestParseResponseMissingRequired(t *testing.T) {
	cs := compile(t, map[string]any{"name": "string", "age": "int"})

	_, err := ParseResponse(`{"name": "Ana"}`, cs)
	require.Error(t, err)

	e := types.AsError(err)
	assert.Equal(t, types.ErrResponseParsing, e.Code)
	assert.Equal(t, "Root.age", e.TypePath)
	assert.Contains(t, e.Message, "missing required field")
}

func TestParseResponseScalarCoercion(t *testing.T) {
	cs := compile(t, map[string]any{
		"count": "int",
		"score": "float",
		"done":  "bool",
	})

	data, err := ParseResponse(`{"count": "42", "score": "3.14", "done": "true"}`, cs)
	require.NoError(t, err)
	assert.Equal(t, int64(42), data["count"])
	assert.Equal(t, 3.14, data["score"])
	assert.Equal(t, true, data["done"])

	// ints accept integral floats but not fractional ones
	data, err = ParseResponse(`{"count": 42, "score": 3, "done": false}`, cs)
	require.NoError(t, err)
	assert.Equal(t, int64(42), data["count"])
	assert.Equal(t, float64(3), data["score"])

	_, err = ParseResponse(`{"count": 4.5, "score": 1, "done": true}`, cs)
	require.Error(t, err)
}

func TestParseResponseNestedAndArrays(t *testing.T) {
	cs := compile(t, map[string]any{
		"name":    "string",
		"address": map[string]any{"city": "string"},
		"tags":    []any{"string"},
	})

	data, err := ParseResponse(`{
		"name": "Ana",
		"address": {"city": "Lisbon"},
		"tags": ["a", "b"]
	}`, cs)
	require.NoError(t, err)

	addr, ok := data["address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lisbon", addr["city"])
	assert.Equal(t, []any{"a", "b"}, data["tags"])

	// array element type paths carry the index
	_, err = ParseResponse(`{"name": "Ana", "address": {"city": "x"}, "tags": ["a", 3]}`, cs)
	require.Error(t, err)
	assert.Equal(t, "Root.tags[1]", types.AsError(err).TypePath)
}

func TestParseResponseExtraFieldsIgnored(t *testing.T) {
	cs := compile(t, map[string]any{"name": "string"})

	data, err := ParseResponse(`{"name": "Ana", "hallucinated": 1}`, cs)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ana"}, data)
}

func TestParseResponseMalformed(t *testing.T) {
	cs := compile(t, map[string]any{"name": "string"})

	tests := []struct {
		name string
		raw  string
	}{
		{"no object", "I cannot answer that."},
		{"truncated", `{"name": "Ana"`},
		{"broken json", `{"name": }`},
		{"array without object", `["Ana", "Bob"]`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw, cs)
			require.Error(t, err)

			e := types.AsError(err)
			assert.Equal(t, types.ErrResponseParsing, e.Code)
			assert.Equal(t, tt.raw, e.Diagnostic, "raw payload must be preserved")
		})
	}
}
