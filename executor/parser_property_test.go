package executor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BaSui01/dynabaml/schema"
)

// A payload whose shape matches the compiled schema must always survive the
// parse, with scalar values preserved.
func TestParseResponseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fieldName := rapid.StringMatching(`[a-z][a-z0-9_]{0,9}`)

		n := rapid.IntRange(1, 6).Draw(t, "fields")
		schemaDict := map[string]any{}
		payload := map[string]any{}
		for i := 0; i < n; i++ {
			name := fieldName.Draw(t, "name")
			if _, dup := schemaDict[name]; dup {
				continue
			}
			switch rapid.IntRange(0, 3).Draw(t, "kind") {
			case 0:
				schemaDict[name] = "string"
				payload[name] = rapid.String().Draw(t, "sval")
			case 1:
				schemaDict[name] = "int"
				payload[name] = rapid.Int64Range(-1<<52, 1<<52).Draw(t, "ival")
			case 2:
				schemaDict[name] = "float"
				payload[name] = rapid.Float64Range(-1e9, 1e9).Draw(t, "fval")
			case 3:
				schemaDict[name] = "bool"
				payload[name] = rapid.Bool().Draw(t, "bval")
			}
		}
		if len(schemaDict) == 0 {
			schemaDict["v"] = "string"
			payload["v"] = "x"
		}

		cs, err := schema.NewGenerator().Generate(schemaDict, "Root")
		require.NoError(t, err)

		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		data, err := ParseResponse(string(raw), cs)
		require.NoError(t, err)
		require.Len(t, data, len(payload))

		for name, want := range payload {
			switch schemaDict[name] {
			case "string":
				require.Equal(t, want, data[name])
			case "int":
				require.Equal(t, want, data[name])
			case "float":
				require.InDelta(t, want.(float64), data[name].(float64), 1e-9)
			case "bool":
				require.Equal(t, want, data[name])
			}
		}
	})
}
