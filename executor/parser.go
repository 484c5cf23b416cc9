package executor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BaSui01/dynabaml/schema"
	"github.com/BaSui01/dynabaml/types"
)

// ParseResponse validates and coerces a raw backend payload against the
// compiled schema's root type. Every failure is a RESPONSE_PARSING error
// carrying the raw payload and the expected type path.
func ParseResponse(raw string, cs *schema.CompiledSchema) (map[string]any, error) {
	text := extractJSON(raw)
	if text == "" {
		return nil, parseErr(raw, cs.RootName, "no JSON object found in response")
	}

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, parseErr(raw, cs.RootName, "malformed JSON payload").WithCause(err)
	}

	value, err := coerce(payload, cs.Root, cs.RootName, raw)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, parseErr(raw, cs.RootName, "top-level payload is not an object")
	}
	return obj, nil
}

// extractJSON locates the JSON object in a raw completion: bare, fenced in
// markdown, or surrounded by prose.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			s = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// coerce recursively validates v against desc, converting scalars to the
// requested kind where the conversion is lossless.
func coerce(v any, desc *types.Descriptor, path, raw string) (any, error) {
	switch desc.Kind {
	case types.KindString:
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(v, "string", path, raw)
		}
		return s, nil

	case types.KindInt:
		switch n := v.(type) {
		case float64:
			if n != float64(int64(n)) {
				return nil, typeMismatch(v, "int", path, raw)
			}
			return int64(n), nil
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil {
				return nil, typeMismatch(v, "int", path, raw)
			}
			return i, nil
		default:
			return nil, typeMismatch(v, "int", path, raw)
		}

	case types.KindFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, typeMismatch(v, "float", path, raw)
			}
			return f, nil
		default:
			return nil, typeMismatch(v, "float", path, raw)
		}

	case types.KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return nil, typeMismatch(v, "bool", path, raw)
		default:
			return nil, typeMismatch(v, "bool", path, raw)
		}

	case types.KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(v, desc.Name, path, raw)
		}
		declared, ok := desc.HasEnumValue(s)
		if !ok {
			return nil, parseErr(raw, path,
				fmt.Sprintf("value %q is not a member of enum %s", s, desc.Name))
		}
		return declared, nil

	case types.KindObject:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, typeMismatch(v, desc.Name, path, raw)
		}
		out := make(map[string]any, len(desc.Fields))
		for _, f := range desc.Fields {
			fieldPath := path + "." + f.Name
			fv, present := m[f.Name]

			if f.Type.Kind == types.KindOptional {
				if !present || fv == nil {
					out[f.Name] = nil
					continue
				}
				coerced, err := coerce(fv, f.Type.Inner, fieldPath, raw)
				if err != nil {
					return nil, err
				}
				out[f.Name] = coerced
				continue
			}

			if !present {
				return nil, parseErr(raw, fieldPath,
					fmt.Sprintf("missing required field %q", f.Name))
			}
			coerced, err := coerce(fv, f.Type, fieldPath, raw)
			if err != nil {
				return nil, err
			}
			out[f.Name] = coerced
		}
		return out, nil

	case types.KindArray:
		items, ok := v.([]any)
		if !ok {
			return nil, typeMismatch(v, desc.Elem.TypeRef()+"[]", path, raw)
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			coerced, err := coerce(item, desc.Elem, fmt.Sprintf("%s[%d]", path, i), raw)
			if err != nil {
				return nil, err
			}
			out = append(out, coerced)
		}
		return out, nil

	case types.KindOptional:
		if v == nil {
			return nil, nil
		}
		return coerce(v, desc.Inner, path, raw)

	default:
		return nil, parseErr(raw, path, fmt.Sprintf("unsupported descriptor kind %s", desc.Kind))
	}
}

func typeMismatch(v any, want, path, raw string) *types.Error {
	return parseErr(raw, path, fmt.Sprintf("expected %s, got %T", want, v))
}

func parseErr(raw, path, msg string) *types.Error {
	return types.NewError(types.ErrResponseParsing, msg).
		WithTypePath(path).
		WithDiagnostic(raw)
}
