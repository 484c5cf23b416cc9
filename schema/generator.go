// Package schema compiles loosely-typed schema descriptions into BAML
// class/enum definitions plus the descriptor model used for response
// validation.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BaSui01/dynabaml/types"
)

// MaxDepth bounds schema nesting. Input deeper than this is rejected rather
// than recursed into, which also guards against cyclic descriptions built
// from shared mutable maps.
const MaxDepth = 32

// Entry is one field declaration. A slice of entries is the ordered form of
// a schema description; declaration order governs the emitted field order.
type Entry struct {
	Name  string
	Value any
}

// CompiledSchema is the output of a generation call: the BAML source text,
// the root type name, and the descriptor tree the parser validates against.
type CompiledSchema struct {
	RootName string
	Root     *types.Descriptor
	Code     string
}

// Generator compiles schema descriptions. A Generator is stateless and safe
// for concurrent use; all per-call state lives in the generation pass.
type Generator struct{}

// NewGenerator returns a ready Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// genPass holds the mutable state of one generation call.
type genPass struct {
	blocks   []string                     // emitted class/enum blocks, nested first
	declared map[string]*types.Descriptor // generated name -> descriptor
	taken    map[string]struct{}          // names already claimed this pass
}

// Generate compiles schemaDict into BAML source rooted at rootName.
//
// Go maps carry no declaration order, so fields are emitted in sorted key
// order; the output is therefore byte-stable for identical input. Callers
// that need explicit field ordering use GenerateOrdered.
func (g *Generator) Generate(schemaDict map[string]any, rootName string) (*CompiledSchema, error) {
	if len(schemaDict) == 0 {
		return nil, types.NewError(types.ErrSchemaGeneration, "schema description is empty").
			WithFragment(schemaDict)
	}
	return g.GenerateOrdered(sortedEntries(schemaDict), rootName)
}

// GenerateOrdered compiles an ordered schema description rooted at rootName.
// Field declarations are emitted in the given order.
func (g *Generator) GenerateOrdered(fields []Entry, rootName string) (*CompiledSchema, error) {
	if len(fields) == 0 {
		return nil, types.NewError(types.ErrSchemaGeneration, "schema description is empty").
			WithFragment(fields)
	}
	if strings.TrimSpace(rootName) == "" {
		return nil, types.NewError(types.ErrSchemaGeneration, "schema name is empty")
	}

	pass := &genPass{
		declared: make(map[string]*types.Descriptor),
		taken:    make(map[string]struct{}),
	}

	rootName = pass.claimName(titleCase(rootName))
	root, err := pass.buildObject(fields, rootName, nil, 1)
	if err != nil {
		return nil, err
	}

	return &CompiledSchema{
		RootName: rootName,
		Root:     root,
		Code:     strings.Join(pass.blocks, "\n\n") + "\n",
	}, nil
}

// buildObject resolves an object's fields, emits nested definitions bottom-up
// and finally the object's own class block.
func (p *genPass) buildObject(fields []Entry, name string, path []string, depth int) (*types.Descriptor, error) {
	if depth > MaxDepth {
		return nil, types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("schema nesting exceeds depth limit %d at %q", MaxDepth, strings.Join(path, "."))).
			WithFragment(strings.Join(path, "."))
	}

	seen := make(map[string]struct{}, len(fields))
	resolved := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, types.NewError(types.ErrSchemaGeneration, "field name is empty").
				WithFragment(f.Value)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, types.NewError(types.ErrSchemaGeneration,
				fmt.Sprintf("duplicate field %q in %s", f.Name, name)).
				WithFragment(f.Name)
		}
		seen[f.Name] = struct{}{}

		// nil field definitions are skipped, matching lenient input handling
		// for mappings that carry explicit nulls.
		if f.Value == nil {
			continue
		}

		d, err := p.resolve(f.Value, childPath(path, f.Name), depth)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, types.Field{Name: f.Name, Type: d})
	}

	if len(resolved) == 0 {
		return nil, types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("object %s declares no usable fields", name)).
			WithFragment(strings.Join(path, "."))
	}

	desc := types.Object(name, resolved)
	p.declared[name] = desc
	p.blocks = append(p.blocks, renderClass(name, resolved))
	return desc, nil
}

// resolve classifies one field definition into a descriptor, emitting any
// nested class/enum blocks it requires.
func (p *genPass) resolve(def any, path []string, depth int) (*types.Descriptor, error) {
	if depth > MaxDepth {
		return nil, types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("schema nesting exceeds depth limit %d at %q", MaxDepth, strings.Join(path, "."))).
			WithFragment(strings.Join(path, "."))
	}

	switch v := def.(type) {
	case string:
		return p.resolveTypeName(v, path)

	case []any:
		if len(v) != 1 {
			return nil, types.NewError(types.ErrSchemaGeneration,
				fmt.Sprintf("array type at %q must contain exactly one element type, got %d", strings.Join(path, "."), len(v))).
				WithFragment(v)
		}
		elem, err := p.resolve(v[0], childPath(path, "item"), depth+1)
		if err != nil {
			return nil, err
		}
		return types.Array(elem), nil

	case []string:
		if len(v) != 1 {
			return nil, types.NewError(types.ErrSchemaGeneration,
				fmt.Sprintf("array type at %q must contain exactly one element type, got %d", strings.Join(path, "."), len(v))).
				WithFragment(v)
		}
		elem, err := p.resolveTypeName(v[0], childPath(path, "item"))
		if err != nil {
			return nil, err
		}
		return types.Array(elem), nil

	case []Entry:
		return p.buildObject(v, p.pathName(path, "Class"), path, depth+1)

	case map[string]any:
		return p.resolveMapping(v, path, depth)

	default:
		return nil, types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("unrecognized field definition at %q (%T)", strings.Join(path, "."), def)).
			WithFragment(def)
	}
}

// resolveMapping handles the three mapping shapes: enum definitions, typed
// field definitions carrying "type" (with optional marker), and plain nested
// objects.
func (p *genPass) resolveMapping(m map[string]any, path []string, depth int) (*types.Descriptor, error) {
	typeVal, hasType := m["type"]

	// Plain nested mapping: anonymous object named from the field path.
	if !hasType {
		return p.buildObject(sortedEntries(m), p.pathName(path, "Class"), path, depth+1)
	}

	optional := false
	if rawOpt, ok := m["optional"]; ok {
		b, isBool := rawOpt.(bool)
		if !isBool {
			return nil, types.NewError(types.ErrSchemaGeneration,
				fmt.Sprintf("optional marker at %q must be a bool, got %T", strings.Join(path, "."), rawOpt)).
				WithFragment(rawOpt)
		}
		optional = b
	}

	var inner *types.Descriptor
	var err error
	switch tv := typeVal.(type) {
	case string:
		if tv == "enum" {
			inner, err = p.buildEnum(m, path)
		} else {
			inner, err = p.resolveTypeName(tv, path)
		}
	case map[string]any:
		inner, err = p.buildObject(sortedEntries(tv), p.pathName(path, "Class"), path, depth+1)
	case []Entry:
		inner, err = p.buildObject(tv, p.pathName(path, "Class"), path, depth+1)
	case []any:
		inner, err = p.resolve(tv, path, depth+1)
	default:
		err = types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("unrecognized type declaration at %q (%T)", strings.Join(path, "."), typeVal)).
			WithFragment(typeVal)
	}
	if err != nil {
		return nil, err
	}

	if optional {
		return types.Optional(inner), nil
	}
	return inner, nil
}

// buildEnum validates and emits an enum definition.
func (p *genPass) buildEnum(m map[string]any, path []string) (*types.Descriptor, error) {
	at := strings.Join(path, ".")
	raw, ok := m["values"]
	if !ok {
		return nil, types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("enum at %q declares no values", at)).WithFragment(m)
	}

	values, err := stringSlice(raw)
	if err != nil {
		return nil, types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("enum values at %q must be strings", at)).WithFragment(raw)
	}
	if len(values) == 0 {
		return nil, types.NewError(types.ErrSchemaGeneration,
			fmt.Sprintf("enum at %q declares no values", at)).WithFragment(m)
	}

	// Uniqueness is checked on the emitted identifiers: "a-b" and "a_b"
	// would collide in the compiled schema even though they differ here.
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		ident := types.EnumValueIdent(v)
		if _, dup := seen[ident]; dup {
			return nil, types.NewError(types.ErrSchemaGeneration,
				fmt.Sprintf("duplicate enum value %q at %q", v, at)).WithFragment(v)
		}
		seen[ident] = struct{}{}
	}

	name := p.pathName(path, "Enum")
	desc := types.Enum(name, values)
	p.declared[name] = desc
	p.blocks = append(p.blocks, renderEnum(name, values))
	return desc, nil
}

// resolveTypeName maps a bare type name to a primitive descriptor or a
// reference to a previously generated named type.
func (p *genPass) resolveTypeName(name string, path []string) (*types.Descriptor, error) {
	switch name {
	case "string", "str":
		return types.Primitive(types.KindString), nil
	case "int", "integer":
		return types.Primitive(types.KindInt), nil
	case "float", "double":
		return types.Primitive(types.KindFloat), nil
	case "bool", "boolean":
		return types.Primitive(types.KindBool), nil
	}
	if d, ok := p.declared[name]; ok {
		return d, nil
	}
	return nil, types.NewError(types.ErrSchemaGeneration,
		fmt.Sprintf("unknown field type %q at %q", name, strings.Join(path, "."))).
		WithFragment(name)
}

// pathName derives the deterministic generated name for an anonymous type
// from its full field path, then claims it against reserved words and
// already-taken names.
func (p *genPass) pathName(path []string, suffix string) string {
	var b strings.Builder
	for _, seg := range path {
		b.WriteString(titleCase(seg))
	}
	b.WriteString(suffix)
	return p.claimName(b.String())
}

// claimName reserves a name for this pass, disambiguating collisions with
// reserved words or earlier names via a monotonic counter.
func (p *genPass) claimName(base string) string {
	name := base
	for i := 2; ; i++ {
		_, used := p.taken[name]
		if !used && !isReserved(strings.ToLower(name)) {
			break
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
	p.taken[name] = struct{}{}
	return name
}

func renderClass(name string, fields []types.Field) string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(name)
	b.WriteString(" {\n")
	for _, f := range fields {
		b.WriteString("  ")
		b.WriteString(f.Name)
		b.WriteString(" ")
		b.WriteString(f.Type.TypeRef())
		if f.Type.Kind == types.KindOptional {
			b.WriteString("?")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func renderEnum(name string, values []string) string {
	var b strings.Builder
	b.WriteString("enum ")
	b.WriteString(name)
	b.WriteString(" {\n")
	for _, v := range values {
		b.WriteString("  ")
		b.WriteString(types.EnumValueIdent(v))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// childPath extends a field path without sharing the parent's backing array.
func childPath(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}

// sortedEntries converts an unordered Go map into the ordered entry form
// using lexicographic key order.
func sortedEntries(m map[string]any) []Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Name: k, Value: m[k]})
	}
	return out
}

// titleCase turns a path segment into a CamelCase name fragment:
// "home_address" -> "HomeAddress", "geo-point" -> "GeoPoint".
func titleCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func stringSlice(raw any) ([]string, error) {
	switch vs := raw.(type) {
	case []string:
		return vs, nil
	case []any:
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("non-string value %v", v)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a sequence: %T", raw)
	}
}
