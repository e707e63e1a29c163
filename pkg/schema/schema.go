package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.Mutex
)

// Schema describes the input of a tool
type Schema struct {
	RawSchema *jsonschema.Schema
	// Parameters represents the Function parameters definition
	Parameters *jsonschema.Schema
}

// New creates a new schema from the given struct type.
// Schemas are cached per type.
func New(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, errors.New("schema: nil type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Newf("schema: unsupported type %s, expected struct", t.String())
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if s, ok := cache[t]; ok {
		return s, nil
	}

	raw := JSONSchema(t)
	s := &Schema{
		RawSchema:  raw,
		Parameters: ToFunctionSchema(raw),
	}
	cache[t] = s

	return s, nil
}

// MustNew is like New but panics on error.
// Use for package level tool definitions only.
func MustNew(t reflect.Type) *Schema {
	s, err := New(t)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) String() string {
	js, _ := json.MarshalIndent(s.Parameters, "", "\t")
	return string(js)
}

// Map returns Parameters as a generic map,
// the form expected by most provider SDKs.
func (s *Schema) Map() map[string]any {
	js, _ := json.Marshal(s.Parameters)
	var m map[string]any
	_ = json.Unmarshal(js, &m)
	return m
}

// ToFunctionSchema returns the top level object schema of a reflected type,
// with all references inlined.
func ToFunctionSchema(tSchema *jsonschema.Schema) *jsonschema.Schema {
	refID := strings.TrimPrefix(tSchema.Ref, "#/$defs/")

	defs := make(map[string]*jsonschema.Schema)
	root := tSchema
	for name, def := range tSchema.Definitions {
		if name == refID {
			root = def
		} else {
			defs[name] = def
		}
	}

	props := root.Properties
	if props == nil {
		props = orderedmap.New[string, *jsonschema.Schema]()
	}

	res := &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   root.Required,
	}
	inlineRefs(res.Properties, defs)
	return res
}

func inlineRefs(props *orderedmap.OrderedMap[string, *jsonschema.Schema], defs map[string]*jsonschema.Schema) {
	if props == nil {
		return
	}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		if def, ok := lookupRef(pair.Value.Ref, defs); ok {
			pair.Value = def
		}
		child := pair.Value
		inlineRefs(child.Properties, defs)
		if child.Items != nil {
			if def, ok := lookupRef(child.Items.Ref, defs); ok {
				child.Items = def
			}
			inlineRefs(child.Items.Properties, defs)
		}
	}
}

func lookupRef(ref string, defs map[string]*jsonschema.Schema) (*jsonschema.Schema, bool) {
	if ref == "" {
		return nil, false
	}
	def, ok := defs[strings.TrimPrefix(ref, "#/$defs/")]
	return def, ok
}

// JSONSchema returns the json schema of the type
func JSONSchema(t reflect.Type) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	// Struct names may repeat across packages,
	// so the definition name includes a hash of the package path.
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		if t.Kind() == reflect.Struct {
			fullname := t.PkgPath() + "/" + name
			name = name + "@" + strconv.FormatUint(xxhash.Sum64String(fullname), 10)
		}
		return name
	}

	return r.ReflectFromType(t)
}
