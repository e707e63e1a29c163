// Package encoding provides serializers that turn a completed data analyst
// response into the text handed back to the model.
package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Serializer converts a raw response into the tool output.
type Serializer func(response any) (string, error)

type Mode = string

const (
	ModeJSON       Mode = "json"
	ModeJSONIndent Mode = "json_indent"
	ModeYAML       Mode = "yaml"
	ModeTOML       Mode = "toml"
	ModePlainText  Mode = "plain_text"
)

// ModeDefault is the default mode for the serializer.
// Allow to override in apps
var ModeDefault = ModeJSON

// StringifyResponse is the default Serializer:
// strings are returned as is, nil is encoded as `null`,
// everything else is encoded as JSON.
func StringifyResponse(response any) (string, error) {
	if s, ok := response.(string); ok {
		return s, nil
	}
	if isNil(response) {
		return "null", nil
	}
	js, err := json.Marshal(response)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return string(js), nil
}

// NewSerializer returns the predefined Serializer for the mode.
// Empty mode selects ModeDefault.
func NewSerializer(mode Mode) (Serializer, error) {
	if mode == "" {
		mode = ModeDefault
	}
	switch mode {
	case ModeJSON:
		return StringifyResponse, nil
	case ModeJSONIndent:
		return stringifyIndent, nil
	case ModeYAML:
		return stringifyYAML, nil
	case ModeTOML:
		return stringifyTOML, nil
	case ModePlainText:
		return stringifyPlain, nil
	default:
		return nil, errors.Newf("no predefined serializer: %s", mode)
	}
}

// MustSerializer is like NewSerializer but panics on unknown mode
func MustSerializer(mode Mode) Serializer {
	s, err := NewSerializer(mode)
	if err != nil {
		panic(err)
	}
	return s
}

func stringifyIndent(response any) (string, error) {
	if s, ok := response.(string); ok {
		return s, nil
	}
	if isNil(response) {
		return "null", nil
	}
	js, err := json.MarshalIndent(response, "", "\t")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return string(js), nil
}

func stringifyYAML(response any) (string, error) {
	if s, ok := response.(string); ok {
		return s, nil
	}
	v, err := toGeneric(response)
	if err != nil {
		return "", err
	}
	bs, err := yaml.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return string(bs), nil
}

func stringifyTOML(response any) (string, error) {
	if s, ok := response.(string); ok {
		return s, nil
	}
	if isNil(response) {
		return "null", nil
	}
	v, err := toGeneric(response)
	if err != nil {
		return "", err
	}
	// TOML document must be a table
	if _, ok := v.(map[string]any); !ok {
		v = map[string]any{"response": v}
	}
	var buf bytes.Buffer
	if err = toml.NewEncoder(&buf).Encode(v); err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return buf.String(), nil
}

func stringifyPlain(response any) (string, error) {
	if s, ok := response.(fmt.Stringer); ok && !isNil(response) {
		return strings.TrimSpace(s.String()), nil
	}
	return StringifyResponse(response)
}

// toGeneric converts the value into maps and slices,
// so field names follow the JSON tags in every mode.
func toGeneric(response any) (any, error) {
	if isNil(response) {
		return nil, nil
	}
	js, err := json.Marshal(response)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal response")
	}
	var v any
	if err = json.Unmarshal(js, &v); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}
	return v, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
