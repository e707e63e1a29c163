package llmutils

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

var emptyObject = []byte("{}")

// CleanJSON returns JSON by trimming prefixes and postfixes,
// as LLM can reply like `Here you go: {json}`.
// Blank input is returned as an empty object,
// models often send nothing for tools without parameters.
func CleanJSON(bs []byte) []byte {
	bs = bytes.TrimSpace(bs)
	if len(bs) == 0 || bytes.Equal(bs, []byte("null")) {
		return emptyObject
	}
	return trimPostfix(trimPrefix(bs))
}

// trimPrefix drops anything before the first brace or bracket
func trimPrefix(bs []byte) []byte {
	start := -1
	if i := bytes.IndexAny(bs, "{["); i >= 0 {
		start = i
	}
	if start < 0 {
		return bs
	}
	return bs[start:]
}

// trimPostfix drops anything after the last brace or bracket
func trimPostfix(bs []byte) []byte {
	end := bytes.LastIndexAny(bs, "}]")
	if end < 0 {
		return bs
	}
	return bs[:end+1]
}

func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func ToYAML(val any) string {
	js, _ := yaml.Marshal(val)
	return string(js)
}

// BackticksJSON wraps JSON into a markdown code block
func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}

// Capitalize upper-cases the first rune of s
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
