package openai

import (
	"encoding/json"

	"github.com/effective-security/dataagent/pkg/llms"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/responses"
	"github.com/tidwall/sjson"
)

// ToTools converts tool definitions to Responses API function tools.
// Returns nil if no tools are provided.
func ToTools(tools []llms.Tool) []responses.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	res := make([]responses.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		if tool.Function == nil {
			continue
		}
		fn := &responses.FunctionToolParam{
			Name:       tool.Function.Name,
			Parameters: parametersMap(tool.Function),
			Strict:     param.NewOpt(tool.Function.Strict),
		}
		if tool.Function.Description != "" {
			fn.Description = param.NewOpt(tool.Function.Description)
		}
		res = append(res, responses.ToolUnionParam{OfFunction: fn})
	}
	return res
}

func parametersMap(fn *llms.FunctionDefinition) map[string]any {
	m := map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
	if fn.Parameters == nil {
		return m
	}
	js, err := json.Marshal(fn.Parameters)
	if err != nil {
		return m
	}
	// strict mode requires closed objects
	if fn.Strict {
		if js, err = sjson.SetBytes(js, "additionalProperties", false); err != nil {
			return m
		}
	}
	var decoded map[string]any
	if err = json.Unmarshal(js, &decoded); err != nil {
		return m
	}
	for k, v := range decoded {
		m[k] = v
	}
	return m
}
