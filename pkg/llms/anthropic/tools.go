package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/effective-security/dataagent/pkg/llms"
)

// ToTools converts tool definitions to Anthropic SDK tool parameters.
//
// Properties are copied from the ordered map into a regular map,
// as required by the SDK. Returns nil if no tools are provided.
func ToTools(tools []llms.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	sdkTools := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		if tool.Function == nil {
			continue
		}

		properties := map[string]any{}
		if params := tool.Function.Parameters; params != nil && params.Properties != nil {
			for pair := params.Properties.Oldest(); pair != nil; pair = pair.Next() {
				properties[pair.Key] = pair.Value
			}
		}

		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: properties,
		}
		if tool.Function.Parameters != nil && len(tool.Function.Parameters.Required) > 0 {
			inputSchema.Required = tool.Function.Parameters.Required
		}

		sdkTools = append(sdkTools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Function.Name,
				Description: anthropic.String(tool.Function.Description),
				InputSchema: inputSchema,
			},
		})
	}
	return sdkTools
}
