package llms

import (
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// ToolTypeFunction is the only tool type produced by this module.
const ToolTypeFunction = "function"

// Tool is a tool that can be used by the model.
type Tool struct {
	// Type is the type of the tool.
	Type string `json:"type"`
	// Function is the function to call.
	Function *FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition is a definition of a function that can be called by the model.
type FunctionDefinition struct {
	// Name is the name of the function.
	Name string `json:"name"`
	// Description is a description of the function.
	Description string `json:"description"`
	// Parameters is a list of parameters for the function.
	Parameters *jsonschema.Schema `json:"parameters,omitempty"`
	// Strict is a flag to indicate if the function should be called strictly. Only used for openai.
	Strict bool `json:"strict,omitempty"`
}

// NewFunctionTool returns a function Tool
func NewFunctionTool(name, description string, params *jsonschema.Schema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: &FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

// Validate checks that tool names are set and unique
func Validate(list []Tool) error {
	seen := make(map[string]struct{}, len(list))
	for _, t := range list {
		if t.Function == nil || t.Function.Name == "" {
			return errors.New("llms: function name is required")
		}
		if _, ok := seen[t.Function.Name]; ok {
			return errors.Newf("llms: duplicate tool name %q", t.Function.Name)
		}
		seen[t.Function.Name] = struct{}{}
	}
	return nil
}
