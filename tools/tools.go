package tools

import (
	"context"
	"sort"
	"time"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/pkg/llms"
	"github.com/effective-security/dataagent/pkg/llmutils"
	"github.com/effective-security/dataagent/pkg/metricskey"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

var (
	// ErrFailedUnmarshalInput is returned when the tool input is not valid JSON for the tool parameters
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
	// ErrInvalidInput is returned when the tool input does not pass validation
	ErrInvalidInput = errors.New("invalid input")
)

// ITool is a tool for the llm agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() *jsonschema.Schema

	// Call executes the tool with the given input and returns the result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

var validate = validator.New()

// ParseInput decodes and validates the tool input.
// Decoding is lenient, as models can send numbers and booleans as strings.
func ParseInput[I any](input string) (*I, error) {
	var req I
	if err := ljson.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return nil, errors.WithStack(ErrFailedUnmarshalInput)
	}
	if err := ValidateInput(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ValidateInput checks the `validate` tags of the input struct.
func ValidateInput(req any) error {
	if err := validate.Struct(req); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid input"), ErrInvalidInput)
	}
	return nil
}

// Execute runs the tool call,
// reporting the call to the callback and metrics.
func Execute(ctx context.Context, cb Callback, tool ITool, input string, run func(context.Context) (string, error)) (string, error) {
	name := tool.Name()
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, name)

	if cb != nil {
		cb.OnToolStart(ctx, tool, input)
	}

	out, err := run(ctx)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		if cb != nil {
			cb.OnToolError(ctx, tool, input, err)
		}
		return "", err
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	if cb != nil {
		cb.OnToolEnd(ctx, tool, input, out)
	}
	return out, nil
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions returns the names and descriptions of the tools,
// formatted as JSON block for a prompt.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}

// ToLLMTools returns function definitions of the tools
func ToLLMTools(list ...ITool) []llms.Tool {
	res := make([]llms.Tool, 0, len(list))
	for _, tool := range list {
		res = append(res, llms.NewFunctionTool(tool.Name(), tool.Description(), tool.Parameters()))
	}
	return res
}

// SortByName sorts the tools by name
func SortByName(list []ITool) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
}
