package dataagent

import (
	"context"
	"reflect"

	"github.com/effective-security/dataagent/encoding"
	"github.com/effective-security/dataagent/pkg/llmutils"
	"github.com/effective-security/dataagent/pkg/schema"
	"github.com/effective-security/dataagent/tools"
	"github.com/invopop/jsonschema"
)

// NoInput is the input of the tools without parameters
type NoInput struct{}

// MessageInput is the input of the message tool
type MessageInput struct {
	ConversationID string `json:"conversationId" yaml:"conversationId" validate:"required" jsonschema:"minLength=1,description=The ID of the conversation."`
	Message        string `json:"message" yaml:"message" validate:"required" jsonschema:"minLength=1,description=The analysis request to send to the Data Analyst"`
}

// DataSummary is the output of the summary tool
type DataSummary struct {
	// Summary is a string or a structured value
	Summary any `json:"dataSummary"`
}

// MessageOutput is the output of the message tool
type MessageOutput struct {
	// Response is the serialized response of the analyst
	Response string `json:"response"`
}

// Action is a tool bound to one agent.
type Action[I any, O any] struct {
	name        string
	description string
	params      *jsonschema.Schema
	callback    tools.Callback

	run    func(context.Context, *I) (*O, error)
	output func(*O) (string, error)
}

var (
	_ tools.Tool[NoInput, DataSummary]             = (*Action[NoInput, DataSummary])(nil)
	_ tools.Tool[NoInput, StartConversationResult] = (*Action[NoInput, StartConversationResult])(nil)
	_ tools.Tool[MessageInput, MessageOutput]      = (*Action[MessageInput, MessageOutput])(nil)
)

func (t *Action[I, O]) Name() string {
	return t.name
}

func (t *Action[I, O]) Description() string {
	return t.description
}

func (t *Action[I, O]) Parameters() *jsonschema.Schema {
	return t.params
}

// Run executes the tool with typed input.
// The call is reported to the callback and metrics as Call does,
// with the input encoded as JSON.
func (t *Action[I, O]) Run(ctx context.Context, req *I) (*O, error) {
	if req == nil {
		req = new(I)
	}
	var res *O
	_, err := tools.Execute(ctx, t.callback, t, llmutils.ToJSON(req), func(ctx context.Context) (string, error) {
		if err := tools.ValidateInput(req); err != nil {
			return "", err
		}
		out, err := t.run(ctx, req)
		if err != nil {
			return "", err
		}
		res = out
		return t.output(out)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Call executes the tool with JSON input, and returns the text for the model.
func (t *Action[I, O]) Call(ctx context.Context, input string) (string, error) {
	return tools.Execute(ctx, t.callback, t, input, func(ctx context.Context) (string, error) {
		req, err := tools.ParseInput[I](input)
		if err != nil {
			return "", err
		}
		out, err := t.run(ctx, req)
		if err != nil {
			return "", err
		}
		return t.output(out)
	})
}

// newAction returns the tool with the description as is,
// built-in descriptions are rendered by the caller.
func newAction[I any, O any](opts *Options, name, description string) (*Action[I, O], error) {
	sc, err := schema.New(reflect.TypeFor[I]())
	if err != nil {
		return nil, err
	}
	return &Action[I, O]{
		name:        name,
		description: description,
		params:      sc.Parameters,
		callback:    opts.Callback,
	}, nil
}

// NewSummaryTool returns the tool to get the summary of the connected data.
func NewSummaryTool(opts *Options) (*Action[NoInput, DataSummary], error) {
	if opts == nil {
		opts = &Options{}
	}
	name := SummaryToolName(opts.Name)
	if opts.AgentID == "" {
		return nil, requiredValue(name, "an agentId")
	}
	agent, err := NewAgent(opts)
	if err != nil {
		return nil, err
	}

	desc, err := RenderDescription(SummaryDescription, NewDescriptionData(opts.Name))
	if err != nil {
		return nil, err
	}
	t, err := newAction[NoInput, DataSummary](opts, name, desc)
	if err != nil {
		return nil, err
	}
	t.run = func(ctx context.Context, _ *NoInput) (*DataSummary, error) {
		summary, err := agent.GetConnectedDataSummary(ctx)
		if err != nil {
			return nil, err
		}
		return &DataSummary{Summary: summary}, nil
	}
	t.output = func(out *DataSummary) (string, error) {
		return encoding.StringifyResponse(out.Summary)
	}
	return t, nil
}

// NewStartConversationTool returns the tool to start a conversation.
// The user context is resolved on each call.
func NewStartConversationTool(opts *Options) (*Action[NoInput, StartConversationResult], error) {
	if opts == nil {
		opts = &Options{}
	}
	name := StartToolName(opts.Name)
	if opts.AgentID == "" {
		return nil, requiredValue(name, "an agentId")
	}
	if opts.UserIdentifier == "" {
		return nil, requiredValue(name, "a userIdentifier")
	}
	if opts.UserContext.IsZero() {
		return nil, requiredValue(name, "a userContext")
	}
	agent, err := NewAgent(opts)
	if err != nil {
		return nil, err
	}

	desc, err := RenderDescription(StartDescription, NewDescriptionData(opts.Name))
	if err != nil {
		return nil, err
	}
	t, err := newAction[NoInput, StartConversationResult](opts, name, desc)
	if err != nil {
		return nil, err
	}
	t.run = func(ctx context.Context, _ *NoInput) (*StartConversationResult, error) {
		return agent.StartConversation(ctx)
	}
	t.output = func(out *StartConversationResult) (string, error) {
		if out.Failed() {
			return out.Failure, nil
		}
		return encoding.StringifyResponse(out)
	}
	return t, nil
}

// NewMessageTool returns the tool to send a message to a conversation.
func NewMessageTool(opts *Options) (*Action[MessageInput, MessageOutput], error) {
	if opts == nil {
		opts = &Options{}
	}
	name := MessageToolName(opts.Name)
	if opts.AgentID == "" {
		return nil, requiredValue(name, "an agentId")
	}
	agent, err := NewAgent(opts)
	if err != nil {
		return nil, err
	}

	// a custom description is used verbatim, only the default is a template
	description := opts.MessageDescription
	if description == "" {
		if description, err = RenderDescription(DefaultMessageDescription, NewDescriptionData(opts.Name)); err != nil {
			return nil, err
		}
	}
	t, err := newAction[MessageInput, MessageOutput](opts, name, description)
	if err != nil {
		return nil, err
	}
	t.run = func(ctx context.Context, req *MessageInput) (*MessageOutput, error) {
		res, err := agent.SendMessage(ctx, req.ConversationID, req.Message)
		if err != nil {
			return nil, err
		}
		return &MessageOutput{Response: res}, nil
	}
	t.output = func(out *MessageOutput) (string, error) {
		return out.Response, nil
	}
	return t, nil
}
