package tools_test

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/mocks/mocktools"
	"github.com/effective-security/dataagent/pkg/schema"
	"github.com/effective-security/dataagent/tools"
	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type askRequest struct {
	Question string `json:"question" validate:"required"`
	Limit    int    `json:"limit,omitempty" validate:"gte=0"`
}

type fakeTool struct {
	name string
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "useful tool" }
func (f *fakeTool) Parameters() *jsonschema.Schema {
	return schema.MustNew(reflect.TypeOf(askRequest{})).Parameters
}
func (f *fakeTool) Call(context.Context, string) (string, error) { return "", nil }

func TestParseInput(t *testing.T) {
	req, err := tools.ParseInput[askRequest](`Sure: {"question":"top customers","limit":5}`)
	require.NoError(t, err)
	assert.Equal(t, &askRequest{Question: "top customers", Limit: 5}, req)

	_, err = tools.ParseInput[askRequest]("plain string")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
	assert.EqualError(t, err, "failed to unmarshal input: check the schema and try again")

	_, err = tools.ParseInput[askRequest](`{"question":""}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
	assert.Contains(t, err.Error(), "invalid input: ")
	assert.Contains(t, err.Error(), "'required' tag")

	_, err = tools.ParseInput[askRequest](`{"question":"q","limit":-1}`)
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))

	empty, err := tools.ParseInput[struct{}]("")
	require.NoError(t, err)
	assert.NotNil(t, empty)
}

func TestExecute(t *testing.T) {
	ctrl := gomock.NewController(t)
	cb := mocktools.NewMockCallback(ctrl)
	tool := &fakeTool{name: "ask"}
	ctx := context.Background()

	gomock.InOrder(
		cb.EXPECT().OnToolStart(ctx, tool, "in"),
		cb.EXPECT().OnToolEnd(ctx, tool, "in", "out"),
	)
	out, err := tools.Execute(ctx, cb, tool, "in", func(context.Context) (string, error) {
		return "out", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "out", out)

	failure := errors.New("boom")
	gomock.InOrder(
		cb.EXPECT().OnToolStart(ctx, tool, "in"),
		cb.EXPECT().OnToolError(ctx, tool, "in", failure),
	)
	_, err = tools.Execute(ctx, cb, tool, "in", func(context.Context) (string, error) {
		return "", failure
	})
	assert.Equal(t, failure, err)

	// nil callback
	out, err = tools.Execute(ctx, nil, tool, "in", func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestDescriptions(t *testing.T) {
	list := []tools.ITool{&fakeTool{name: "b"}, &fakeTool{name: "a"}}
	tools.SortByName(list)
	assert.Equal(t, "a", list[0].Name())

	exp := "\n```json\n" + `{
	"Tools": [
		{
			"Name": "a",
			"Description": "useful tool"
		},
		{
			"Name": "b",
			"Description": "useful tool"
		}
	]
}` + "\n```\n"
	assert.Equal(t, exp, tools.GetDescriptions(list...))

	defs := tools.ToLLMTools(list...)
	require.Len(t, defs, 2)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "a", defs[0].Function.Name)
	assert.Equal(t, "useful tool", defs[0].Function.Description)
	assert.Equal(t, []string{"question"}, defs[0].Function.Parameters.Required)
}

func TestCallbacks(t *testing.T) {
	var buf bytes.Buffer
	cb := tools.NewPrinterCallback(&buf)
	tool := &fakeTool{name: "test-tool"}
	ctx := context.Background()

	cb.OnToolStart(ctx, tool, "test input")
	cb.OnToolEnd(ctx, tool, "test input", "test output")
	cb.OnToolError(ctx, tool, "test input", errors.New("test error"))

	res := buf.String()
	assert.Contains(t, res, "Tool Start: test-tool")
	assert.Contains(t, res, "Input: test input")
	assert.Contains(t, res, "Tool End: test-tool")
	assert.Contains(t, res, "Output: test output")
	assert.Contains(t, res, "Tool Error: test-tool: test error")

	lcb := tools.NewLoggerCallback(xlog.NewPackageLogger("github.com/effective-security/dataagent", "tools_test"))
	assert.NotPanics(t, func() {
		lcb.OnToolStart(ctx, tool, "test input")
		lcb.OnToolEnd(ctx, tool, "test input", "test output")
		lcb.OnToolError(ctx, tool, "test input", errors.New("test error"))
	})
}
