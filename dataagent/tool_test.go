package dataagent_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/analyst"
	"github.com/effective-security/dataagent/dataagent"
	"github.com/effective-security/dataagent/mocks/mockanalyst"
	"github.com/effective-security/dataagent/mocks/mocktools"
	"github.com/effective-security/dataagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBuilders_MissingAgentID(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no calls are expected
	client := mockanalyst.NewMockClient(ctrl)

	for _, name := range []string{"", "sales"} {
		opts := newOptions(client)
		opts.AgentID = ""
		opts.Name = name

		_, err := dataagent.NewSummaryTool(opts)
		assert.True(t, errors.Is(err, dataagent.ErrConfiguration))
		assert.EqualError(t, err, dataagent.SummaryToolName(name)+" requires an agentId value")

		_, err = dataagent.NewStartConversationTool(opts)
		assert.True(t, errors.Is(err, dataagent.ErrConfiguration))
		assert.EqualError(t, err, dataagent.StartToolName(name)+" requires an agentId value")

		_, err = dataagent.NewMessageTool(opts)
		assert.True(t, errors.Is(err, dataagent.ErrConfiguration))
		assert.EqualError(t, err, dataagent.MessageToolName(name)+" requires an agentId value")

		_, err = dataagent.NewToolset(opts)
		assert.True(t, errors.Is(err, dataagent.ErrConfiguration))
	}

	_, err := dataagent.NewSummaryTool(nil)
	assert.True(t, errors.Is(err, dataagent.ErrConfiguration))

	t.Setenv(analyst.EnvAPIKey, "")
	opts := newOptions(nil)
	_, err = dataagent.NewMessageTool(opts)
	assert.True(t, errors.Is(err, dataagent.ErrConfiguration))
	assert.True(t, errors.Is(err, analyst.ErrMissingAPIKey))

	t.Setenv(analyst.EnvAPIKey, "testkey")
	_, err = dataagent.NewMessageTool(opts)
	require.NoError(t, err)
	_, err = dataagent.NewSummaryTool(opts)
	require.NoError(t, err)
}

func TestStartConversationTool_Config(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockanalyst.NewMockClient(ctrl)

	opts := newOptions(client)
	opts.UserIdentifier = ""
	_, err := dataagent.NewStartConversationTool(opts)
	assert.True(t, errors.Is(err, dataagent.ErrConfiguration))
	assert.EqualError(t, err, "startDataAgentConversation requires a userIdentifier value")

	opts = newOptions(client)
	opts.UserContext = dataagent.UserContextSource{}
	_, err = dataagent.NewStartConversationTool(opts)
	assert.True(t, errors.Is(err, dataagent.ErrConfiguration))
	assert.EqualError(t, err, "startDataAgentConversation requires a userContext value")

	// summary and message tools do not need the user
	_, err = dataagent.NewSummaryTool(opts)
	require.NoError(t, err)
	_, err = dataagent.NewMessageTool(opts)
	require.NoError(t, err)
}

func TestSummaryTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockanalyst.NewMockClient(ctrl)
	ctx := context.Background()

	tool, err := dataagent.NewSummaryTool(newOptions(client))
	require.NoError(t, err)
	assert.Equal(t, "getDataAgentConnectedDataSummary", tool.Name())
	assert.Equal(t, dataagent.SummaryDescription, tool.Description())
	assert.Equal(t, "object", tool.Parameters().Type)
	assert.Equal(t, 0, tool.Parameters().Properties.Len())

	client.EXPECT().RetrieveDataSummary(ctx, testAgentID).
		Return(&analyst.DataSummary{DataSummary: json.RawMessage(`"orders and customers"`)}, nil)
	out, err := tool.Call(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "orders and customers", out)

	client.EXPECT().RetrieveDataSummary(ctx, testAgentID).
		Return(&analyst.DataSummary{DataSummary: json.RawMessage(`{"tables": ["orders"]}`)}, nil)
	out, err = tool.Call(ctx, "{}")
	require.NoError(t, err)
	assert.Equal(t, `{"tables":["orders"]}`, out)

	client.EXPECT().RetrieveDataSummary(ctx, testAgentID).
		Return(&analyst.DataSummary{DataSummary: json.RawMessage(`{"tables": ["orders"]}`)}, nil)
	res, err := tool.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tables": []any{"orders"}}, res.Summary)
}

func TestStartConversationTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockanalyst.NewMockClient(ctrl)
	ctx := context.Background()

	opts := newOptions(client)
	opts.Name = "sales"
	tool, err := dataagent.NewStartConversationTool(opts)
	require.NoError(t, err)
	assert.Equal(t, "startSalesDataAgentConversation", tool.Name())
	assert.Contains(t, tool.Description(), "can be used with the 'messageSalesDataAgent' tool.")

	client.EXPECT().CreateConversation(ctx, testAgentID, gomock.Any()).
		Return(&analyst.Conversation{ID: "conv_1"}, nil)
	out, err := tool.Call(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, `{"conversationId":"conv_1"}`, out)

	client.EXPECT().CreateConversation(ctx, testAgentID, gomock.Any()).
		Return(&analyst.Conversation{}, nil)
	out, err = tool.Call(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, dataagent.StartConversationFailure, out)
}

func TestMessageTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockanalyst.NewMockClient(ctrl)
	cb := mocktools.NewMockCallback(ctrl)
	ctx := context.Background()

	opts := newOptions(client)
	opts.Callback = cb
	tool, err := dataagent.NewMessageTool(opts)
	require.NoError(t, err)
	assert.Equal(t, "messageDataAgent", tool.Name())
	assert.Contains(t, tool.Description(), "You can use the 'getDataAgentConnectedDataSummary' tool")
	assert.Equal(t, []string{"conversationId", "message"}, tool.Parameters().Required)

	prop, ok := tool.Parameters().Properties.Get("conversationId")
	require.True(t, ok)
	assert.Equal(t, "string", prop.Type)
	assert.Equal(t, "The ID of the conversation.", prop.Description)
	prop, ok = tool.Parameters().Properties.Get("message")
	require.True(t, ok)
	assert.Equal(t, "The analysis request to send to the Data Analyst", prop.Description)

	payload := &analyst.ConversationResponse{Type: analyst.ResponseTypeText, Message: "42"}
	input := `{"conversationId":"conv_1","message":"answer?"}`

	client.EXPECT().CreateResponse(ctx, "conv_1", &analyst.ResponseRequest{
		AgentID: testAgentID,
		Message: "answer?",
		Stream:  true,
	}).Return(analyst.NewStaticStream(progress("thinking"), completed(payload)), nil)
	gomock.InOrder(
		cb.EXPECT().OnToolStart(ctx, tool, input),
		cb.EXPECT().OnToolEnd(ctx, tool, input, `{"type":"text","message":"42"}`),
	)
	out, err := tool.Call(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"text","message":"42"}`, out)

	t.Run("invalid input", func(t *testing.T) {
		input := `{"conversationId":"conv_1"}`
		gomock.InOrder(
			cb.EXPECT().OnToolStart(ctx, tool, input),
			cb.EXPECT().OnToolError(ctx, tool, input, gomock.Any()),
		)
		_, err := tool.Call(ctx, input)
		assert.True(t, errors.Is(err, tools.ErrInvalidInput))

		input = "conv_1, answer?"
		gomock.InOrder(
			cb.EXPECT().OnToolStart(ctx, tool, input),
			cb.EXPECT().OnToolError(ctx, tool, input, gomock.Any()),
		)
		_, err = tool.Call(ctx, input)
		assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

		input = `{"conversationId":"conv_1","message":""}`
		gomock.InOrder(
			cb.EXPECT().OnToolStart(ctx, tool, input),
			cb.EXPECT().OnToolError(ctx, tool, input, gomock.Any()),
		)
		_, err = tool.Run(ctx, &dataagent.MessageInput{ConversationID: "conv_1"})
		assert.True(t, errors.Is(err, tools.ErrInvalidInput))
	})

	t.Run("run", func(t *testing.T) {
		client.EXPECT().CreateResponse(ctx, "conv_1", gomock.Any()).
			Return(analyst.NewStaticStream(completed(payload)), nil)
		gomock.InOrder(
			cb.EXPECT().OnToolStart(ctx, tool, input),
			cb.EXPECT().OnToolEnd(ctx, tool, input, `{"type":"text","message":"42"}`),
		)
		out, err := tool.Run(ctx, &dataagent.MessageInput{ConversationID: "conv_1", Message: "answer?"})
		require.NoError(t, err)
		assert.Equal(t, `{"type":"text","message":"42"}`, out.Response)
	})

	t.Run("response missing", func(t *testing.T) {
		client.EXPECT().CreateResponse(ctx, "conv_1", gomock.Any()).
			Return(analyst.NewStaticStream(progress("thinking")), nil)
		cb.EXPECT().OnToolStart(ctx, tool, input)
		cb.EXPECT().OnToolError(ctx, tool, input, gomock.Any()).
			Do(func(_ context.Context, _ tools.ITool, _ string, err error) {
				assert.True(t, errors.Is(err, dataagent.ErrResponseMissing))
			})
		_, err := tool.Call(ctx, input)
		assert.True(t, errors.Is(err, dataagent.ErrResponseMissing))
	})
}

func TestMessageTool_Description(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockanalyst.NewMockClient(ctrl)

	opts := newOptions(client)
	opts.Name = "sales"
	tool, err := dataagent.NewMessageTool(opts)
	require.NoError(t, err)
	assert.Contains(t, tool.Description(), "'getSalesDataAgentConnectedDataSummary'")
	assert.NotContains(t, tool.Description(), "{{")

	// custom descriptions are used as given
	for _, desc := range []string{
		"plain text, no template",
		`Reply with a JSON filter such as {{"region":"emea"}}.`,
		"Ask about {{ .Revenue }} totals.",
		"broken {{ .Name ",
	} {
		opts.MessageDescription = desc
		tool, err = dataagent.NewMessageTool(opts)
		require.NoError(t, err)
		assert.Equal(t, desc, tool.Description())
	}

	opts.MessageDescription = `Reply with {{"region":"emea"}}.`
	ts, err := dataagent.NewToolset(opts)
	require.NoError(t, err)
	assert.NotNil(t, ts)
}
