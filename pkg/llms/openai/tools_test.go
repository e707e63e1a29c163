package openai_test

import (
	"reflect"
	"testing"

	"github.com/effective-security/dataagent/pkg/llms"
	"github.com/effective-security/dataagent/pkg/llms/openai"
	"github.com/effective-security/dataagent/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTools(t *testing.T) {
	t.Parallel()

	type MessageParams struct {
		ConversationID string `json:"conversationId"`
		Message        string `json:"message"`
	}
	msgSchema := schema.MustNew(reflect.TypeOf(MessageParams{}))

	assert.Nil(t, openai.ToTools(nil))

	res := openai.ToTools([]llms.Tool{
		llms.NewFunctionTool("messageSalesDataAgent", "Send a message", msgSchema.Parameters),
		llms.NewFunctionTool("startSalesDataAgentConversation", "", nil),
		{Type: "function"},
	})
	require.Len(t, res, 2)

	fn := res[0].OfFunction
	require.NotNil(t, fn)
	assert.Equal(t, "messageSalesDataAgent", fn.Name)
	assert.Equal(t, "Send a message", fn.Description.Value)
	assert.False(t, fn.Strict.Value)
	assert.Equal(t, "object", fn.Parameters["type"])
	assert.Equal(t, []any{"conversationId", "message"}, fn.Parameters["required"])
	props, ok := fn.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "conversationId")

	fn = res[1].OfFunction
	require.NotNil(t, fn)
	assert.Equal(t, "startSalesDataAgentConversation", fn.Name)
	assert.False(t, fn.Description.Valid())
	assert.Equal(t, map[string]any{}, fn.Parameters["properties"])
}

func TestToTools_Strict(t *testing.T) {
	t.Parallel()

	type MessageParams struct {
		ConversationID string `json:"conversationId"`
		Message        string `json:"message"`
	}
	tool := llms.NewFunctionTool("messageDataAgent", "Send a message", schema.MustNew(reflect.TypeOf(MessageParams{})).Parameters)
	tool.Function.Strict = true

	res := openai.ToTools([]llms.Tool{tool})
	require.Len(t, res, 1)
	fn := res[0].OfFunction
	assert.True(t, fn.Strict.Value)
	assert.Equal(t, false, fn.Parameters["additionalProperties"])
	assert.Equal(t, []any{"conversationId", "message"}, fn.Parameters["required"])

	tool.Function.Strict = false
	res = openai.ToTools([]llms.Tool{tool})
	assert.NotContains(t, res[0].OfFunction.Parameters, "additionalProperties")
}
