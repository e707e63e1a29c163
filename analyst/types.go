package analyst

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Stream event types
const (
	EventResponseCreated   = "response.created"
	EventResponseProgress  = "response.progress"
	EventResponseDelta     = "response.delta"
	EventResponseCompleted = "response.completed"
)

// Response types
const (
	ResponseTypeText  = "text"
	ResponseTypeChart = "chart"
	ResponseTypeTable = "table"
)

// DataSummary is the high level description of the data the agent has access to.
type DataSummary struct {
	// DataSummary is returned as is, it may be a string or a structured value
	DataSummary json.RawMessage `json:"dataSummary"`
}

// Value returns the summary as a string when it is encoded as a JSON string,
// otherwise the decoded structured value.
func (s *DataSummary) Value() any {
	if s == nil {
		return nil
	}
	raw := bytes.TrimSpace(s.DataSummary)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var str string
	if err := json.Unmarshal(s.DataSummary, &str); err == nil {
		return str
	}
	var v any
	if err := json.Unmarshal(s.DataSummary, &v); err != nil {
		return string(s.DataSummary)
	}
	return v
}

// CreateConversationRequest is the payload to start a conversation
type CreateConversationRequest struct {
	UserIdentifier string         `json:"userIdentifier"`
	UserContext    map[string]any `json:"userContext"`
}

// Conversation is returned by the service when a conversation is created.
// ID may be empty when the service could not start one.
type Conversation struct {
	ID string `json:"id"`
}

// ResponseRequest is the payload to send a message to a conversation
type ResponseRequest struct {
	AgentID string `json:"agentId"`
	Message string `json:"message"`
	Stream  bool   `json:"stream"`
}

// Table is a tabular answer
type Table struct {
	Head []string `json:"head"`
	Body [][]any  `json:"body"`
}

// ConversationResponse is the final answer of the analyst for one message
type ConversationResponse struct {
	ID             string          `json:"id,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	Type           string          `json:"type"`
	Message        string          `json:"message"`
	Chart          json.RawMessage `json:"chart,omitempty"`
	Table          *Table          `json:"table,omitempty"`
}

// String returns the text of the answer
func (r *ConversationResponse) String() string {
	return r.Message
}

// StreamEvent is one incremental event of a streamed response.
// Only the completed event carries Response.
type StreamEvent struct {
	Type     string                `json:"type"`
	Response *ConversationResponse `json:"response,omitempty"`
	Delta    string                `json:"delta,omitempty"`
	Message  string                `json:"message,omitempty"`
}

// IsCompleted returns true for the terminal event
func (e *StreamEvent) IsCompleted() bool {
	return e.Type == EventResponseCompleted
}

func (e *StreamEvent) String() string {
	var sb strings.Builder
	sb.WriteString(e.Type)
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}
