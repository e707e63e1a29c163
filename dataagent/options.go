package dataagent

import (
	"github.com/effective-security/dataagent/analyst"
	"github.com/effective-security/dataagent/encoding"
	"github.com/effective-security/dataagent/tools"
)

// AgentIdentity identifies the remote agent.
type AgentIdentity struct {
	// ID of the agent, required
	ID string
	// Name is optional display name, used to namespace the tool names
	Name string
}

// Options to build the tools
type Options struct {
	// Client is the data analyst service
	Client analyst.Client
	// AgentID is the ID of the remote agent, required
	AgentID string
	// UserIdentifier identifies the end user, required to start a conversation
	UserIdentifier string
	// UserContext is resolved on every conversation start, required to start a conversation
	UserContext UserContextSource
	// MessageDescription overrides the description of the message tool,
	// it is used as is.
	MessageDescription string
	// Serializer converts the completed response to the tool output,
	// encoding.StringifyResponse is used if not set.
	Serializer encoding.Serializer
	// Name is optional display name, used to namespace the tool names
	Name string
	// Callback is notified on tool calls
	Callback tools.Callback
}

// Identity returns the agent identity
func (o *Options) Identity() AgentIdentity {
	return AgentIdentity{
		ID:   o.AgentID,
		Name: o.Name,
	}
}

func (o *Options) serializer() encoding.Serializer {
	if o.Serializer != nil {
		return o.Serializer
	}
	return encoding.StringifyResponse
}
