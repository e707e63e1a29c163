package dataagent

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/analyst"
	"github.com/effective-security/dataagent/encoding"
	"github.com/effective-security/dataagent/pkg/metricskey"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/dataagent", "dataagent")

// StartConversationResult is the result of the conversation start.
// When the analyst did not start a conversation, Failure is set
// and ConversationID is empty.
type StartConversationResult struct {
	ConversationID string `json:"conversationId"`
	Failure        string `json:"-"`
}

// Failed returns true if the conversation was not started
func (r *StartConversationResult) Failed() bool {
	return r.Failure != ""
}

// Agent drives the conversations with one remote agent.
// Calls are independent and safe for concurrent use.
type Agent struct {
	client         analyst.Client
	identity       AgentIdentity
	userIdentifier string
	userContext    UserContextSource
	serializer     encoding.Serializer
}

// NewAgent returns the agent for the options.
// Without Options.Client, the HTTP client is created with the API key
// and base URL from the environment.
// Required values are checked by each method before calling the analyst.
func NewAgent(opts *Options) (*Agent, error) {
	if opts == nil {
		opts = &Options{}
	}
	client := opts.Client
	if client == nil {
		c, err := analyst.New()
		if err != nil {
			return nil, errors.Mark(err, ErrConfiguration)
		}
		client = c
	}
	return &Agent{
		client:         client,
		identity:       opts.Identity(),
		userIdentifier: opts.UserIdentifier,
		userContext:    opts.UserContext,
		serializer:     opts.serializer(),
	}, nil
}

// Identity returns the agent identity
func (a *Agent) Identity() AgentIdentity {
	return a.identity
}

func (a *Agent) tag() string {
	return values.StringsCoalesce(a.identity.Name, a.identity.ID)
}

// GetConnectedDataSummary returns the summary of the data connected to the agent, as is:
// a string, or a structured value.
func (a *Agent) GetConnectedDataSummary(ctx context.Context) (any, error) {
	if a.identity.ID == "" {
		return nil, requiredValue(SummaryToolName(a.identity.Name), "an agentId")
	}

	res, err := a.client.RetrieveDataSummary(ctx, a.identity.ID)
	if err != nil {
		return nil, err
	}
	return res.Value(), nil
}

// StartConversation creates a new conversation for the user.
// If the analyst does not return the conversation ID,
// the result has Failure set and the error is nil.
func (a *Agent) StartConversation(ctx context.Context) (*StartConversationResult, error) {
	toolName := StartToolName(a.identity.Name)
	if a.identity.ID == "" {
		return nil, requiredValue(toolName, "an agentId")
	}
	if a.userIdentifier == "" {
		return nil, requiredValue(toolName, "a userIdentifier")
	}
	if a.userContext.IsZero() {
		return nil, requiredValue(toolName, "a userContext")
	}

	uc, err := ResolveUserContext(ctx, a.userContext)
	if err != nil {
		return nil, err
	}

	conv, err := a.client.CreateConversation(ctx, a.identity.ID, &analyst.CreateConversationRequest{
		UserIdentifier: a.userIdentifier,
		UserContext:    uc,
	})
	if err != nil {
		return nil, err
	}

	if conv == nil || conv.ID == "" {
		metricskey.StatsConversationsFailed.IncrCounter(1, a.tag())
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "no_conversation_id",
			"agent", a.identity.ID,
			"user", a.userIdentifier,
		)
		return &StartConversationResult{Failure: StartConversationFailure}, nil
	}

	metricskey.StatsConversationsStarted.IncrCounter(1, a.tag())
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "conversation_started",
		"agent", a.identity.ID,
		"conversation", conv.ID,
	)
	return &StartConversationResult{ConversationID: conv.ID}, nil
}

// SendMessage sends the message to the conversation, and returns the serialized response.
// The stream is consumed until the first completed event,
// the events after it are never read.
func (a *Agent) SendMessage(ctx context.Context, conversationID, message string) (string, error) {
	if a.identity.ID == "" {
		return "", requiredValue(MessageToolName(a.identity.Name), "an agentId")
	}

	stream, err := a.client.CreateResponse(ctx, conversationID, &analyst.ResponseRequest{
		AgentID: a.identity.ID,
		Message: message,
		Stream:  true,
	})
	if err != nil {
		return "", err
	}
	defer func() { _ = stream.Close() }()

	response, err := a.awaitCompleted(ctx, stream)
	if err != nil {
		return "", err
	}
	return a.serializer(response)
}

func (a *Agent) awaitCompleted(ctx context.Context, stream analyst.Stream) (*analyst.ConversationResponse, error) {
	tag := a.tag()
	for stream.Next() {
		ev := stream.Current()
		metricskey.StatsStreamEvents.IncrCounter(1, tag, ev.Type)

		if !ev.IsCompleted() {
			logger.ContextKV(ctx, xlog.DEBUG, "event", ev.String())
			continue
		}
		if ev.Response == nil {
			break
		}
		return ev.Response, nil
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}

	metricskey.StatsResponsesMissing.IncrCounter(1, tag)
	logger.ContextKV(ctx, xlog.ERROR,
		"agent", a.identity.ID,
		"err", ErrResponseMissing.Error(),
	)
	return nil, errors.WithStack(ErrResponseMissing)
}
