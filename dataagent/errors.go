package dataagent

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrConfiguration is returned when a required option is missing.
	// It is always returned before any call to the analyst.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidContext is returned when the user context does not resolve to an object
	ErrInvalidContext = errors.New("userContext must resolve to an object")
	// ErrResponseMissing is returned when the message stream ends without a completed response
	ErrResponseMissing = errors.New("no response received from the data analyst")
)

// StartConversationFailure is returned to the model as the tool output
// when the analyst did not return a conversation ID.
const StartConversationFailure = "Failed to start conversation with data analyst."

func requiredValue(toolName, field string) error {
	return errors.Mark(errors.Newf("%s requires %s value", toolName, field), ErrConfiguration)
}
