package dataagent

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/pkg/llmutils"
)

// SummaryToolName returns the name of the connected data summary tool
func SummaryToolName(name string) string {
	return "get" + llmutils.Capitalize(name) + "DataAgentConnectedDataSummary"
}

// StartToolName returns the name of the start conversation tool
func StartToolName(name string) string {
	return "start" + llmutils.Capitalize(name) + "DataAgentConversation"
}

// MessageToolName returns the name of the message tool
func MessageToolName(name string) string {
	return "message" + llmutils.Capitalize(name) + "DataAgent"
}

// SummaryDescription is the description of the connected data summary tool
const SummaryDescription = "Use this tool before you ask your first question. " +
	"You will get a high level summary of the connected data. " +
	"This can be used to get an overview of the data before asking more specific questions."

// StartDescription is the description of the start conversation tool
const StartDescription = "Begin a new conversation with the data analyst. " +
	"Returns a new conversation ID which can be used with the '{{ .MessageTool }}' tool. " +
	"When messaging with the same conversation ID, the data analyst will remember the context of previous messages. " +
	"You can start a new conversation at any time, even if you already have an active conversation."

// DefaultMessageDescription is the description of the message tool,
// unless Options.MessageDescription is set.
var DefaultMessageDescription = strings.Join([]string{
	"Send a message to your conversation with the data analyst.",
	"The analyst can reply with either chart, text or table depending on what you ask.",
	"You may ask additional clarifying follow up questions.",
	"If you don't get the answer you need, you can ask for it in a different way.",
	"Always keep your data queries brief and with a singular goal.",
	"You can use the '{{ .SummaryTool }}' tool to get an overview of the data connected.",
	"Do not repeat information already provided by the analyst in your user message",
	"Don't define any metrics or calculations yourself, the data agent is the source of truth for the data.",
	"If there is a question about how something that came from the data analyst was calculated, ask the analyst directly.",
}, "\n")

// DescriptionData is available to the description templates
type DescriptionData struct {
	Name        string
	SummaryTool string
	StartTool   string
	MessageTool string
}

// NewDescriptionData returns template data for the display name
func NewDescriptionData(name string) DescriptionData {
	return DescriptionData{
		Name:        name,
		SummaryTool: SummaryToolName(name),
		StartTool:   StartToolName(name),
		MessageTool: MessageToolName(name),
	}
}

// RenderDescription executes the description template with sprig functions.
func RenderDescription(text string, data DescriptionData) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New("description").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse description")
	}
	var sb strings.Builder
	if err = tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, "failed to render description")
	}
	return sb.String(), nil
}
