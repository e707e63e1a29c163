package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsToolCallsSucceeded is base for counter metric for tool calls succeeded
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsConversationsStarted = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_conversations_started",
		Help:         "stats_conversations_started provides total conversations started with the data analyst",
		RequiredTags: []string{"agent"},
	}

	StatsConversationsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_conversations_failed",
		Help:         "stats_conversations_failed provides total conversations the data analyst did not start",
		RequiredTags: []string{"agent"},
	}

	StatsStreamEvents = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_stream_events",
		Help:         "stats_stream_events provides total stream events received from the data analyst",
		RequiredTags: []string{"agent", "type"},
	}

	StatsResponsesMissing = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_responses_missing",
		Help:         "stats_responses_missing provides total message streams that ended without a completed response",
		RequiredTags: []string{"agent"},
	}

	StatsAnalystAPIErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_analyst_api_errors",
		Help:         "stats_analyst_api_errors provides total failed requests to the data analyst API",
		RequiredTags: []string{"operation"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfAnalystRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_analyst_request",
		Help:         "perf_analyst_request provides duration of data analyst API request",
		RequiredTags: []string{"operation"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAnalystRequest,
	&PerfToolCall,
	&StatsAnalystAPIErrors,
	&StatsConversationsFailed,
	&StatsConversationsStarted,
	&StatsResponsesMissing,
	&StatsStreamEvents,
	&StatsToolCallsFailed,
	&StatsToolCallsSucceeded,
}
