// Package callbacks provides tool callbacks to combine and record tool calls.
package callbacks

import (
	"context"

	"github.com/effective-security/dataagent/tools"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ tools.Callback = (*Noop)(nil)
	_ tools.Callback = (*Fanout)(nil)
	_ tools.Callback = (*Scratchpad)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing,
	// includes tool outputs
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []tools.Callback
}

func NewFanout(callbacks ...tools.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback tools.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, input, err)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, input string) {}
func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {}
func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {}
