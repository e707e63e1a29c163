package tools

import (
	"context"
	"fmt"
	"io"

	"github.com/effective-security/xlog"
)

// LoggerCallback is a callback handler that prints to the package logger.
type LoggerCallback struct {
	logger *xlog.PackageLogger
}

var _ Callback = (*LoggerCallback)(nil)

func NewLoggerCallback(logger *xlog.PackageLogger) *LoggerCallback {
	return &LoggerCallback{logger: logger}
}

func (l *LoggerCallback) OnToolStart(ctx context.Context, tool ITool, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
		"input", input,
	)
}

func (l *LoggerCallback) OnToolEnd(ctx context.Context, tool ITool, input string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"output", output,
	)
}

func (l *LoggerCallback) OnToolError(ctx context.Context, tool ITool, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"err", err.Error(),
	)
}

// PrinterCallback prints tool events to the writer.
type PrinterCallback struct {
	Out io.Writer
}

var _ Callback = (*PrinterCallback)(nil)

func NewPrinterCallback(out io.Writer) *PrinterCallback {
	return &PrinterCallback{Out: out}
}

func (l *PrinterCallback) OnToolStart(ctx context.Context, tool ITool, input string) {
	fmt.Fprintf(l.Out, "Tool Start: %s\n", tool.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *PrinterCallback) OnToolEnd(ctx context.Context, tool ITool, input string, output string) {
	fmt.Fprintf(l.Out, "Tool End: %s\n", tool.Name())
	fmt.Fprintf(l.Out, "Output: %s\n", output)
}

func (l *PrinterCallback) OnToolError(ctx context.Context, tool ITool, input string, err error) {
	fmt.Fprintf(l.Out, "Tool Error: %s: %s\n", tool.Name(), err.Error())
}
