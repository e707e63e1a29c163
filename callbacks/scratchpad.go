package callbacks

import (
	"bytes"
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/effective-security/dataagent/tools"
	"github.com/google/uuid"
)

var TimeNowFn = time.Now

type RunStats struct {
	RunID string

	Duration            time.Duration
	ToolsCalls          uint32
	ToolsCallsSucceeded uint32
	ToolsCallsFailed    uint32
	// ToolCalls is the number of calls per tool name
	ToolCalls map[string]uint32
}

type runKey struct{}

// RunID returns the ID of the run started with Scratchpad.StartRun
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runKey{}).(string)
	return id
}

// Scratchpad records the tool calls of a run, for example a user turn
// handled by an agent.
type Scratchpad struct {
	runs map[string]*run
	mode Mode
	lock sync.Mutex
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{
		runs: make(map[string]*run),
		mode: mode,
	}
}

// StartRun returns the context of the new run,
// it must be passed to the tool calls.
func (l *Scratchpad) StartRun(ctx context.Context) context.Context {
	id := uuid.NewString()
	r := &run{
		stats: RunStats{
			RunID:     id,
			ToolCalls: make(map[string]uint32),
		},
		started: TimeNowFn(),
	}

	l.lock.Lock()
	l.runs[id] = r
	l.lock.Unlock()

	r.print("*** Run Started ***")
	return context.WithValue(ctx, runKey{}, id)
}

// EndRun returns the stats and the transcript of the run
func (l *Scratchpad) EndRun(ctx context.Context) (*RunStats, []byte) {
	run := l.getRun(ctx)
	if run == nil {
		return nil, nil
	}

	l.lock.Lock()
	delete(l.runs, run.stats.RunID)
	l.lock.Unlock()

	run.lock.Lock()
	stats := run.stats
	stats.ToolCalls = make(map[string]uint32, len(run.stats.ToolCalls))
	for k, v := range run.stats.ToolCalls {
		stats.ToolCalls[k] = v
	}
	run.lock.Unlock()
	stats.Duration = TimeNowFn().Sub(run.started)

	run.print("Tool calls:", strconv.FormatUint(uint64(stats.ToolsCalls), 10),
		"Failed:", strconv.FormatUint(uint64(stats.ToolsCallsFailed), 10))
	run.print("*** Run Ended. Duration:", stats.Duration.String(), "***")

	return &stats, run.bytes()
}

func (l *Scratchpad) getRun(ctx context.Context) *run {
	id := RunID(ctx)
	if id == "" {
		return nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	return l.runs[id]
}

func (l *Scratchpad) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.update(func(s *RunStats) {
		s.ToolsCalls++
		s.ToolCalls[tool.Name()]++
	})

	run.print(tool.Name(), "*** Tool Start ***")
	run.print(tool.Name(), "Input:", input)
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.update(func(s *RunStats) { s.ToolsCallsSucceeded++ })
	if l.mode == ModeVerbose {
		run.print(tool.Name(), "Output:", output)
	}
	run.print(tool.Name(), "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	run := l.getRun(ctx)
	if run == nil {
		return
	}
	run.update(func(s *RunStats) { s.ToolsCallsFailed++ })
	run.print(tool.Name(), "*** Tool Error ***", err.Error())
}

type run struct {
	w       bytes.Buffer
	started time.Time
	lock    sync.Mutex
	stats   RunStats
}

// print writes the entries to the run's output.
// The entries are written in the following format:
// timestamp runID entry entry\n
func (r *run) print(entries ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ts := TimeNowFn().Format("2006-01-02 15:04:05")

	_, _ = r.w.WriteString(ts)
	_, _ = r.w.WriteString(" ")
	_, _ = r.w.WriteString(r.stats.RunID)
	for _, entry := range entries {
		_, _ = r.w.WriteString(" ")
		_, _ = r.w.WriteString(entry)
	}
	_, _ = r.w.WriteString("\n")
}

func (r *run) update(fn func(*RunStats)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	fn(&r.stats)
}

func (r *run) bytes() []byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return bytes.Clone(r.w.Bytes())
}
