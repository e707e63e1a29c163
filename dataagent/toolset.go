package dataagent

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/pkg/llms"
	"github.com/effective-security/dataagent/tools"
)

// Toolset is a bundle of tools keyed by name
type Toolset struct {
	names []string
	tools map[string]tools.ITool
}

// NewToolset returns the summary, start conversation and message tools
// for one agent.
func NewToolset(opts *Options) (*Toolset, error) {
	summary, err := NewSummaryTool(opts)
	if err != nil {
		return nil, err
	}
	start, err := NewStartConversationTool(opts)
	if err != nil {
		return nil, err
	}
	message, err := NewMessageTool(opts)
	if err != nil {
		return nil, err
	}

	s := &Toolset{tools: make(map[string]tools.ITool, 3)}
	for _, t := range []tools.ITool{summary, start, message} {
		if err = s.add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MergeToolsets returns a bundle with the tools of all sets.
// It fails if a tool name is used more than once.
func MergeToolsets(sets ...*Toolset) (*Toolset, error) {
	res := &Toolset{tools: make(map[string]tools.ITool)}
	for _, set := range sets {
		if set == nil {
			continue
		}
		for _, t := range set.Tools() {
			if err := res.add(t); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (s *Toolset) add(t tools.ITool) error {
	name := t.Name()
	if _, ok := s.tools[name]; ok {
		return errors.Newf("tool name collision: %s", name)
	}
	s.tools[name] = t
	s.names = append(s.names, name)
	return nil
}

// Tools returns the tools in the order they were added
func (s *Toolset) Tools() []tools.ITool {
	res := make([]tools.ITool, 0, len(s.names))
	for _, name := range s.names {
		res = append(res, s.tools[name])
	}
	return res
}

// Get returns the tool by name
func (s *Toolset) Get(name string) (tools.ITool, bool) {
	t, ok := s.tools[name]
	return t, ok
}

// Names returns the tool names in the order they were added
func (s *Toolset) Names() []string {
	return append([]string(nil), s.names...)
}

// Definitions returns the function definitions for the model
func (s *Toolset) Definitions() []llms.Tool {
	return tools.ToLLMTools(s.Tools()...)
}
