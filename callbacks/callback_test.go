package callbacks

import (
	"context"
	"errors"
	"testing"

	"github.com/effective-security/dataagent/mocks/mocktools"
	"github.com/effective-security/dataagent/tools"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeTool struct{ name string }

func (t *fakeTool) Name() string                                           { return t.name }
func (t *fakeTool) Description() string                                    { return "desc" }
func (t *fakeTool) Parameters() *jsonschema.Schema                         { return nil }
func (t *fakeTool) Call(ctx context.Context, input string) (string, error) { return "", nil }

func TestFanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	cb1 := mocktools.NewMockCallback(ctrl)
	cb2 := mocktools.NewMockCallback(ctrl)
	ctx := context.Background()
	tool := &fakeTool{name: "T1"}
	failure := errors.New("terr")

	f := NewFanout(cb1)
	f.Add(cb2)

	for _, cb := range []*mocktools.MockCallback{cb1, cb2} {
		cb.EXPECT().OnToolStart(ctx, tool, "in")
		cb.EXPECT().OnToolEnd(ctx, tool, "in", "out")
		cb.EXPECT().OnToolError(ctx, tool, "in", failure)
	}
	f.OnToolStart(ctx, tool, "in")
	f.OnToolEnd(ctx, tool, "in", "out")
	f.OnToolError(ctx, tool, "in", failure)
}

func TestNoop(t *testing.T) {
	var cb tools.Callback = NewNoop()
	tool := &fakeTool{name: "T1"}
	assert.NotPanics(t, func() {
		cb.OnToolStart(context.Background(), tool, "in")
		cb.OnToolEnd(context.Background(), tool, "in", "out")
		cb.OnToolError(context.Background(), tool, "in", errors.New("terr"))
	})
}
