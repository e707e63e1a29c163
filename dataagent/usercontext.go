package dataagent

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
)

// UserContext describes the end user or tenant of the conversation.
type UserContext map[string]any

// Deferred is a value that is computed once in the background,
// it is safe for concurrent awaiters.
type Deferred struct {
	done chan struct{}
	val  any
	err  error
}

// NewDeferred starts fn in its own goroutine.
func NewDeferred(fn func() (any, error)) *Deferred {
	d := &Deferred{done: make(chan struct{})}
	go func() {
		defer close(d.done)
		defer func() {
			if r := recover(); r != nil {
				d.val = nil
				d.err = errors.Newf("deferred value panicked: %v", r)
			}
		}()
		d.val, d.err = fn()
	}()
	return d
}

// Resolved returns an already settled Deferred.
func Resolved(v any) *Deferred {
	d := &Deferred{done: make(chan struct{}), val: v}
	close(d.done)
	return d
}

// Done is closed when the value is settled.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Await blocks until the value is settled or ctx is done.
func (d *Deferred) Await(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}
}

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceValue
	sourceDeferred
	sourceProducer
)

// UserContextSource is where the user context comes from:
// a value, a Deferred value or a producer invoked on every conversation start.
type UserContextSource struct {
	kind     sourceKind
	value    any
	deferred *Deferred
	producer func(context.Context) (any, error)
}

// UserContextValue returns a source that uses v as is.
func UserContextValue(v any) UserContextSource {
	return UserContextSource{kind: sourceValue, value: v}
}

// UserContextDeferred returns a source that awaits d.
func UserContextDeferred(d *Deferred) UserContextSource {
	return UserContextSource{kind: sourceDeferred, deferred: d}
}

// UserContextProducer returns a source that calls fn on each resolution.
// fn may return a *Deferred, which is awaited as well.
func UserContextProducer(fn func(context.Context) (any, error)) UserContextSource {
	return UserContextSource{kind: sourceProducer, producer: fn}
}

// IsZero returns true when the source was not configured.
func (s UserContextSource) IsZero() bool {
	switch s.kind {
	case sourceDeferred:
		return s.deferred == nil
	case sourceProducer:
		return s.producer == nil
	default:
		return s.kind == sourceNone
	}
}

// ResolveUserContext resolves the source to a user context.
// Nothing is cached: producers run again on every call.
func ResolveUserContext(ctx context.Context, src UserContextSource) (UserContext, error) {
	if src.IsZero() {
		return nil, errors.Mark(errors.New("userContext is not configured"), ErrConfiguration)
	}

	var (
		v   any
		err error
	)
	switch src.kind {
	case sourceValue:
		v = src.value
	case sourceDeferred:
		v, err = src.deferred.Await(ctx)
	case sourceProducer:
		v, err = src.producer(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve userContext")
	}

	if d, ok := v.(*Deferred); ok && d != nil {
		if v, err = d.Await(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to resolve userContext")
		}
	}
	return toUserContext(v)
}

func toUserContext(v any) (UserContext, error) {
	switch t := v.(type) {
	case UserContext:
		if t != nil {
			return t, nil
		}
	case map[string]any:
		if t != nil {
			return UserContext(t), nil
		}
	}

	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && !rv.IsNil():
		return fromJSON(v)
	case rv.Kind() == reflect.Struct:
		return fromJSON(v)
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		return fromJSON(v)
	}
	return nil, errors.Mark(errors.Newf("userContext must resolve to an object, got %T", v), ErrInvalidContext)
}

func fromJSON(v any) (UserContext, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "userContext must resolve to an object"), ErrInvalidContext)
	}
	uc := UserContext{}
	if err = json.Unmarshal(js, &uc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "userContext must resolve to an object"), ErrInvalidContext)
	}
	return uc, nil
}
