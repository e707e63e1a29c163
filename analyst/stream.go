package analyst

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
)

//go:generate mockgen -source=stream.go -destination=../mocks/mockanalyst/stream_mock.gen.go -package mockanalyst

// Stream is a pull based sequence of StreamEvent.
//
//	defer stream.Close()
//	for stream.Next() {
//		evt := stream.Current()
//	}
//	err := stream.Err()
//
// Close must be called on every path, it releases the underlying connection.
type Stream interface {
	// Next advances to the next event,
	// it returns false at the end of the stream or on error.
	Next() bool
	// Current returns the event read by the last call to Next
	Current() StreamEvent
	// Err returns the error that stopped the stream, if any
	Err() error
	// Close releases the stream
	Close() error
}

const sseDone = "[DONE]"

var (
	sseData  = []byte("data:")
	sseEvent = []byte("event:")
)

// sseStream decodes Server-Sent Events, one JSON StreamEvent per event
type sseStream struct {
	body   io.ReadCloser
	reader *bufio.Reader

	cur  StreamEvent
	err  error
	done bool

	closeOnce sync.Once
	closeErr  error
}

// NewSSEStream returns a Stream reading Server-Sent Events from body
func NewSSEStream(body io.ReadCloser) Stream {
	return &sseStream{
		body:   body,
		reader: bufio.NewReader(body),
	}
}

func (s *sseStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	var (
		name string
		data bytes.Buffer
	)
	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			s.err = errors.Wrap(err, "failed to read stream")
			return false
		}
		eof := err != nil

		line = bytes.TrimRight(line, "\r\n")
		switch {
		case len(line) == 0:
			// blank line dispatches the event
			if data.Len() > 0 {
				return s.dispatch(name, data.Bytes())
			}
			name = ""
		case bytes.HasPrefix(line, sseData):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			// a single space after the colon is not part of the value
			data.Write(bytes.TrimPrefix(line[len(sseData):], []byte(" ")))
		case bytes.HasPrefix(line, sseEvent):
			name = string(bytes.TrimSpace(line[len(sseEvent):]))
		default:
			// comments, id and retry fields are not used
		}

		if eof {
			if data.Len() > 0 {
				return s.dispatch(name, data.Bytes())
			}
			s.done = true
			return false
		}
	}
}

func (s *sseStream) dispatch(name string, data []byte) bool {
	if string(data) == sseDone {
		s.done = true
		return false
	}

	var evt StreamEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		s.err = errors.Wrapf(err, "failed to decode stream event")
		return false
	}
	if evt.Type == "" {
		evt.Type = name
	}
	s.cur = evt
	return true
}

func (s *sseStream) Current() StreamEvent {
	return s.cur
}

func (s *sseStream) Err() error {
	return s.err
}

func (s *sseStream) Close() error {
	s.closeOnce.Do(func() {
		s.done = true
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

// StaticStream is a Stream over a fixed list of events,
// useful for tests and replays.
type StaticStream struct {
	events []StreamEvent
	err    error
	pos    int
	pulled int
	closed bool
}

// NewStaticStream returns a Stream over events
func NewStaticStream(events ...StreamEvent) *StaticStream {
	return &StaticStream{events: events, pos: -1}
}

// WithError makes the stream fail after all events are consumed
func (s *StaticStream) WithError(err error) *StaticStream {
	s.err = err
	return s
}

func (s *StaticStream) Next() bool {
	if s.closed || s.pos+1 >= len(s.events) {
		return false
	}
	s.pos++
	s.pulled++
	return true
}

func (s *StaticStream) Current() StreamEvent {
	if s.pos < 0 || s.pos >= len(s.events) {
		return StreamEvent{}
	}
	return s.events[s.pos]
}

func (s *StaticStream) Err() error {
	if s.closed || s.pos+1 < len(s.events) {
		return nil
	}
	return s.err
}

func (s *StaticStream) Close() error {
	s.closed = true
	return nil
}

// Pulled returns the number of events consumed with Next
func (s *StaticStream) Pulled() int {
	return s.pulled
}

// Closed returns true if Close was called
func (s *StaticStream) Closed() bool {
	return s.closed
}
