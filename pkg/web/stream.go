package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/tmaxmax/go-sse"
)

// replayCount is how many events a reconnecting SSE client can catch up on via Last-Event-ID.
const replayCount = 1000

// Stream assigns event ids, keeps history in a Buffer and fans events out to SSE clients.
// safe for concurrent use.
type Stream struct {
	mu     sync.Mutex
	seq    int64
	buffer *Buffer
	sse    *sse.Server
}

// NewStream creates a stream keeping up to bufferSize events of history.
func NewStream(bufferSize int) (*Stream, error) {
	replayer, err := sse.NewFiniteReplayer(replayCount, false)
	if err != nil {
		return nil, fmt.Errorf("create replayer: %w", err)
	}
	return &Stream{
		buffer: NewBuffer(bufferSize),
		sse:    &sse.Server{Provider: &sse.Joe{Replayer: replayer}},
	}, nil
}

// Publish stamps the event with the next id, stores it and sends it to connected clients.
func (s *Stream) Publish(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e.ID = s.seq
	s.buffer.Add(e)

	data, err := e.JSON()
	if err != nil {
		return err
	}
	// type stays inside the json payload so clients can use a single onmessage handler
	msg := &sse.Message{ID: sse.ID(strconv.FormatInt(e.ID, 10))}
	msg.AppendData(string(data))
	if err := s.sse.Publish(msg); err != nil {
		return fmt.Errorf("publish event %d: %w", e.ID, err)
	}
	return nil
}

// Buffer returns the event history.
func (s *Stream) Buffer() *Buffer { return s.buffer }

// ServeHTTP serves the SSE stream.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.sse.ServeHTTP(w, r)
}

// Shutdown disconnects all SSE clients. publishing after shutdown fails.
func (s *Stream) Shutdown(ctx context.Context) error {
	if err := s.sse.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown sse: %w", err)
	}
	return nil
}
