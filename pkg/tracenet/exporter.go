package tracenet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
	"github.com/tliron/commonlog"

	"mterp/pkg/interp"
)

var log = commonlog.GetLogger("mterp.tracenet")

type ExporterOptions struct {
	// Program names what is being traced, for the collector's benefit.
	Program     string
	BatchSize   int
	DialTimeout time.Duration
}

// Exporter is an interp.TraceSink that streams records to a collector over
// QUIC, in batches. Record blocks when the connection falls behind.
type Exporter struct {
	session uuid.UUID
	conn    *quic.Conn
	stream  *quic.Stream
	size    int

	mu      sync.Mutex
	pending []Record
	closed  bool

	batches chan []Record
	done    chan struct{}
	err     error
}

var _ interp.TraceSink = (*Exporter)(nil)

// Dial connects to the collector at address and opens a trace session.
func Dial(ctx context.Context, address string, opts ExporterOptions) (*Exporter, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 256
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 10 * time.Second
	}
	dialCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}

	conn, err := quic.DialAddr(dialCtx, address, clientTLSConfig(), &quic.Config{
		HandshakeIdleTimeout: opts.DialTimeout,
		MaxIdleTimeout:       30 * time.Second,
		KeepAlivePeriod:      15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to establish QUIC connection: %w", err)
	}
	stream, err := conn.OpenStreamSync(dialCtx)
	if err != nil {
		conn.CloseWithError(0, "stream setup failed")
		return nil, fmt.Errorf("failed to open trace stream: %w", err)
	}

	e := &Exporter{
		session: uuid.New(),
		conn:    conn,
		stream:  stream,
		size:    opts.BatchSize,
		batches: make(chan []Record, 16),
		done:    make(chan struct{}),
	}
	if err := writeValue(stream, &Hello{Session: e.session, Program: opts.Program}); err != nil {
		conn.CloseWithError(0, "hello failed")
		return nil, err
	}
	go e.writeLoop()
	log.Infof("trace session %s to %s", e.session, address)
	return e, nil
}

func (e *Exporter) Session() uuid.UUID {
	return e.session
}

func (e *Exporter) Record(rec interp.TraceRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.pending = append(e.pending, FromTrace(rec))
	if len(e.pending) >= e.size {
		e.batches <- e.pending
		e.pending = nil
	}
}

func (e *Exporter) writeLoop() {
	defer close(e.done)
	for batch := range e.batches {
		if e.err != nil {
			continue
		}
		if err := writeValue(e.stream, &Batch{Records: batch}); err != nil {
			e.err = err
			log.Errorf("trace session %s: %v", e.session, err)
		}
	}
}

// Close sends what is buffered, waits for the collector to acknowledge the
// whole stream and closes the connection. It returns the number of records
// the collector received.
func (e *Exporter) Close() (uint64, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return 0, fmt.Errorf("exporter already closed")
	}
	e.closed = true
	if len(e.pending) > 0 {
		e.batches <- e.pending
		e.pending = nil
	}
	close(e.batches)
	e.mu.Unlock()
	<-e.done

	defer e.conn.CloseWithError(0, "done")
	if e.err != nil {
		return 0, e.err
	}
	if err := e.stream.Close(); err != nil {
		return 0, fmt.Errorf("failed to finish trace stream: %w", err)
	}
	var ack Ack
	if err := readValue(e.stream, &ack); err != nil {
		return 0, fmt.Errorf("waiting for collector: %w", err)
	}
	return ack.Records, nil
}
