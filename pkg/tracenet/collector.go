package tracenet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
)

// Session identifies one exporter's stream.
type Session struct {
	ID      uuid.UUID
	Program string
	Remote  string
}

// Handler receives every batch of a session in order. It is called from
// one goroutine per session.
type Handler func(s Session, records []Record)

// Collector accepts trace sessions over QUIC.
type Collector struct {
	listener *quic.Listener
}

func Listen(address string) (*Collector, error) {
	tlsConfig, err := generateTLSConfig()
	if err != nil {
		return nil, err
	}
	listener, err := quic.ListenAddr(address, tlsConfig, &quic.Config{
		MaxIdleTimeout:  30 * time.Second,
		KeepAlivePeriod: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return &Collector{listener: listener}, nil
}

func (c *Collector) Addr() net.Addr {
	return c.listener.Addr()
}

// Serve accepts sessions until ctx is done or the collector is closed.
func (c *Collector) Serve(ctx context.Context, h Handler) error {
	for {
		conn, err := c.listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("accepting trace connection: %w", err)
		}
		go func(conn *quic.Conn) {
			if err := c.handle(ctx, conn, h); err != nil {
				log.Warningf("trace connection from %s: %v", conn.RemoteAddr(), err)
				conn.CloseWithError(1, err.Error())
			}
		}(conn)
	}
}

func (c *Collector) handle(ctx context.Context, conn *quic.Conn, h Handler) error {
	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		return err
	}
	var hello Hello
	if err := readValue(stream, &hello); err != nil {
		return err
	}
	s := Session{ID: hello.Session, Program: hello.Program, Remote: conn.RemoteAddr().String()}
	log.Infof("trace session %s from %s (%s)", s.ID, s.Remote, s.Program)

	var n uint64
	for {
		var batch Batch
		err := readValue(stream, &batch)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		n += uint64(len(batch.Records))
		h(s, batch.Records)
	}
	log.Infof("trace session %s finished: %d records", s.ID, n)
	if err := writeValue(stream, &Ack{Records: n}); err != nil {
		return err
	}
	return stream.Close()
}

func (c *Collector) Close() error {
	return c.listener.Close()
}
