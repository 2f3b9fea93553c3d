package conformance

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/interp"
	"mterp/pkg/types"
	"mterp/pkg/vmrt"
)

var log = commonlog.GetLogger("mterp.conformance")

const serverVersion = "0.1.0"

// Server executes programs on behalf of a differential-testing client. Each
// connection loads its own program; each Run gets a fresh VM.
type Server struct {
	cfg vmrt.Config

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func NewServer(cfg vmrt.Config) *Server {
	return &Server{cfg: cfg, conns: make(map[net.Conn]struct{})}
}

// Start listens on a unix socket and serves connections until Close.
func (s *Server) Start(socketPath string) error {
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	log.Infof("conformance server listening on %s", socketPath)
	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			continue
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()
		go func() {
			defer s.wg.Done()
			if err := s.handleConnection(conn); err != nil {
				log.Errorf("conformance connection: %v", err)
			}
		}()
	}
}

// Close stops accepting and drops every open connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for conn := range s.conns {
		conn.Close()
	}
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

type session struct {
	prog *dex.Program
}

func (s *Server) handleConnection(conn net.Conn) error {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	var sess session
	for {
		data, err := readFrame(conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		resp := s.handleMessageData(&sess, data)
		if err := writeMessage(conn, resp); err != nil {
			return err
		}
	}
}

// handleMessageData answers one request. Failures become Error responses;
// the connection stays usable.
func (s *Server) handleMessageData(sess *session, data []byte) any {
	msg, err := DecodeMessage(data)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	switch m := msg.(type) {
	case *Hello:
		log.Infof("handshake from %s %s", m.Name, m.Version)
		return &Hello{Name: "mterp", Version: serverVersion}
	case *Load:
		prog, err := load(m)
		if err != nil {
			return &Error{Message: err.Error()}
		}
		sess.prog = prog
		return &Loaded{Hash: prog.Hash, Methods: len(prog.Methods)}
	case *Run:
		if sess.prog == nil {
			return &Error{Message: "no program loaded"}
		}
		res, err := RunLocal(s.cfg, sess.prog, m)
		if err != nil {
			return &Error{Message: err.Error()}
		}
		return res
	default:
		return &Error{Message: fmt.Sprintf("unexpected %T request", msg)}
	}
}

func load(m *Load) (*dex.Program, error) {
	switch {
	case len(m.Container) > 0:
		return dex.Load(m.Container)
	case m.Source != "":
		return dex.Assemble(m.Source)
	}
	return nil, fmt.Errorf("load carries neither a container nor source")
}

// entrySnapshot copies the entry frame's registers before each of its
// instructions, so the last copy is the frame as it ended.
type entrySnapshot struct {
	regs []Register
}

func (e *entrySnapshot) DexPCMoved(t *interp.Thread, _ *dex.Method, _ types.DexPC) {
	f := t.TopFrame()
	if f.Link != nil {
		return
	}
	e.regs = e.regs[:0]
	for i := 0; i < f.Regs.Len(); i++ {
		slot := f.Regs.Slot(uint32(i))
		e.regs = append(e.regs, Register{Bits: slot.Bits, Ref: slot.Ref})
	}
}

// RunLocal executes m against prog on a fresh VM built from cfg, exactly as
// a server would answer it.
func RunLocal(cfg vmrt.Config, prog *dex.Program, m *Run) (*Result, error) {
	var out bytes.Buffer
	cfg.Stdout = &out
	vm := vmrt.New(prog, cfg)
	th, err := vm.NewThread()
	if err != nil {
		return nil, err
	}
	defer vm.ReleaseThread(th)
	snap := &entrySnapshot{}
	th.SetInstrumentation(snap)

	args := make([]types.JValue, len(m.Args))
	for i, a := range m.Args {
		switch {
		case a.Text != nil:
			args[i] = types.RefValue(vm.NewString(*a.Text))
		case a.Ref:
			args[i] = types.RefValue(types.HeapRef(a.Bits))
		default:
			args[i] = types.JValue{Bits: a.Bits}
		}
	}

	got, err := vm.Call(th, m.Class, m.Method, m.Signature, args...)
	res := &Result{Registers: snap.regs}
	switch {
	case errors.Is(err, errors.ErrExceptionPending):
		res.Exception, res.Message = vm.ExceptionMessage(th.Exception())
		th.ClearException()
	case err != nil:
		return nil, err
	default:
		res.Value = Value{Bits: got.Bits, Ref: got.IsRef}
		if text, ok := vm.StringValue(got.Ref()); ok {
			res.Value.Text = &text
		}
	}
	if printed := strings.TrimSuffix(out.String(), "\n"); printed != "" {
		res.Output = strings.Split(printed, "\n")
	}
	return res, nil
}
