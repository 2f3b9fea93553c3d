package interp

import (
	golog "log"
	"os"
	"sync"

	"mterp/pkg/dex"
	"mterp/pkg/types"
)

// TraceRecord describes one dispatched instruction.
type TraceRecord struct {
	Thread   uint32
	Method   string
	DexPC    types.DexPC
	Opcode   uint8
	Mnemonic string
	Depth    int
}

// TraceSink receives trace records. Builds with the mterp_trace tag feed it
// every instruction; TraceListener feeds it from the instrumented table in
// any build.
type TraceSink interface {
	Record(rec TraceRecord)
}

// FileTraceSink writes one line per record to a file, truncating it first.
type FileTraceSink struct {
	mu     sync.Mutex
	file   *os.File
	logger *golog.Logger
}

func NewFileTraceSink(filename string) (*FileTraceSink, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return nil, err
	}
	return &FileTraceSink{file: file, logger: golog.New(file, "", golog.LstdFlags)}, nil
}

func (s *FileTraceSink) Record(rec TraceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Printf("thread=%d depth=%d %s pc=%d op=0x%02x %s", rec.Thread, rec.Depth, rec.Method, rec.DexPC, rec.Opcode, rec.Mnemonic)
}

func (s *FileTraceSink) Close() error {
	return s.file.Close()
}

// TraceListener turns instrumentation callbacks into trace records.
type TraceListener struct {
	Sink TraceSink
}

func (l *TraceListener) DexPCMoved(t *Thread, method *dex.Method, pc types.DexPC) {
	op := dex.OpcodeOf(method.Code[pc])
	l.Sink.Record(TraceRecord{
		Thread:   t.ID,
		Method:   method.String(),
		DexPC:    pc,
		Opcode:   uint8(op),
		Mnemonic: op.String(),
		Depth:    t.top.Depth(),
	})
}

func (m *Mterp) traceInstruction(inst types.CodeUnit) {
	op := dex.OpcodeOf(inst)
	rec := TraceRecord{
		Thread:   m.thread.ID,
		Method:   m.sf.Method.String(),
		DexPC:    types.DexPC(m.pc),
		Opcode:   uint8(op),
		Mnemonic: op.String(),
		Depth:    m.sf.Depth(),
	}
	if m.thread.trace != nil {
		m.thread.trace.Record(rec)
		return
	}
	log.Debugf("%s pc=%d %s", rec.Method, rec.DexPC, rec.Mnemonic)
}
