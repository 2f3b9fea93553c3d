package interp

import (
	"fmt"

	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/types"
)

// Mterp is the live state of one running method: what a hand-written
// interpreter keeps pinned in machine registers across handlers.
type Mterp struct {
	thread  *Thread
	sf      *ShadowFrame
	regs    RegisterFile
	code    []types.CodeUnit
	pc      int
	table   *HandlerTable
	hotness int32

	retval types.JValue
	err    error
}

// unit peeks at code unit n of the current instruction without moving the
// cursor.
func (m *Mterp) unit(n int) types.CodeUnit {
	return m.code[m.pc+n]
}

// next commits the current instruction and prefetches the following one.
func (m *Mterp) next(width int) (ExitReason, types.CodeUnit) {
	m.pc += width
	return ExitGo, m.code[m.pc]
}

// resume commits the current instruction after a call-out. The loop
// refreshes the handler table before fetching.
func (m *Mterp) resume(width int) (ExitReason, types.CodeUnit) {
	m.pc += width
	return ExitFetch, 0
}

// exportPC publishes the cursor to the shadow frame. Every handler that can
// fault or call out does this before anything that might throw.
func (m *Mterp) exportPC() {
	m.sf.DexPC = types.DexPC(m.pc)
}

// branch moves the cursor by offset code units. Backward branches count
// toward the hotness threshold and are where a looping method notices
// checkpoints and table swaps.
func (m *Mterp) branch(offset int32) (ExitReason, types.CodeUnit) {
	m.pc += int(offset)
	if offset <= 0 {
		if constants.BranchProfiling {
			m.hotness--
			if m.hotness <= 0 {
				m.hotness = m.thread.hotnessThreshold
				m.thread.methodHot(m.sf.Method)
			}
		}
		if m.thread.flags.Load() != 0 {
			return ExitFetch, 0
		}
	}
	return ExitGo, m.code[m.pc]
}

// throw raises a VM exception from the core. The pc is already exported.
func (m *Mterp) throw(class, message string) (ExitReason, types.CodeUnit) {
	if err := m.thread.runtime.ThrowNew(m.thread, class, message); err != nil && !errors.Is(err, errors.ErrExceptionPending) {
		return m.trap(err)
	}
	return ExitException, 0
}

// callOutFailed maps a call-out error onto the exit protocol.
func (m *Mterp) callOutFailed(err error) (ExitReason, types.CodeUnit) {
	if errors.Is(err, errors.ErrExceptionPending) {
		return ExitException, 0
	}
	return m.trap(err)
}

func (m *Mterp) trap(err error) (ExitReason, types.CodeUnit) {
	m.exportPC()
	m.err = err
	return ExitTrap, 0
}

// execute interprets sf until it returns or an exception escapes it.
func (t *Thread) execute(sf *ShadowFrame) (result types.JValue, err error) {
	m := &Mterp{
		thread:  t,
		sf:      sf,
		regs:    sf.Regs,
		code:    sf.Code,
		hotness: t.hotness,
	}
	defer func() {
		t.hotness = m.hotness
		if r := recover(); r != nil {
			m.exportPC()
			err = errors.Errorf("%s: runtime panic at dex pc %d: %v", sf.Method, sf.DexPC, r)
			log.Errorf("%s", err.Error())
		}
	}()

	if err := m.run(); err != nil {
		return types.JValue{}, err
	}
	return m.retval, nil
}

// run is the dispatch loop. Handlers do their own fetch: ExitGo carries the
// next instruction already read from the code stream, so the loop only
// indexes the table and calls.
func (m *Mterp) run() error {
	m.table = m.thread.handlerTable()
	inst := m.code[m.pc]
	for {
		if constants.VerboseTrace {
			m.traceInstruction(inst)
		}
		reason, next := m.table[inst.Opcode()](m, inst)
		switch reason {
		case ExitGo:
			if constants.VerboseTrace && next != m.code[m.pc] {
				m.exportPC()
				return errors.Wrapf(errors.ErrStaleDispatch, "%s: dispatched %#04x at pc %d holding %#04x", m.sf.Method, uint16(next), m.pc, uint16(m.code[m.pc]))
			}
			inst = next
		case ExitFetch:
			inst = m.refresh()
		case ExitReturn:
			m.thread.poll()
			return nil
		case ExitException:
			m.thread.poll()
			if !m.findCatch() {
				return errors.Wrapf(errors.ErrExceptionPending, "%s at dex pc %d", m.sf.Method, m.sf.DexPC)
			}
			inst = m.refresh()
		case ExitTrap:
			return m.err
		default:
			return fmt.Errorf("handler for %s returned exit reason %d", dex.OpcodeOf(inst), reason)
		}
	}
}

// refresh is the fresh dispatch entry: service checkpoints, reload the
// handler table, fetch at the cursor.
func (m *Mterp) refresh() types.CodeUnit {
	if m.thread.flags.Load()&flagTableChanged != 0 {
		m.thread.flags.And(^flagTableChanged)
	}
	m.thread.poll()
	m.table = m.thread.handlerTable()
	return m.code[m.pc]
}

func (m *Mterp) findCatch() bool {
	t := m.thread
	pc, ok := t.runtime.FindCatchHandler(t, m.sf.Method, m.sf.DexPC, t.exception)
	if !ok {
		return false
	}
	m.pc = int(pc)
	m.sf.DexPC = pc
	return true
}
