package interp

// ExitReason is what a handler tells the dispatch loop to do next.
type ExitReason uint8

const (
	// ExitGo dispatches the prefetched unit the handler returned.
	ExitGo ExitReason = iota
	// ExitFetch refreshes the handler table from the thread, services any
	// pending checkpoint, then fetches at the cursor.
	ExitFetch
	// ExitReturn leaves the method; the handler has set the return value.
	ExitReturn
	// ExitException looks for a catch handler for the thread's pending
	// exception at the exported pc.
	ExitException
	// ExitTrap aborts execution with the error recorded on the interpreter.
	ExitTrap
)

var exitReasonNames = [...]string{"go", "fetch", "return", "exception", "trap"}

func (e ExitReason) String() string {
	if int(e) < len(exitReasonNames) {
		return exitReasonNames[e]
	}
	return "unknown"
}
