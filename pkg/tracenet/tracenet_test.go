package tracenet

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mterp/pkg/interp"
	"mterp/pkg/types"
)

func TestFramesRejectOversizedMessages(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xff, 0xff, 0x7f})
	if _, err := ReadMessage(&buf); err == nil {
		t.Fatalf("ReadMessage accepted a 2GiB frame")
	}
}

func TestExporterStreamsToCollector(t *testing.T) {
	collector, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer collector.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var mu sync.Mutex
	var got []interp.TraceRecord
	var sessions []Session
	go collector.Serve(ctx, func(s Session, records []Record) {
		mu.Lock()
		defer mu.Unlock()
		if len(sessions) == 0 || sessions[len(sessions)-1].ID != s.ID {
			sessions = append(sessions, s)
		}
		for _, r := range records {
			got = append(got, r.Trace())
		}
	})

	exp, err := Dial(ctx, collector.Addr().String(), ExporterOptions{Program: "fib.s", BatchSize: 4})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	var want []interp.TraceRecord
	for pc := 0; pc < 10; pc++ {
		rec := interp.TraceRecord{Thread: 1, Method: "LCalc;->fib(I)I", DexPC: types.DexPC(pc), Opcode: 0x12, Mnemonic: "const/4", Depth: 1}
		want = append(want, rec)
		exp.Record(rec)
	}
	n, err := exp.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n != uint64(len(want)) {
		t.Errorf("collector acknowledged %d records, want %d", n, len(want))
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if len(sessions) != 1 || sessions[0].ID != exp.Session() || sessions[0].Program != "fib.s" {
		t.Errorf("sessions = %+v, want one fib.s session %s", sessions, exp.Session())
	}
}
