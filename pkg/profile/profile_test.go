package profile

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mterp/pkg/dex"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAccumulatesCounts(t *testing.T) {
	s := openTestStore(t)
	prog := [32]byte{1}
	other := [32]byte{2}

	for _, add := range []struct {
		program [32]byte
		method  string
		delta   uint64
	}{
		{prog, "LA;->f()V", 10},
		{prog, "LA;->g()V", 3},
		{prog, "LA;->f()V", 5},
		{other, "LA;->f()V", 100},
	} {
		if err := s.Add(add.program, add.method, add.delta); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := s.Methods(prog)
	if err != nil {
		t.Fatalf("Methods: %v", err)
	}
	want := []Entry{{"LA;->f()V", 15}, {"LA;->g()V", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Methods mismatch (-want +got):\n%s", diff)
	}

	if err := s.Reset(prog); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n, _ := s.Lookup(prog, "LA;->f()V"); n != 0 {
		t.Errorf("count after Reset = %d, want 0", n)
	}
	if n, _ := s.Lookup(other, "LA;->f()V"); n != 100 {
		t.Errorf("other program's count = %d, want 100", n)
	}
}

func TestRollbackDiscardsWrites(t *testing.T) {
	s := openTestStore(t)
	prog := [32]byte{7}
	if err := s.BeginTransaction(); err != nil {
		t.Fatalf("BeginTransaction: %v", err)
	}
	if err := s.Add(prog, "LA;->f()V", 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if n, _ := s.Lookup(prog, "LA;->f()V"); n != 1 {
		t.Errorf("count inside transaction = %d, want 1", n)
	}
	if err := s.RollbackTransaction(); err != nil {
		t.Fatalf("RollbackTransaction: %v", err)
	}
	if n, _ := s.Lookup(prog, "LA;->f()V"); n != 0 {
		t.Errorf("count after rollback = %d, want 0", n)
	}
}

func TestSaverFlushesReports(t *testing.T) {
	s := openTestStore(t)
	prog := dex.MustAssemble(`
.class LHot;
.method static LHot;->spin()V
    .registers 1
    return-void
.end method
`)
	m := prog.FindMethod("LHot;", "spin", "")

	saver := NewSaver(s, prog.Hash, time.Hour)
	saver.Start()
	for i := 0; i < 3; i++ {
		saver.MethodHot(nil, m, 64)
	}
	if err := saver.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := s.Lookup(prog.Hash, "LHot;->spin()V")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != 192 {
		t.Errorf("count = %d, want 192", got)
	}
}
