package interp

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/types"
)

const calcProgram = `
.class LCalc;
.super Ljava/lang/Object;

.method static LCalc;->fib(I)I
    .registers 4
    const/4 v0, 0
    const/4 v1, 1
:loop
    if-lez p0, :done
    add-int v2, v0, v1
    move v0, v1
    move v1, v2
    add-int/lit8 p0, p0, -1
    goto :loop
:done
    return v0
.end method

.method static LCalc;->shr(JI)J
    .registers 3
    shr-long p0, p0, p2
    return-wide p0
.end method

.method static LCalc;->shl(JI)J
    .registers 3
    shl-long/2addr p0, p2
    return-wide p0
.end method

.method static LCalc;->d2l(D)J
    .registers 2
    double-to-long p0, p0
    return-wide p0
.end method

.method static LCalc;->toByte(I)I
    .registers 1
    int-to-byte p0, p0
    return p0
.end method

.method static LCalc;->div(II)I
    .registers 2
    div-int p0, p0, p1
    return p0
.end method

.method static LCalc;->remLit(I)I
    .registers 1
    rem-int/lit8 p0, p0, 7
    return p0
.end method

.method static LCalc;->cmpl(FF)I
    .registers 3
    cmpl-float v0, p0, p1
    return v0
.end method

.method static LCalc;->cmpg(FF)I
    .registers 3
    cmpg-float v0, p0, p1
    return v0
.end method

.method static LCalc;->bigConst()J
    .registers 2
    const-wide v0, 0x123456789abcdef0
    return-wide v0
.end method

.method static LCalc;->twiceFib(I)I
    .registers 2
    invoke-static {p0}, LCalc;->fib(I)I
    move-result v0
    add-int/2addr v0, v0
    return v0
.end method

.method static LCalc;->classify(I)I
    .registers 2
    sparse-switch p0, :table
    const/4 v0, 0
    return v0
:neg
    const/4 v0, -1
    return v0
:big
    const/16 v0, 1000
    return v0
:table
    .sparse-switch
        -5 -> :neg
        100000 -> :big
    .end sparse-switch
.end method
`

func TestArithmeticPrograms(t *testing.T) {
	th, rt := newTestThread(t, calcProgram)
	tests := []struct {
		method string
		args   []VReg
		want   int32
	}{
		{"fib", ints(10), 55},
		{"fib", ints(0), 0},
		{"toByte", ints(0x1ff), -1},
		{"div", ints(-7, 2), -3},
		{"div", ints(math.MinInt32, -1), math.MinInt32},
		{"remLit", ints(-15), -1},
		{"twiceFib", ints(7), 26},
		{"classify", ints(-5), -1},
		{"classify", ints(100000), 1000},
		{"classify", ints(3), 0},
		{"cmpl", []VReg{{Bits: math.Float32bits(float32(math.NaN()))}, {Bits: math.Float32bits(1)}}, -1},
		{"cmpg", []VReg{{Bits: math.Float32bits(float32(math.NaN()))}, {Bits: math.Float32bits(1)}}, 1},
		{"cmpl", []VReg{{Bits: math.Float32bits(2)}, {Bits: math.Float32bits(1)}}, 1},
	}
	for _, tt := range tests {
		got, err := th.Run(mustMethod(t, rt, tt.method), tt.args)
		if err != nil {
			t.Fatalf("%s%v: %v", tt.method, tt.args, err)
		}
		if got.Int() != tt.want {
			t.Errorf("%s%v = %d, want %d", tt.method, tt.args, got.Int(), tt.want)
		}
	}
}

func TestWideHandlers(t *testing.T) {
	th, rt := newTestThread(t, calcProgram)
	run := func(name string, args []VReg) int64 {
		t.Helper()
		got, err := th.Run(mustMethod(t, rt, name), args)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return got.Long()
	}

	const v = -0x123456789abcdef
	for _, s := range []int32{0, 31, 32, 63, 64, 96} {
		if got, want := run("shr", append(wide(v), ints(s)...)), int64(v)>>(s&63); got != want {
			t.Errorf("shr-long by %d = %#x, want %#x", s, got, want)
		}
		if got, want := run("shl", append(wide(v), ints(s)...)), int64(v)<<(s&63); got != want {
			t.Errorf("shl-long/2addr by %d = %#x, want %#x", s, got, want)
		}
	}

	d2l := func(d float64) int64 { return run("d2l", wide(int64(math.Float64bits(d)))) }
	if got := d2l(math.NaN()); got != 0 {
		t.Errorf("d2l(NaN) = %d, want 0", got)
	}
	if got := d2l(math.Inf(-1)); got != math.MinInt64 {
		t.Errorf("d2l(-Inf) = %d, want %d", got, int64(math.MinInt64))
	}
	if got := d2l(-12.75); got != -12 {
		t.Errorf("d2l(-12.75) = %d, want -12", got)
	}
	if got := run("bigConst", nil); got != 0x123456789abcdef0 {
		t.Errorf("const-wide = %#x, want 0x123456789abcdef0", got)
	}
}

const objectProgram = `
.class LObj;
.super Ljava/lang/Object;
.field static LObj;->last:I

.method static LObj;->work()I
    .registers 6
    const/4 v0, 3
    new-array v1, v0, [I
    const/4 v2, 1
    const/4 v3, 7
    aput v3, v1, v2
    aget v4, v1, v2
    array-length v5, v1
    add-int/2addr v4, v5
    const-string v5, "hi"
    invoke-static {v4}, LObj;->println(I)V
    sput v4, LObj;->last:I
    sget v0, LObj;->last:I
    return v0
.end method

.method static LObj;->println(I)V
.end method

.method static LObj;->guarded(I)I
    .registers 3
    const/4 v0, 2
    new-array v0, v0, [I
:try_start
    aget v1, v0, p0
:try_end
    return v1
:handler
    move-exception v1
    const/4 v1, -1
    return v1
    .catch Ljava/lang/ArrayIndexOutOfBoundsException; {:try_start .. :try_end} :handler
.end method

.method static LObj;->divide(II)I
    .registers 2
    nop
    div-int/2addr p0, p1
    return p0
.end method

.method static LObj;->throwNull()V
    .registers 1
    const/4 v0, 0
    throw v0
.end method

.method static LObj;->boom()V
    .registers 1
    new-instance v0, LBoom;
    throw v0
.end method
`

func TestCallOutsSeeExportedPC(t *testing.T) {
	th, rt := newTestThread(t, objectProgram)
	got, err := th.Run(mustMethod(t, rt, "work"), nil)
	if err != nil {
		t.Fatalf("work: %v", err)
	}
	if got.Int() != 10 {
		t.Errorf("work() = %d, want 10", got.Int())
	}
	if diff := cmp.Diff([]string{"10"}, rt.printed); diff != "" {
		t.Errorf("println mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, c := range rt.calls {
		names = append(names, c.name)
		if !strings.HasPrefix(c.op.String(), c.name) {
			t.Errorf("%s call-out saw pc %d holding %s", c.name, c.pc, c.op)
		}
		if !c.op.CanThrow() {
			t.Errorf("%s at pc %d is not marked as throwing", c.op, c.pc)
		}
	}
	want := []string{"new-array", "aput", "aget", "array-length", "const-string", "invoke", "sput", "sget"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("call-out order mismatch (-want +got):\n%s", diff)
	}
}

func TestExceptions(t *testing.T) {
	th, rt := newTestThread(t, objectProgram)

	got, err := th.Run(mustMethod(t, rt, "guarded"), ints(1))
	if err != nil || got.Int() != 0 {
		t.Fatalf("guarded(1) = %d, %v; want 0, nil", got.Int(), err)
	}
	got, err = th.Run(mustMethod(t, rt, "guarded"), ints(5))
	if err != nil || got.Int() != -1 {
		t.Fatalf("guarded(5) = %d, %v; want -1, nil", got.Int(), err)
	}
	if !th.Exception().IsNull() {
		t.Errorf("caught exception still pending")
	}

	_, err = th.Run(mustMethod(t, rt, "divide"), ints(1, 0))
	if !errors.Is(err, errors.ErrExceptionPending) {
		t.Fatalf("divide(1, 0): got %v, want pending exception", err)
	}
	if c := rt.objects[th.Exception()].class; c != "Ljava/lang/ArithmeticException;" {
		t.Errorf("divide by zero threw %s", c)
	}
	if rt.throwPC != 1 {
		t.Errorf("divide by zero raised at pc %d, want 1", rt.throwPC)
	}
	th.ClearException()

	_, err = th.Run(mustMethod(t, rt, "throwNull"), nil)
	if !errors.Is(err, errors.ErrExceptionPending) {
		t.Fatalf("throwNull: got %v, want pending exception", err)
	}
	if c := rt.objects[th.Exception()].class; c != "Ljava/lang/NullPointerException;" {
		t.Errorf("throw null raised %s", c)
	}
	th.ClearException()

	_, err = th.Run(mustMethod(t, rt, "boom"), nil)
	if !errors.Is(err, errors.ErrExceptionPending) {
		t.Fatalf("boom: got %v, want pending exception", err)
	}
	if c := rt.objects[th.Exception()].class; c != "LBoom;" {
		t.Errorf("boom threw %s", c)
	}
}

type recordingSink struct {
	records []TraceRecord
}

func (s *recordingSink) Record(rec TraceRecord) {
	s.records = append(s.records, rec)
}

func TestInstrumentationSeesEveryInstruction(t *testing.T) {
	th, rt := newTestThread(t, calcProgram)
	sink := &recordingSink{}
	th.SetInstrumentation(&TraceListener{Sink: sink})

	if _, err := th.Run(mustMethod(t, rt, "twiceFib"), ints(1)); err != nil {
		t.Fatalf("twiceFib: %v", err)
	}
	var got []string
	for _, r := range sink.records {
		got = append(got, r.Mnemonic)
	}
	want := []string{
		"invoke-static",
		"const/4", "const/4", "if-lez", "add-int", "move", "move", "add-int/lit8", "goto", "if-lez", "return",
		"move-result", "add-int/2addr", "return",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if sink.records[1].Depth != 2 {
		t.Errorf("callee depth = %d, want 2", sink.records[1].Depth)
	}

	th.SetInstrumentation(nil)
	sink.records = nil
	if _, err := th.Run(mustMethod(t, rt, "fib"), ints(3)); err != nil {
		t.Fatalf("fib: %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("listener saw %d instructions after removal", len(sink.records))
	}
}

type hotCounter struct {
	methods []string
}

func (h *hotCounter) MethodHot(t *Thread, m *dex.Method, branches int32) {
	h.methods = append(h.methods, m.Name)
}

func TestBackwardBranchesReportHotMethods(t *testing.T) {
	if !constants.BranchProfiling {
		t.Skip("built without branch profiling")
	}
	prog := dex.MustAssemble(calcProgram)
	hot := &hotCounter{}
	th, err := NewThread(1, newFakeRuntime(prog), ThreadConfig{
		HotnessThreshold: 10,
		StackSlots:       constants.MinStackSlots,
		Hot:              hot,
	})
	if err != nil {
		t.Fatalf("NewThread: %v", err)
	}
	defer th.Close()

	if _, err := th.Run(prog.FindMethod("LCalc;", "fib", ""), ints(25)); err != nil {
		t.Fatalf("fib: %v", err)
	}
	if diff := cmp.Diff([]string{"fib", "fib"}, hot.methods); diff != "" {
		t.Errorf("hot reports mismatch (-want +got):\n%s", diff)
	}
}

const spinProgram = `
.class LLoop;
.super Ljava/lang/Object;
.field static LLoop;->stop:Z

.method static LLoop;->spin()I
    .registers 2
    const/4 v0, 0
:loop
    add-int/lit8 v0, v0, 1
    sget-boolean v1, LLoop;->stop:Z
    if-eqz v1, :loop
    return v0
.end method
`

func TestCheckpointRunsAtSafepoint(t *testing.T) {
	th, rt := newTestThread(t, spinProgram)
	spin := mustMethod(t, rt, "spin")

	var wg sync.WaitGroup
	var result types.JValue
	var runErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, runErr = th.Run(spin, nil)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for th.State() != StateRunnable {
		if time.Now().After(deadline) {
			t.Fatalf("thread never became runnable")
		}
		time.Sleep(time.Millisecond)
	}

	var frameMethod string
	var roots int
	th.RunCheckpoint(func(t *Thread) {
		if f := t.TopFrame(); f != nil {
			frameMethod = f.Method.Name
		}
		t.VisitRoots(func(types.HeapRef) { roots++ })
		rt.statics[0] = types.JValue{Bits: 1}
	})
	wg.Wait()

	if runErr != nil {
		t.Fatalf("spin: %v", runErr)
	}
	if frameMethod != "spin" {
		t.Errorf("checkpoint saw top frame %q, want spin", frameMethod)
	}
	if roots != 0 {
		t.Errorf("checkpoint saw %d roots, want 0", roots)
	}
	if result.Int() < 1 {
		t.Errorf("spin() = %d, want at least one iteration", result.Int())
	}
}
