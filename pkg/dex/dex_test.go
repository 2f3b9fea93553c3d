package dex

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mterp/pkg/errors"
	"mterp/pkg/types"
)

const switchProgram = `
.class LMain;
.super Ljava/lang/Object;
.field static LMain;->total:I

.method static LMain;->classify(I)I
    .registers 3
    packed-switch p0, :table
    const/4 v0, -1
    return v0
:one
    const/4 v0, 7
    return v0
:two
    const/16 v0, 20
    return v0
:table
    .packed-switch 1
        :one
        :two
    .end packed-switch
.end method

.method static LMain;->sum([I)I
    .registers 5
    const/4 v0, 0
    array-length v1, p0
    const/4 v2, 0
:loop
    if-ge v2, v1, :done
    aget v3, p0, v2
    add-int/2addr v0, v3
    add-int/lit8 v2, v2, 1
    goto :loop
:done
    sput v0, LMain;->total:I
    return v0
.end method

.method static LMain;->safeDiv(II)I
    .registers 3
:try_start
    div-int v0, p0, p1
:try_end
    return v0
:handler
    move-exception v0
    const/4 v0, 0
    return v0
    .catch Ljava/lang/ArithmeticException; {:try_start .. :try_end} :handler
.end method
`

func TestOpcodeTableCoversAllValues(t *testing.T) {
	unused := map[int]bool{0x73: true, 0x79: true, 0x7a: true}
	for v := 0x3e; v <= 0x43; v++ {
		unused[v] = true
	}
	for v := 0xe3; v <= 0xf9; v++ {
		unused[v] = true
	}

	used := 0
	for v := 0; v < 256; v++ {
		op := Opcode(v)
		info := op.Info()
		if info.Name == "" {
			t.Fatalf("opcode 0x%02x has no name", v)
		}
		if w := op.Width(); w < 1 || w > 5 {
			t.Errorf("%s: width %d", info.Name, w)
		}
		if op.IsUnused() != unused[v] {
			t.Errorf("%s: IsUnused() = %v, want %v", info.Name, op.IsUnused(), unused[v])
		}
		if !op.IsUnused() {
			used++
			if back, ok := Lookup(info.Name); !ok || back != op {
				t.Errorf("Lookup(%q) = 0x%02x, %v", info.Name, uint8(back), ok)
			}
		}
	}
	if used != 224 {
		t.Errorf("%d opcodes in use, want 224", used)
	}
}

func TestRepresentativeEncodings(t *testing.T) {
	tests := []struct {
		name  string
		in    Instruction
		units []types.CodeUnit
	}{
		{"const/4 negative", Instruction{Op: OpConst4, A: 0, Literal: -1}, []types.CodeUnit{0xf012}},
		{"shr-long", Instruction{Op: OpShrLong, A: 0, B: 2, C: 4}, []types.CodeUnit{0x00a4, 0x0402}},
		{"const-wide", Instruction{Op: OpConstWide, A: 1, Literal: 0x0123456789abcdef}, []types.CodeUnit{0x0118, 0xcdef, 0x89ab, 0x4567, 0x0123}},
		{"const/high16", Instruction{Op: OpConstHigh16, A: 3, Literal: -0x10000}, []types.CodeUnit{0x0315, 0xffff}},
		{"invoke-static", Instruction{Op: OpInvokeStatic, Index: 7, Args: []uint32{1, 2, 3}}, []types.CodeUnit{0x3071, 0x0007, 0x0321}},
		{"invoke-virtual five args", Instruction{Op: OpInvokeVirtual, Index: 1, Args: []uint32{1, 2, 3, 4, 5}}, []types.CodeUnit{0x556e, 0x0001, 0x4321}},
		{"add-int/lit8", Instruction{Op: OpAddIntLit8, A: 1, B: 2, Literal: -2}, []types.CodeUnit{0x01d8, 0xfe02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := Encode(&tt.in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if diff := cmp.Diff(tt.units, units); diff != "" {
				t.Fatalf("encoding mismatch (-want +got):\n%s", diff)
			}
			got, err := Decode(units, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.A != tt.in.A || got.B != tt.in.B || got.C != tt.in.C || got.Literal != tt.in.Literal || got.Index != tt.in.Index {
				t.Errorf("decoded %+v, want operands of %+v", got, tt.in)
			}
			if len(tt.in.Args) > 0 {
				if diff := cmp.Diff(tt.in.Args, got.Args); diff != "" {
					t.Errorf("args mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestEncodeRejectsOverflow(t *testing.T) {
	if _, err := Encode(&Instruction{Op: OpConst4, A: 1, Literal: 8}); err == nil {
		t.Errorf("const/4 8 encoded without error")
	}
	if _, err := Encode(&Instruction{Op: OpMove, A: 16, B: 0}); err == nil {
		t.Errorf("move v16 encoded without error")
	}
	if _, err := Encode(&Instruction{Op: OpConstHigh16, A: 0, Literal: 0x12345}); err == nil {
		t.Errorf("const/high16 with low bits encoded without error")
	}
}

func TestAssemblePackedSwitch(t *testing.T) {
	p, err := Assemble(switchProgram)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	m := p.FindMethod("LMain;", "classify", "")
	if m == nil {
		t.Fatalf("classify not found")
	}
	if m.Ins != 1 || m.Registers != 3 || len(m.Code) != 18 {
		t.Fatalf("classify: ins=%d registers=%d code=%d units", m.Ins, m.Registers, len(m.Code))
	}
	if m.Code[0] != 0x022b {
		t.Errorf("packed-switch unit = %#04x, want 0x022b (p0 is v2)", m.Code[0])
	}
	if kind, width := PayloadAt(m.Code, 10); kind != PackedSwitch || width != 8 {
		t.Fatalf("PayloadAt(10) = %#x, %d", uint16(kind), width)
	}
	for key, want := range map[int32]int32{1: 5, 2: 7} {
		got, ok := PackedSwitchTarget(m.Code, 10, key)
		if !ok || got != want {
			t.Errorf("PackedSwitchTarget(%d) = %d, %v; want %d", key, got, ok, want)
		}
	}
	for _, key := range []int32{0, 3, -2147483648, 2147483647} {
		if _, ok := PackedSwitchTarget(m.Code, 10, key); ok {
			t.Errorf("key %d unexpectedly matched", key)
		}
	}
	if !m.IsInstructionStart(5) || m.IsInstructionStart(1) || m.IsInstructionStart(10) {
		t.Errorf("instruction boundaries wrong")
	}

	sum := p.FindMethod("LMain;", "sum", "([I)I")
	if sum == nil || sum.Outs != 0 {
		t.Fatalf("sum: %v", sum)
	}
	if !p.Fields[0].Static || p.FieldKind(0) != types.KindInt {
		t.Errorf("total field: %+v", p.Fields[0])
	}

	div := p.FindMethod("LMain;", "safeDiv", "")
	if len(div.Tries) != 1 || len(div.Tries[0].Handlers) != 1 || div.Tries[0].CatchAll != types.NoDexPC {
		t.Fatalf("safeDiv tries: %+v", div.Tries)
	}
	if got := p.TypeName(div.Tries[0].Handlers[0].Type); got != "Ljava/lang/ArithmeticException;" {
		t.Errorf("catch type = %s", got)
	}
}

func TestSparseSwitchAndArrayData(t *testing.T) {
	p, err := Assemble(`
.method static LT;->f(I)I
    .registers 2
    sparse-switch p0, :sw
    const/4 v0, 0
    return v0
:a
    fill-array-data v0, :arr
    return v0
:sw
    .sparse-switch
        100 -> :a
        -5 -> :a
    .end sparse-switch
:arr
    .array-data 2
        1 2 -1
    .end array-data
.end method
`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	m := p.Methods[0]
	in, err := Decode(m.Code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	table, err := DecodeSwitch(m.Code, int(in.Target()))
	if err != nil {
		t.Fatalf("DecodeSwitch: %v", err)
	}
	if diff := cmp.Diff([]int32{-5, 100}, table.Keys); diff != "" {
		t.Errorf("keys not sorted (-want +got):\n%s", diff)
	}
	if off, ok := SparseSwitchTarget(m.Code, int(in.Target()), -5); !ok || off != 5 {
		t.Errorf("SparseSwitchTarget(-5) = %d, %v", off, ok)
	}
	if _, ok := SparseSwitchTarget(m.Code, int(in.Target()), 6); ok {
		t.Errorf("key 6 unexpectedly matched")
	}

	fill, err := Decode(m.Code, 5)
	if err != nil {
		t.Fatalf("Decode fill-array-data: %v", err)
	}
	arr, err := DecodeArrayData(m.Code, int(fill.Target()))
	if err != nil {
		t.Fatalf("DecodeArrayData: %v", err)
	}
	if arr.Count != 3 || arr.Element(0) != 1 || arr.Element(2) != 0xffff {
		t.Errorf("array payload = %+v", arr)
	}
}

func TestDisassembleReassembles(t *testing.T) {
	p := MustAssemble(switchProgram)
	var buf bytes.Buffer
	if err := p.Disassemble(&buf); err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	q, err := Assemble(buf.String())
	if err != nil {
		t.Fatalf("reassembling:\n%s\nerror: %v", buf.String(), err)
	}
	for _, m := range p.Methods {
		n := q.FindMethod(m.ClassName(), m.Name, m.Signature)
		if n == nil {
			t.Fatalf("%s missing after round trip", m)
		}
		if diff := cmp.Diff(m.Code, n.Code); diff != "" {
			t.Errorf("%s code differs (-orig +reassembled):\n%s", m, diff)
		}
		if diff := cmp.Diff(m.Tries, n.Tries); diff != "" {
			t.Errorf("%s tries differ (-orig +reassembled):\n%s", m, diff)
		}
	}
}

func TestContainerRoundTrip(t *testing.T) {
	p := MustAssemble(switchProgram)
	blob := p.Encode()

	q, err := Load(blob)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(p.Strings, q.Strings); diff != "" {
		t.Errorf("strings (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Types, q.Types); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Fields, q.Fields); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Classes, q.Classes); diff != "" {
		t.Errorf("classes (-want +got):\n%s", diff)
	}
	if len(p.Methods) != len(q.Methods) {
		t.Fatalf("%d methods, want %d", len(q.Methods), len(p.Methods))
	}
	for i, m := range p.Methods {
		n := q.Methods[i]
		if m.String() != n.String() || m.Static != n.Static || m.Registers != n.Registers || m.Ins != n.Ins {
			t.Errorf("method %d: got %s, want %s", i, n, m)
		}
		if diff := cmp.Diff(m.Code, n.Code); diff != "" {
			t.Errorf("%s code (-want +got):\n%s", m, diff)
		}
	}

	again, err := Load(blob)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again != q {
		t.Errorf("second Load did not hit the program cache")
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	blob := MustAssemble(switchProgram).Encode()
	blob[len(blob)/2] ^= 0x40
	if _, err := DecodeProgram(blob); !errors.Is(err, errors.ErrBadProgram) {
		t.Fatalf("DecodeProgram(corrupted) = %v, want ErrBadProgram", err)
	}
	if _, err := DecodeProgram([]byte("MTRP")); !errors.Is(err, errors.ErrBadProgram) {
		t.Fatalf("DecodeProgram(short) = %v, want ErrBadProgram", err)
	}
}

func TestVerifyRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"falls off the end", `
.method static LT;->f()V
    .registers 1
    const/4 v0, 1
.end method`},
		{"branch into an instruction", `
.method static LT;->f()V
    .registers 1
    const/16 v0, 1
    return-void
.end method`},
		{"register out of range", `
.method static LT;->f()V
    .registers 1
    const/4 v1, 1
    return-void
.end method`},
		{"move-wide into the last register", `
.method static LT;->f()V
    .registers 2
    const/4 v0, 1
    move-wide v1, v0
    return-void
.end method`},
		{"wide source past the frame", `
.method static LT;->f()V
    .registers 2
    const/4 v0, 1
    long-to-int v0, v1
    return-void
.end method`},
		{"wide 2addr source past the frame", `
.method static LT;->f()V
    .registers 3
    const-wide/16 v0, 1
    add-long/2addr v0, v2
    return-void
.end method`},
		{"cmp-long second operand past the frame", `
.method static LT;->f()V
    .registers 3
    const-wide/16 v0, 1
    cmp-long v0, v0, v2
    return-void
.end method`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "branch into an instruction" {
				p := MustAssemble(tt.src)
				m := p.Methods[0]
				m.Code = append([]types.CodeUnit{0x0228}, m.Code...) // goto +2 lands inside const/16
				if err := m.Verify(); !errors.Is(err, errors.ErrBadProgram) {
					t.Fatalf("Verify = %v, want ErrBadProgram", err)
				}
				return
			}
			if _, err := Assemble(tt.src); !errors.Is(err, errors.ErrBadProgram) {
				t.Fatalf("Assemble = %v, want ErrBadProgram", err)
			}
		})
	}
}

func TestVerifyAcceptsPairsInsideTheFrame(t *testing.T) {
	_, err := Assemble(`
.method static LT;->f()I
    .registers 5
    const-wide/16 v0, 1
    move-wide v2, v0
    add-long/2addr v2, v0
    cmp-long v4, v0, v2
    long-to-int v4, v2
    return v4
.end method`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
}
