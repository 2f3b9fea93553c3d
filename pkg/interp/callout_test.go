package interp

import (
	"fmt"
	"strings"
	"testing"

	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/types"
)

// Opcodes that decode but stop with ErrUnimplemented.
var unimplementedThrowing = map[string]bool{
	"invoke-polymorphic":       true,
	"invoke-polymorphic/range": true,
	"invoke-custom":            true,
	"invoke-custom/range":      true,
	"const-method-handle":      true,
	"const-method-type":        true,
}

var kindSuffixes = []struct {
	suffix string
	desc   string
}{
	{"", "I"},
	{"-wide", "J"},
	{"-object", "Ljava/lang/Object;"},
	{"-boolean", "Z"},
	{"-byte", "B"},
	{"-char", "C"},
	{"-short", "S"},
}

type throwingCase struct {
	op   string
	body string
}

// throwingCases returns one method body per throwing opcode. Each body ends
// at the instruction under test or runs it and returns.
func throwingCases() []throwingCase {
	cases := []throwingCase{
		{"const-string", `const-string v0, "x"`},
		{"const-string/jumbo", `const-string/jumbo v0, "x"`},
		{"const-class", "const-class v0, LF;"},
		{"monitor-enter", "const/4 v0, 0\n    monitor-enter v0"},
		{"monitor-exit", "const/4 v0, 0\n    monitor-exit v0"},
		{"check-cast", "const/4 v0, 0\n    check-cast v0, LF;"},
		{"instance-of", "const/4 v1, 0\n    instance-of v0, v1, LF;"},
		{"array-length", "const/4 v1, 0\n    array-length v0, v1"},
		{"new-instance", "new-instance v0, LF;"},
		{"new-array", "const/4 v0, -1\n    new-array v1, v0, [I"},
		{"filled-new-array", "const/4 v0, 1\n    filled-new-array {v0, v0}, [I"},
		{"filled-new-array/range", "const/4 v0, 1\n    const/4 v1, 2\n    filled-new-array/range {v0 .. v1}, [I"},
		{"fill-array-data", "const/4 v0, 0\n    fill-array-data v0, :arr\n    return-void\n:arr\n    .array-data 4\n        1 2\n    .end array-data"},
		{"throw", "const/4 v0, 0\n    throw v0"},
		{"invoke-virtual", "new-instance v0, LF;\n    invoke-virtual {v0}, LF;->inst()V"},
		{"invoke-super", "new-instance v0, LF;\n    invoke-super {v0}, LF;->inst()V"},
		{"invoke-direct", "new-instance v0, LF;\n    invoke-direct {v0}, LF;->inst()V"},
		{"invoke-interface", "new-instance v0, LF;\n    invoke-interface {v0}, LF;->inst()V"},
		{"invoke-static", "const/4 v0, 1\n    invoke-static {v0}, LF;->nat(I)V"},
		{"invoke-virtual/range", "new-instance v0, LF;\n    invoke-virtual/range {v0 .. v0}, LF;->inst()V"},
		{"invoke-super/range", "new-instance v0, LF;\n    invoke-super/range {v0 .. v0}, LF;->inst()V"},
		{"invoke-direct/range", "new-instance v0, LF;\n    invoke-direct/range {v0 .. v0}, LF;->inst()V"},
		{"invoke-interface/range", "new-instance v0, LF;\n    invoke-interface/range {v0 .. v0}, LF;->inst()V"},
		{"invoke-static/range", "const/4 v0, 1\n    invoke-static/range {v0 .. v0}, LF;->nat(I)V"},
		{"div-int", "const/4 v0, 1\n    const/4 v1, 0\n    div-int v2, v0, v1"},
		{"rem-int", "const/4 v0, 1\n    const/4 v1, 0\n    rem-int v2, v0, v1"},
		{"div-long", "const-wide/16 v0, 1\n    const-wide/16 v2, 0\n    div-long v4, v0, v2"},
		{"rem-long", "const-wide/16 v0, 1\n    const-wide/16 v2, 0\n    rem-long v4, v0, v2"},
		{"div-int/2addr", "const/4 v0, 1\n    const/4 v1, 0\n    div-int/2addr v0, v1"},
		{"rem-int/2addr", "const/4 v0, 1\n    const/4 v1, 0\n    rem-int/2addr v0, v1"},
		{"div-long/2addr", "const-wide/16 v0, 1\n    const-wide/16 v2, 0\n    div-long/2addr v0, v2"},
		{"rem-long/2addr", "const-wide/16 v0, 1\n    const-wide/16 v2, 0\n    rem-long/2addr v0, v2"},
		{"div-int/lit16", "const/4 v0, 1\n    div-int/lit16 v1, v0, 0"},
		{"rem-int/lit16", "const/4 v0, 1\n    rem-int/lit16 v1, v0, 0"},
		{"div-int/lit8", "const/4 v0, 1\n    div-int/lit8 v1, v0, 0"},
		{"rem-int/lit8", "const/4 v0, 1\n    rem-int/lit8 v1, v0, 0"},
	}
	for i, k := range kindSuffixes {
		field := fmt.Sprintf("LF;->f%d:%s", i, k.desc)
		static := fmt.Sprintf("LF;->s%d:%s", i, k.desc)
		nulls := "const/4 v0, 0\n    const/4 v1, 0\n    "
		cases = append(cases,
			throwingCase{"aget" + k.suffix, nulls + fmt.Sprintf("aget%s v2, v0, v1", k.suffix)},
			throwingCase{"aput" + k.suffix, nulls + fmt.Sprintf("aput%s v2, v0, v1", k.suffix)},
			throwingCase{"iget" + k.suffix, nulls + fmt.Sprintf("iget%s v2, v0, %s", k.suffix, field)},
			throwingCase{"iput" + k.suffix, nulls + fmt.Sprintf("iput%s v2, v0, %s", k.suffix, field)},
			throwingCase{"sget" + k.suffix, fmt.Sprintf("sget%s v2, %s", k.suffix, static)},
			throwingCase{"sput" + k.suffix, nulls + fmt.Sprintf("sput%s v0, %s", k.suffix, static)},
		)
	}
	return cases
}

func throwingProgram(cases []throwingCase) string {
	var b strings.Builder
	b.WriteString(".class LF;\n.super Ljava/lang/Object;\n")
	for i, k := range kindSuffixes {
		fmt.Fprintf(&b, ".field LF;->f%d:%s\n", i, k.desc)
		fmt.Fprintf(&b, ".field static LF;->s%d:%s\n", i, k.desc)
	}
	b.WriteString("\n.method LF;->inst()V\n.end method\n\n.method static LF;->nat(I)V\n.end method\n")
	for i, c := range cases {
		fmt.Fprintf(&b, "\n.method static LF;->case%d()V\n    .registers 6\n    nop\n    %s\n", i, c.body)
		if !strings.Contains(c.body, "return-void") {
			b.WriteString("    return-void\n")
		}
		b.WriteString(".end method\n")
	}
	return b.String()
}

// pcOf returns the pc of the first instruction in m with opcode op.
func pcOf(t *testing.T, m *dex.Method, op dex.Opcode) types.DexPC {
	t.Helper()
	for pc := 0; pc < len(m.Code); {
		in, err := dex.Decode(m.Code, pc)
		if err != nil {
			t.Fatalf("%s: decode at %d: %v", m, pc, err)
		}
		if in.Op == op {
			return types.DexPC(pc)
		}
		pc += in.Width()
	}
	t.Fatalf("%s has no %s", m, op)
	return 0
}

func TestThrowingOpcodesExportPC(t *testing.T) {
	cases := throwingCases()
	covered := make(map[string]bool, len(cases))
	for _, c := range cases {
		covered[c.op] = true
	}
	for op := 0; op < 256; op++ {
		o := dex.Opcode(op)
		if o.IsUnused() || !o.CanThrow() || unimplementedThrowing[o.String()] {
			continue
		}
		if !covered[o.String()] {
			t.Errorf("throwing opcode %s has no case", o)
		}
	}

	th, rt := newTestThread(t, throwingProgram(cases))
	for i, c := range cases {
		t.Run(c.op, func(t *testing.T) {
			op, ok := dex.Lookup(c.op)
			if !ok {
				t.Fatalf("unknown opcode %s", c.op)
			}
			m := mustMethod(t, rt, fmt.Sprintf("case%d", i))
			want := pcOf(t, m, op)

			rt.calls = nil
			rt.throwPC = types.NoDexPC
			_, err := th.Run(m, nil)
			if err != nil && !errors.Is(err, errors.ErrExceptionPending) {
				t.Fatalf("Run: %v", err)
			}
			th.ClearException()

			seen := false
			if err != nil {
				seen = true
				if rt.throwPC != want {
					t.Errorf("exception raised at pc %d, want %d", rt.throwPC, want)
				}
			}
			if n := len(rt.calls); n > 0 {
				seen = true
				last := rt.calls[n-1]
				if last.pc != want || last.op != op {
					t.Errorf("last call-out saw pc %d holding %s, want pc %d holding %s", last.pc, last.op, want, op)
				}
			}
			if !seen {
				t.Errorf("%s neither called out nor threw", c.op)
			}
		})
	}
}
