package dex

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mterp/pkg/types"
)

// Assemble builds and verifies a program from smali-like text:
//
//	.class LMain;
//	.field static LMain;->count:I
//	.method static LMain;->fib(I)I
//	    .registers 4
//	    const/4 v0, 1
//	    if-le p0, v0, :done
//	    ...
//	:done
//	    return p0
//	.end method
//
// pN names the N-th argument register. Methods referenced but never defined
// are added without code and left to the runtime.
func Assemble(src string) (*Program, error) {
	a := &assembler{
		p:       &Program{},
		strings: make(map[string]uint32),
		types:   make(map[string]uint32),
		fields:  make(map[string]uint32),
		methods: make(map[string]uint32),
	}
	if err := a.parse(src); err != nil {
		return nil, err
	}
	for _, am := range a.bodies {
		if err := a.encode(am); err != nil {
			return nil, err
		}
	}
	if err := a.p.Verify(); err != nil {
		return nil, err
	}
	a.p.Hash = ContentHash(a.p.Encode())
	return a.p, nil
}

// MustAssemble is Assemble for fixed sources; it panics on error.
func MustAssemble(src string) *Program {
	p, err := Assemble(src)
	if err != nil {
		panic(err)
	}
	return p
}

type assembler struct {
	p       *Program
	strings map[string]uint32
	types   map[string]uint32
	fields  map[string]uint32
	methods map[string]uint32
	bodies  []*asmMethod
	class   int // index into p.Classes of the last .class, or -1
}

type asmMethod struct {
	m       *Method
	line    int
	items   []*asmItem
	labels  map[string]int
	catches []asmCatch
	size    int
}

type asmItem struct {
	line     int
	pc       int
	op       Opcode
	operands []string
	payload  *asmPayload
}

type asmPayload struct {
	kind   PayloadKind
	first  int32
	keys   []int32
	labels []string
	width  int
	elem   int
	values []string
}

type asmCatch struct {
	line              int
	typ               string // "" for catch-all
	start, end, label string
}

func lineErr(line int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func stripComment(s string) string {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return s[:i]
			}
		}
	}
	return s
}

func (a *assembler) parse(src string) error {
	a.class = -1
	lines := strings.Split(src, "\n")
	var cur *asmMethod
	var pending []string // labels waiting for the next item's pc

	for i := 0; i < len(lines); i++ {
		n := i + 1
		line := strings.TrimSpace(stripComment(lines[i]))
		if line == "" {
			continue
		}
		head, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if cur == nil {
			switch head {
			case ".class":
				t := a.typeIndex(rest)
				a.p.Classes = append(a.p.Classes, ClassDef{Type: types.TypeIndex(t), Super: types.TypeIndex(NoIndex)})
				a.class = len(a.p.Classes) - 1
			case ".super":
				if a.class < 0 {
					return lineErr(n, ".super outside a class")
				}
				a.p.Classes[a.class].Super = types.TypeIndex(a.typeIndex(rest))
			case ".field":
				static := false
				if s, ok := strings.CutPrefix(rest, "static "); ok {
					static, rest = true, strings.TrimSpace(s)
				}
				idx, err := a.fieldIndex(rest)
				if err != nil {
					return lineErr(n, "%v", err)
				}
				a.p.Fields[idx].Static = static
			case ".method":
				static := false
				if s, ok := strings.CutPrefix(rest, "static "); ok {
					static, rest = true, strings.TrimSpace(s)
				}
				idx, err := a.methodIndex(rest, static)
				if err != nil {
					return lineErr(n, "%v", err)
				}
				m := a.p.Methods[idx]
				m.Static = static
				ins, err := InsFor(m.Signature, static)
				if err != nil {
					return lineErr(n, "%v", err)
				}
				m.Ins = uint16(ins)
				cur = &asmMethod{m: m, line: n, labels: make(map[string]int)}
			default:
				return lineErr(n, "unexpected %q outside a method", head)
			}
			continue
		}

		switch {
		case head == ".end" && rest == "method":
			for _, l := range pending {
				cur.labels[l] = cur.size
			}
			pending = nil
			if cur.items != nil || cur.m.Registers != 0 {
				a.bodies = append(a.bodies, cur)
			}
			cur = nil
		case head == ".registers":
			r, err := strconv.ParseUint(rest, 0, 16)
			if err != nil {
				return lineErr(n, "bad register count %q", rest)
			}
			cur.m.Registers = uint16(r)
		case head == ".catch" || head == ".catchall":
			c := asmCatch{line: n}
			if head == ".catch" {
				c.typ, rest, _ = strings.Cut(rest, " ")
				rest = strings.TrimSpace(rest)
			}
			open, closeAt := strings.IndexByte(rest, '{'), strings.IndexByte(rest, '}')
			if open != 0 || closeAt < 0 {
				return lineErr(n, "expected {:start .. :end} :handler")
			}
			start, end, ok := strings.Cut(rest[1:closeAt], "..")
			if !ok {
				return lineErr(n, "expected {:start .. :end}")
			}
			c.start, c.end = strings.TrimSpace(start), strings.TrimSpace(end)
			c.label = strings.TrimSpace(rest[closeAt+1:])
			cur.catches = append(cur.catches, c)
		case strings.HasPrefix(head, ":"):
			pending = append(pending, head)
		case head == ".packed-switch" || head == ".sparse-switch" || head == ".array-data":
			pl, consumed, err := parsePayload(lines[i+1:], head, rest, n)
			if err != nil {
				return err
			}
			i += consumed
			if cur.size%2 != 0 {
				cur.items = append(cur.items, &asmItem{line: n, pc: cur.size, op: OpNop})
				cur.size++
			}
			for _, l := range pending {
				cur.labels[l] = cur.size
			}
			pending = nil
			cur.items = append(cur.items, &asmItem{line: n, pc: cur.size, payload: pl})
			cur.size += pl.width
		default:
			op, ok := Lookup(head)
			if !ok {
				return lineErr(n, "unknown instruction %q", head)
			}
			for _, l := range pending {
				cur.labels[l] = cur.size
			}
			pending = nil
			cur.items = append(cur.items, &asmItem{line: n, pc: cur.size, op: op, operands: splitOperands(rest)})
			cur.size += op.Width()
		}
	}
	if cur != nil {
		return lineErr(cur.line, "method %s has no .end method", cur.m)
	}
	return nil
}

// parsePayload consumes the body of a payload directive up to its .end line.
func parsePayload(lines []string, head, arg string, line int) (*asmPayload, int, error) {
	pl := &asmPayload{}
	endTag := ".end " + strings.TrimPrefix(head, ".")
	switch head {
	case ".packed-switch":
		pl.kind = PackedSwitch
		first, err := parseInt(arg)
		if err != nil {
			return nil, 0, lineErr(line, "packed-switch first key: %v", err)
		}
		pl.first = int32(first)
	case ".sparse-switch":
		pl.kind = SparseSwitch
	case ".array-data":
		pl.kind = ArrayData
		w, err := strconv.Atoi(arg)
		if err != nil || (w != 1 && w != 2 && w != 4 && w != 8) {
			return nil, 0, lineErr(line, "bad array-data element width %q", arg)
		}
		pl.elem = w
	}
	for i, raw := range lines {
		n := line + i + 1
		l := strings.TrimSpace(stripComment(raw))
		if l == "" {
			continue
		}
		if l == endTag {
			switch pl.kind {
			case PackedSwitch:
				pl.width = 4 + 2*len(pl.labels)
			case SparseSwitch:
				pl.width = 2 + 4*len(pl.labels)
			case ArrayData:
				pl.width = 4 + (len(pl.values)*pl.elem+1)/2
			}
			return pl, i + 1, nil
		}
		switch pl.kind {
		case PackedSwitch:
			pl.labels = append(pl.labels, l)
		case SparseSwitch:
			key, target, ok := strings.Cut(l, "->")
			if !ok {
				return nil, 0, lineErr(n, "expected KEY -> :label")
			}
			k, err := parseInt(strings.TrimSpace(key))
			if err != nil {
				return nil, 0, lineErr(n, "sparse-switch key: %v", err)
			}
			pl.keys = append(pl.keys, int32(k))
			pl.labels = append(pl.labels, strings.TrimSpace(target))
		case ArrayData:
			pl.values = append(pl.values, strings.Fields(l)...)
		}
	}
	return nil, 0, lineErr(line, "missing %s", endTag)
}

// splitOperands splits on commas outside quotes and braces.
func splitOperands(s string) []string {
	var out []string
	depth, inQuote, start := 0, false, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case !inQuote && c == '{':
			depth++
		case !inQuote && c == '}':
			depth--
		case !inQuote && depth == 0 && c == ',':
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" || len(out) > 0 {
		out = append(out, tail)
	}
	return out
}

func parseInt(s string) (int64, error) {
	s = strings.TrimPrefix(s, "#")
	if t := strings.TrimSuffix(strings.TrimSuffix(s, "L"), "l"); t != s && t != "" {
		s = t
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q", s)
	}
	return int64(v), nil
}

// parseConst parses an integer or floating-point literal. Floats become
// their IEEE bit pattern: float64 for wide constants, float32 otherwise or
// when suffixed with f.
func parseConst(s string, wide bool) (int64, error) {
	if v, err := parseInt(s); err == nil {
		return v, nil
	}
	s = strings.TrimPrefix(s, "#")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if wide {
			return int64(math.Float64bits(f)), nil
		}
		return int64(int32(math.Float32bits(float32(f)))), nil
	}
	if t, ok := strings.CutSuffix(s, "f"); ok {
		if f, err := strconv.ParseFloat(t, 32); err == nil {
			return int64(int32(math.Float32bits(float32(f)))), nil
		}
	}
	return 0, fmt.Errorf("bad literal %q", s)
}

func (a *assembler) stringIndex(s string) uint32 {
	if i, ok := a.strings[s]; ok {
		return i
	}
	i := uint32(len(a.p.Strings))
	a.p.Strings = append(a.p.Strings, s)
	a.strings[s] = i
	return i
}

func (a *assembler) typeIndex(desc string) uint32 {
	if i, ok := a.types[desc]; ok {
		return i
	}
	i := uint32(len(a.p.Types))
	a.p.Types = append(a.p.Types, desc)
	a.types[desc] = i
	return i
}

// fieldIndex interns LClass;->name:Type.
func (a *assembler) fieldIndex(ref string) (uint32, error) {
	if i, ok := a.fields[ref]; ok {
		return i, nil
	}
	class, rest, ok := strings.Cut(ref, "->")
	name, typ, ok2 := strings.Cut(rest, ":")
	if !ok || !ok2 || class == "" || name == "" || typ == "" {
		return 0, fmt.Errorf("bad field reference %q", ref)
	}
	i := uint32(len(a.p.Fields))
	a.p.Fields = append(a.p.Fields, Field{
		Class: types.TypeIndex(a.typeIndex(class)),
		Name:  name,
		Type:  types.TypeIndex(a.typeIndex(typ)),
	})
	a.fields[ref] = i
	return i, nil
}

// methodIndex interns LClass;->name(params)ret.
func (a *assembler) methodIndex(ref string, static bool) (uint32, error) {
	if i, ok := a.methods[ref]; ok {
		return i, nil
	}
	class, rest, ok := strings.Cut(ref, "->")
	paren := strings.IndexByte(rest, '(')
	if !ok || class == "" || paren <= 0 {
		return 0, fmt.Errorf("bad method reference %q", ref)
	}
	sig := rest[paren:]
	if _, err := ParamDescriptors(sig); err != nil {
		return 0, err
	}
	i := uint32(len(a.p.Methods))
	a.p.Methods = append(a.p.Methods, &Method{
		Class:     types.TypeIndex(a.typeIndex(class)),
		Name:      rest[:paren],
		Signature: sig,
		Static:    static,
	})
	a.methods[ref] = i
	return i, nil
}

func (a *assembler) encode(am *asmMethod) error {
	m := am.m
	if m.Registers < m.Ins {
		return lineErr(am.line, "%s: .registers %d is less than its %d ins", m, m.Registers, m.Ins)
	}
	code := make([]types.CodeUnit, am.size)
	labelPC := func(line int, l string) (int, error) {
		pc, ok := am.labels[l]
		if !ok {
			return 0, lineErr(line, "undefined label %q", l)
		}
		return pc, nil
	}
	regNum := func(line int, s string) (uint32, error) {
		if len(s) < 2 || (s[0] != 'v' && s[0] != 'p') {
			return 0, lineErr(line, "expected a register, got %q", s)
		}
		n, err := strconv.ParseUint(s[1:], 10, 16)
		if err != nil {
			return 0, lineErr(line, "bad register %q", s)
		}
		if s[0] == 'p' {
			if n >= uint64(m.Ins) {
				return 0, lineErr(line, "%s: no argument register %s", m, s)
			}
			n += uint64(m.Registers - m.Ins)
		}
		return uint32(n), nil
	}

	switchOwner := make(map[int]int)
	for _, it := range am.items {
		if it.payload != nil {
			continue
		}
		in, err := a.instruction(am, it, labelPC, regNum)
		if err != nil {
			return err
		}
		if in.Info().Flags.Has(FlagSwitch) {
			switchOwner[int(in.Target())] = it.pc
		}
		if in.Info().Flags.Has(FlagInvoke) && len(in.Args) > int(m.Outs) {
			m.Outs = uint16(len(in.Args))
		}
		units, err := Encode(&in)
		if err != nil {
			return lineErr(it.line, "%v", err)
		}
		copy(code[it.pc:], units)
	}

	for _, it := range am.items {
		pl := it.payload
		if pl == nil {
			continue
		}
		var units []types.CodeUnit
		switch pl.kind {
		case PackedSwitch, SparseSwitch:
			owner, ok := switchOwner[it.pc]
			if !ok {
				return lineErr(it.line, "switch payload is not referenced by a switch instruction")
			}
			t := SwitchTable{Kind: pl.kind, Targets: make([]int32, len(pl.labels))}
			for i, l := range pl.labels {
				pc, err := labelPC(it.line, l)
				if err != nil {
					return err
				}
				t.Targets[i] = int32(pc - owner)
			}
			if pl.kind == PackedSwitch {
				t.Keys = make([]int32, len(pl.labels))
				for i := range t.Keys {
					t.Keys[i] = pl.first + int32(i)
				}
			} else {
				t.Keys = pl.keys
			}
			var err error
			if units, err = EncodeSwitch(t); err != nil {
				return lineErr(it.line, "%v", err)
			}
		case ArrayData:
			elem := pl.elem
			data := make([]byte, 0, len(pl.values)*elem)
			for _, s := range pl.values {
				v, err := parseConst(s, elem == 8)
				if err != nil {
					return lineErr(it.line, "%v", err)
				}
				for b := 0; b < elem; b++ {
					data = append(data, byte(uint64(v)>>(8*b)))
				}
			}
			units = EncodeArrayData(ArrayPayload{ElementWidth: elem, Count: len(pl.values), Data: data})
		}
		copy(code[it.pc:], units)
	}
	m.Code = code

	for _, c := range am.catches {
		start, err := labelPC(c.line, c.start)
		if err != nil {
			return err
		}
		end, err := labelPC(c.line, c.end)
		if err != nil {
			return err
		}
		handler, err := labelPC(c.line, c.label)
		if err != nil {
			return err
		}
		if end <= start {
			return lineErr(c.line, "empty try range")
		}
		var try *TryBlock
		for i := range m.Tries {
			if int(m.Tries[i].Start) == start && int(m.Tries[i].Count) == end-start {
				try = &m.Tries[i]
			}
		}
		if try == nil {
			m.Tries = append(m.Tries, TryBlock{Start: types.DexPC(start), Count: uint16(end - start), CatchAll: types.NoDexPC})
			try = &m.Tries[len(m.Tries)-1]
		}
		if c.typ == "" {
			try.CatchAll = types.DexPC(handler)
		} else {
			try.Handlers = append(try.Handlers, CatchHandler{Type: types.TypeIndex(a.typeIndex(c.typ)), Handler: types.DexPC(handler)})
		}
	}
	return nil
}

func (a *assembler) instruction(am *asmMethod, it *asmItem, labelPC func(int, string) (int, error), regNum func(int, string) (uint32, error)) (Instruction, error) {
	info := it.op.Info()
	in := Instruction{Op: it.op, PC: types.DexPC(it.pc)}
	ops := it.operands
	want := map[Format]int{
		Format10x: 0, Format12x: 2, Format11n: 2, Format11x: 1, Format10t: 1, Format20t: 1,
		Format22x: 2, Format21t: 2, Format21s: 2, Format21h: 2, Format21c: 2, Format23x: 3,
		Format22b: 3, Format22t: 3, Format22s: 3, Format22c: 3, Format32x: 2, Format30t: 1,
		Format31t: 2, Format31i: 2, Format31c: 2, Format35c: 2, Format3rc: 2, Format45cc: 3,
		Format4rcc: 3, Format51l: 2,
	}[info.Format]
	if len(ops) != want {
		return in, lineErr(it.line, "%s takes %d operands, got %d", info.Name, want, len(ops))
	}

	var err error
	regs := func(idx ...int) {
		targets := []*uint32{&in.A, &in.B, &in.C}
		for i, at := range idx {
			if err != nil {
				return
			}
			*targets[i], err = regNum(it.line, ops[at])
		}
	}
	offset := func(at int) {
		if err != nil {
			return
		}
		var pc int
		pc, err = labelPC(it.line, ops[at])
		in.Offset = int32(pc - it.pc)
	}
	literal := func(at int, wide bool) {
		if err != nil {
			return
		}
		in.Literal, err = parseConst(ops[at], wide)
		if err != nil {
			err = lineErr(it.line, "%v", err)
		}
	}
	index := func(at int) {
		if err != nil {
			return
		}
		in.Index, err = a.resolveIndex(it.op, ops[at])
		if err != nil {
			err = lineErr(it.line, "%v", err)
		}
	}
	argList := func() {
		if err != nil {
			return
		}
		in.Args, err = parseRegList(ops[0], it.line, regNum)
	}

	switch info.Format {
	case Format10x:
	case Format12x, Format22x, Format32x:
		regs(0, 1)
	case Format11n, Format21s, Format31i:
		regs(0)
		literal(1, it.op == OpConstWide16 || it.op == OpConstWide32)
		if err == nil && info.Format == Format31i && it.op == OpConst && in.Literal >= 1<<31 && in.Literal < 1<<32 {
			in.Literal = int64(int32(in.Literal))
		}
	case Format21h:
		regs(0)
		literal(1, it.op == OpConstWideHigh16)
		if err == nil && it.op == OpConstHigh16 && in.Literal >= 1<<31 && in.Literal < 1<<32 {
			in.Literal = int64(int32(in.Literal))
		}
	case Format51l:
		regs(0)
		literal(1, true)
	case Format11x:
		regs(0)
	case Format10t, Format20t, Format30t:
		offset(0)
	case Format21t, Format31t:
		regs(0)
		offset(1)
	case Format21c, Format31c:
		regs(0)
		index(1)
	case Format23x:
		regs(0, 1, 2)
	case Format22b, Format22s:
		regs(0, 1)
		literal(2, false)
	case Format22t:
		regs(0, 1)
		offset(2)
	case Format22c:
		regs(0, 1)
		index(2)
	case Format35c, Format3rc:
		argList()
		index(1)
	case Format45cc, Format4rcc:
		argList()
		index(1)
		if err == nil {
			var p int64
			p, err = parseInt(ops[2])
			in.Proto = uint32(p)
		}
	}
	return in, err
}

func parseRegList(s string, line int, regNum func(int, string) (uint32, error)) ([]uint32, error) {
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, lineErr(line, "expected a register list, got %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, nil
	}
	if first, last, ok := strings.Cut(body, ".."); ok {
		lo, err := regNum(line, strings.TrimSpace(first))
		if err != nil {
			return nil, err
		}
		hi, err := regNum(line, strings.TrimSpace(last))
		if err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, lineErr(line, "empty register range %s", s)
		}
		out := make([]uint32, 0, hi-lo+1)
		for r := lo; r <= hi; r++ {
			out = append(out, r)
		}
		return out, nil
	}
	var out []uint32
	for _, part := range strings.Split(body, ",") {
		r, err := regNum(line, strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (a *assembler) resolveIndex(op Opcode, operand string) (uint32, error) {
	switch op.Info().Index {
	case IndexString:
		s, err := strconv.Unquote(operand)
		if err != nil {
			return 0, fmt.Errorf("bad string literal %s", operand)
		}
		return a.stringIndex(s), nil
	case IndexType:
		if operand == "" {
			return 0, fmt.Errorf("missing type")
		}
		return a.typeIndex(operand), nil
	case IndexField:
		idx, err := a.fieldIndex(operand)
		if err != nil {
			return 0, err
		}
		if op >= OpSget && op <= OpSputShort {
			a.p.Fields[idx].Static = true
		}
		return idx, nil
	case IndexMethod, IndexMethodAndProto:
		static := op == OpInvokeStatic || op == OpInvokeStaticRange
		return a.methodIndex(operand, static)
	}
	v, err := parseInt(operand)
	return uint32(v), err
}
