package dex

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mterp/pkg/types"
)

// Disassemble writes p in the syntax Assemble accepts.
func (p *Program) Disassemble(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range p.Classes {
		fmt.Fprintf(bw, ".class %s\n", p.TypeName(c.Type))
		if uint32(c.Super) != NoIndex {
			fmt.Fprintf(bw, ".super %s\n", p.TypeName(c.Super))
		}
	}
	if len(p.Classes) > 0 {
		fmt.Fprintln(bw)
	}
	for i := range p.Fields {
		f := &p.Fields[i]
		fmt.Fprintf(bw, ".field %s%s\n", staticPrefix(f.Static), p.fieldRef(types.FieldIndex(i)))
	}
	if len(p.Fields) > 0 {
		fmt.Fprintln(bw)
	}
	for _, m := range p.Methods {
		if err := p.disassembleMethod(bw, m); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func staticPrefix(static bool) string {
	if static {
		return "static "
	}
	return ""
}

func (p *Program) fieldRef(idx types.FieldIndex) string {
	if int(idx) >= len(p.Fields) {
		return fmt.Sprintf("field@%d", idx)
	}
	f := &p.Fields[idx]
	return p.TypeName(f.Class) + "->" + f.Name + ":" + p.TypeName(f.Type)
}

func (p *Program) methodRef(idx types.MethodIndex) string {
	if int(idx) >= len(p.Methods) {
		return fmt.Sprintf("method@%d", idx)
	}
	return p.Methods[idx].String()
}

func label(pc types.DexPC) string {
	return fmt.Sprintf(":L%04x", uint32(pc))
}

func (p *Program) disassembleMethod(w *bufio.Writer, m *Method) error {
	fmt.Fprintf(w, ".method %s%s\n", staticPrefix(m.Static), m)
	if !m.HasCode() {
		fmt.Fprintf(w, ".end method\n\n")
		return nil
	}
	fmt.Fprintf(w, "    .registers %d\n", m.Registers)

	// First pass: find every pc that needs a label and which switch owns each payload.
	targets := make(map[types.DexPC]bool)
	switchOf := make(map[int]types.DexPC)
	for pc := 0; pc < len(m.Code); {
		if kind, width := PayloadAt(m.Code, pc); kind != NotPayload {
			pc += width
			continue
		}
		in, err := Decode(m.Code, pc)
		if err != nil {
			return err
		}
		flags := in.Info().Flags
		if flags.Has(FlagBranch) || flags.Has(FlagPayload) {
			targets[in.Target()] = true
		}
		if flags.Has(FlagSwitch) {
			switchOf[int(in.Target())] = in.PC
			if table, err := DecodeSwitch(m.Code, int(in.Target())); err == nil {
				for _, off := range table.Targets {
					targets[in.PC+types.DexPC(off)] = true
				}
			}
		}
		pc += in.Width()
	}
	for _, t := range m.Tries {
		targets[t.Start] = true
		targets[t.Start+types.DexPC(t.Count)] = true
		for _, h := range t.Handlers {
			targets[h.Handler] = true
		}
		if t.CatchAll != types.NoDexPC {
			targets[t.CatchAll] = true
		}
	}

	for pc := 0; pc < len(m.Code); {
		if targets[types.DexPC(pc)] {
			fmt.Fprintln(w, label(types.DexPC(pc)))
		}
		if kind, width := PayloadAt(m.Code, pc); kind != NotPayload {
			if err := writePayload(w, m.Code, pc, kind, switchOf[pc]); err != nil {
				return err
			}
			pc += width
			continue
		}
		in, err := Decode(m.Code, pc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "    %s\n", p.FormatInstruction(&in))
		pc += in.Width()
	}
	if targets[types.DexPC(len(m.Code))] {
		fmt.Fprintln(w, label(types.DexPC(len(m.Code))))
	}

	for _, t := range m.Tries {
		end := t.Start + types.DexPC(t.Count)
		for _, h := range t.Handlers {
			fmt.Fprintf(w, "    .catch %s {%s .. %s} %s\n", p.TypeName(h.Type), label(t.Start), label(end), label(h.Handler))
		}
		if t.CatchAll != types.NoDexPC {
			fmt.Fprintf(w, "    .catchall {%s .. %s} %s\n", label(t.Start), label(end), label(t.CatchAll))
		}
	}
	fmt.Fprintf(w, ".end method\n\n")
	return nil
}

func writePayload(w *bufio.Writer, code []types.CodeUnit, pc int, kind PayloadKind, owner types.DexPC) error {
	switch kind {
	case PackedSwitch, SparseSwitch:
		table, err := DecodeSwitch(code, pc)
		if err != nil {
			return err
		}
		if kind == PackedSwitch {
			first := int32(u32(code[pc+2], code[pc+3]))
			fmt.Fprintf(w, "    .packed-switch %d\n", first)
			for _, off := range table.Targets {
				fmt.Fprintf(w, "        %s\n", label(owner+types.DexPC(off)))
			}
			fmt.Fprintln(w, "    .end packed-switch")
			return nil
		}
		fmt.Fprintln(w, "    .sparse-switch")
		for i, k := range table.Keys {
			fmt.Fprintf(w, "        %d -> %s\n", k, label(owner+types.DexPC(table.Targets[i])))
		}
		fmt.Fprintln(w, "    .end sparse-switch")
	case ArrayData:
		a, err := DecodeArrayData(code, pc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "    .array-data %d\n", a.ElementWidth)
		for i := 0; i < a.Count; i++ {
			fmt.Fprintf(w, "        %#x\n", a.Element(i))
		}
		fmt.Fprintln(w, "    .end array-data")
	}
	return nil
}

func reg(r uint32) string {
	return "v" + strconv.FormatUint(uint64(r), 10)
}

// FormatInstruction renders one instruction with resolved pool references.
// Branch targets are printed as labels of the absolute pc.
func (p *Program) FormatInstruction(in *Instruction) string {
	info := in.Info()
	var ops []string
	index := func() string {
		switch info.Index {
		case IndexString:
			if int(in.Index) < len(p.Strings) {
				return strconv.Quote(p.Strings[in.Index])
			}
			return fmt.Sprintf("string@%d", in.Index)
		case IndexType:
			return p.TypeName(types.TypeIndex(in.Index))
		case IndexField:
			return p.fieldRef(types.FieldIndex(in.Index))
		case IndexMethod, IndexMethodAndProto:
			return p.methodRef(types.MethodIndex(in.Index))
		}
		return strconv.FormatUint(uint64(in.Index), 10)
	}
	lit := func() string {
		return strconv.FormatInt(in.Literal, 10)
	}

	switch info.Format {
	case Format10x:
	case Format12x, Format22x, Format32x:
		ops = []string{reg(in.A), reg(in.B)}
	case Format11n, Format21s, Format21h, Format31i, Format51l:
		ops = []string{reg(in.A), lit()}
	case Format11x:
		ops = []string{reg(in.A)}
	case Format10t, Format20t, Format30t:
		ops = []string{label(in.Target())}
	case Format21t, Format31t:
		ops = []string{reg(in.A), label(in.Target())}
	case Format21c, Format31c:
		ops = []string{reg(in.A), index()}
	case Format23x:
		ops = []string{reg(in.A), reg(in.B), reg(in.C)}
	case Format22b, Format22s:
		ops = []string{reg(in.A), reg(in.B), lit()}
	case Format22t:
		ops = []string{reg(in.A), reg(in.B), label(in.Target())}
	case Format22c:
		ops = []string{reg(in.A), reg(in.B), index()}
	case Format35c, Format45cc:
		regs := make([]string, len(in.Args))
		for i, r := range in.Args {
			regs[i] = reg(r)
		}
		ops = []string{"{" + strings.Join(regs, ", ") + "}", index()}
	case Format3rc, Format4rcc:
		if len(in.Args) == 0 {
			ops = []string{"{}", index()}
		} else {
			ops = []string{fmt.Sprintf("{%s .. %s}", reg(in.Args[0]), reg(in.Args[len(in.Args)-1])), index()}
		}
	}
	if info.Format == Format45cc || info.Format == Format4rcc {
		ops = append(ops, strconv.FormatUint(uint64(in.Proto), 10))
	}
	if len(ops) == 0 {
		return info.Name
	}
	return info.Name + " " + strings.Join(ops, ", ")
}
