package dex

import (
	"fmt"
	"strings"

	"mterp/pkg/bitsequence"
	"mterp/pkg/types"
)

// NoIndex marks an absent type reference (a class without a superclass, a
// catch-all handler).
const NoIndex = ^uint32(0)

// Program is a loaded, verified unit of bytecode: constant pools plus methods.
type Program struct {
	Strings []string
	Types   []string
	Classes []ClassDef
	Fields  []Field
	Methods []*Method
	Hash    [32]byte

	classByType map[types.TypeIndex]int
}

type ClassDef struct {
	Type  types.TypeIndex
	Super types.TypeIndex // NoIndex when the class has no superclass
}

type Field struct {
	Class  types.TypeIndex
	Name   string
	Type   types.TypeIndex
	Static bool
}

// Method is both a method reference and, when Code is non-nil, its body.
// Methods without code are resolved by the runtime (intrinsics).
type Method struct {
	Index     types.MethodIndex
	Class     types.TypeIndex
	Name      string
	Signature string // "(IJ)V"
	Static    bool
	Registers uint16
	Ins       uint16
	Outs      uint16
	Code      []types.CodeUnit
	Tries     []TryBlock

	Program    *Program
	boundaries *bitsequence.BitSequence
}

// TryBlock covers [Start, Start+Count) code units.
type TryBlock struct {
	Start    types.DexPC
	Count    uint16
	Handlers []CatchHandler
	CatchAll types.DexPC // NoDexPC when absent
}

type CatchHandler struct {
	Type    types.TypeIndex
	Handler types.DexPC
}

func (t *TryBlock) Covers(pc types.DexPC) bool {
	return pc >= t.Start && pc < t.Start+types.DexPC(t.Count)
}

func (m *Method) HasCode() bool {
	return m.Code != nil
}

// ClassName returns the descriptor of the declaring class.
func (m *Method) ClassName() string {
	if m.Program == nil || int(m.Class) >= len(m.Program.Types) {
		return fmt.Sprintf("type@%d", m.Class)
	}
	return m.Program.Types[m.Class]
}

// String renders the method the way the assembler accepts it: LFoo;->bar(I)V.
func (m *Method) String() string {
	return m.ClassName() + "->" + m.Name + m.Signature
}

// ReturnType returns the descriptor after the closing parenthesis.
func (m *Method) ReturnType() string {
	if i := strings.IndexByte(m.Signature, ')'); i >= 0 {
		return m.Signature[i+1:]
	}
	return "V"
}

// IsInstructionStart reports whether an instruction (not payload data) begins at pc.
func (m *Method) IsInstructionStart(pc types.DexPC) bool {
	if m.boundaries == nil {
		return false
	}
	return m.boundaries.Test(int(pc))
}

// ParamDescriptors splits a signature's parameter list into descriptors.
func ParamDescriptors(sig string) ([]string, error) {
	if !strings.HasPrefix(sig, "(") {
		return nil, fmt.Errorf("signature %q does not start with '('", sig)
	}
	end := strings.IndexByte(sig, ')')
	if end < 0 {
		return nil, fmt.Errorf("signature %q has no ')'", sig)
	}
	var out []string
	s := sig[1:end]
	for len(s) > 0 {
		n, err := descriptorLen(s)
		if err != nil {
			return nil, fmt.Errorf("signature %q: %w", sig, err)
		}
		out = append(out, s[:n])
		s = s[n:]
	}
	if _, err := descriptorLen(sig[end+1:]); err != nil && sig[end+1:] != "V" {
		return nil, fmt.Errorf("signature %q: bad return type", sig)
	}
	return out, nil
}

func descriptorLen(s string) (int, error) {
	i := 0
	for i < len(s) && s[i] == '[' {
		i++
	}
	if i >= len(s) {
		return 0, fmt.Errorf("truncated descriptor %q", s)
	}
	switch s[i] {
	case 'Z', 'B', 'S', 'C', 'I', 'J', 'F', 'D':
		return i + 1, nil
	case 'V':
		if i == 0 {
			return 1, nil
		}
	case 'L':
		if end := strings.IndexByte(s[i:], ';'); end > 0 {
			return i + end + 1, nil
		}
	}
	return 0, fmt.Errorf("bad descriptor %q", s)
}

// InsFor returns the number of argument registers a method with this
// signature takes, counting the receiver of instance methods.
func InsFor(sig string, static bool) (int, error) {
	params, err := ParamDescriptors(sig)
	if err != nil {
		return 0, err
	}
	n := 0
	if !static {
		n = 1
	}
	for _, p := range params {
		if p == "J" || p == "D" {
			n += 2
		} else {
			n++
		}
	}
	return n, nil
}

// KindOf maps a field or element descriptor to the storage kind used by
// the interpreter.
func KindOf(descriptor string) types.PrimitiveKind {
	if descriptor == "" {
		return types.KindInt
	}
	switch descriptor[0] {
	case 'J', 'D':
		return types.KindWide
	case 'L', '[':
		return types.KindObject
	case 'Z':
		return types.KindBoolean
	case 'B':
		return types.KindByte
	case 'C':
		return types.KindChar
	case 'S':
		return types.KindShort
	}
	return types.KindInt
}

func (p *Program) TypeName(idx types.TypeIndex) string {
	if int(idx) < len(p.Types) {
		return p.Types[idx]
	}
	return fmt.Sprintf("type@%d", idx)
}

func (p *Program) FieldKind(idx types.FieldIndex) types.PrimitiveKind {
	if int(idx) >= len(p.Fields) {
		return types.KindInt
	}
	return KindOf(p.TypeName(p.Fields[idx].Type))
}

// FindType returns the index of a descriptor in the type pool.
func (p *Program) FindType(descriptor string) (types.TypeIndex, bool) {
	for i, t := range p.Types {
		if t == descriptor {
			return types.TypeIndex(i), true
		}
	}
	return 0, false
}

// FindMethod looks a method up by declaring class, name and signature.
// An empty signature matches any.
func (p *Program) FindMethod(class, name, sig string) *Method {
	for _, m := range p.Methods {
		if m.Name == name && p.TypeName(m.Class) == class && (sig == "" || m.Signature == sig) {
			return m
		}
	}
	return nil
}

// Class returns the definition of a type, if the program defines it.
func (p *Program) Class(t types.TypeIndex) (*ClassDef, bool) {
	i, ok := p.classByType[t]
	if !ok {
		return nil, false
	}
	return &p.Classes[i], true
}

// Superclass returns the descriptor of t's superclass, or "" when none is known.
func (p *Program) Superclass(t types.TypeIndex) string {
	c, ok := p.Class(t)
	if !ok || uint32(c.Super) == NoIndex {
		return ""
	}
	return p.TypeName(c.Super)
}

// Link sets back-pointers and indexes. Decode and Assemble call it; programs
// built by hand must too.
func (p *Program) Link() {
	for i, m := range p.Methods {
		m.Index = types.MethodIndex(i)
		m.Program = p
	}
	p.index()
}

func (p *Program) index() {
	p.classByType = make(map[types.TypeIndex]int, len(p.Classes))
	for i, c := range p.Classes {
		p.classByType[c.Type] = i
	}
}
