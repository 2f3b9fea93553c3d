package dex

import (
	"bytes"
	"sync"

	"golang.org/x/crypto/blake2b"

	"mterp/pkg/constants"
	"mterp/pkg/errors"
	"mterp/pkg/serializer"
	"mterp/pkg/types"
)

// Container layout (.mtb):
//
//	magic "MTRP" | version | strings | types | classes | fields | methods | blake2b-256(all preceding bytes)
//
// Counts, indices and lengths use the general natural encoding. Optional
// indices are stored as value+1 with 0 meaning absent.

var (
	programCache   = make(map[[32]byte]*Program)
	programCacheMu sync.RWMutex
)

// Load decodes and verifies a container, returning a shared *Program for
// blobs seen before.
func Load(blob []byte) (*Program, error) {
	hash := blake2b.Sum256(blob)

	programCacheMu.RLock()
	cached, ok := programCache[hash]
	programCacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	p, err := DecodeProgram(blob)
	if err != nil {
		return nil, err
	}
	if err := p.Verify(); err != nil {
		return nil, err
	}

	programCacheMu.Lock()
	if existing, ok := programCache[hash]; ok {
		p = existing
	} else {
		programCache[hash] = p
	}
	programCacheMu.Unlock()
	return p, nil
}

// ContentHash is the key Load caches under and the profile store uses to
// separate programs.
func ContentHash(blob []byte) [32]byte {
	return blake2b.Sum256(blob)
}

func optional(v uint32) uint64 {
	if v == NoIndex {
		return 0
	}
	return uint64(v) + 1
}

func fromOptional(v uint64) uint32 {
	if v == 0 {
		return NoIndex
	}
	return uint32(v - 1)
}

// Encode serializes p. The result round-trips through Decode.
func (p *Program) Encode() []byte {
	var w serializer.Writer
	w.Raw([]byte(constants.ProgramMagic))
	w.Natural(constants.ProgramVersion)

	w.Natural(uint64(len(p.Strings)))
	for _, s := range p.Strings {
		w.String(s)
	}
	w.Natural(uint64(len(p.Types)))
	for _, t := range p.Types {
		w.String(t)
	}
	w.Natural(uint64(len(p.Classes)))
	for _, c := range p.Classes {
		w.Natural(uint64(c.Type))
		w.Natural(optional(uint32(c.Super)))
	}
	w.Natural(uint64(len(p.Fields)))
	for _, f := range p.Fields {
		w.Natural(uint64(f.Class))
		w.String(f.Name)
		w.Natural(uint64(f.Type))
		w.Fixed(1, boolByte(f.Static))
	}
	w.Natural(uint64(len(p.Methods)))
	for _, m := range p.Methods {
		w.Natural(uint64(m.Class))
		w.String(m.Name)
		w.String(m.Signature)
		w.Fixed(1, boolByte(m.Static)|boolByte(m.HasCode())<<1)
		if !m.HasCode() {
			continue
		}
		w.Natural(uint64(m.Registers))
		w.Natural(uint64(m.Ins))
		w.Natural(uint64(m.Outs))
		units := make([]uint16, len(m.Code))
		for i, u := range m.Code {
			units[i] = uint16(u)
		}
		w.Units(units)
		w.Natural(uint64(len(m.Tries)))
		for _, t := range m.Tries {
			w.Natural(uint64(t.Start))
			w.Natural(uint64(t.Count))
			w.Natural(uint64(len(t.Handlers)))
			for _, h := range t.Handlers {
				w.Natural(uint64(h.Type))
				w.Natural(uint64(h.Handler))
			}
			w.Natural(optional(uint32(t.CatchAll)))
		}
	}

	body := w.Bytes()
	sum := blake2b.Sum256(body)
	out := make([]byte, 0, len(body)+len(sum))
	out = append(out, body...)
	return append(out, sum[:]...)
}

func boolByte(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// DecodeProgram parses a container without verifying method bodies.
func DecodeProgram(blob []byte) (*Program, error) {
	if len(blob) < len(constants.ProgramMagic)+blake2b.Size256 {
		return nil, errors.Wrapf(errors.ErrBadProgram, "container of %d bytes is too short", len(blob))
	}
	body, trailer := blob[:len(blob)-blake2b.Size256], blob[len(blob)-blake2b.Size256:]
	if sum := blake2b.Sum256(body); !bytes.Equal(sum[:], trailer) {
		return nil, errors.Wrap(errors.ErrBadProgram, "checksum mismatch")
	}

	r := serializer.NewReader(body)
	if string(r.Raw(len(constants.ProgramMagic))) != constants.ProgramMagic {
		return nil, errors.Wrap(errors.ErrBadProgram, "bad magic")
	}
	if v := r.Natural(); v != constants.ProgramVersion {
		return nil, errors.Wrapf(errors.ErrBadProgram, "unsupported version %d", v)
	}

	p := &Program{Hash: blake2b.Sum256(blob)}
	p.Strings = make([]string, r.Count(1))
	for i := range p.Strings {
		p.Strings[i] = r.String()
	}
	p.Types = make([]string, r.Count(1))
	for i := range p.Types {
		p.Types[i] = r.String()
	}
	p.Classes = make([]ClassDef, r.Count(2))
	for i := range p.Classes {
		p.Classes[i] = ClassDef{
			Type:  types.TypeIndex(r.Natural()),
			Super: types.TypeIndex(fromOptional(r.Natural())),
		}
	}
	p.Fields = make([]Field, r.Count(4))
	for i := range p.Fields {
		p.Fields[i] = Field{
			Class:  types.TypeIndex(r.Natural()),
			Name:   r.String(),
			Type:   types.TypeIndex(r.Natural()),
			Static: r.Fixed(1) != 0,
		}
	}
	p.Methods = make([]*Method, r.Count(4))
	for i := range p.Methods {
		m := &Method{
			Class:     types.TypeIndex(r.Natural()),
			Name:      r.String(),
			Signature: r.String(),
		}
		flags := r.Fixed(1)
		m.Static = flags&1 != 0
		if flags&2 != 0 {
			m.Registers = uint16(r.Natural())
			m.Ins = uint16(r.Natural())
			m.Outs = uint16(r.Natural())
			units := r.Units()
			m.Code = make([]types.CodeUnit, len(units))
			for j, u := range units {
				m.Code[j] = types.CodeUnit(u)
			}
			m.Tries = make([]TryBlock, r.Count(4))
			for j := range m.Tries {
				t := &m.Tries[j]
				t.Start = types.DexPC(r.Natural())
				t.Count = uint16(r.Natural())
				t.Handlers = make([]CatchHandler, r.Count(2))
				for k := range t.Handlers {
					t.Handlers[k] = CatchHandler{
						Type:    types.TypeIndex(r.Natural()),
						Handler: types.DexPC(r.Natural()),
					}
				}
				t.CatchAll = types.DexPC(fromOptional(r.Natural()))
			}
		}
		p.Methods[i] = m
	}

	if err := r.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrBadProgram, err.Error())
	}
	if r.Remaining() != 0 {
		return nil, errors.Wrapf(errors.ErrBadProgram, "%d trailing bytes", r.Remaining())
	}
	if err := p.checkIndices(); err != nil {
		return nil, err
	}
	p.Link()
	return p, nil
}

func (p *Program) checkIndices() error {
	nt := uint32(len(p.Types))
	for _, c := range p.Classes {
		if uint32(c.Type) >= nt || (uint32(c.Super) != NoIndex && uint32(c.Super) >= nt) {
			return errors.Wrap(errors.ErrBadProgram, "class references an unknown type")
		}
	}
	for _, f := range p.Fields {
		if uint32(f.Class) >= nt || uint32(f.Type) >= nt {
			return errors.Wrapf(errors.ErrBadProgram, "field %s references an unknown type", f.Name)
		}
	}
	for _, m := range p.Methods {
		if uint32(m.Class) >= nt {
			return errors.Wrapf(errors.ErrBadProgram, "method %s references an unknown type", m.Name)
		}
		for _, t := range m.Tries {
			for _, h := range t.Handlers {
				if uint32(h.Type) >= nt {
					return errors.Wrapf(errors.ErrBadProgram, "method %s catches an unknown type", m.Name)
				}
			}
		}
	}
	return nil
}
