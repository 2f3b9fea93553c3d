package conformance

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// MessageType is the first byte of every frame body.
type MessageType byte

const (
	MessageTypeHello  MessageType = 0
	MessageTypeLoad   MessageType = 1
	MessageTypeRun    MessageType = 2
	MessageTypeLoaded MessageType = 3
	MessageTypeResult MessageType = 4
	MessageTypeError  MessageType = 255
)

const maxFrameSize = 64 << 20

type Hello struct {
	Name    string `cbor:"1,keyasint"`
	Version string `cbor:"2,keyasint"`
}

// Load replaces the connection's program, either from a .mtb container or
// from assembler source.
type Load struct {
	Container []byte `cbor:"1,keyasint,omitempty"`
	Source    string `cbor:"2,keyasint,omitempty"`
}

type Loaded struct {
	Hash    [32]byte `cbor:"1,keyasint"`
	Methods int      `cbor:"2,keyasint"`
}

// Value is an argument or result. Text makes a string argument; results
// that are strings carry their text.
type Value struct {
	Bits uint64  `cbor:"1,keyasint"`
	Ref  bool    `cbor:"2,keyasint,omitempty"`
	Text *string `cbor:"3,keyasint,omitempty"`
}

// Run calls a method of the loaded program on a fresh VM.
type Run struct {
	Class     string  `cbor:"1,keyasint"`
	Method    string  `cbor:"2,keyasint"`
	Signature string  `cbor:"3,keyasint,omitempty"`
	Args      []Value `cbor:"4,keyasint,omitempty"`
}

type Register struct {
	Bits uint32 `cbor:"1,keyasint"`
	Ref  bool   `cbor:"2,keyasint,omitempty"`
}

// Result reports how a Run ended: a value, or an uncaught exception, plus
// printed output and the entry frame's registers as last seen.
type Result struct {
	Value     Value      `cbor:"1,keyasint"`
	Exception string     `cbor:"2,keyasint,omitempty"`
	Message   string     `cbor:"3,keyasint,omitempty"`
	Output    []string   `cbor:"4,keyasint,omitempty"`
	Registers []Register `cbor:"5,keyasint,omitempty"`
}

type Error struct {
	Message string `cbor:"1,keyasint"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("conformance: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

func typeOf(v any) (MessageType, error) {
	switch v.(type) {
	case *Hello:
		return MessageTypeHello, nil
	case *Load:
		return MessageTypeLoad, nil
	case *Run:
		return MessageTypeRun, nil
	case *Loaded:
		return MessageTypeLoaded, nil
	case *Result:
		return MessageTypeResult, nil
	case *Error:
		return MessageTypeError, nil
	}
	return 0, fmt.Errorf("unknown message %T", v)
}

// EncodeMessage frames v: a 32-bit little-endian length, the type byte,
// then v in canonical CBOR.
func EncodeMessage(v any) ([]byte, error) {
	t, err := typeOf(v)
	if err != nil {
		return nil, err
	}
	body, err := encMode.Marshal(v)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 5, 5+len(body))
	binary.LittleEndian.PutUint32(frame, uint32(1+len(body)))
	frame[4] = byte(t)
	return append(frame, body...), nil
}

// DecodeMessage parses a frame body (type byte plus CBOR).
func DecodeMessage(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty message")
	}
	var v any
	switch MessageType(data[0]) {
	case MessageTypeHello:
		v = &Hello{}
	case MessageTypeLoad:
		v = &Load{}
	case MessageTypeRun:
		v = &Run{}
	case MessageTypeLoaded:
		v = &Loaded{}
	case MessageTypeResult:
		v = &Result{}
	case MessageTypeError:
		v = &Error{}
	default:
		return nil, fmt.Errorf("unknown message type: %d", data[0])
	}
	if err := cbor.Unmarshal(data[1:], v); err != nil {
		return nil, fmt.Errorf("decoding message type %d: %w", data[0], err)
	}
	return v, nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(length[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func writeMessage(w io.Writer, v any) error {
	data, err := EncodeMessage(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
