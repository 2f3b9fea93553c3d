package tracenet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"mterp/pkg/interp"
	"mterp/pkg/types"
)

// maxMessageSize bounds a single frame.
const maxMessageSize = 16 << 20

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("tracenet: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Hello opens every trace stream.
type Hello struct {
	Session uuid.UUID `cbor:"1,keyasint"`
	Program string    `cbor:"2,keyasint"`
}

// Record is the wire form of interp.TraceRecord.
type Record struct {
	Thread   uint32 `cbor:"1,keyasint"`
	Method   string `cbor:"2,keyasint"`
	DexPC    uint32 `cbor:"3,keyasint"`
	Opcode   uint8  `cbor:"4,keyasint"`
	Mnemonic string `cbor:"5,keyasint"`
	Depth    int    `cbor:"6,keyasint"`
}

func FromTrace(rec interp.TraceRecord) Record {
	return Record{
		Thread:   rec.Thread,
		Method:   rec.Method,
		DexPC:    uint32(rec.DexPC),
		Opcode:   rec.Opcode,
		Mnemonic: rec.Mnemonic,
		Depth:    rec.Depth,
	}
}

func (r Record) Trace() interp.TraceRecord {
	return interp.TraceRecord{
		Thread:   r.Thread,
		Method:   r.Method,
		DexPC:    types.DexPC(r.DexPC),
		Opcode:   r.Opcode,
		Mnemonic: r.Mnemonic,
		Depth:    r.Depth,
	}
}

type Batch struct {
	Records []Record `cbor:"1,keyasint"`
}

// Ack is the collector's reply once the exporter has finished its stream.
type Ack struct {
	Records uint64 `cbor:"1,keyasint"`
}

func writeValue(w io.Writer, v any) error {
	data, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return WriteMessage(w, data)
}

func readValue(r io.Reader, v any) error {
	data, err := ReadMessage(r)
	if err != nil {
		return err
	}
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}

// ReadMessage reads one frame: a 4-byte little-endian length, then the
// content.
func ReadMessage(r io.Reader) ([]byte, error) {
	var size [4]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return nil, fmt.Errorf("failed to read message size: %w", err)
	}
	n := binary.LittleEndian.Uint32(size[:])
	if n > maxMessageSize {
		return nil, fmt.Errorf("message of %d bytes exceeds limit", n)
	}
	message := make([]byte, n)
	if _, err := io.ReadFull(r, message); err != nil {
		return nil, fmt.Errorf("failed to read message content: %w", err)
	}
	return message, nil
}

func WriteMessage(w io.Writer, data []byte) error {
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(data)))
	if _, err := w.Write(size[:]); err != nil {
		return fmt.Errorf("failed to write message size: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write message content: %w", err)
	}
	return nil
}
