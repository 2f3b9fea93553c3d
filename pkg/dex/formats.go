package dex

import "fmt"

// Format identifies an instruction's encoding: the digits give the unit
// count and register count, the letter the kind of extra data.
type Format uint8

const (
	Format10x Format = iota
	Format12x
	Format11n
	Format11x
	Format10t
	Format20t
	Format22x
	Format21t
	Format21s
	Format21h
	Format21c
	Format23x
	Format22b
	Format22t
	Format22s
	Format22c
	Format32x
	Format30t
	Format31t
	Format31i
	Format31c
	Format35c
	Format3rc
	Format45cc
	Format4rcc
	Format51l
	numFormats
)

var formatNames = [numFormats]string{
	"10x", "12x", "11n", "11x", "10t", "20t", "22x", "21t", "21s", "21h", "21c",
	"23x", "22b", "22t", "22s", "22c", "32x", "30t", "31t", "31i", "31c", "35c",
	"3rc", "45cc", "4rcc", "51l",
}

func (f Format) String() string {
	if f < numFormats {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Width returns the number of code units an instruction of this format occupies.
func (f Format) Width() int {
	switch f {
	case Format10x, Format12x, Format11n, Format11x, Format10t:
		return 1
	case Format20t, Format22x, Format21t, Format21s, Format21h, Format21c,
		Format23x, Format22b, Format22t, Format22s, Format22c:
		return 2
	case Format32x, Format30t, Format31t, Format31i, Format31c, Format35c, Format3rc:
		return 3
	case Format45cc, Format4rcc:
		return 4
	case Format51l:
		return 5
	}
	panic(fmt.Sprintf("unknown format %d", uint8(f)))
}

// IndexKind says what an instruction's constant-pool index refers to.
type IndexKind uint8

const (
	IndexNone IndexKind = iota
	IndexString
	IndexType
	IndexField
	IndexMethod
	IndexMethodAndProto
	IndexCallSite
	IndexMethodHandle
	IndexProto
)

// Flags describe control flow and fault behaviour of an opcode.
type Flags uint16

const (
	FlagContinue Flags = 1 << iota // may fall through to the next instruction
	FlagThrow                      // may raise a VM exception; pc must be exported first
	FlagBranch
	FlagSwitch
	FlagInvoke
	FlagReturn
	FlagWide   // writes or reads a register pair
	FlagRef    // writes a reference
	FlagUnused // no instruction is assigned to this value
	FlagPayload
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}
