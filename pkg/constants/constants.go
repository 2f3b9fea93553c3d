package constants

// Interpreter limits
const MaxVRegs = 65535 // registers_size is a u16 in the method header

const MaxArgs = 255 // /range invokes carry an 8-bit count

const NumOpcodes = 256

// Profiling
const DefaultHotnessThreshold int32 = 1000 // backward branches before a method is reported hot

const MaxMethodHotness uint16 = 0xFFFF

// Frame arena
const DefaultStackSlots = 1 << 20 // vreg slots reserved per thread

const MinStackSlots = 1 << 10

// Payload identifiers (first code unit of a switch / array-data table)
const PackedSwitchSignature uint16 = 0x0100

const SparseSwitchSignature uint16 = 0x0200

const ArrayDataSignature uint16 = 0x0300

// Container
const ProgramMagic = "MTRP"

const ProgramVersion uint64 = 1
