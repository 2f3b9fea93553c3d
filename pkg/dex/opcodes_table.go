package dex

const (
	OpNop                    Opcode = 0x00
	OpMove                   Opcode = 0x01
	OpMoveFrom16             Opcode = 0x02
	OpMove16                 Opcode = 0x03
	OpMoveWide               Opcode = 0x04
	OpMoveWideFrom16         Opcode = 0x05
	OpMoveWide16             Opcode = 0x06
	OpMoveObject             Opcode = 0x07
	OpMoveObjectFrom16       Opcode = 0x08
	OpMoveObject16           Opcode = 0x09
	OpMoveResult             Opcode = 0x0a
	OpMoveResultWide         Opcode = 0x0b
	OpMoveResultObject       Opcode = 0x0c
	OpMoveException          Opcode = 0x0d
	OpReturnVoid             Opcode = 0x0e
	OpReturn                 Opcode = 0x0f
	OpReturnWide             Opcode = 0x10
	OpReturnObject           Opcode = 0x11
	OpConst4                 Opcode = 0x12
	OpConst16                Opcode = 0x13
	OpConst                  Opcode = 0x14
	OpConstHigh16            Opcode = 0x15
	OpConstWide16            Opcode = 0x16
	OpConstWide32            Opcode = 0x17
	OpConstWide              Opcode = 0x18
	OpConstWideHigh16        Opcode = 0x19
	OpConstString            Opcode = 0x1a
	OpConstStringJumbo       Opcode = 0x1b
	OpConstClass             Opcode = 0x1c
	OpMonitorEnter           Opcode = 0x1d
	OpMonitorExit            Opcode = 0x1e
	OpCheckCast              Opcode = 0x1f
	OpInstanceOf             Opcode = 0x20
	OpArrayLength            Opcode = 0x21
	OpNewInstance            Opcode = 0x22
	OpNewArray               Opcode = 0x23
	OpFilledNewArray         Opcode = 0x24
	OpFilledNewArrayRange    Opcode = 0x25
	OpFillArrayData          Opcode = 0x26
	OpThrow                  Opcode = 0x27
	OpGoto                   Opcode = 0x28
	OpGoto16                 Opcode = 0x29
	OpGoto32                 Opcode = 0x2a
	OpPackedSwitch           Opcode = 0x2b
	OpSparseSwitch           Opcode = 0x2c
	OpCmplFloat              Opcode = 0x2d
	OpCmpgFloat              Opcode = 0x2e
	OpCmplDouble             Opcode = 0x2f
	OpCmpgDouble             Opcode = 0x30
	OpCmpLong                Opcode = 0x31
	OpIfEq                   Opcode = 0x32
	OpIfNe                   Opcode = 0x33
	OpIfLt                   Opcode = 0x34
	OpIfGe                   Opcode = 0x35
	OpIfGt                   Opcode = 0x36
	OpIfLe                   Opcode = 0x37
	OpIfEqz                  Opcode = 0x38
	OpIfNez                  Opcode = 0x39
	OpIfLtz                  Opcode = 0x3a
	OpIfGez                  Opcode = 0x3b
	OpIfGtz                  Opcode = 0x3c
	OpIfLez                  Opcode = 0x3d
	OpAget                   Opcode = 0x44
	OpAgetWide               Opcode = 0x45
	OpAgetObject             Opcode = 0x46
	OpAgetBoolean            Opcode = 0x47
	OpAgetByte               Opcode = 0x48
	OpAgetChar               Opcode = 0x49
	OpAgetShort              Opcode = 0x4a
	OpAput                   Opcode = 0x4b
	OpAputWide               Opcode = 0x4c
	OpAputObject             Opcode = 0x4d
	OpAputBoolean            Opcode = 0x4e
	OpAputByte               Opcode = 0x4f
	OpAputChar               Opcode = 0x50
	OpAputShort              Opcode = 0x51
	OpIget                   Opcode = 0x52
	OpIgetWide               Opcode = 0x53
	OpIgetObject             Opcode = 0x54
	OpIgetBoolean            Opcode = 0x55
	OpIgetByte               Opcode = 0x56
	OpIgetChar               Opcode = 0x57
	OpIgetShort              Opcode = 0x58
	OpIput                   Opcode = 0x59
	OpIputWide               Opcode = 0x5a
	OpIputObject             Opcode = 0x5b
	OpIputBoolean            Opcode = 0x5c
	OpIputByte               Opcode = 0x5d
	OpIputChar               Opcode = 0x5e
	OpIputShort              Opcode = 0x5f
	OpSget                   Opcode = 0x60
	OpSgetWide               Opcode = 0x61
	OpSgetObject             Opcode = 0x62
	OpSgetBoolean            Opcode = 0x63
	OpSgetByte               Opcode = 0x64
	OpSgetChar               Opcode = 0x65
	OpSgetShort              Opcode = 0x66
	OpSput                   Opcode = 0x67
	OpSputWide               Opcode = 0x68
	OpSputObject             Opcode = 0x69
	OpSputBoolean            Opcode = 0x6a
	OpSputByte               Opcode = 0x6b
	OpSputChar               Opcode = 0x6c
	OpSputShort              Opcode = 0x6d
	OpInvokeVirtual          Opcode = 0x6e
	OpInvokeSuper            Opcode = 0x6f
	OpInvokeDirect           Opcode = 0x70
	OpInvokeStatic           Opcode = 0x71
	OpInvokeInterface        Opcode = 0x72
	OpInvokeVirtualRange     Opcode = 0x74
	OpInvokeSuperRange       Opcode = 0x75
	OpInvokeDirectRange      Opcode = 0x76
	OpInvokeStaticRange      Opcode = 0x77
	OpInvokeInterfaceRange   Opcode = 0x78
	OpNegInt                 Opcode = 0x7b
	OpNotInt                 Opcode = 0x7c
	OpNegLong                Opcode = 0x7d
	OpNotLong                Opcode = 0x7e
	OpNegFloat               Opcode = 0x7f
	OpNegDouble              Opcode = 0x80
	OpIntToLong              Opcode = 0x81
	OpIntToFloat             Opcode = 0x82
	OpIntToDouble            Opcode = 0x83
	OpLongToInt              Opcode = 0x84
	OpLongToFloat            Opcode = 0x85
	OpLongToDouble           Opcode = 0x86
	OpFloatToInt             Opcode = 0x87
	OpFloatToLong            Opcode = 0x88
	OpFloatToDouble          Opcode = 0x89
	OpDoubleToInt            Opcode = 0x8a
	OpDoubleToLong           Opcode = 0x8b
	OpDoubleToFloat          Opcode = 0x8c
	OpIntToByte              Opcode = 0x8d
	OpIntToChar              Opcode = 0x8e
	OpIntToShort             Opcode = 0x8f
	OpAddInt                 Opcode = 0x90
	OpSubInt                 Opcode = 0x91
	OpMulInt                 Opcode = 0x92
	OpDivInt                 Opcode = 0x93
	OpRemInt                 Opcode = 0x94
	OpAndInt                 Opcode = 0x95
	OpOrInt                  Opcode = 0x96
	OpXorInt                 Opcode = 0x97
	OpShlInt                 Opcode = 0x98
	OpShrInt                 Opcode = 0x99
	OpUshrInt                Opcode = 0x9a
	OpAddLong                Opcode = 0x9b
	OpSubLong                Opcode = 0x9c
	OpMulLong                Opcode = 0x9d
	OpDivLong                Opcode = 0x9e
	OpRemLong                Opcode = 0x9f
	OpAndLong                Opcode = 0xa0
	OpOrLong                 Opcode = 0xa1
	OpXorLong                Opcode = 0xa2
	OpShlLong                Opcode = 0xa3
	OpShrLong                Opcode = 0xa4
	OpUshrLong               Opcode = 0xa5
	OpAddFloat               Opcode = 0xa6
	OpSubFloat               Opcode = 0xa7
	OpMulFloat               Opcode = 0xa8
	OpDivFloat               Opcode = 0xa9
	OpRemFloat               Opcode = 0xaa
	OpAddDouble              Opcode = 0xab
	OpSubDouble              Opcode = 0xac
	OpMulDouble              Opcode = 0xad
	OpDivDouble              Opcode = 0xae
	OpRemDouble              Opcode = 0xaf
	OpAddInt2Addr            Opcode = 0xb0
	OpSubInt2Addr            Opcode = 0xb1
	OpMulInt2Addr            Opcode = 0xb2
	OpDivInt2Addr            Opcode = 0xb3
	OpRemInt2Addr            Opcode = 0xb4
	OpAndInt2Addr            Opcode = 0xb5
	OpOrInt2Addr             Opcode = 0xb6
	OpXorInt2Addr            Opcode = 0xb7
	OpShlInt2Addr            Opcode = 0xb8
	OpShrInt2Addr            Opcode = 0xb9
	OpUshrInt2Addr           Opcode = 0xba
	OpAddLong2Addr           Opcode = 0xbb
	OpSubLong2Addr           Opcode = 0xbc
	OpMulLong2Addr           Opcode = 0xbd
	OpDivLong2Addr           Opcode = 0xbe
	OpRemLong2Addr           Opcode = 0xbf
	OpAndLong2Addr           Opcode = 0xc0
	OpOrLong2Addr            Opcode = 0xc1
	OpXorLong2Addr           Opcode = 0xc2
	OpShlLong2Addr           Opcode = 0xc3
	OpShrLong2Addr           Opcode = 0xc4
	OpUshrLong2Addr          Opcode = 0xc5
	OpAddFloat2Addr          Opcode = 0xc6
	OpSubFloat2Addr          Opcode = 0xc7
	OpMulFloat2Addr          Opcode = 0xc8
	OpDivFloat2Addr          Opcode = 0xc9
	OpRemFloat2Addr          Opcode = 0xca
	OpAddDouble2Addr         Opcode = 0xcb
	OpSubDouble2Addr         Opcode = 0xcc
	OpMulDouble2Addr         Opcode = 0xcd
	OpDivDouble2Addr         Opcode = 0xce
	OpRemDouble2Addr         Opcode = 0xcf
	OpAddIntLit16            Opcode = 0xd0
	OpRsubInt                Opcode = 0xd1
	OpMulIntLit16            Opcode = 0xd2
	OpDivIntLit16            Opcode = 0xd3
	OpRemIntLit16            Opcode = 0xd4
	OpAndIntLit16            Opcode = 0xd5
	OpOrIntLit16             Opcode = 0xd6
	OpXorIntLit16            Opcode = 0xd7
	OpAddIntLit8             Opcode = 0xd8
	OpRsubIntLit8            Opcode = 0xd9
	OpMulIntLit8             Opcode = 0xda
	OpDivIntLit8             Opcode = 0xdb
	OpRemIntLit8             Opcode = 0xdc
	OpAndIntLit8             Opcode = 0xdd
	OpOrIntLit8              Opcode = 0xde
	OpXorIntLit8             Opcode = 0xdf
	OpShlIntLit8             Opcode = 0xe0
	OpShrIntLit8             Opcode = 0xe1
	OpUshrIntLit8            Opcode = 0xe2
	OpInvokePolymorphic      Opcode = 0xfa
	OpInvokePolymorphicRange Opcode = 0xfb
	OpInvokeCustom           Opcode = 0xfc
	OpInvokeCustomRange      Opcode = 0xfd
	OpConstMethodHandle      Opcode = 0xfe
	OpConstMethodType        Opcode = 0xff
)

var opcodeTable = [256]OpInfo{
	0x00: {Name: "nop", Format: Format10x, Index: IndexNone, Flags: FlagContinue},
	0x01: {Name: "move", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x02: {Name: "move/from16", Format: Format22x, Index: IndexNone, Flags: FlagContinue},
	0x03: {Name: "move/16", Format: Format32x, Index: IndexNone, Flags: FlagContinue},
	0x04: {Name: "move-wide", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x05: {Name: "move-wide/from16", Format: Format22x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x06: {Name: "move-wide/16", Format: Format32x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x07: {Name: "move-object", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagRef},
	0x08: {Name: "move-object/from16", Format: Format22x, Index: IndexNone, Flags: FlagContinue|FlagRef},
	0x09: {Name: "move-object/16", Format: Format32x, Index: IndexNone, Flags: FlagContinue|FlagRef},
	0x0a: {Name: "move-result", Format: Format11x, Index: IndexNone, Flags: FlagContinue},
	0x0b: {Name: "move-result-wide", Format: Format11x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x0c: {Name: "move-result-object", Format: Format11x, Index: IndexNone, Flags: FlagContinue|FlagRef},
	0x0d: {Name: "move-exception", Format: Format11x, Index: IndexNone, Flags: FlagContinue|FlagRef},
	0x0e: {Name: "return-void", Format: Format10x, Index: IndexNone, Flags: FlagReturn},
	0x0f: {Name: "return", Format: Format11x, Index: IndexNone, Flags: FlagReturn},
	0x10: {Name: "return-wide", Format: Format11x, Index: IndexNone, Flags: FlagReturn|FlagWide},
	0x11: {Name: "return-object", Format: Format11x, Index: IndexNone, Flags: FlagReturn},
	0x12: {Name: "const/4", Format: Format11n, Index: IndexNone, Flags: FlagContinue},
	0x13: {Name: "const/16", Format: Format21s, Index: IndexNone, Flags: FlagContinue},
	0x14: {Name: "const", Format: Format31i, Index: IndexNone, Flags: FlagContinue},
	0x15: {Name: "const/high16", Format: Format21h, Index: IndexNone, Flags: FlagContinue},
	0x16: {Name: "const-wide/16", Format: Format21s, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x17: {Name: "const-wide/32", Format: Format31i, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x18: {Name: "const-wide", Format: Format51l, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x19: {Name: "const-wide/high16", Format: Format21h, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x1a: {Name: "const-string", Format: Format21c, Index: IndexString, Flags: FlagContinue|FlagThrow|FlagRef},
	0x1b: {Name: "const-string/jumbo", Format: Format31c, Index: IndexString, Flags: FlagContinue|FlagThrow|FlagRef},
	0x1c: {Name: "const-class", Format: Format21c, Index: IndexType, Flags: FlagContinue|FlagThrow|FlagRef},
	0x1d: {Name: "monitor-enter", Format: Format11x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x1e: {Name: "monitor-exit", Format: Format11x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x1f: {Name: "check-cast", Format: Format21c, Index: IndexType, Flags: FlagContinue|FlagThrow},
	0x20: {Name: "instance-of", Format: Format22c, Index: IndexType, Flags: FlagContinue|FlagThrow},
	0x21: {Name: "array-length", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x22: {Name: "new-instance", Format: Format21c, Index: IndexType, Flags: FlagContinue|FlagThrow|FlagRef},
	0x23: {Name: "new-array", Format: Format22c, Index: IndexType, Flags: FlagContinue|FlagThrow|FlagRef},
	0x24: {Name: "filled-new-array", Format: Format35c, Index: IndexType, Flags: FlagContinue|FlagThrow},
	0x25: {Name: "filled-new-array/range", Format: Format3rc, Index: IndexType, Flags: FlagContinue|FlagThrow},
	0x26: {Name: "fill-array-data", Format: Format31t, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagPayload},
	0x27: {Name: "throw", Format: Format11x, Index: IndexNone, Flags: FlagThrow},
	0x28: {Name: "goto", Format: Format10t, Index: IndexNone, Flags: FlagBranch},
	0x29: {Name: "goto/16", Format: Format20t, Index: IndexNone, Flags: FlagBranch},
	0x2a: {Name: "goto/32", Format: Format30t, Index: IndexNone, Flags: FlagBranch},
	0x2b: {Name: "packed-switch", Format: Format31t, Index: IndexNone, Flags: FlagContinue|FlagSwitch|FlagPayload},
	0x2c: {Name: "sparse-switch", Format: Format31t, Index: IndexNone, Flags: FlagContinue|FlagSwitch|FlagPayload},
	0x2d: {Name: "cmpl-float", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x2e: {Name: "cmpg-float", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x2f: {Name: "cmpl-double", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x30: {Name: "cmpg-double", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x31: {Name: "cmp-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x32: {Name: "if-eq", Format: Format22t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x33: {Name: "if-ne", Format: Format22t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x34: {Name: "if-lt", Format: Format22t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x35: {Name: "if-ge", Format: Format22t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x36: {Name: "if-gt", Format: Format22t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x37: {Name: "if-le", Format: Format22t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x38: {Name: "if-eqz", Format: Format21t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x39: {Name: "if-nez", Format: Format21t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x3a: {Name: "if-ltz", Format: Format21t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x3b: {Name: "if-gez", Format: Format21t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x3c: {Name: "if-gtz", Format: Format21t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x3d: {Name: "if-lez", Format: Format21t, Index: IndexNone, Flags: FlagContinue|FlagBranch},
	0x3e: {Name: "unused-3e", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x3f: {Name: "unused-3f", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x40: {Name: "unused-40", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x41: {Name: "unused-41", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x42: {Name: "unused-42", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x43: {Name: "unused-43", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x44: {Name: "aget", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x45: {Name: "aget-wide", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagWide},
	0x46: {Name: "aget-object", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagRef},
	0x47: {Name: "aget-boolean", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x48: {Name: "aget-byte", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x49: {Name: "aget-char", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x4a: {Name: "aget-short", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x4b: {Name: "aput", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x4c: {Name: "aput-wide", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagWide},
	0x4d: {Name: "aput-object", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x4e: {Name: "aput-boolean", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x4f: {Name: "aput-byte", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x50: {Name: "aput-char", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x51: {Name: "aput-short", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x52: {Name: "iget", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x53: {Name: "iget-wide", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow|FlagWide},
	0x54: {Name: "iget-object", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow|FlagRef},
	0x55: {Name: "iget-boolean", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x56: {Name: "iget-byte", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x57: {Name: "iget-char", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x58: {Name: "iget-short", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x59: {Name: "iput", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x5a: {Name: "iput-wide", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow|FlagWide},
	0x5b: {Name: "iput-object", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x5c: {Name: "iput-boolean", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x5d: {Name: "iput-byte", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x5e: {Name: "iput-char", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x5f: {Name: "iput-short", Format: Format22c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x60: {Name: "sget", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x61: {Name: "sget-wide", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow|FlagWide},
	0x62: {Name: "sget-object", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow|FlagRef},
	0x63: {Name: "sget-boolean", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x64: {Name: "sget-byte", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x65: {Name: "sget-char", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x66: {Name: "sget-short", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x67: {Name: "sput", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x68: {Name: "sput-wide", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow|FlagWide},
	0x69: {Name: "sput-object", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x6a: {Name: "sput-boolean", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x6b: {Name: "sput-byte", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x6c: {Name: "sput-char", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x6d: {Name: "sput-short", Format: Format21c, Index: IndexField, Flags: FlagContinue|FlagThrow},
	0x6e: {Name: "invoke-virtual", Format: Format35c, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x6f: {Name: "invoke-super", Format: Format35c, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x70: {Name: "invoke-direct", Format: Format35c, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x71: {Name: "invoke-static", Format: Format35c, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x72: {Name: "invoke-interface", Format: Format35c, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x73: {Name: "unused-73", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x74: {Name: "invoke-virtual/range", Format: Format3rc, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x75: {Name: "invoke-super/range", Format: Format3rc, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x76: {Name: "invoke-direct/range", Format: Format3rc, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x77: {Name: "invoke-static/range", Format: Format3rc, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x78: {Name: "invoke-interface/range", Format: Format3rc, Index: IndexMethod, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0x79: {Name: "unused-79", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x7a: {Name: "unused-7a", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0x7b: {Name: "neg-int", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x7c: {Name: "not-int", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x7d: {Name: "neg-long", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x7e: {Name: "not-long", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x7f: {Name: "neg-float", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x80: {Name: "neg-double", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x81: {Name: "int-to-long", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x82: {Name: "int-to-float", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x83: {Name: "int-to-double", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x84: {Name: "long-to-int", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x85: {Name: "long-to-float", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x86: {Name: "long-to-double", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x87: {Name: "float-to-int", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x88: {Name: "float-to-long", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x89: {Name: "float-to-double", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x8a: {Name: "double-to-int", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x8b: {Name: "double-to-long", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x8c: {Name: "double-to-float", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x8d: {Name: "int-to-byte", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x8e: {Name: "int-to-char", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x8f: {Name: "int-to-short", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0x90: {Name: "add-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x91: {Name: "sub-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x92: {Name: "mul-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x93: {Name: "div-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x94: {Name: "rem-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0x95: {Name: "and-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x96: {Name: "or-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x97: {Name: "xor-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x98: {Name: "shl-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x99: {Name: "shr-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x9a: {Name: "ushr-int", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0x9b: {Name: "add-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x9c: {Name: "sub-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x9d: {Name: "mul-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0x9e: {Name: "div-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagWide},
	0x9f: {Name: "rem-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagWide},
	0xa0: {Name: "and-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xa1: {Name: "or-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xa2: {Name: "xor-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xa3: {Name: "shl-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xa4: {Name: "shr-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xa5: {Name: "ushr-long", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xa6: {Name: "add-float", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0xa7: {Name: "sub-float", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0xa8: {Name: "mul-float", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0xa9: {Name: "div-float", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0xaa: {Name: "rem-float", Format: Format23x, Index: IndexNone, Flags: FlagContinue},
	0xab: {Name: "add-double", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xac: {Name: "sub-double", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xad: {Name: "mul-double", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xae: {Name: "div-double", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xaf: {Name: "rem-double", Format: Format23x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xb0: {Name: "add-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xb1: {Name: "sub-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xb2: {Name: "mul-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xb3: {Name: "div-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0xb4: {Name: "rem-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0xb5: {Name: "and-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xb6: {Name: "or-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xb7: {Name: "xor-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xb8: {Name: "shl-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xb9: {Name: "shr-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xba: {Name: "ushr-int/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xbb: {Name: "add-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xbc: {Name: "sub-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xbd: {Name: "mul-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xbe: {Name: "div-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagWide},
	0xbf: {Name: "rem-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagThrow|FlagWide},
	0xc0: {Name: "and-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xc1: {Name: "or-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xc2: {Name: "xor-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xc3: {Name: "shl-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xc4: {Name: "shr-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xc5: {Name: "ushr-long/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xc6: {Name: "add-float/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xc7: {Name: "sub-float/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xc8: {Name: "mul-float/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xc9: {Name: "div-float/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xca: {Name: "rem-float/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue},
	0xcb: {Name: "add-double/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xcc: {Name: "sub-double/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xcd: {Name: "mul-double/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xce: {Name: "div-double/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xcf: {Name: "rem-double/2addr", Format: Format12x, Index: IndexNone, Flags: FlagContinue|FlagWide},
	0xd0: {Name: "add-int/lit16", Format: Format22s, Index: IndexNone, Flags: FlagContinue},
	0xd1: {Name: "rsub-int", Format: Format22s, Index: IndexNone, Flags: FlagContinue},
	0xd2: {Name: "mul-int/lit16", Format: Format22s, Index: IndexNone, Flags: FlagContinue},
	0xd3: {Name: "div-int/lit16", Format: Format22s, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0xd4: {Name: "rem-int/lit16", Format: Format22s, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0xd5: {Name: "and-int/lit16", Format: Format22s, Index: IndexNone, Flags: FlagContinue},
	0xd6: {Name: "or-int/lit16", Format: Format22s, Index: IndexNone, Flags: FlagContinue},
	0xd7: {Name: "xor-int/lit16", Format: Format22s, Index: IndexNone, Flags: FlagContinue},
	0xd8: {Name: "add-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xd9: {Name: "rsub-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xda: {Name: "mul-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xdb: {Name: "div-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0xdc: {Name: "rem-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue|FlagThrow},
	0xdd: {Name: "and-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xde: {Name: "or-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xdf: {Name: "xor-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xe0: {Name: "shl-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xe1: {Name: "shr-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xe2: {Name: "ushr-int/lit8", Format: Format22b, Index: IndexNone, Flags: FlagContinue},
	0xe3: {Name: "unused-e3", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xe4: {Name: "unused-e4", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xe5: {Name: "unused-e5", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xe6: {Name: "unused-e6", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xe7: {Name: "unused-e7", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xe8: {Name: "unused-e8", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xe9: {Name: "unused-e9", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xea: {Name: "unused-ea", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xeb: {Name: "unused-eb", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xec: {Name: "unused-ec", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xed: {Name: "unused-ed", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xee: {Name: "unused-ee", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xef: {Name: "unused-ef", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf0: {Name: "unused-f0", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf1: {Name: "unused-f1", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf2: {Name: "unused-f2", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf3: {Name: "unused-f3", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf4: {Name: "unused-f4", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf5: {Name: "unused-f5", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf6: {Name: "unused-f6", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf7: {Name: "unused-f7", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf8: {Name: "unused-f8", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xf9: {Name: "unused-f9", Format: Format10x, Index: IndexNone, Flags: FlagUnused},
	0xfa: {Name: "invoke-polymorphic", Format: Format45cc, Index: IndexMethodAndProto, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0xfb: {Name: "invoke-polymorphic/range", Format: Format4rcc, Index: IndexMethodAndProto, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0xfc: {Name: "invoke-custom", Format: Format35c, Index: IndexCallSite, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0xfd: {Name: "invoke-custom/range", Format: Format3rc, Index: IndexCallSite, Flags: FlagContinue|FlagThrow|FlagInvoke},
	0xfe: {Name: "const-method-handle", Format: Format21c, Index: IndexMethodHandle, Flags: FlagContinue|FlagThrow|FlagRef},
	0xff: {Name: "const-method-type", Format: Format21c, Index: IndexProto, Flags: FlagContinue|FlagThrow|FlagRef},
}
