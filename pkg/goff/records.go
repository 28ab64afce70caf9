package goff

// Every physical GOFF record is 80 bytes: a 3 byte PTV field followed by 77
// bytes of payload. Longer logical records continue in the next record.
const (
	RecordLength  = 80
	PTVLength     = 3
	PayloadLength = RecordLength - PTVLength

	PTVPrefix = 0x03

	// Low bits of the PTV flag byte.
	FlagContinued    = 0x01 // continues in the next record
	FlagContinuation = 0x02 // continues the previous record
)

type RecordType uint8

const (
	RecordESD RecordType = 0x0
	RecordTXT RecordType = 0x1
	RecordRLD RecordType = 0x2
	RecordLEN RecordType = 0x3
	RecordEND RecordType = 0x4
	RecordHDR RecordType = 0xF
)

func (t RecordType) String() string {
	switch t {
	case RecordESD:
		return "ESD"
	case RecordTXT:
		return "TXT"
	case RecordRLD:
		return "RLD"
	case RecordLEN:
		return "LEN"
	case RecordEND:
		return "END"
	case RecordHDR:
		return "HDR"
	}
	return "???"
}

// ESD symbol types.
type SymbolType uint8

const (
	ESDTypeSD SymbolType = 0
	ESDTypeED SymbolType = 1
	ESDTypeLD SymbolType = 2
	ESDTypePR SymbolType = 3
	ESDTypeER SymbolType = 4
)

func (t SymbolType) String() string {
	switch t {
	case ESDTypeSD:
		return "SD"
	case ESDTypeED:
		return "ED"
	case ESDTypeLD:
		return "LD"
	case ESDTypePR:
		return "PR"
	case ESDTypeER:
		return "ER"
	}
	return "??"
}

const (
	NameSpaceProgramManagementBinder = 0
	NameSpaceNormalName              = 1
	NameSpacePseudoRegister          = 2
	NameSpaceParts                   = 3

	AModeNone = 0
	AMode64   = 4
	RModeNone = 0
	RMode64   = 4

	ExecutableUnspecified = 0
	ExecutableData        = 1
	ExecutableInstr       = 2

	BindingStrengthStrong = 0
	BindingStrengthWeak   = 1

	BindingScopeUnspecified  = 0
	BindingScopeSection      = 1
	BindingScopeModule       = 2
	BindingScopeLibrary      = 3
	BindingScopeImportExport = 4

	LoadingInitial  = 0
	LoadingDeferred = 1
	LoadingNoLoad   = 2

	BindingAlgorithmConcat = 0
	BindingAlgorithmMerge  = 1

	TextStyleByte = 0

	// Flags2
	FlagFillBytePresent = 0x80
	FlagNameMangled     = 0x40
	FlagRenamable       = 0x20
	FlagRemovable       = 0x10

	// Flags4
	FlagReadOnly = 0x08

	MaxNameLength = 32767
	MaxAlignment  = 31
)

// HDRPayload is the module header. It always fits one record.
type HDRPayload struct {
	Reserved1        uint8
	HardwareEnv      uint32
	OperatingSystem  uint32
	CCSID            uint32
	CharSetName      [16]uint8
	LangProductID    [16]uint8
	ArchLevel        uint32
	ModPropertiesLen uint16
	Reserved2        [6]uint8
	InternalCCSID    uint16
	SoftwareEnv      uint16
	Reserved3        [16]uint8
}

// ESDPayload is the fixed part of an external symbol definition. The name
// follows it.
type ESDPayload struct {
	SymbolType    SymbolType
	ESDID         uint32
	ParentESDID   uint32
	Reserved1     uint32
	Offset        uint32
	Reserved2     uint32
	Length        uint32
	ExtAttrESDID  uint32
	ExtAttrOffset uint32
	Alias         uint32
	NameSpaceID   uint8
	Flags2        uint8
	FillByteValue uint8
	Reserved4     uint8
	ADAESDID      uint32
	SortPriority  uint32
	Signature     [8]uint8
	AMode         uint8
	RMode         uint8
	Flags3        uint8 // text record style:4, binding algorithm:4
	Flags4        uint8 // tasking behavior:3, movable:1, read only:1, executable:3
	Flags5        uint8 // reserved:4, binding strength:4
	Flags6        uint8 // loading behavior:2, common:1, indirect:1, binding scope:4
	Flags7        uint8 // reserved:2, xplink:1, alignment:5
	Reserved6     [3]uint8
	NameLength    uint16
}

func (e *ESDPayload) Executable() uint8      { return e.Flags4 & 0x07 }
func (e *ESDPayload) ReadOnly() bool         { return e.Flags4&FlagReadOnly != 0 }
func (e *ESDPayload) BindingStrength() uint8 { return e.Flags5 & 0x0F }
func (e *ESDPayload) BindingScope() uint8    { return e.Flags6 & 0x0F }
func (e *ESDPayload) Loading() uint8         { return e.Flags6 >> 6 }
func (e *ESDPayload) Alignment() uint8       { return e.Flags7 & 0x1F }

// TXTPayload is the fixed part of a text record. The data follows it.
type TXTPayload struct {
	Flags        uint8 // reserved:4, text record style:4
	ElementESDID uint32
	Reserved     uint32
	Offset       uint32
	TrueLength   uint32
	Encoding     uint16
	DataLength   uint16
}

type ENDPayload struct {
	Flags       uint8
	AMode       uint8
	Reserved1   [3]uint8
	RecordCount uint32
	ESDID       uint32
	Reserved2   uint32
	Offset      uint32
	NameLength  uint16
}

const (
	HDRPayloadSize = 77
	ESDPayloadSize = 69
	TXTPayloadSize = 21
	ENDPayloadSize = 23

	maxTXTDataLength = 32 * 1024
)
