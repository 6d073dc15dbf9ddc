package value

// Handle is an opaque reference to a boxed value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Kind tags the payload stored in a cell.
type Kind uint8

const (
	KindInteger Kind = iota
	KindDecimal
	KindChar
	KindText
	KindLogic
	KindVoid
	KindBlank
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindChar:
		return "char"
	case KindText:
		return "text"
	case KindLogic:
		return "logic"
	case KindVoid:
		return "void"
	case KindBlank:
		return "blank"
	}
	return "unknown"
}

// Cell is one boxed value: a kind tag plus its payload. Only the payload
// field matching the kind is meaningful.
type Cell struct {
	Str   string
	Int   int64
	Float float64
	Rune  rune
	Kind  Kind
	Bit   bool
}

// IntegerCell boxes an integer constant.
func IntegerCell(v int64) Cell { return Cell{Kind: KindInteger, Int: v} }

// DecimalCell boxes a float constant.
func DecimalCell(v float64) Cell { return Cell{Kind: KindDecimal, Float: v} }

// CharCell boxes a single codepoint.
func CharCell(v rune) Cell { return Cell{Kind: KindChar, Rune: v} }

// TextCell boxes a string.
func TextCell(v string) Cell { return Cell{Kind: KindText, Str: v} }

// LogicCell boxes a boolean.
func LogicCell(v bool) Cell { return Cell{Kind: KindLogic, Bit: v} }

// VoidCell boxes the void value.
func VoidCell() Cell { return Cell{Kind: KindVoid} }

// BlankCell boxes the blank value.
func BlankCell() Cell { return Cell{Kind: KindBlank} }

// Event types for value lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
)

// Event represents a value lifecycle event.
type Event struct {
	Cell   Cell
	Handle Handle
	Type   EventType
}

// Observer receives notifications about value lifecycle events.
type Observer interface {
	OnValueEvent(Event)
}
