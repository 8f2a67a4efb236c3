package model

// LocationFlag marks a location cell as committed or urgent.
type LocationFlag int

const (
	FlagNone LocationFlag = iota
	FlagCommitted
	FlagUrgent
)

func (f LocationFlag) String() string {
	switch f {
	case FlagCommitted:
		return "committed"
	case FlagUrgent:
		return "urgent"
	default:
		return "none"
	}
}

// CellData is the closed set of payloads a memory cell can carry. The
// concrete type is fixed when the cell is created; only LocationData is
// ever updated afterwards, when the locations section patches in the
// owning process and invariant.
type CellData interface {
	isCellData()
}

// ConstData is a compile-time constant.
type ConstData struct {
	Value int
}

// ClockData is a clock. Index is the clock's position in Model.Clocks,
// the numbering the trace format uses for bound matrices.
type ClockData struct {
	Index int
}

// IntegerData is a bounded integer variable. Index is the variable's
// position in Model.Variables.
type IntegerData struct {
	Min, Max, Init int
	Index          int
}

// MetaData has the same shape as IntegerData but originates from a meta
// declaration. Meta variables share the variable numbering with integers.
type MetaData struct {
	Min, Max, Init int
	Index          int
}

// SysMetaData is a system-internal meta cell.
type SysMetaData struct {
	Min, Max int
}

// LocationData is a process location. Process and Invariant stay -1
// until the locations section back-patches them.
type LocationData struct {
	Flag      LocationFlag
	Process   int
	Invariant int
}

// StaticData is a statically allocated cell with a fixed range.
type StaticData struct {
	Min, Max int
}

// CostData marks the cost cell of priced models.
type CostData struct{}

func (ConstData) isCellData()    {}
func (ClockData) isCellData()    {}
func (IntegerData) isCellData()  {}
func (MetaData) isCellData()     {}
func (SysMetaData) isCellData()  {}
func (LocationData) isCellData() {}
func (StaticData) isCellData()   {}
func (CostData) isCellData()     {}

// Cell is one declared memory slot. Not all cell kinds carry a name.
type Cell struct {
	Name string
	Data CellData
}
