// Package cdf reads the classic netCDF format (CDF-1 and the 64-bit offset
// CDF-2 variant), the self-describing binary container used by ANDI/AIA
// gas-chromatography instrument exports. Only the classic subset those
// exporters write is supported: big-endian typed arrays, fixed and record
// variables, text and numeric attributes. HDF5-based netCDF-4 files are
// rejected at the magic check.
package cdf

// Classic format tag words.
const (
	tagAbsent    = 0x00
	tagDimension = 0x0A
	tagVariable  = 0x0B
	tagAttribute = 0x0C
)

// External data types of the classic format.
type ncType int32

const (
	ncByte   ncType = 1 // 8-bit signed
	ncChar   ncType = 2 // 8-bit character
	ncShort  ncType = 3 // 16-bit signed, big-endian
	ncInt    ncType = 4 // 32-bit signed, big-endian
	ncFloat  ncType = 5 // IEEE 754 single, big-endian
	ncDouble ncType = 6 // IEEE 754 double, big-endian
)

// size returns the byte width of one element, or 0 for unknown types.
func (t ncType) size() int {
	switch t {
	case ncByte, ncChar:
		return 1
	case ncShort:
		return 2
	case ncInt, ncFloat:
		return 4
	case ncDouble:
		return 8
	default:
		return 0
	}
}

func (t ncType) String() string {
	switch t {
	case ncByte:
		return "byte"
	case ncChar:
		return "char"
	case ncShort:
		return "short"
	case ncInt:
		return "int"
	case ncFloat:
		return "float"
	case ncDouble:
		return "double"
	default:
		return "unknown"
	}
}

// numRecsStreaming marks a file whose record count must be derived from the
// file size (the writer never went back to fill it in).
const numRecsStreaming = 0xFFFFFFFF

// pad4 rounds n up to the next multiple of four; all header entities and
// attribute values are 4-byte aligned on disk.
func pad4(n int64) int64 {
	return (n + 3) &^ 3
}

// Dim is a named dimension. A length of zero in the file marks the record
// (unlimited) dimension; Len carries the resolved record count after the
// header is read.
type Dim struct {
	Name     string
	Len      int
	IsRecord bool
}

// Attr is a global or per-variable attribute. Char attributes carry their
// text in Str; numeric attributes carry their values widened to float64 in
// Nums.
type Attr struct {
	Name string
	Type ncType
	Str  string
	Nums []float64
}

// Var describes one variable: its shape (dimension ids into the file's
// dimension list), attributes, element type, and where its data lives.
type Var struct {
	Name   string
	Type   ncType
	DimIDs []int
	Attrs  []Attr

	vsize int64 // padded per-record (or total, for fixed vars) byte size
	begin int64 // absolute file offset of the data
}

// isRecord reports whether the variable's outermost dimension is the record
// dimension.
func (v *Var) isRecord(dims []Dim) bool {
	return len(v.DimIDs) > 0 && dims[v.DimIDs[0]].IsRecord
}
