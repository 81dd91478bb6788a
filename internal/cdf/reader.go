package cdf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// File is an open classic netCDF file. The header (dimensions, attributes,
// variable table) is fully parsed at Open time; variable data is read on
// demand. Close releases the underlying file handle.
type File struct {
	path    string
	version byte
	numRecs int64
	dims    []Dim
	gatts   []Attr
	vars    []Var

	r    io.ReaderAt
	clos io.Closer
}

// Open parses the header of the file at path. The handle is released on
// every failure path; a non-nil *File always owns an open handle until
// Close is called.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, wrapParseError(path, "open", err)
	}

	f, err := parse(path, fh)
	if err != nil {
		fh.Close()
		return nil, err
	}
	f.r = fh
	f.clos = fh
	return f, nil
}

// Close releases the file handle. Safe to call once after a successful Open.
func (f *File) Close() error {
	if f.clos == nil {
		return nil
	}
	err := f.clos.Close()
	f.clos = nil
	return err
}

// Dimensions returns the file's dimension list in declaration order.
func (f *File) Dimensions() []Dim {
	out := make([]Dim, len(f.dims))
	copy(out, f.dims)
	return out
}

// Variables returns the variable names in declaration order.
func (f *File) Variables() []string {
	names := make([]string, len(f.vars))
	for i := range f.vars {
		names[i] = f.vars[i].Name
	}
	return names
}

// GlobalAttrs returns the global attribute list in declaration order.
func (f *File) GlobalAttrs() []Attr {
	out := make([]Attr, len(f.gatts))
	copy(out, f.gatts)
	return out
}

// GlobalString looks up a global char attribute by name.
func (f *File) GlobalString(name string) (string, bool) {
	for i := range f.gatts {
		if f.gatts[i].Name == name && f.gatts[i].Type == ncChar {
			return f.gatts[i].Str, true
		}
	}
	return "", false
}

// lookupVar finds a variable by name.
func (f *File) lookupVar(name string) (*Var, bool) {
	for i := range f.vars {
		if f.vars[i].Name == name {
			return &f.vars[i], true
		}
	}
	return nil, false
}

// headerReader tracks the absolute offset while decoding the header.
type headerReader struct {
	br   *bufio.Reader
	path string
	off  int64
}

func (h *headerReader) read(buf []byte) error {
	n, err := io.ReadFull(h.br, buf)
	h.off += int64(n)
	if err != nil {
		return wrapParseError(h.path, "truncated header", err)
	}
	return nil
}

func (h *headerReader) uint32() (uint32, error) {
	var buf [4]byte
	if err := h.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (h *headerReader) int32() (int32, error) {
	v, err := h.uint32()
	return int32(v), err
}

func (h *headerReader) uint64() (uint64, error) {
	var buf [8]byte
	if err := h.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// name reads a length-prefixed, 4-byte-padded name.
func (h *headerReader) name() (string, error) {
	n, err := h.int32()
	if err != nil {
		return "", err
	}
	if n < 0 || n > 1<<20 {
		return "", parseErrorf(h.path, "implausible name length %d", n)
	}
	buf := make([]byte, pad4(int64(n)))
	if err := h.read(buf); err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// parse decodes the full header. The caller owns rd and closes it on error.
func parse(path string, rd io.Reader) (*File, error) {
	h := &headerReader{br: bufio.NewReader(rd), path: path}

	var magic [4]byte
	if err := h.read(magic[:]); err != nil {
		return nil, err
	}
	if magic[0] != 'C' || magic[1] != 'D' || magic[2] != 'F' {
		return nil, parseErrorf(path, "not a classic netCDF file (magic %q)", magic[:3])
	}
	if magic[3] != 1 && magic[3] != 2 {
		return nil, parseErrorf(path, "unsupported netCDF version byte %d", magic[3])
	}

	f := &File{path: path, version: magic[3]}

	numRecs, err := h.uint32()
	if err != nil {
		return nil, err
	}
	if numRecs == numRecsStreaming {
		f.numRecs = -1 // resolved below from the file size
	} else {
		f.numRecs = int64(numRecs)
	}

	if f.dims, err = parseDims(h); err != nil {
		return nil, err
	}
	if f.gatts, err = parseAttrs(h); err != nil {
		return nil, err
	}
	if f.vars, err = parseVars(h, f); err != nil {
		return nil, err
	}

	if err := f.resolveRecords(rd); err != nil {
		return nil, err
	}
	return f, nil
}

// parseDims reads the dimension list.
func parseDims(h *headerReader) ([]Dim, error) {
	tag, err := h.uint32()
	if err != nil {
		return nil, err
	}
	count, err := h.uint32()
	if err != nil {
		return nil, err
	}
	if tag == tagAbsent && count == 0 {
		return nil, nil
	}
	if tag != tagDimension {
		return nil, parseErrorf(h.path, "expected dimension list tag, got 0x%02X", tag)
	}
	dims := make([]Dim, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := h.name()
		if err != nil {
			return nil, err
		}
		size, err := h.int32()
		if err != nil {
			return nil, err
		}
		if size < 0 {
			return nil, parseErrorf(h.path, "negative dimension length for %q", name)
		}
		dims = append(dims, Dim{Name: name, Len: int(size), IsRecord: size == 0})
	}
	return dims, nil
}

// parseAttrs reads an attribute list (global or per-variable).
func parseAttrs(h *headerReader) ([]Attr, error) {
	tag, err := h.uint32()
	if err != nil {
		return nil, err
	}
	count, err := h.uint32()
	if err != nil {
		return nil, err
	}
	if tag == tagAbsent && count == 0 {
		return nil, nil
	}
	if tag != tagAttribute {
		return nil, parseErrorf(h.path, "expected attribute list tag, got 0x%02X", tag)
	}
	attrs := make([]Attr, 0, count)
	for i := uint32(0); i < count; i++ {
		a, err := parseAttr(h)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func parseAttr(h *headerReader) (Attr, error) {
	name, err := h.name()
	if err != nil {
		return Attr{}, err
	}
	typ, err := h.int32()
	if err != nil {
		return Attr{}, err
	}
	t := ncType(typ)
	elemSize := t.size()
	if elemSize == 0 {
		return Attr{}, parseErrorf(h.path, "attribute %q has unknown type %d", name, typ)
	}
	nelems, err := h.int32()
	if err != nil {
		return Attr{}, err
	}
	if nelems < 0 || int64(nelems)*int64(elemSize) > 1<<28 {
		return Attr{}, parseErrorf(h.path, "attribute %q has implausible element count %d", name, nelems)
	}
	raw := make([]byte, pad4(int64(nelems)*int64(elemSize)))
	if err := h.read(raw); err != nil {
		return Attr{}, err
	}
	raw = raw[:int64(nelems)*int64(elemSize)]

	a := Attr{Name: name, Type: t}
	if t == ncChar {
		a.Str = trimNul(string(raw))
		return a, nil
	}
	a.Nums = make([]float64, nelems)
	for i := int32(0); i < nelems; i++ {
		a.Nums[i] = decodeElem(t, raw[int(i)*elemSize:])
	}
	return a, nil
}

// parseVars reads the variable table.
func parseVars(h *headerReader, f *File) ([]Var, error) {
	tag, err := h.uint32()
	if err != nil {
		return nil, err
	}
	count, err := h.uint32()
	if err != nil {
		return nil, err
	}
	if tag == tagAbsent && count == 0 {
		return nil, nil
	}
	if tag != tagVariable {
		return nil, parseErrorf(h.path, "expected variable list tag, got 0x%02X", tag)
	}

	vars := make([]Var, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := h.name()
		if err != nil {
			return nil, err
		}
		ndims, err := h.int32()
		if err != nil {
			return nil, err
		}
		if ndims < 0 || int(ndims) > 8 {
			return nil, parseErrorf(h.path, "variable %q has implausible rank %d", name, ndims)
		}
		dimIDs := make([]int, ndims)
		for d := int32(0); d < ndims; d++ {
			id, err := h.int32()
			if err != nil {
				return nil, err
			}
			if id < 0 || int(id) >= len(f.dims) {
				return nil, parseErrorf(h.path, "variable %q references unknown dimension %d", name, id)
			}
			dimIDs[d] = int(id)
		}
		attrs, err := parseAttrs(h)
		if err != nil {
			return nil, err
		}
		typ, err := h.int32()
		if err != nil {
			return nil, err
		}
		t := ncType(typ)
		if t.size() == 0 {
			return nil, parseErrorf(h.path, "variable %q has unknown type %d", name, typ)
		}
		vsize, err := h.uint32()
		if err != nil {
			return nil, err
		}
		var begin int64
		if f.version == 1 {
			b, err := h.uint32()
			if err != nil {
				return nil, err
			}
			begin = int64(b)
		} else {
			b, err := h.uint64()
			if err != nil {
				return nil, err
			}
			if b > math.MaxInt64 {
				return nil, parseErrorf(h.path, "variable %q begin offset overflows", name)
			}
			begin = int64(b)
		}
		vars = append(vars, Var{
			Name:   name,
			Type:   t,
			DimIDs: dimIDs,
			Attrs:  attrs,
			vsize:  int64(vsize),
			begin:  begin,
		})
	}
	return vars, nil
}

// resolveRecords fixes up the record count for streaming files and patches
// the record dimension's resolved length. The record size is the sum of the
// padded per-record slabs of all record variables, except that a lone record
// variable is laid out unpadded.
func (f *File) resolveRecords(rd io.Reader) error {
	recVars := 0
	var firstBegin int64 = -1
	var recSize int64
	for i := range f.vars {
		v := &f.vars[i]
		if !v.isRecord(f.dims) {
			continue
		}
		recVars++
		if firstBegin < 0 || v.begin < firstBegin {
			firstBegin = v.begin
		}
		recSize += v.vsize
	}

	if recVars == 1 {
		// Single record variable: records are packed without padding.
		for i := range f.vars {
			v := &f.vars[i]
			if v.isRecord(f.dims) {
				recSize = v.slabSize(f.dims)
			}
		}
	}

	if f.numRecs < 0 {
		if recVars == 0 || recSize <= 0 {
			f.numRecs = 0
		} else {
			st, ok := rd.(interface{ Stat() (os.FileInfo, error) })
			if !ok {
				return parseErrorf(f.path, "streaming record count requires a seekable file")
			}
			info, err := st.Stat()
			if err != nil {
				return wrapParseError(f.path, "stat for record count", err)
			}
			f.numRecs = (info.Size() - firstBegin) / recSize
			if f.numRecs < 0 {
				return parseErrorf(f.path, "record data truncated before first record")
			}
		}
	}

	for i := range f.dims {
		if f.dims[i].IsRecord {
			f.dims[i].Len = int(f.numRecs)
		}
	}
	return nil
}

// slabSize is the unpadded byte size of one record (or of the whole data
// block, for fixed variables).
func (v *Var) slabSize(dims []Dim) int64 {
	n := int64(1)
	for i, id := range v.DimIDs {
		if i == 0 && dims[id].IsRecord {
			continue
		}
		n *= int64(dims[id].Len)
	}
	return n * int64(v.Type.size())
}

// trimNul drops trailing NUL and space padding from char attribute values.
func trimNul(s string) string {
	for len(s) > 0 && (s[len(s)-1] == 0 || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}

// decodeElem widens one big-endian element to float64.
func decodeElem(t ncType, b []byte) float64 {
	switch t {
	case ncByte:
		return float64(int8(b[0]))
	case ncShort:
		return float64(int16(binary.BigEndian.Uint16(b)))
	case ncInt:
		return float64(int32(binary.BigEndian.Uint32(b)))
	case ncFloat:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
	case ncDouble:
		return math.Float64frombits(binary.BigEndian.Uint64(b))
	default:
		return 0
	}
}

// String renders a compact description for diagnostics.
func (v *Var) String() string {
	return fmt.Sprintf("%s(%s, rank %d)", v.Name, v.Type, len(v.DimIDs))
}
