package cdf

// Test-only encoder for classic netCDF bytes. Mirrors the on-disk layout the
// reader consumes: big-endian header, 4-byte padded names and attribute
// values, fixed variables in declaration order followed by interleaved
// record slabs.

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type encAttr struct {
	name string
	str  string // char attribute payload
}

type encDim struct {
	name   string
	length int // 0 marks the record dimension
}

type encVar struct {
	name   string
	typ    ncType
	dimIDs []int
	data   []float64
}

type encFile struct {
	version byte // 1 or 2
	numRecs uint32
	dims    []encDim
	gatts   []encAttr
	vars    []encVar
}

func (e *encFile) encode(t *testing.T) []byte {
	t.Helper()
	if e.version == 0 {
		e.version = 1
	}

	beginWidth := 4
	if e.version == 2 {
		beginWidth = 8
	}

	// Header size, to place the data section.
	headerSize := 4 + 4 // magic + numrecs
	headerSize += 8     // dim list tag+count
	for _, d := range e.dims {
		headerSize += nameSize(d.name) + 4
	}
	headerSize += 8 // gatt list tag+count
	for _, a := range e.gatts {
		headerSize += nameSize(a.name) + 4 + 4 + int(pad4(int64(len(a.str))))
	}
	headerSize += 8 // var list tag+count
	for _, v := range e.vars {
		headerSize += nameSize(v.name) + 4 + 4*len(v.dimIDs) + 8 + 4 + 4 + beginWidth
	}

	// Layout: fixed variables first, then the record section.
	begins := make([]int64, len(e.vars))
	vsizes := make([]int64, len(e.vars))
	off := int64(headerSize)
	recVarIdx := []int{}
	for i, v := range e.vars {
		if e.isRecordVar(v) {
			recVarIdx = append(recVarIdx, i)
			continue
		}
		slab := e.fixedSlab(v)
		begins[i] = off
		vsizes[i] = pad4(slab)
		off += vsizes[i]
	}
	for _, i := range recVarIdx {
		v := e.vars[i]
		slab := int64(v.typ.size()) // rank-1 record var: one element per record
		vsizes[i] = pad4(slab)
		begins[i] = off
		if len(recVarIdx) > 1 {
			off += vsizes[i]
		}
	}

	var buf bytes.Buffer
	buf.WriteString("CDF")
	buf.WriteByte(e.version)
	be32(&buf, e.numRecs)

	writeList(&buf, tagDimension, len(e.dims))
	for _, d := range e.dims {
		writeName(&buf, d.name)
		be32(&buf, uint32(d.length))
	}

	writeList(&buf, tagAttribute, len(e.gatts))
	for _, a := range e.gatts {
		writeName(&buf, a.name)
		be32(&buf, uint32(ncChar))
		be32(&buf, uint32(len(a.str)))
		buf.WriteString(a.str)
		for i := int64(len(a.str)); i < pad4(int64(len(a.str))); i++ {
			buf.WriteByte(0)
		}
	}

	writeList(&buf, tagVariable, len(e.vars))
	for i, v := range e.vars {
		writeName(&buf, v.name)
		be32(&buf, uint32(len(v.dimIDs)))
		for _, id := range v.dimIDs {
			be32(&buf, uint32(id))
		}
		writeList(&buf, tagAbsent, 0) // no per-variable attributes
		be32(&buf, uint32(v.typ))
		be32(&buf, uint32(vsizes[i]))
		if e.version == 2 {
			be64(&buf, uint64(begins[i]))
		} else {
			be32(&buf, uint32(begins[i]))
		}
	}

	if buf.Len() != headerSize {
		t.Fatalf("encoder header size mismatch: wrote %d, computed %d", buf.Len(), headerSize)
	}

	// Fixed data.
	for i, v := range e.vars {
		if e.isRecordVar(v) {
			continue
		}
		start := buf.Len()
		for _, x := range v.data {
			writeElem(&buf, v.typ, x)
		}
		for int64(buf.Len()-start) < vsizes[i] {
			buf.WriteByte(0)
		}
	}

	// Record data: one slab per record variable per record, padded unless
	// the file has a single record variable.
	for r := uint32(0); r < e.numRecs; r++ {
		for _, i := range recVarIdx {
			v := e.vars[i]
			start := buf.Len()
			writeElem(&buf, v.typ, v.data[r])
			if len(recVarIdx) > 1 {
				for int64(buf.Len()-start) < vsizes[i] {
					buf.WriteByte(0)
				}
			}
		}
	}

	return buf.Bytes()
}

func (e *encFile) isRecordVar(v encVar) bool {
	return len(v.dimIDs) > 0 && e.dims[v.dimIDs[0]].length == 0
}

func (e *encFile) fixedSlab(v encVar) int64 {
	n := int64(1)
	for _, id := range v.dimIDs {
		n *= int64(e.dims[id].length)
	}
	return n * int64(v.typ.size())
}

func nameSize(s string) int {
	return 4 + int(pad4(int64(len(s))))
}

func be32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func be64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeList(buf *bytes.Buffer, tag uint32, count int) {
	if count == 0 {
		be32(buf, tagAbsent)
		be32(buf, 0)
		return
	}
	be32(buf, tag)
	be32(buf, uint32(count))
}

func writeName(buf *bytes.Buffer, s string) {
	be32(buf, uint32(len(s)))
	buf.WriteString(s)
	for i := int64(len(s)); i < pad4(int64(len(s))); i++ {
		buf.WriteByte(0)
	}
}

func writeElem(buf *bytes.Buffer, t ncType, x float64) {
	switch t {
	case ncByte, ncChar:
		buf.WriteByte(byte(int8(x)))
	case ncShort:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(int16(x)))
		buf.Write(b[:])
	case ncInt:
		be32(buf, uint32(int32(x)))
	case ncFloat:
		be32(buf, math.Float32bits(float32(x)))
	case ncDouble:
		be64(buf, math.Float64bits(x))
	}
}

// writeTempCDF writes encoded bytes to a temp file and returns its path.
func writeTempCDF(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.cdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// gcFixture builds a well-formed two-variable chromatogram file with the
// standard ANDI attribute set.
func gcFixture(times, intensities []float64) *encFile {
	return &encFile{
		version: 1,
		dims:    []encDim{{name: "point_number", length: len(times)}},
		gatts: []encAttr{
			{name: "sample_id", str: "SMP-0001"},
			{name: "experiment_date_time_stamp", str: "20240301101500+0000"},
			{name: "detector_name", str: "FID1A"},
		},
		vars: []encVar{
			{name: "scan_acquisition_time", typ: ncDouble, dimIDs: []int{0}, data: times},
			{name: "total_intensity", typ: ncDouble, dimIDs: []int{0}, data: intensities},
		},
	}
}
