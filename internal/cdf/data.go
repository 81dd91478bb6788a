package cdf

import (
	"io"
)

// ReadFloat64s reads a 1-D numeric variable in full, widening every element
// to float64. Works for both fixed variables (one contiguous block) and
// record variables (one element per record, interleaved with the other
// record variables' slabs). Char variables and variables of rank != 1 are
// rejected.
func (f *File) ReadFloat64s(name string) ([]float64, error) {
	v, ok := f.lookupVar(name)
	if !ok {
		return nil, parseErrorf(f.path, "variable %q not present", name)
	}
	if v.Type == ncChar {
		return nil, parseErrorf(f.path, "variable %q is char, not numeric", name)
	}
	if len(v.DimIDs) != 1 {
		return nil, parseErrorf(f.path, "variable %q has rank %d, expected 1", name, len(v.DimIDs))
	}

	if v.isRecord(f.dims) {
		return f.readRecordScalar(v)
	}
	return f.readFixed(v)
}

// readFixed reads a fixed-size 1-D variable as one contiguous block.
func (f *File) readFixed(v *Var) ([]float64, error) {
	n := f.dims[v.DimIDs[0]].Len
	elem := v.Type.size()
	buf := make([]byte, n*elem)
	if _, err := io.ReadFull(io.NewSectionReader(f.r, v.begin, int64(len(buf))), buf); err != nil {
		return nil, wrapParseError(f.path, "truncated data for variable "+v.Name, err)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = decodeElem(v.Type, buf[i*elem:])
	}
	return out, nil
}

// readRecordScalar reads a record variable holding one element per record.
// Record r's element lives at begin + r*recordStride.
func (f *File) readRecordScalar(v *Var) ([]float64, error) {
	stride := f.recordStride()
	elem := v.Type.size()
	n := int(f.numRecs)

	out := make([]float64, n)
	buf := make([]byte, elem)
	for r := 0; r < n; r++ {
		off := v.begin + int64(r)*stride
		if _, err := io.ReadFull(io.NewSectionReader(f.r, off, int64(elem)), buf); err != nil {
			return nil, wrapParseError(f.path, "truncated record data for variable "+v.Name, err)
		}
		out[r] = decodeElem(v.Type, buf)
	}
	return out, nil
}

// recordStride is the byte distance between consecutive records: the sum of
// all record variables' padded slabs, or the unpadded slab when the file has
// exactly one record variable.
func (f *File) recordStride() int64 {
	var stride int64
	recVars := 0
	var lone *Var
	for i := range f.vars {
		v := &f.vars[i]
		if !v.isRecord(f.dims) {
			continue
		}
		recVars++
		lone = v
		stride += v.vsize
	}
	if recVars == 1 {
		return lone.slabSize(f.dims)
	}
	return stride
}
