// Package cdftest builds minimal classic netCDF fixtures for tests outside
// the cdf package: a CDF-1 file with one point dimension, the standard ANDI
// global attributes, and the time/intensity pair as fixed double variables.
package cdftest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Fixture describes one synthetic chromatogram file.
type Fixture struct {
	SampleID    string
	RunDate     string
	Channel     string
	Times       []float64
	Intensities []float64
}

// Write encodes the fixture and writes it to <t.TempDir()>/<name>,
// returning the path.
func Write(t testing.TB, name string, fix Fixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, Encode(fix), 0o644); err != nil {
		t.Fatalf("write cdf fixture: %v", err)
	}
	return path
}

// WriteTo encodes the fixture into an existing directory.
func WriteTo(t testing.TB, dir, name string, fix Fixture) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Encode(fix), 0o644); err != nil {
		t.Fatalf("write cdf fixture: %v", err)
	}
	return path
}

const (
	tagDimension = 0x0A
	tagVariable  = 0x0B
	tagAttribute = 0x0C

	ncChar   = 2
	ncDouble = 6
)

// Encode produces the on-disk bytes of the fixture.
func Encode(fix Fixture) []byte {
	if fix.SampleID == "" {
		fix.SampleID = "SMP-TEST"
	}
	if fix.RunDate == "" {
		fix.RunDate = "20240101120000+0000"
	}
	if fix.Channel == "" {
		fix.Channel = "FID1A"
	}

	gatts := [][2]string{
		{"sample_id", fix.SampleID},
		{"experiment_date_time_stamp", fix.RunDate},
		{"detector_name", fix.Channel},
	}
	varNames := []string{"scan_acquisition_time", "total_intensity"}
	varData := [][]float64{fix.Times, fix.Intensities}

	// Header size, to place the data section.
	headerSize := 4 + 4                             // magic + numrecs
	headerSize += 8 + nameSize("point_number") + 4  // dim list
	headerSize += 8                                 // gatt list tag+count
	for _, a := range gatts {
		headerSize += nameSize(a[0]) + 4 + 4 + pad4(len(a[1]))
	}
	headerSize += 8 // var list tag+count
	for _, name := range varNames {
		headerSize += nameSize(name) + 4 + 4 + 8 + 4 + 4 + 4
	}

	begins := make([]int, len(varNames))
	off := headerSize
	for i, d := range varData {
		begins[i] = off
		off += pad4(8 * len(d))
	}

	var buf bytes.Buffer
	buf.WriteString("CDF")
	buf.WriteByte(1)
	be32(&buf, 0) // no records

	be32(&buf, tagDimension)
	be32(&buf, 1)
	writeName(&buf, "point_number")
	be32(&buf, uint32(len(fix.Times)))

	be32(&buf, tagAttribute)
	be32(&buf, uint32(len(gatts)))
	for _, a := range gatts {
		writeName(&buf, a[0])
		be32(&buf, ncChar)
		be32(&buf, uint32(len(a[1])))
		writePadded(&buf, []byte(a[1]))
	}

	be32(&buf, tagVariable)
	be32(&buf, uint32(len(varNames)))
	for i, name := range varNames {
		writeName(&buf, name)
		be32(&buf, 1) // rank
		be32(&buf, 0) // dim id
		be32(&buf, 0) // absent attribute list
		be32(&buf, 0)
		be32(&buf, ncDouble)
		be32(&buf, uint32(pad4(8*len(varData[i]))))
		be32(&buf, uint32(begins[i]))
	}

	for _, d := range varData {
		for _, x := range d {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], math.Float64bits(x))
			buf.Write(b[:])
		}
	}

	return buf.Bytes()
}

func nameSize(s string) int {
	return 4 + pad4(len(s))
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func be32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeName(buf *bytes.Buffer, s string) {
	be32(buf, uint32(len(s)))
	writePadded(buf, []byte(s))
}

func writePadded(buf *bytes.Buffer, b []byte) {
	buf.Write(b)
	for i := len(b); i < pad4(len(b)); i++ {
		buf.WriteByte(0)
	}
}
