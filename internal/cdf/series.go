package cdf

import (
	"path/filepath"

	"chromalab/internal/domain"
)

// Variable and attribute names written by ANDI/AIA chromatography
// exporters. Each slot lists the primary name first, then accepted
// alternates.
var (
	timeVarNames      = []string{"scan_acquisition_time", "raw_data_retention"}
	intensityVarNames = []string{"total_intensity", "ordinate_values"}

	sampleIDAttrs = []string{"sample_id", "sample_name"}
	runDateAttrs  = []string{"experiment_date_time_stamp", "dataset_date_time_stamp"}
	channelAttrs  = []string{"detector_name", "detector_unit"}
)

// LoadSeries parses the instrument file at path into a validated Series.
// Parsing is atomic: either a fully valid series is returned or a
// *ParseError, never a partial result. The file handle is released on all
// exit paths.
func LoadSeries(path string) (*domain.Series, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	times, err := readFirstPresent(f, timeVarNames)
	if err != nil {
		return nil, err
	}
	intensities, err := readFirstPresent(f, intensityVarNames)
	if err != nil {
		return nil, err
	}

	meta := domain.Metadata{SourceFile: filepath.Base(path)}
	meta.SampleID, err = requireAttr(f, sampleIDAttrs)
	if err != nil {
		return nil, err
	}
	meta.RunDate, err = requireAttr(f, runDateAttrs)
	if err != nil {
		return nil, err
	}
	meta.Channel, err = requireAttr(f, channelAttrs)
	if err != nil {
		return nil, err
	}

	s, err := domain.NewSeries(times, intensities, meta)
	if err != nil {
		return nil, wrapParseError(path, "invalid series", err)
	}
	return s, nil
}

// readFirstPresent reads the first variable of the candidate list that
// exists in the file.
func readFirstPresent(f *File, names []string) ([]float64, error) {
	for _, name := range names {
		if _, ok := f.lookupVar(name); ok {
			return f.ReadFloat64s(name)
		}
	}
	return nil, parseErrorf(f.path, "none of the expected variables %v present", names)
}

// requireAttr returns the first present global attribute of the candidate
// list, failing if all are absent or empty.
func requireAttr(f *File, names []string) (string, error) {
	for _, name := range names {
		if v, ok := f.GlobalString(name); ok && v != "" {
			return v, nil
		}
	}
	return "", parseErrorf(f.path, "required metadata attribute missing (tried %v)", names)
}
