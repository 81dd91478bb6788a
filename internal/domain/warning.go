package domain

// Warning codes for non-fatal anomalies recovered during processing.
const (
	// WarnDegenerateBaseline: fewer than two valleys were found, baseline
	// fell back to a straight line between the series endpoints.
	WarnDegenerateBaseline = "DEGENERATE_BASELINE"

	// WarnNegativeHeightClamped: a peak's computed height was negative and
	// clamped to zero. Indicates a baseline estimation error.
	WarnNegativeHeightClamped = "NEGATIVE_HEIGHT_CLAMPED"
)

// Warning is a non-fatal processing anomaly attached to the run's summary.
// Processing continues past a warning with a documented fallback; warnings
// are never silently dropped.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
