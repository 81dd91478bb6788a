package reporting

import (
	"fmt"
	"strings"
)

// RenderPeaksCSV renders all peaks of a batch as CSV, one row per peak.
func RenderPeaksCSV(rows []PeakRow) string {
	var sb strings.Builder

	sb.WriteString("run_id,sample_id,retention_time,height,area,width,start_time,end_time\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			r.RunID,
			r.SampleID,
			r.RetentionTime,
			r.Height,
			r.Area,
			r.Width,
			r.StartTime,
			r.EndTime,
		))
	}

	return sb.String()
}

// RenderRunsCSV renders the per-run rollup as CSV.
func RenderRunsCSV(rows []RunRow) string {
	var sb strings.Builder

	sb.WriteString("run_id,sample_id,run_date,channel,peak_count,total_area,warnings\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%.6f,%d\n",
			r.RunID,
			r.SampleID,
			r.RunDate,
			r.Channel,
			r.PeakCount,
			r.TotalArea,
			r.Warnings,
		))
	}

	return sb.String()
}
