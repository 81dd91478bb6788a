package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the batch report as Markdown.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Chromatogram Batch Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d | Peaks: %d | Failures: %d\n\n",
		len(r.Runs), len(r.Peaks), len(r.Failures)))

	sb.WriteString("## Runs\n\n")
	if len(r.Runs) == 0 {
		sb.WriteString("No summaries stored.\n\n")
	} else {
		sb.WriteString("| Run ID | Sample | Run Date | Channel | Peaks | Total Area | Warnings |\n")
		sb.WriteString("|--------|--------|----------|---------|-------|------------|----------|\n")
		for _, run := range r.Runs {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %.2f | %d |\n",
				run.RunID, run.SampleID, run.RunDate, run.Channel,
				run.PeakCount, run.TotalArea, run.Warnings))
		}
		sb.WriteString("\n")
	}

	if len(r.Peaks) > 0 {
		sb.WriteString("## Peaks\n\n")
		sb.WriteString("| Run ID | Sample | RT (s) | Height | Area | Width (s) |\n")
		sb.WriteString("|--------|--------|--------|--------|------|-----------|\n")
		for _, p := range r.Peaks {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f | %.2f |\n",
				p.RunID, p.SampleID, p.RetentionTime, p.Height, p.Area, p.Width))
		}
		sb.WriteString("\n")
	}

	if len(r.Failures) > 0 {
		sb.WriteString("## Failures\n\n")
		sb.WriteString("| File | Error |\n")
		sb.WriteString("|------|-------|\n")
		for _, f := range r.Failures {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", f.Path, f.Err))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
