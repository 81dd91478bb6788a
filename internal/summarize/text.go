package summarize

import (
	"fmt"
	"sort"
	"strings"

	"chromalab/internal/domain"
)

// RenderText produces the human-readable trace summary handed to the
// diagnosis collaborator: run header, then up to maxPeaks peaks ordered by
// height descending. maxPeaks <= 0 means all peaks.
func RenderText(s *domain.Summary, maxPeaks int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Chromatogram Summary: %s\n", s.SampleID))
	if src := s.Metadata["source_file"]; src != "" {
		sb.WriteString(fmt.Sprintf("Source file: %s\n", src))
	}
	sb.WriteString(fmt.Sprintf("Total peaks detected: %d\n", len(s.Peaks)))
	sb.WriteString(fmt.Sprintf("Total area: %.2f\n", s.TotalArea))

	for _, w := range s.Warnings {
		sb.WriteString(fmt.Sprintf("Warning [%s]: %s\n", w.Code, w.Message))
	}

	if len(s.Peaks) == 0 {
		sb.WriteString("\nNo peaks detected.\n")
		return sb.String()
	}

	byHeight := make([]domain.Peak, len(s.Peaks))
	copy(byHeight, s.Peaks)
	sort.Slice(byHeight, func(i, j int) bool {
		return byHeight[i].Height > byHeight[j].Height
	})
	if maxPeaks > 0 && len(byHeight) > maxPeaks {
		byHeight = byHeight[:maxPeaks]
	}

	sb.WriteString(fmt.Sprintf("\nTop %d peaks:\n", len(byHeight)))
	for i, p := range byHeight {
		sb.WriteString(fmt.Sprintf("%d. RT: %.2fs | Height: %.2f | Area: %.2f | Width: %.2fs\n",
			i+1, p.RetentionTime, p.Height, p.Area, p.Width))
	}

	return sb.String()
}
