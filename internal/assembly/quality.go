// Package assembly holds the assembly-side value objects (quality metrics,
// the final summary) and the quality measurer that produces metrics from a
// contigs file via QUAST.
package assembly

import "fmt"

// QualityMetrics are the numeric statistics of one assembly attempt. One set
// is produced per pass (fast, expert).
type QualityMetrics struct {
	NumContigs  int     `json:"num_contigs"`
	N50         int     `json:"n50"`
	L50         int     `json:"l50"`
	TotalLength int64   `json:"total_length"`
	GCContent   float64 `json:"gc_content"` // fraction in [0, 1]
}

func (q QualityMetrics) String() string {
	return fmt.Sprintf("contigs=%d n50=%d l50=%d length=%d gc=%.4f",
		q.NumContigs, q.N50, q.L50, q.TotalLength, q.GCContent)
}
