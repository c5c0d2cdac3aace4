// Package evaluate scores assemblies: a probability model over historical
// statistics, a percentile-based heuristic evaluation, and the fast versus
// expert comparison report.
package evaluate

// Evaluation is the outcome of a quality or contamination check: a success
// flag plus a finalized, ready-to-display report. A false Success halts the
// pipeline at gated stages unless the caller forces continuation.
type Evaluation struct {
	Success    bool    `json:"success"`
	Confidence float64 `json:"confidence,omitempty"` // set by probabilistic evaluators
	Report     string  `json:"report"`
}
