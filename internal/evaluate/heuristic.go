package evaluate

import (
	"fmt"
	"strings"

	"proksee/internal/assembly"
	"proksee/internal/format"
	"proksee/internal/species"
	"proksee/internal/stats"
)

// HeuristicEvaluator compares assembly metrics against the species'
// historical percentile ranges. Like the ML evaluator, it is report-only.
type HeuristicEvaluator struct {
	Store stats.Store
}

// Evaluate checks each metric of q against the species' 5th-95th percentile
// range. The evaluation succeeds when every metric is inside its range.
func (e *HeuristicEvaluator) Evaluate(sp species.Species, q assembly.QualityMetrics) (Evaluation, error) {
	st, err := e.Store.Lookup(sp.Name)
	if err != nil {
		return Evaluation{}, fmt.Errorf("heuristic evaluation: %w", err)
	}
	if st == nil {
		return Evaluation{
			Success: true,
			Report: fmt.Sprintf("The species '%s' is not present in the assembly statistics database. "+
				"The assembly quality could not be compared against similar assemblies.", sp.Name),
		}, nil
	}

	var b strings.Builder
	b.WriteString("Heuristic evaluation of the assembly quality:\n")

	checks := []struct {
		name        string
		value       float64
		percentiles stats.Percentiles
	}{
		{"N50", float64(q.N50), st.N50},
		{"number of contigs", float64(q.NumContigs), st.Contigs},
		{"L50", float64(q.L50), st.L50},
		{"assembly length", float64(q.TotalLength), st.Length},
	}

	success := true
	for _, c := range checks {
		low, high := c.percentiles.Low(), c.percentiles.High()
		switch {
		case c.value < low:
			success = false
			fmt.Fprintf(&b, "WARNING: the %s (%.0f) is below the 5th percentile (%.0f) of similar assemblies.\n",
				c.name, c.value, low)
		case c.value > high:
			success = false
			fmt.Fprintf(&b, "WARNING: the %s (%.0f) is above the 95th percentile (%.0f) of similar assemblies.\n",
				c.name, c.value, high)
		default:
			fmt.Fprintf(&b, "The %s (%.0f) is comparable to similar assemblies: within [%.0f, %.0f].\n",
				c.name, c.value, low, high)
		}
	}

	return Evaluation{Success: success, Report: strings.TrimRight(b.String(), "\n")}, nil
}

// Compare renders the fast versus expert comparison report as a terminal
// table.
func Compare(fast, expert assembly.QualityMetrics) string {
	tbl := format.NewTable()
	tbl.Header("Assembly Statistic", "Fast", "Expert")
	tbl.Columns(format.Column{Number: 2, Align: format.AlignRight}, format.Column{Number: 3, Align: format.AlignRight})
	tbl.Row("Number of Contigs", fast.NumContigs, expert.NumContigs)
	tbl.Row("N50", fast.N50, expert.N50)
	tbl.Row("L50", fast.L50, expert.L50)
	tbl.Row("Total Length", fast.TotalLength, expert.TotalLength)
	tbl.Row("GC Content", fmt.Sprintf("%.4f", fast.GCContent), fmt.Sprintf("%.4f", expert.GCContent))

	return "Comparing the fast and expert assemblies:\n" + tbl.String()
}
