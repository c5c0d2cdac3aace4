package evaluate

import (
	"fmt"
	"math"

	"proksee/internal/assembly"
	"proksee/internal/species"
	"proksee/internal/stats"
)

// goodProbability is the probability at or above which an assembly is
// considered good by the model.
const goodProbability = 0.5

// MLEvaluator scores an assembly against the trained per-species quality
// model held in the statistics store. Its verdict is report-only: the
// pipeline never gates on it.
type MLEvaluator struct {
	Store stats.Store
}

// Evaluate scores the metrics for the given species. When the species has no
// historical statistics the evaluation reports that the model cannot be
// applied and counts as a success.
func (e *MLEvaluator) Evaluate(sp species.Species, q assembly.QualityMetrics) (Evaluation, error) {
	st, err := e.Store.Lookup(sp.Name)
	if err != nil {
		return Evaluation{}, fmt.Errorf("machine learning evaluation: %w", err)
	}
	if st == nil {
		return Evaluation{
			Success: true,
			Report: fmt.Sprintf("The species '%s' is not present in the assembly statistics database. "+
				"The assembly quality could not be evaluated with the machine learning model.", sp.Name),
		}, nil
	}

	p := Probability(st, q)
	return Evaluation{
		Success:    p >= goodProbability,
		Confidence: p,
		Report:     fmt.Sprintf("The probability of the assembly being a good assembly is: %.2f.", p),
	}, nil
}

// Probability estimates how likely the metrics describe a good assembly for
// a species with the given historical statistics. Each metric contributes a
// log-space distance from the historical median, scaled by the species'
// 5th-95th percentile spread; the result is the mean contribution.
func Probability(st *stats.SpeciesStats, q assembly.QualityMetrics) float64 {
	scores := []float64{
		kernel(float64(q.N50), st.N50),
		kernel(float64(q.NumContigs), st.Contigs),
		kernel(float64(q.L50), st.L50),
		kernel(float64(q.TotalLength), st.Length),
	}
	var sum float64
	var n int
	for _, s := range scores {
		if s >= 0 {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// kernel maps a metric value to [0, 1]: 1 at the historical median, falling
// to 0 at and beyond the percentile extremes. Returns -1 when the species
// statistics cannot support the computation.
func kernel(value float64, p stats.Percentiles) float64 {
	low, median, high := p.Low(), p.Median(), p.High()
	if value <= 0 || low <= 0 || median <= 0 || high <= low {
		return -1
	}
	spread := math.Log(high) - math.Log(low)
	if spread <= 0 {
		return -1
	}
	distance := math.Abs(math.Log(value)-math.Log(median)) / spread
	if distance >= 1 {
		return 0
	}
	return 1 - distance
}
