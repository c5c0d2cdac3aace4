package expert

import (
	"strings"
	"testing"

	"proksee/internal/assembly"
	"proksee/internal/config"
	"proksee/internal/platform"
	"proksee/internal/reads"
	"proksee/internal/species"
	"proksee/internal/stats"
)

func newSystem(p platform.Platform, store stats.Store) *System {
	return &System{
		Platform:  p,
		Species:   species.Species{Name: "Listeria monocytogenes", Confidence: 0.99},
		Reads:     reads.NewReadSet("fwd_filtered.fastq", ""),
		OutputDir: "out",
		Store:     store,
	}
}

func goodQuality() reads.Quality {
	return reads.Quality{TotalReads: 20000, TotalBases: 3000000, Q30Rate: 0.93}
}

func TestFastStrategyIllumina(t *testing.T) {
	s := newSystem(platform.Illumina, stats.NewMemStore())
	st := s.FastStrategy(goodQuality())
	if !st.Proceed {
		t.Fatalf("good Illumina reads should proceed: %q", st.Report)
	}
	if st.Assembler.Name() != "SKESA" {
		t.Errorf("assembler = %q, want SKESA", st.Assembler.Name())
	}
	if !strings.Contains(st.Report, "fast assembly with SKESA") {
		t.Errorf("report = %q", st.Report)
	}
}

func TestFastStrategyLowQuality(t *testing.T) {
	s := newSystem(platform.Illumina, stats.NewMemStore())
	st := s.FastStrategy(reads.Quality{Q30Rate: 0.31})
	if st.Proceed {
		t.Error("low Q30 should not proceed")
	}
	if st.Assembler == nil {
		t.Error("a best-effort assembler must be set for forced runs")
	}
	if !strings.Contains(st.Report, "read quality") {
		t.Errorf("report = %q", st.Report)
	}
}

func TestFastStrategyConfiguredFloor(t *testing.T) {
	s := newSystem(platform.Illumina, stats.NewMemStore())
	s.Config = &config.Config{MinQ30: 0.95}
	if st := s.FastStrategy(goodQuality()); st.Proceed {
		t.Errorf("Q30 0.93 should fail a configured 0.95 floor: %q", st.Report)
	}
}

func TestFastStrategyUnidentifiablePlatform(t *testing.T) {
	s := newSystem(platform.Unidentifiable, stats.NewMemStore())
	st := s.FastStrategy(goodQuality())
	if st.Proceed {
		t.Error("unidentifiable platform should not proceed")
	}
	if st.Assembler == nil || st.Assembler.Name() != "SKESA" {
		t.Error("best-effort assembler should be SKESA")
	}
}

func TestFastStrategyLongReads(t *testing.T) {
	s := newSystem(platform.OxfordNanopore, stats.NewMemStore())
	st := s.FastStrategy(goodQuality())
	if st.Proceed {
		t.Error("long reads have no fast strategy")
	}
	if st.Assembler == nil || st.Assembler.Name() != "Flye" {
		t.Error("best-effort assembler should be Flye")
	}
}

func listeriaStore(t *testing.T) stats.Store {
	t.Helper()
	store := stats.NewMemStore()
	err := store.PutSpeciesStats(&stats.SpeciesStats{
		Species: "Listeria monocytogenes",
		N50:     stats.Percentiles{5: 50000, 50: 300000, 95: 900000},
		Contigs: stats.Percentiles{5: 8, 50: 30, 95: 250},
		L50:     stats.Percentiles{5: 1, 50: 5, 95: 40},
		Length:  stats.Percentiles{5: 2800000, 50: 3000000, 95: 3250000},
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestExpertStrategyWithHistory(t *testing.T) {
	s := newSystem(platform.Illumina, listeriaStore(t))
	fast := assembly.QualityMetrics{NumContigs: 35, N50: 280000, L50: 5, TotalLength: 2995000}
	st, err := s.ExpertStrategy(fast)
	if err != nil {
		t.Fatalf("ExpertStrategy: %v", err)
	}
	if !st.Proceed {
		t.Fatalf("reasonable fast assembly should proceed: %q", st.Report)
	}
	if st.Assembler.Name() != "SPAdes" {
		t.Errorf("assembler = %q, want SPAdes", st.Assembler.Name())
	}
}

func TestExpertStrategyHopelessFastAssembly(t *testing.T) {
	s := newSystem(platform.Illumina, listeriaStore(t))
	fast := assembly.QualityMetrics{NumContigs: 4000, N50: 800, L50: 1200, TotalLength: 900000}
	st, err := s.ExpertStrategy(fast)
	if err != nil {
		t.Fatal(err)
	}
	if st.Proceed {
		t.Errorf("hopeless fast assembly should not proceed: %q", st.Report)
	}
	if !strings.Contains(st.Report, "unlikely to produce a good assembly") {
		t.Errorf("report = %q", st.Report)
	}
}

func TestExpertStrategyUnknownSpeciesProceedsCautiously(t *testing.T) {
	s := newSystem(platform.Illumina, stats.NewMemStore())
	st, err := s.ExpertStrategy(assembly.QualityMetrics{NumContigs: 35, N50: 280000})
	if err != nil {
		t.Fatal(err)
	}
	if !st.Proceed {
		t.Errorf("missing history must not block the expert pass: %q", st.Report)
	}
	if !strings.Contains(st.Report, "Proceeding cautiously") {
		t.Errorf("report = %q", st.Report)
	}
}

func TestExpertStrategyLongReadsUsesFlye(t *testing.T) {
	s := newSystem(platform.PacBio, stats.NewMemStore())
	st, err := s.ExpertStrategy(assembly.QualityMetrics{})
	if err != nil {
		t.Fatal(err)
	}
	if !st.Proceed || st.Assembler.Name() != "Flye" {
		t.Errorf("long-read expert strategy = %+v", st)
	}
}
