// Package reads handles the sequencing reads the pipeline assembles: the
// read-set value, FASTQ validation, and quality filtering via fastp.
package reads

// ReadSet locates the input sequencing reads. Forward is always present;
// Reverse is set only for paired-end data. The orchestrator borrows read
// sets from the caller and never mutates them; filtering derives a new set.
type ReadSet struct {
	Forward string
	Reverse string
}

// NewReadSet builds a ReadSet from a required forward path and an optional
// reverse path (empty = unpaired).
func NewReadSet(forward, reverse string) ReadSet {
	return ReadSet{Forward: forward, Reverse: reverse}
}

// Paired reports whether the set carries a reverse read file.
func (r ReadSet) Paired() bool {
	return r.Reverse != ""
}

// Locations returns the file locations in forward, reverse order, omitting
// the reverse entry for unpaired sets.
func (r ReadSet) Locations() []string {
	if r.Paired() {
		return []string{r.Forward, r.Reverse}
	}
	return []string{r.Forward}
}

// Quality summarizes read quality after filtering, as reported by fastp.
type Quality struct {
	TotalReads int64   `json:"total_reads"`
	TotalBases int64   `json:"total_bases"`
	Q30Rate    float64 `json:"q30_rate"`
}
