// Package resource carries the opaque resource specification handed to
// external tools. The orchestrator never interprets it; it is passed through
// to assemblers and measurers unchanged.
package resource

import "fmt"

// Spec describes the resources sub-programs should use.
type Spec struct {
	Threads int // worker threads per tool; 0 = tool default
	Memory  int // memory budget in gigabytes; 0 = tool default
}

func (s Spec) String() string {
	return fmt.Sprintf("threads=%d memory=%dG", s.Threads, s.Memory)
}
