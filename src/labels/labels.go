// Package labels allocates the sequential "l<id>" assembly label namespace.
//
// The teacher's util/label.go serves label requests to concurrent worker
// goroutines over a pair of channels, because its backend can run with
// several threads compiling different functions at once (see util.Options.
// Threads). This compiler is specified as strictly single-threaded (no
// cooperative suspension, one current token at a time), so the channel
// machinery has no job to do here: a single counter field threaded through
// the compilation session gives the identical guarantee -- monotonically
// increasing, never reused -- with none of the synchronization overhead.
package labels

import "fmt"

// Allocator hands out fresh label ids starting at 100, matching the
// original core's next_label initial value.
type Allocator struct {
	next int
}

// NewAllocator returns an Allocator ready to mint labels starting at 100.
func NewAllocator() *Allocator {
	return &Allocator{next: 100}
}

// New returns a fresh label name of the form "l<id>".
func (a *Allocator) New() string {
	id := a.next
	a.next++
	return fmt.Sprintf("l%d", id)
}
