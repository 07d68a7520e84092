// Package sweep holds the sweep result type and the scheduler that
// drives all batch evaluations on fixed cadences.
package sweep

// Summary reports one batch evaluation pass: how many candidates were
// looked at, how many records/notifications came out of it, and the
// per-candidate errors that were skipped over. A non-empty Errors
// never means the sweep aborted; surviving candidates were still
// processed.
type Summary struct {
	Evaluated int
	Emitted   int
	Errors    []error
}

// Record notes one evaluated candidate.
func (s *Summary) Record() { s.Evaluated++ }

// Emit notes one produced record or notification.
func (s *Summary) Emit() { s.Emitted++ }

// Fail collects a per-candidate error without stopping the sweep.
func (s *Summary) Fail(err error) { s.Errors = append(s.Errors, err) }
