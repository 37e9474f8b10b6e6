package postgres

// TransitionOutcome is the result of a guarded single-row write: an
// update filtered by the expected prior state, or an insert that backs
// off on a unique key. Zero rows affected means another request already
// applied the same transition.
type TransitionOutcome int

const (
	TransitionWon TransitionOutcome = iota
	TransitionLostToConcurrent
)

func (o TransitionOutcome) Won() bool { return o == TransitionWon }

func (o TransitionOutcome) String() string {
	if o == TransitionWon {
		return "won"
	}
	return "lost_to_concurrent"
}
