package workload

// LoadWeights holds the per-category weights of the load score. Overdue work
// weighs heaviest, active work above queued work, in-test work in between.
type LoadWeights struct {
	Todo       float64
	InProgress float64
	InTest     float64
	Overdue    float64
}

// DefaultLoadWeights returns the standard load score weights.
func DefaultLoadWeights() LoadWeights {
	return LoadWeights{
		Todo:       1,
		InProgress: 2,
		InTest:     1.5,
		Overdue:    3,
	}
}

// Score computes the weighted load score for a row's counts. It depends only
// on the accumulated counts, so buckets may be built in any task order.
func (w LoadWeights) Score(r *Row) float64 {
	return float64(r.Todo)*w.Todo +
		float64(r.InProgress)*w.InProgress +
		float64(r.InTest)*w.InTest +
		float64(r.Overdue)*w.Overdue
}
