package cfr

// InfoSetSnapshot is a point-in-time copy of one information set's
// accumulators and derived strategies.
type InfoSetSnapshot struct {
	// CurrentStrategy is the regret-matched strategy in play.
	CurrentStrategy []float32
	// AverageStrategy is the normalized strategy sum; this is the
	// quantity that converges to equilibrium.
	AverageStrategy []float32
	// RegretSum is the raw accumulated regret vector. Entries may be
	// negative; only the positive part drives the current strategy.
	RegretSum []float32
}

// Snapshot is an immutable export of every information set known to a
// StrategyTable at one point in training. It shares no memory with the
// table, so it remains valid while training continues.
type Snapshot struct {
	// Iter is the number of completed iterations when the snapshot
	// was taken.
	Iter int

	InfoSets map[string]InfoSetSnapshot
}

// Snapshot exports the table's current state tagged with the given
// iteration index. It is read-only with respect to the table and safe
// to call at any point between iterations.
func (st *StrategyTable) Snapshot(iter int) *Snapshot {
	result := &Snapshot{
		Iter:     iter,
		InfoSets: make(map[string]InfoSetSnapshot, len(st.strategies)),
	}

	for key, s := range st.strategies {
		result.InfoSets[key] = InfoSetSnapshot{
			CurrentStrategy: append([]float32(nil), s.currentStrategy...),
			AverageStrategy: s.GetAverageStrategy(),
			RegretSum:       append([]float32(nil), s.regretSum...),
		}
	}

	return result
}
