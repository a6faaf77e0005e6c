package analytics

// ComputeMaxPain returns the strike at which option writers collectively pay
// out the least. For a candidate strike S the pain is the aggregate intrinsic
// value of all in-the-money contracts if the underlying settled at S:
//
//	pain(S) = Σ callOI(K)·(S−K) for K < S  +  Σ putOI(K)·(K−S) for K > S
//
// Ties resolve to the first strike reaching the minimum during a single
// left-to-right scan in snapshot order. O(n²) in strike count, which is fine
// for the ≤ ~21 strikes a chain snapshot carries.
//
// Returns 0 for an empty snapshot.
func ComputeMaxPain(snapshot []OptionChainPoint) float64 {
	if len(snapshot) == 0 {
		return 0
	}

	best := snapshot[0].Strike
	bestPain := painAt(snapshot, snapshot[0].Strike)

	for _, candidate := range snapshot[1:] {
		pain := painAt(snapshot, candidate.Strike)
		if pain < bestPain {
			bestPain = pain
			best = candidate.Strike
		}
	}
	return best
}

// painAt computes the writer payout if expiry settled at strike s.
func painAt(snapshot []OptionChainPoint, s float64) float64 {
	var pain float64
	for _, p := range snapshot {
		if p.Strike < s {
			pain += p.CallOpenInterest * (s - p.Strike)
		} else if p.Strike > s {
			pain += p.PutOpenInterest * (p.Strike - s)
		}
	}
	return pain
}
