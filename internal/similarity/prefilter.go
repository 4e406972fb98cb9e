package similarity

// PrefilterConfig holds the two thresholds the prefilter gate applies
// before a pair is allowed to reach the TSED kernel.
type PrefilterConfig struct {
	// Threshold is the similarity threshold τ the run was invoked with;
	// the prefilter must never reject a pair that could still score >= τ.
	Threshold float64
	// MinJaccard is the minimum fingerprint Jaccard lower bound a pair
	// must clear; 0 disables the bitset test entirely.
	MinJaccard float64
	// SizeRatioK is the k in ρ(τ) = 1 - (1-τ)*k. k=1 is the
	// tightest bound the kernel's unit edit costs support; a larger k
	// widens the gate, admitting more pairs to the expensive comparator
	// at the cost of throughput. 0 defaults to 1.
	SizeRatioK float64
}

// Passes runs the prefilter's two independent tests: a
// size-ratio gate derived from the run's threshold, and a fingerprint
// Jaccard lower bound. Both must pass for the pair to proceed to the
// expensive comparator; failing either is a sound (never a false
// negative against the threshold) rejection.
func Passes(a, b *Fragment, cfg PrefilterConfig) bool {
	return sizeRatioPasses(a.SourceSize, b.SourceSize, cfg.Threshold, cfg.SizeRatioK) &&
		jaccardPasses(a.Fingerprint, b.Fingerprint, cfg.MinJaccard)
}

// sizeRatioPasses implements test 1: the smaller fragment must be at
// least ρ(τ) = 1 - (1-τ)*k of the larger fragment's size, where k=1 gives
// the tightest sound bound consistent with the kernel's unit edit costs
// (deleting the size difference alone already costs (1-τ)*max(|a|,|b|)
// edits at cost 1 each). k>1 trades that tightness for a wider gate.
func sizeRatioPasses(sizeA, sizeB int, threshold, k float64) bool {
	if sizeA == 0 || sizeB == 0 {
		return sizeA == sizeB
	}
	if k <= 0 {
		k = 1.0
	}
	small, large := float64(sizeA), float64(sizeB)
	if small > large {
		small, large = large, small
	}
	rho := 1.0 - (1.0-threshold)*k
	return small/large >= rho
}

// jaccardPasses implements test 2: skip fragments whose structural
// fingerprints share too little trigram overlap. A MinJaccard of 0
// disables the test, matching a τ of 0 admitting everything.
func jaccardPasses(a, b Fingerprint, minJaccard float64) bool {
	if minJaccard <= 0 {
		return true
	}
	return JaccardLowerBound(a, b) >= minJaccard
}
