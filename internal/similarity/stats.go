package similarity

// RunSummary accumulates the counters a caller reports at the end of a
// run: how much work was attempted, how much survived each stage of the
// pipeline, and every non-fatal error encountered along the way.
type RunSummary struct {
	FilesParsed        int
	FragmentsExtracted int
	FragmentsSkipped   int
	PairsConsidered    int
	PairsRejectedBySizeGate  int
	PairsRejectedByJaccard   int
	PairsBelowThreshold      int
	PairsReported            int
	// PairsTruncated counts matches evicted by the bounded top-K collector
	// when a kind-bucket exceeds RunConfig.BatchThreshold fragments. 0
	// means every surviving pair was reported.
	PairsTruncated           int
	Errors                   []*RunError
	Cancelled                bool
}

// AddError appends a non-fatal error to the summary.
func (s *RunSummary) AddError(err *RunError) {
	s.Errors = append(s.Errors, err)
}

// HasErrorsOf reports whether the summary recorded at least one error of
// the given kind.
func (s *RunSummary) HasErrorsOf(kind ErrorKind) bool {
	for _, e := range s.Errors {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
