package sweep

// Report aggregates the per-key accounting of one run. It has a single
// writer (the runner) for the run's lifetime and is handed to the caller
// only after the run finishes.
type Report struct {
	Scanned       int // keys enumerated from the bucket
	Matched       int // keys surviving the filter
	FilteredOut   int // keys excluded by the filter
	Deleted       int
	Failed        int
	SkippedDryRun int
	Failures      []Outcome // every StatusFailed outcome, key + reason
	Sample        []string  // first few matched keys, for dry-run previews
	Aborted       bool      // run ended on a fatal error or cancellation
}

// sampleSize caps how many matched keys the report keeps for preview output.
const sampleSize = 10

func (r *Report) observe(key string, matched bool) {
	r.Scanned++
	if matched {
		r.Matched++
		if len(r.Sample) < sampleSize {
			r.Sample = append(r.Sample, key)
		}
	} else {
		r.FilteredOut++
	}
}

func (r *Report) apply(outcomes []Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case StatusDeleted:
			r.Deleted++
		case StatusSkippedDryRun:
			r.SkippedDryRun++
		case StatusFailed:
			r.Failed++
			r.Failures = append(r.Failures, o)
		}
	}
}

// Clean reports whether the run completed with zero failed outcomes.
func (r *Report) Clean() bool {
	return !r.Aborted && r.Failed == 0
}
