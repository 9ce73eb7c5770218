package confirm

// Decision names a batch-scoped operator choice that is asked at most once
// per run and then reapplied uniformly.
type Decision string

const (
	// DecisionOverwriteRecords is the run-wide "overwrite ALL existing
	// metadata records?" choice, asked on the first existing record found.
	DecisionOverwriteRecords Decision = "overwrite-records"
)

// Decisions caches operator answers for the duration of one batch run. It is
// explicit state passed into each stage call; a concurrent runner would need
// to serialize access, but the pipeline is single-threaded.
type Decisions struct {
	answers map[Decision]bool
}

// NewDecisions returns an empty decision cache.
func NewDecisions() *Decisions {
	return &Decisions{answers: make(map[Decision]bool)}
}

// Resolve returns the cached answer for key, or asks once and remembers it.
func (d *Decisions) Resolve(key Decision, ask func() (bool, error)) (bool, error) {
	if answer, ok := d.answers[key]; ok {
		return answer, nil
	}
	answer, err := ask()
	if err != nil {
		return false, err
	}
	d.answers[key] = answer
	return answer, nil
}

// Decided reports whether key has been answered this run.
func (d *Decisions) Decided(key Decision) bool {
	_, ok := d.answers[key]
	return ok
}
