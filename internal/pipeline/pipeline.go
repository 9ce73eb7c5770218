package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/config"
	"github.com/limenVTech/UDCS-Packer/internal/confirm"
	"github.com/limenVTech/UDCS-Packer/internal/identifier"
)

// Batch carries everything the stages need for one run over one batch root.
// It is the only mutable state shared across stages, and only the single
// processing goroutine touches it.
type Batch struct {
	// Root is the batch directory whose immediate subdirectories are the
	// objects.
	Root string
	// LedgerPath locates the master metadata ledger (metadata stage only).
	LedgerPath string
	// IDColumn names the ledger column holding each object's local
	// identifier.
	IDColumn string
	// TransferDir overrides the transfer stage's default target
	// (<Root>-archived) when set.
	TransferDir string

	Cfg       *config.Config
	Logger    *slog.Logger
	Confirm   confirm.Confirmer
	Decisions *confirm.Decisions
	Generator identifier.Generator
	Packager  bagit.Packager
}

// Count is one named per-stage counter. Counts stay ordered so summaries
// render the way the stage reported them.
type Count struct {
	Name  string
	Value int
}

// Result aggregates what one stage did across the whole batch.
type Result struct {
	Stage    string
	Counts   []Count
	Warnings []string
}

// Add increments the named counter, creating it at zero first.
func (r *Result) Add(name string, delta int) {
	for i := range r.Counts {
		if r.Counts[i].Name == name {
			r.Counts[i].Value += delta
			return
		}
	}
	r.Counts = append(r.Counts, Count{Name: name, Value: delta})
}

// Get returns the named counter's value, zero when never touched.
func (r *Result) Get(name string) int {
	for _, c := range r.Counts {
		if c.Name == name {
			return c.Value
		}
	}
	return 0
}

// Warnf records a per-object warning. Warnings surface in the summary and
// the log but do not stop the stage.
func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
