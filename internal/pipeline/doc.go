// Package pipeline orchestrates the packaging stages over one batch root.
//
// The runner executes a fixed stage order, one stage to completion before
// the next, objects processed one at a time. Stages report ordered counters
// and warnings; precondition failures abort a stage before it touches any
// object, and a stage error stops the pipeline without rollback — re-running
// a batch is safe because every stage skips work it finds already done.
package pipeline
