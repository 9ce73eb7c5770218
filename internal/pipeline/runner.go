package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/limenVTech/UDCS-Packer/internal/logging"
)

// Stage is the contract every pipeline stage implements. Prepare verifies
// stage preconditions and may load stage inputs; Execute performs the work
// across the whole batch and reports counters. A Prepare error aborts the
// stage before any object is touched.
type Stage interface {
	Name() string
	Prepare(ctx context.Context, b *Batch) error
	Execute(ctx context.Context, b *Batch) (Result, error)
}

// Runner executes stages strictly sequentially: one stage runs to completion
// across the whole batch before the next begins, objects within a stage are
// processed one at a time in directory-listing order.
type Runner struct {
	stages []Stage
	logger *slog.Logger
	// prompt asks the proceed-to-next-stage question between stages; the
	// non-interactive confirmer answers "continue".
	prompt bool
}

// NewRunner builds a runner over the given stage sequence.
func NewRunner(stages []Stage, logger *slog.Logger, prompt bool) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{stages: stages, logger: logger, prompt: prompt}
}

// Run executes every stage in order. It returns the results collected so
// far together with the first stage error; a stage error stops the pipeline
// (there is no transactional rollback — re-running relies on each stage's
// skip logic).
func (r *Runner) Run(ctx context.Context, b *Batch) ([]Result, error) {
	results := make([]Result, 0, len(r.stages))
	for i, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger := logging.NewComponentLogger(r.logger, stage.Name())
		logger.Info("stage started", logging.String(logging.FieldStage, stage.Name()), logging.String("root", b.Root))

		if err := stage.Prepare(ctx, b); err != nil {
			logger.Error("stage preconditions failed", logging.Error(err))
			return results, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		result, err := stage.Execute(ctx, b)
		result.Stage = stage.Name()
		results = append(results, result)

		for _, warning := range result.Warnings {
			logger.Warn(warning)
		}
		attrs := make([]any, 0, len(result.Counts)*2)
		for _, c := range result.Counts {
			attrs = append(attrs, logging.Int(c.Name, c.Value))
		}
		if err != nil {
			logger.Error("stage failed", logging.Error(err))
			return results, fmt.Errorf("%s: %w", stage.Name(), err)
		}
		logger.Info("stage completed", attrs...)

		if r.prompt && i < len(r.stages)-1 {
			proceed, err := b.Confirm.Confirm(
				fmt.Sprintf("Finished %s (%s). Proceed with the next stage?", stage.Name(), summarize(result)), true)
			if err != nil {
				return results, fmt.Errorf("confirm next stage: %w", err)
			}
			if !proceed {
				logger.Info("operator stopped the pipeline")
				return results, nil
			}
		}
	}
	return results, nil
}

func summarize(result Result) string {
	if len(result.Counts) == 0 {
		return "no changes"
	}
	out := ""
	for i, c := range result.Counts {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", c.Name, c.Value)
	}
	return out
}
