package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/confirm"
	"github.com/limenVTech/UDCS-Packer/internal/linkdata"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/record"
	"github.com/limenVTech/UDCS-Packer/internal/services"
)

const stageName = "metadata"

// Stage writes one metadata record (plus linked-data renderings) per ledger
// row into the matching object directory.
type Stage struct{}

// New constructs the metadata stage.
func New() *Stage { return &Stage{} }

func (s *Stage) Name() string { return stageName }

// Prepare verifies the stage's inputs are configured: a CSV ledger path and
// a known identifier column. The ledger content itself is validated in
// Execute so a header mismatch still reports the (0, 0) counters.
func (s *Stage) Prepare(_ context.Context, b *pipeline.Batch) error {
	if strings.TrimSpace(b.LedgerPath) == "" {
		return services.Wrap(services.ErrConfiguration, stageName, "check inputs", "a master ledger CSV is required", nil)
	}
	if !strings.EqualFold(filepath.Ext(b.LedgerPath), ".csv") {
		return services.Wrap(services.ErrValidation, stageName, "check inputs", "the metadata source file must be CSV", nil)
	}
	if strings.TrimSpace(b.IDColumn) == "" {
		return services.Wrap(services.ErrConfiguration, stageName, "check inputs", "the ledger column holding local identifiers is required", nil)
	}
	if !slices.Contains(record.Fields, b.IDColumn) {
		return services.Wrap(services.ErrConfiguration, stageName, "check inputs",
			fmt.Sprintf("unknown identifier column %q", b.IDColumn), nil)
	}
	return nil
}

// Execute resolves each ledger row to an object directory and writes its
// record, applying the skip precedence: missing directory (silent),
// looks-packaged (ask and skip), existing record (one run-wide overwrite
// decision). Record and rendering counts are independent.
func (s *Stage) Execute(ctx context.Context, b *pipeline.Batch) (pipeline.Result, error) {
	var res pipeline.Result
	res.Add("records", 0)
	res.Add("renders", 0)
	res.Add("skipped", 0)

	rows, err := record.ReadLedger(b.LedgerPath)
	if err != nil {
		return res, err
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		local, err := row.Get(b.IDColumn)
		if err != nil {
			return res, services.Wrap(services.ErrConfiguration, stageName, "resolve identifier column", "", err)
		}
		if strings.TrimSpace(local) == "" {
			res.Warnf("ledger row with empty %q column skipped", b.IDColumn)
			res.Add("skipped", 1)
			continue
		}

		dir := filepath.Join(b.Root, local)
		info, statErr := os.Stat(dir)
		if statErr != nil || !info.IsDir() {
			res.Add("skipped", 1)
			continue
		}

		if bagit.LooksPackaged(dir) {
			skip, err := b.Confirm.Confirm(
				fmt.Sprintf("It appears that %q is already a package. Skip writing its metadata record?", local), true)
			if err != nil {
				return res, err
			}
			if skip {
				res.Add("skipped", 1)
				continue
			}
		}

		if record.Exists(dir) {
			overwrite, err := b.Decisions.Resolve(confirm.DecisionOverwriteRecords, func() (bool, error) {
				return b.Confirm.Confirm("At least one metadata.csv already exists. Overwrite ALL of them?", false)
			})
			if err != nil {
				return res, err
			}
			if !overwrite {
				res.Add("skipped", 1)
				continue
			}
		}

		if err := row.Write(filepath.Join(dir, record.FileName)); err != nil {
			return res, err
		}
		res.Add("records", 1)

		if err := linkdata.Render(row, dir); err != nil {
			res.Warnf("linked-data rendering failed for %q: %v", local, err)
		} else {
			res.Add("renders", 1)
		}
	}
	return res, nil
}
