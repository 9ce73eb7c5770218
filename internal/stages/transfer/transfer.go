package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/limenVTech/UDCS-Packer/internal/checksum"
	"github.com/limenVTech/UDCS-Packer/internal/logging"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/services"
	"github.com/limenVTech/UDCS-Packer/internal/stages/archive"
	"github.com/limenVTech/UDCS-Packer/internal/treewalk"
)

const stageName = "transfer"

// Stage writes the transfer ledger for a directory of finished archives: one
// "name, strong-digest" row per file, saved one level above the enumerated
// directory. The target defaults to the batch's archive output and can be
// pointed at any directory the operator chooses.
type Stage struct {
	now func() time.Time
}

// New constructs the transfer-ledger stage.
func New() *Stage { return &Stage{now: time.Now} }

func (s *Stage) Name() string { return stageName }

// Target resolves the directory whose contents the ledger covers.
func (s *Stage) Target(b *pipeline.Batch) string {
	if b.TransferDir != "" {
		return b.TransferDir
	}
	return archive.OutputDir(b.Root)
}

func (s *Stage) Prepare(_ context.Context, b *pipeline.Batch) error {
	target := s.Target(b)
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrPrecondition, stageName, "check transfer dir",
			fmt.Sprintf("the directory %q does not exist", target), err)
	}
	_, strong := b.Cfg.ManifestDigests()
	if _, err := strong.New(); err != nil {
		return services.Wrap(services.ErrConfiguration, stageName, "check digest", "", err)
	}
	return nil
}

// Execute enumerates every file under the target, deletes artifact files,
// and writes the timestamped ledger beside the target directory. The walk
// mutates nothing else.
func (s *Stage) Execute(ctx context.Context, b *pipeline.Batch) (pipeline.Result, error) {
	var res pipeline.Result
	res.Add("files", 0)

	target := s.Target(b)
	_, strong := b.Cfg.ManifestDigests()

	name := fmt.Sprintf("Transfer_%s_%s.csv", filepath.Base(target), s.now().Format("0102_150405"))
	ledgerPath := filepath.Join(filepath.Dir(target), name)

	file, err := os.OpenFile(ledgerPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return res, services.Wrap(services.ErrIO, stageName, "create transfer ledger", ledgerPath, err)
	}

	walkErr := treewalk.Walk(target, target, b.Cfg.Walker.ArtifactNames, func(e treewalk.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sum, err := checksum.Sum(e.Path, strong)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(file, "%s, %s\n", e.Name, sum); err != nil {
			return services.Wrap(services.ErrIO, stageName, "write ledger row", e.Name, err)
		}
		res.Add("files", 1)
		return nil
	})
	if walkErr != nil {
		file.Close()
		return res, walkErr
	}
	if err := file.Close(); err != nil {
		return res, services.Wrap(services.ErrIO, stageName, "close transfer ledger", ledgerPath, err)
	}

	b.Logger.Info("transfer ledger written",
		logging.String(logging.FieldStage, stageName),
		logging.String("path", ledgerPath))
	return res, nil
}
