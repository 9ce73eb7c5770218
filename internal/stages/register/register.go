package register

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/limenVTech/UDCS-Packer/internal/auditlog"
	"github.com/limenVTech/UDCS-Packer/internal/linkdata"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/record"
	"github.com/limenVTech/UDCS-Packer/internal/services"
)

const stageName = "register"

// Stage assigns system identifiers to recorded objects. The identity
// transition is ordered so the directory rename happens last: record,
// renderings, and audit entry all land before the object changes name, and a
// crash mid-object leaves a directory that re-registers cleanly.
type Stage struct {
	now func() time.Time
}

// New constructs the registration stage.
func New() *Stage { return &Stage{now: time.Now} }

func (s *Stage) Name() string { return stageName }

// Prepare verifies the batch root and an identifier generator are available.
func (s *Stage) Prepare(_ context.Context, b *pipeline.Batch) error {
	info, err := os.Stat(b.Root)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrPrecondition, stageName, "check batch root", b.Root, err)
	}
	if b.Generator == nil {
		return services.Wrap(services.ErrConfiguration, stageName, "check generator", "no identifier generator configured", nil)
	}
	return nil
}

// Execute registers every object directory in the batch root that carries a
// metadata record. Directories already named by their record's system
// identifier are left alone; directories without a record are skipped.
func (s *Stage) Execute(ctx context.Context, b *pipeline.Batch) (pipeline.Result, error) {
	var res pipeline.Result
	res.Add("registered", 0)
	res.Add("renders", 0)
	res.Add("already_registered", 0)
	res.Add("skipped", 0)

	log, err := auditlog.Open(filepath.Join(b.Root, auditlog.FileName))
	if err != nil {
		return res, services.Wrap(services.ErrIO, stageName, "open audit log", "", err)
	}

	entries, err := os.ReadDir(b.Root)
	if err != nil {
		return res, services.Wrap(services.ErrIO, stageName, "list batch root", b.Root, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(b.Root, entry.Name())
		if !record.Exists(dir) {
			res.Warnf("%q has no metadata record, skipped", entry.Name())
			res.Add("skipped", 1)
			continue
		}

		rec, err := record.Load(filepath.Join(dir, record.FileName))
		if err != nil {
			return res, err
		}
		if rec.SystemUUID != "" && rec.SystemUUID == entry.Name() {
			res.Add("already_registered", 1)
			continue
		}

		sysID, err := b.Generator.Generate(ctx)
		if err != nil {
			return res, services.Wrap(services.ErrIO, stageName, "generate identifier", entry.Name(), err)
		}
		target := filepath.Join(b.Root, sysID)
		if _, err := os.Stat(target); err == nil {
			return res, services.Wrap(services.ErrValidation, stageName, "check identifier",
				fmt.Sprintf("identifier %q already names a directory", sysID), nil)
		}

		rec.SystemUUID = sysID
		if err := rec.Write(filepath.Join(dir, record.FileName)); err != nil {
			return res, err
		}
		if err := log.Append(auditlog.Entry{
			SystemUUID: sysID,
			LocalID:    rec.LocalID,
			When:       s.now(),
			Person:     rec.Person,
		}); err != nil {
			return res, services.Wrap(services.ErrIO, stageName, "append audit entry", entry.Name(), err)
		}
		if err := linkdata.RemoveStale(dir); err != nil {
			res.Warnf("removing stale renderings in %q: %v", entry.Name(), err)
		}
		if err := linkdata.Render(rec, dir); err != nil {
			res.Warnf("linked-data rendering failed for %q: %v", entry.Name(), err)
		} else {
			res.Add("renders", 1)
		}

		// Rename last: everything inside the object already reflects its
		// new identity before the directory adopts it.
		if err := os.Rename(dir, target); err != nil {
			return res, services.Wrap(services.ErrIO, stageName, "rename object", entry.Name(), err)
		}
		res.Add("registered", 1)
	}
	return res, nil
}
