package prepack

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/limenVTech/UDCS-Packer/internal/fileutil"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/services"
)

const (
	stageName = "prepack"

	stagingName = ".prepack-staging"

	// markerSubstring names the files kept at the object's top level after
	// restructuring: metadata records and their renderings.
	markerSubstring = "meta"
)

// Stage pushes each object's contents one level deeper, into a nested
// directory named after the object itself, so a flat departmental drop keeps
// its structure through packaging. Copy happens before any pruning and the
// final rename is the sole commit point; an interruption leaves the original
// contents intact.
type Stage struct{}

// New constructs the pre-pack restructuring stage.
func New() *Stage { return &Stage{} }

func (s *Stage) Name() string { return stageName }

func (s *Stage) Prepare(_ context.Context, b *pipeline.Batch) error {
	info, err := os.Stat(b.Root)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrPrecondition, stageName, "check batch root", b.Root, err)
	}
	return nil
}

// Execute restructures every object directory under the batch root. Objects
// that already contain a nested directory of their own name are skipped.
func (s *Stage) Execute(ctx context.Context, b *pipeline.Batch) (pipeline.Result, error) {
	var res pipeline.Result
	res.Add("restructured", 0)
	res.Add("skipped", 0)

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
		obj := filepath.Join(b.Root, entry.Name())
		nested := filepath.Join(obj, entry.Name())
		if info, err := os.Stat(nested); err == nil && info.IsDir() {
			res.Warnf("%q already holds a nested %q directory, skipped", entry.Name(), entry.Name())
			res.Add("skipped", 1)
			continue
		}

		if err := restructure(obj, nested); err != nil {
			return res, services.Wrap(services.ErrIO, stageName, "restructure object", entry.Name(), err)
		}
		res.Add("restructured", 1)
	}
	return res, nil
}

// restructure copies the object's full contents into a staging directory,
// prunes the originals down to metadata-marker files, then renames staging
// to the nested name.
func restructure(obj, nested string) error {
	staging := filepath.Join(obj, stagingName)
	// A leftover staging dir from an interrupted run is stale: the original
	// contents are still in place, so rebuild it from scratch.
	if err := os.RemoveAll(staging); err != nil {
		return err
	}
	if err := fileutil.CopyTree(obj, staging, stagingName); err != nil {
		return err
	}

	entries, err := os.ReadDir(obj)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() == stagingName {
			continue
		}
		path := filepath.Join(obj, entry.Name())
		if entry.IsDir() {
			if err := os.RemoveAll(path); err != nil {
				return err
			}
			continue
		}
		if strings.Contains(strings.ToLower(entry.Name()), markerSubstring) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}

	return os.Rename(staging, nested)
}
