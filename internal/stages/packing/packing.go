package packing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/services"
)

const stageName = "bag"

// Stage converts each object into a payload/tag-manifest package through the
// batch's packaging collaborator and validates the result. Invalid packages
// are reported individually, never silently accepted.
type Stage struct{}

// New constructs the fixity-packaging stage.
func New() *Stage { return &Stage{} }

func (s *Stage) Name() string { return stageName }

// Prepare verifies the batch root, the packager, and the configured
// packaging digests.
func (s *Stage) Prepare(_ context.Context, b *pipeline.Batch) error {
	info, err := os.Stat(b.Root)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrPrecondition, stageName, "check batch root", b.Root, err)
	}
	if b.Packager == nil {
		return services.Wrap(services.ErrConfiguration, stageName, "check packager", "no packaging collaborator configured", nil)
	}
	algs := b.Cfg.PackagingDigests()
	if len(algs) == 0 {
		return services.Wrap(services.ErrConfiguration, stageName, "check digests", "no packaging digests configured", nil)
	}
	for _, alg := range algs {
		if _, err := alg.New(); err != nil {
			return services.Wrap(services.ErrConfiguration, stageName, "check digests", "", err)
		}
	}
	return nil
}

// Execute bags every object directory under the batch root. Objects that
// already look packaged are re-bagged only on operator confirmation.
func (s *Stage) Execute(ctx context.Context, b *pipeline.Batch) (pipeline.Result, error) {
	var res pipeline.Result
	res.Add("attempted", 0)
	res.Add("valid", 0)
	res.Add("skipped", 0)

	algs := b.Cfg.PackagingDigests()

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

		if bagit.LooksPackaged(dir) {
			again, err := b.Confirm.Confirm(
				fmt.Sprintf("It appears that %q is already a bag. Bag it anyway?", entry.Name()), false)
			if err != nil {
				return res, err
			}
			if !again {
				res.Add("skipped", 1)
				continue
			}
		}

		res.Add("attempted", 1)
		pkg, err := b.Packager.Pack(ctx, dir, algs)
		if err != nil {
			return res, services.Wrap(services.ErrIO, stageName, "pack object", entry.Name(), err)
		}
		if pkg.IsValid(ctx) {
			res.Add("valid", 1)
		} else {
			res.Warnf("package %q failed validation: %v", entry.Name(), pkg.Validate(ctx))
		}
	}
	return res, nil
}
