package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/checksum"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/services"
	"github.com/limenVTech/UDCS-Packer/internal/treewalk"
)

const (
	stageName = "inventory"

	// FileName is the per-object fixity manifest.
	FileName = "manifest.csv"

	timeFormat = "2006.01.02 15:04:05"
)

// Stage writes one fixity manifest per object: a row of checksums and
// filesystem attributes for every payload file, built in a temp file and
// renamed into place so a half-written manifest is never visible under the
// final name.
type Stage struct {
	now func() time.Time
}

// New constructs the inventory stage.
func New() *Stage { return &Stage{now: time.Now} }

func (s *Stage) Name() string { return stageName }

// Prepare verifies the batch root exists and the configured digest pair is
// usable.
func (s *Stage) Prepare(_ context.Context, b *pipeline.Batch) error {
	info, err := os.Stat(b.Root)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrPrecondition, stageName, "check batch root", b.Root, err)
	}
	fast, strong := b.Cfg.ManifestDigests()
	for _, alg := range []checksum.Algorithm{fast, strong} {
		if _, err := alg.New(); err != nil {
			return services.Wrap(services.ErrConfiguration, stageName, "check digests", "", err)
		}
	}
	return nil
}

// Execute inventories every unpackaged object directory that does not yet
// carry a manifest.
func (s *Stage) Execute(ctx context.Context, b *pipeline.Batch) (pipeline.Result, error) {
	var res pipeline.Result
	res.Add("manifests", 0)
	res.Add("files", 0)
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
		dir := filepath.Join(b.Root, entry.Name())

		if bagit.LooksPackaged(dir) {
			skip, err := b.Confirm.Confirm(
				fmt.Sprintf("It appears that %q is a bag. Skip this object?", entry.Name()), true)
			if err != nil {
				return res, err
			}
			if skip {
				res.Add("skipped", 1)
				continue
			}
		}
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			res.Warnf("%s already exists, skipping inventory of %q", FileName, entry.Name())
			res.Add("skipped", 1)
			continue
		}

		files, err := s.writeManifest(ctx, b, dir)
		if err != nil {
			return res, err
		}
		res.Add("manifests", 1)
		res.Add("files", files)
	}
	return res, nil
}

// writeManifest builds the manifest in a temp file beside the object and
// renames it into place as the final step.
func (s *Stage) writeManifest(ctx context.Context, b *pipeline.Batch, dir string) (int, error) {
	fast, strong := b.Cfg.ManifestDigests()

	tmp, err := os.CreateTemp(filepath.Dir(dir), ".manifest-*.csv")
	if err != nil {
		return 0, services.Wrap(services.ErrIO, stageName, "create temp manifest", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	header := []string{
		"No.", "Filename", "Filesize", "Filetype", "C-Time", "Modified", "Accessed",
		fast.Label(), strong.Label(), "ChecksumDateTime", "RelPath", "=>",
		"mode", "inode", "device", "enlink", "user", "group",
	}
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return 0, services.Wrap(services.ErrIO, stageName, "write manifest header", dir, err)
	}

	count := 0
	walkErr := treewalk.Walk(dir, filepath.Dir(dir), b.Cfg.Walker.ArtifactNames, func(e treewalk.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sums, err := checksum.Sums(e.Path, []checksum.Algorithm{fast, strong})
		if err != nil {
			return err
		}
		count++
		row := []string{
			strconv.Itoa(count),
			e.Name,
			humanSize(e.Size),
			e.MIME,
			e.CTime.Format(timeFormat),
			e.MTime.Format(timeFormat),
			e.ATime.Format(timeFormat),
			sums[fast],
			sums[strong],
			s.now().Format(timeFormat),
			e.RelPath,
			" ",
			strconv.FormatUint(uint64(e.Mode), 10),
			strconv.FormatUint(e.Inode, 10),
			strconv.FormatUint(e.Device, 10),
			strconv.FormatUint(e.Nlink, 10),
			strconv.FormatUint(uint64(e.UID), 10),
			strconv.FormatUint(uint64(e.GID), 10),
		}
		return writer.Write(row)
	})
	if walkErr != nil {
		tmp.Close()
		return 0, walkErr
	}

	if err := writer.Write([]string{"Comments", " "}); err != nil {
		tmp.Close()
		return 0, services.Wrap(services.ErrIO, stageName, "write comment row", dir, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return 0, services.Wrap(services.ErrIO, stageName, "flush manifest", dir, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, services.Wrap(services.ErrIO, stageName, "close temp manifest", dir, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, FileName)); err != nil {
		return 0, services.Wrap(services.ErrIO, stageName, "rename manifest", dir, err)
	}
	return count, nil
}

var sizeNames = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// humanSize renders a byte count in decimal units, two rounded fraction
// digits, no space before the unit.
func humanSize(size int64) string {
	if size == 0 {
		return "0B"
	}
	i := int(math.Floor(math.Log(float64(size)) / math.Log(1000)))
	if i >= len(sizeNames) {
		i = len(sizeNames) - 1
	}
	v := float64(size) / math.Pow(1000, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + sizeNames[i]
}
