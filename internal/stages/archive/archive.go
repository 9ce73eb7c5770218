package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/services"
)

const stageName = "archive"

// Suffix names the sibling output directory for a batch root.
const Suffix = "-archived"

// Stage serializes each object directory into one tar file (gzip optional)
// in a sibling output directory. An existing archive is never overwritten.
type Stage struct{}

// New constructs the archiving stage.
func New() *Stage { return &Stage{} }

func (s *Stage) Name() string { return stageName }

// OutputDir returns the archive destination for a batch root.
func OutputDir(root string) string {
	return filepath.Clean(root) + Suffix
}

func (s *Stage) Prepare(_ context.Context, b *pipeline.Batch) error {
	info, err := os.Stat(b.Root)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrPrecondition, stageName, "check batch root", b.Root, err)
	}
	return nil
}

// Execute archives every directory entry under the batch root into
// <root>-archived. Archives are built in a temp file and renamed into place;
// entries whose archive already exists are counted and left untouched.
func (s *Stage) Execute(ctx context.Context, b *pipeline.Batch) (pipeline.Result, error) {
	var res pipeline.Result
	res.Add("archived", 0)
	res.Add("already_archived", 0)
	res.Add("ignored", 0)

	outDir := OutputDir(b.Root)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, services.Wrap(services.ErrIO, stageName, "create output dir", outDir, err)
	}

	ext := ".tar"
	if b.Cfg.Archive.Compress {
		ext = ".tar.gz"
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
			res.Add("ignored", 1)
			continue
		}

		target := filepath.Join(outDir, entry.Name()+ext)
		if _, err := os.Stat(target); err == nil {
			res.Add("already_archived", 1)
			continue
		}

		src := filepath.Join(b.Root, entry.Name())
		if err := writeArchive(ctx, src, target, b.Cfg.Archive.Compress); err != nil {
			return res, services.Wrap(services.ErrIO, stageName, "archive object", entry.Name(), err)
		}
		res.Add("archived", 1)
	}
	return res, nil
}

// writeArchive serializes src into a tar file at target, staging through a
// temp file in the same directory so target only ever appears complete.
func writeArchive(ctx context.Context, src, target string, compress bool) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	var sink io.WriteCloser = tmp
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(tmp)
		sink = gz
	}
	tw := tar.NewWriter(sink)

	base := filepath.Base(src)
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		arcname := base
		if rel != "." {
			arcname = base + "/" + filepath.ToSlash(rel)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		link := ""
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = arcname
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, file); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	})
	if err != nil {
		tmp.Close()
		return err
	}

	if err := tw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finish tar stream: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			tmp.Close()
			return fmt.Errorf("finish gzip stream: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp archive: %w", err)
	}
	return os.Rename(tmpName, target)
}
