package archive_test

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/limenVTech/UDCS-Packer/internal/stages/archive"
	"github.com/limenVTech/UDCS-Packer/internal/testsupport"
)

func tarNames(t *testing.T, r io.Reader) []string {
	t.Helper()
	var names []string
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read tar: %v", err)
		}
		names = append(names, hdr.Name)
	}
	return names
}

func TestExecuteArchivesDirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeObject(t, root, "vt_001", map[string]string{
		"data/page1.tif": "pixels",
		"bagit.txt":      "BagIt-Version: 0.97",
	})
	testsupport.WriteFile(t, filepath.Join(root, "stray.txt"), "loose file")

	b := testsupport.NewBatch(t, root)
	stage := archive.New()
	if err := stage.Prepare(context.Background(), b); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	res, err := stage.Execute(context.Background(), b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Get("archived"); got != 1 {
		t.Fatalf("archived = %d, want 1", got)
	}
	if got := res.Get("ignored"); got != 1 {
		t.Fatalf("ignored = %d, want 1", got)
	}

	f, err := os.Open(filepath.Join(archive.OutputDir(root), "vt_001.tar"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	names := tarNames(t, f)
	want := map[string]bool{
		"vt_001/":               false,
		"vt_001/bagit.txt":      false,
		"vt_001/data/":          false,
		"vt_001/data/page1.tif": false,
	}
	for _, name := range names {
		if _, ok := want[name]; !ok {
			t.Fatalf("unexpected tar entry %q", name)
		}
		want[name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("tar entry %q missing (got %v)", name, names)
		}
	}
}

func TestExecuteNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeObject(t, root, "vt_001", map[string]string{"page1.tif": "pixels"})

	outDir := archive.OutputDir(root)
	existing := filepath.Join(outDir, "vt_001.tar")
	testsupport.WriteFile(t, existing, "pre-existing archive bytes")

	b := testsupport.NewBatch(t, root)
	res, err := archive.New().Execute(context.Background(), b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Get("already_archived"); got != 1 {
		t.Fatalf("already_archived = %d, want 1", got)
	}
	if got := res.Get("archived"); got != 0 {
		t.Fatalf("archived = %d, want 0", got)
	}
	content, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("read existing archive: %v", err)
	}
	if string(content) != "pre-existing archive bytes" {
		t.Fatal("existing archive was rewritten")
	}
}

func TestExecuteGzipVariant(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeObject(t, root, "vt_001", map[string]string{"page1.tif": "pixels"})

	b := testsupport.NewBatch(t, root)
	b.Cfg.Archive.Compress = true

	res, err := archive.New().Execute(context.Background(), b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Get("archived"); got != 1 {
		t.Fatalf("archived = %d, want 1", got)
	}

	f, err := os.Open(filepath.Join(archive.OutputDir(root), "vt_001.tar.gz"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("open gzip stream: %v", err)
	}
	defer gz.Close()
	names := tarNames(t, gz)
	if len(names) != 2 {
		t.Fatalf("tar entries = %v, want directory plus one file", names)
	}
}
