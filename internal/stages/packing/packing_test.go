package packing_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/stages/packing"
	"github.com/limenVTech/UDCS-Packer/internal/testsupport"
)

func TestExecuteBagsObjects(t *testing.T) {
	root := t.TempDir()
	obj := testsupport.MakeObject(t, root, "vt_001", map[string]string{
		"page1.tif":    "first page",
		"manifest.csv": "inventory",
	})

	b := testsupport.NewBatch(t, root)
	stage := packing.New()
	if err := stage.Prepare(context.Background(), b); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	res, err := stage.Execute(context.Background(), b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Get("attempted"); got != 1 {
		t.Fatalf("attempted = %d, want 1", got)
	}
	if got := res.Get("valid"); got != 1 {
		t.Fatalf("valid = %d, want 1", got)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	if !bagit.IsBag(obj) {
		t.Fatal("object was not converted into a bag")
	}
	// Payload moved under data/, default packaging digests written.
	if _, err := os.Stat(filepath.Join(obj, "data", "page1.tif")); err != nil {
		t.Fatalf("payload file missing: %v", err)
	}
	for _, name := range []string{"manifest-md5.txt", "manifest-sha512.txt", "bag-info.txt"} {
		if _, err := os.Stat(filepath.Join(obj, name)); err != nil {
			t.Fatalf("bag file %s missing: %v", name, err)
		}
	}
}

func TestExecuteSkipsBaggedObjectsByDefault(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeObject(t, root, "vt_001", map[string]string{
		"data/page1.tif": "pixels",
	})

	b := testsupport.NewBatch(t, root)
	res, err := packing.New().Execute(context.Background(), b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Get("attempted"); got != 0 {
		t.Fatalf("attempted = %d, want 0", got)
	}
	if got := res.Get("skipped"); got != 1 {
		t.Fatalf("skipped = %d, want 1", got)
	}
}

func TestExecuteRebagsOnConfirmation(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeObject(t, root, "vt_001", map[string]string{
		"data/page1.tif": "pixels",
	})

	asker := &testsupport.ScriptedConfirmer{Answers: map[string]bool{"Bag it anyway": true}}
	b := testsupport.NewBatch(t, root)
	b.Confirm = asker

	res, err := packing.New().Execute(context.Background(), b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Get("attempted"); got != 1 {
		t.Fatalf("attempted = %d, want 1", got)
	}
	if got := res.Get("valid"); got != 1 {
		t.Fatalf("valid = %d, want 1", got)
	}
	// Re-bagging nests the previous payload one level deeper.
	if _, err := os.Stat(filepath.Join(root, "vt_001", "data", "data", "page1.tif")); err != nil {
		t.Fatalf("re-bagged payload missing: %v", err)
	}
}
