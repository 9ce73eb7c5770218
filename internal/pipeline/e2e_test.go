package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limenVTech/UDCS-Packer/internal/auditlog"
	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/logging"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/stages/archive"
	"github.com/limenVTech/UDCS-Packer/internal/stages/inventory"
	"github.com/limenVTech/UDCS-Packer/internal/stages/metadata"
	"github.com/limenVTech/UDCS-Packer/internal/stages/packing"
	"github.com/limenVTech/UDCS-Packer/internal/stages/register"
	"github.com/limenVTech/UDCS-Packer/internal/stages/transfer"
	"github.com/limenVTech/UDCS-Packer/internal/testsupport"
)

func fullPipeline() []pipeline.Stage {
	return []pipeline.Stage{
		metadata.New(),
		register.New(),
		inventory.New(),
		packing.New(),
		archive.New(),
		transfer.New(),
	}
}

// Two objects run through the whole pipeline: records, registration renames,
// manifests, bags, tars, and a transfer ledger.
func TestFullBatch(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "accession")
	testsupport.MakeObject(t, root, "obj_001", map[string]string{
		"page1.tif": "first object, first page",
		"page2.tif": "first object, second page",
	})
	testsupport.MakeObject(t, root, "obj_002", map[string]string{
		"audio.wav": "second object, one file",
	})
	ledger := testsupport.WriteLedger(t, parent,
		testsupport.LedgerRow("obj_001"),
		testsupport.LedgerRow("obj_002"))

	b := testsupport.NewBatch(t, root)
	b.LedgerPath = ledger

	runner := pipeline.NewRunner(fullPipeline(), logging.NewNop(), false)
	results, err := runner.Run(context.Background(), b)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("results = %d, want 6", len(results))
	}

	byStage := map[string]*pipeline.Result{}
	for i := range results {
		byStage[results[i].Stage] = &results[i]
	}
	if got := byStage["metadata"].Get("records"); got != 2 {
		t.Fatalf("metadata records = %d, want 2", got)
	}
	if got := byStage["register"].Get("registered"); got != 2 {
		t.Fatalf("registered = %d, want 2", got)
	}
	if got := byStage["inventory"].Get("manifests"); got != 2 {
		t.Fatalf("manifests = %d, want 2", got)
	}
	if got := byStage["bag"].Get("valid"); got != 2 {
		t.Fatalf("valid bags = %d, want 2", got)
	}
	if got := byStage["archive"].Get("archived"); got != 2 {
		t.Fatalf("archived = %d, want 2", got)
	}
	if got := byStage["transfer"].Get("files"); got != 2 {
		t.Fatalf("transfer rows = %d, want 2", got)
	}

	// Objects now carry system identifiers as directory names, each a valid
	// bag with manifest.csv inside the payload.
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	var objects []string
	for _, e := range entries {
		if e.IsDir() {
			objects = append(objects, e.Name())
		}
	}
	if len(objects) != 2 {
		t.Fatalf("object dirs = %v, want 2", objects)
	}
	for _, name := range objects {
		if !strings.HasPrefix(name, "vtdata_") {
			t.Fatalf("object %q not renamed to a system identifier", name)
		}
		dir := filepath.Join(root, name)
		if !bagit.IsBag(dir) {
			t.Fatalf("object %q is not a bag", name)
		}
		if _, err := os.Stat(filepath.Join(dir, "data", inventory.FileName)); err != nil {
			t.Fatalf("manifest missing inside bag payload for %q: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(archive.OutputDir(root), name+".tar")); err != nil {
			t.Fatalf("archive missing for %q: %v", name, err)
		}
	}

	log, err := auditlog.Open(filepath.Join(root, auditlog.FileName))
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	logged, err := log.Entries()
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if len(logged) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(logged))
	}
}

// Re-running the batch changes nothing: registration matches directory
// names, inventory and packing skip, archiving reports already-archived.
func TestRerunIsIdempotent(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "accession")
	testsupport.MakeObject(t, root, "obj_001", map[string]string{"page1.tif": "pixels"})
	ledger := testsupport.WriteLedger(t, parent, testsupport.LedgerRow("obj_001"))

	b := testsupport.NewBatch(t, root)
	b.LedgerPath = ledger

	runner := pipeline.NewRunner(fullPipeline(), logging.NewNop(), false)
	if _, err := runner.Run(context.Background(), b); err != nil {
		t.Fatalf("first run: %v", err)
	}

	b2 := testsupport.NewBatch(t, root)
	b2.LedgerPath = ledger
	results, err := runner.Run(context.Background(), b2)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	byStage := map[string]*pipeline.Result{}
	for i := range results {
		byStage[results[i].Stage] = &results[i]
	}
	// The record moved under data/ when the object was bagged, so the
	// registered object is skipped, not re-identified.
	if got := byStage["register"].Get("registered"); got != 0 {
		t.Fatalf("re-run registered = %d, want 0", got)
	}
	if got := byStage["register"].Get("skipped"); got != 1 {
		t.Fatalf("re-run register skipped = %d, want 1", got)
	}
	if got := byStage["inventory"].Get("manifests"); got != 0 {
		t.Fatalf("re-run manifests = %d, want 0", got)
	}
	if got := byStage["bag"].Get("attempted"); got != 0 {
		t.Fatalf("re-run bag attempts = %d, want 0", got)
	}
	if got := byStage["archive"].Get("already_archived"); got != 1 {
		t.Fatalf("re-run already_archived = %d, want 1", got)
	}

	log, err := auditlog.Open(filepath.Join(root, auditlog.FileName))
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	logged, err := log.Entries()
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if len(logged) != 1 {
		t.Fatalf("audit entries after re-run = %d, want 1", len(logged))
	}
}
