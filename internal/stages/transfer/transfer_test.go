package transfer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limenVTech/UDCS-Packer/internal/checksum"
	"github.com/limenVTech/UDCS-Packer/internal/services"
	"github.com/limenVTech/UDCS-Packer/internal/stages/transfer"
	"github.com/limenVTech/UDCS-Packer/internal/testsupport"
)

func findLedger(t *testing.T, dir, base string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "Transfer_"+base+"_") && strings.HasSuffix(e.Name(), ".csv") {
			return filepath.Join(dir, e.Name())
		}
	}
	t.Fatalf("no transfer ledger for %s in %s", base, dir)
	return ""
}

func TestExecuteWritesLedger(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "batch-archived")
	testsupport.WriteFile(t, filepath.Join(target, "vt_001.tar"), "first archive")
	testsupport.WriteFile(t, filepath.Join(target, "vt_002.tar"), "second archive")
	testsupport.WriteFile(t, filepath.Join(target, ".DS_Store"), "junk")

	b := testsupport.NewBatch(t, filepath.Join(parent, "batch"))
	b.TransferDir = target

	stage := transfer.New()
	if err := stage.Prepare(context.Background(), b); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	res, err := stage.Execute(context.Background(), b)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Get("files"); got != 2 {
		t.Fatalf("files = %d, want 2", got)
	}

	ledger := findLedger(t, parent, "batch-archived")
	content, err := os.ReadFile(ledger)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("ledger rows = %d, want 2: %q", len(lines), content)
	}
	for _, line := range lines {
		name, sum, ok := strings.Cut(line, ", ")
		if !ok {
			t.Fatalf("malformed ledger row %q", line)
		}
		want, err := checksum.Sum(filepath.Join(target, name), checksum.SHA3256)
		if err != nil {
			t.Fatalf("recompute digest: %v", err)
		}
		if sum != want {
			t.Fatalf("digest for %s = %s, want %s", name, sum, want)
		}
	}

	if _, err := os.Stat(filepath.Join(target, ".DS_Store")); !os.IsNotExist(err) {
		t.Fatal("artifact file survived the transfer walk")
	}
}

func TestPrepareRejectsMissingTarget(t *testing.T) {
	root := filepath.Join(t.TempDir(), "batch")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	b := testsupport.NewBatch(t, root)

	err := transfer.New().Prepare(context.Background(), b)
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error for missing archive dir, got %v", err)
	}
}

func TestTargetDefaultsToArchiveOutput(t *testing.T) {
	root := filepath.Join(t.TempDir(), "batch")
	b := testsupport.NewBatch(t, root)
	if got, want := transfer.New().Target(b), root+"-archived"; got != want {
		t.Fatalf("target = %q, want %q", got, want)
	}
}
