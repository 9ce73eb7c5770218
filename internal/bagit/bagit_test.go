package bagit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limenVTech/UDCS-Packer/internal/checksum"
)

func makeObject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "object")
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func TestPackProducesValidBag(t *testing.T) {
	dir := makeObject(t, map[string]string{
		"scan-001.tif":      "image bytes",
		"notes/reading.txt": "curator notes",
	})
	ctx := context.Background()

	pkg, err := New().Pack(ctx, dir, []checksum.Algorithm{checksum.MD5, checksum.SHA512})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !pkg.IsValid(ctx) {
		t.Fatalf("freshly packed bag invalid: %v", pkg.Validate(ctx))
	}

	// Payload moved under data/ and all expected tag files exist.
	for _, name := range []string{
		"bagit.txt", "bag-info.txt",
		"manifest-md5.txt", "manifest-sha512.txt",
		"tagmanifest-md5.txt", "tagmanifest-sha512.txt",
		filepath.Join("data", "scan-001.tif"),
		filepath.Join("data", "notes", "reading.txt"),
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	manifest, err := os.ReadFile(filepath.Join(dir, "manifest-sha512.txt"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(manifest), "data/notes/reading.txt") {
		t.Fatalf("manifest missing payload path:\n%s", manifest)
	}

	info, err := os.ReadFile(filepath.Join(dir, "bag-info.txt"))
	if err != nil {
		t.Fatalf("read bag info: %v", err)
	}
	wantOxum := "Payload-Oxum: " + "24.2" // 11 + 13 bytes, 2 files
	if !strings.Contains(string(info), wantOxum) {
		t.Fatalf("bag info missing %q:\n%s", wantOxum, info)
	}
}

func TestValidateDetectsTamperedPayload(t *testing.T) {
	dir := makeObject(t, map[string]string{"file.txt": "original"})
	ctx := context.Background()

	pkg, err := New().Pack(ctx, dir, []checksum.Algorithm{checksum.SHA512})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data", "file.txt"), []byte("tampered"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if pkg.IsValid(ctx) {
		t.Fatal("tampered bag reported valid")
	}
}

func TestValidateDetectsUnlistedPayload(t *testing.T) {
	dir := makeObject(t, map[string]string{"file.txt": "original"})
	ctx := context.Background()

	pkg, err := New().Pack(ctx, dir, []checksum.Algorithm{checksum.MD5})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data", "stray.txt"), []byte("uninvited"), 0o644); err != nil {
		t.Fatalf("add stray: %v", err)
	}
	if pkg.IsValid(ctx) {
		t.Fatal("bag with unlisted payload reported valid")
	}
}

func TestLooksPackagedAndIsBag(t *testing.T) {
	dir := makeObject(t, map[string]string{"file.txt": "x"})
	if LooksPackaged(dir) || IsBag(dir) {
		t.Fatal("plain object misdetected as package")
	}
	if _, err := New().Pack(context.Background(), dir, []checksum.Algorithm{checksum.MD5}); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !LooksPackaged(dir) || !IsBag(dir) {
		t.Fatal("bag markers not detected after packing")
	}
}

func TestOpenExistingBag(t *testing.T) {
	dir := makeObject(t, map[string]string{"file.txt": "payload"})
	ctx := context.Background()
	if _, err := New().Pack(ctx, dir, []checksum.Algorithm{checksum.MD5}); err != nil {
		t.Fatalf("pack: %v", err)
	}
	pkg, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !pkg.IsValid(ctx) {
		t.Fatalf("reopened bag invalid: %v", pkg.Validate(ctx))
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error opening a non-bag")
	}
}
