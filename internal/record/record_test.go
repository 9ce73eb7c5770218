package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limenVTech/UDCS-Packer/internal/services"
)

func sampleRecord() Record {
	return Record{
		SystemUUID:    "",
		LocalID:       "dept-0042",
		Department:    "Special Collections",
		Person:        "jdoe",
		Collection:    "Engineering Drawings",
		Description:   "Bridge schematics 1921-1924",
		ObjectURI:     "https://objects.example/dept-0042",
		CollectionURI: "https://collections.example/engineering",
	}
}

func writeLedger(t *testing.T, path string, header []string, rows ...Record) {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Join(r.row(), ","))
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	want := sampleRecord()
	want.SystemUUID = "vtdata_test-001"

	if err := want.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestReadLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	writeLedger(t, path, Fields, sampleRecord())

	rows, err := ReadLedger(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count: got %d", len(rows))
	}
	if rows[0].LocalID != "dept-0042" {
		t.Fatalf("local id: got %q", rows[0].LocalID)
	}
}

func TestReadLedgerRejectsHeaderMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	header := append([]string{}, Fields...)
	header = header[:len(header)-1] // drop Collection URI
	writeLedger(t, path, header, sampleRecord())

	rows, err := ReadLedger(path)
	if err == nil {
		t.Fatal("expected header validation error")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected zero rows on rejection, got %d", len(rows))
	}
}

func TestReadLedgerRejectsReorderedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	header := append([]string{}, Fields...)
	header[0], header[1] = header[1], header[0]
	writeLedger(t, path, header, sampleRecord())

	if _, err := ReadLedger(path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for reordered header, got %v", err)
	}
}

func TestGetByColumnName(t *testing.T) {
	r := sampleRecord()
	got, err := r.Get("Local ID")
	if err != nil || got != "dept-0042" {
		t.Fatalf("get Local ID: %q %v", got, err)
	}
	if _, err := r.Get("Shelf Mark"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Fatal("empty dir should not report a record")
	}
	rec := sampleRecord()
	if err := rec.Write(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !Exists(dir) {
		t.Fatal("record not detected")
	}
}

func TestQuotedFieldsSurviveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	rec := sampleRecord()
	rec.Description = `Contains commas, and "quotes"`
	if err := rec.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Description != rec.Description {
		t.Fatalf("description mangled: %q", got.Description)
	}
}
