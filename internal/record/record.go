package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/limenVTech/UDCS-Packer/internal/services"
)

// FileName is the per-object metadata record file.
const FileName = "metadata.csv"

// Fields is the required master ledger header, in order. Both the ledger and
// every per-object record are validated against it; a ledger whose header
// does not match exactly is rejected wholesale.
var Fields = []string{
	"System UUID",
	"Local ID",
	"Department Responsible",
	"Person Responsible",
	"Collection",
	"Brief Description",
	"Object URI",
	"Collection URI",
}

// Record is one descriptive metadata record. Identifier updates address the
// SystemUUID field by name; nothing in the pipeline relies on column
// positions beyond serialization.
type Record struct {
	SystemUUID    string
	LocalID       string
	Department    string
	Person        string
	Collection    string
	Description   string
	ObjectURI     string
	CollectionURI string
}

// Get returns the value of the named ledger column.
func (r Record) Get(field string) (string, error) {
	switch field {
	case "System UUID":
		return r.SystemUUID, nil
	case "Local ID":
		return r.LocalID, nil
	case "Department Responsible":
		return r.Department, nil
	case "Person Responsible":
		return r.Person, nil
	case "Collection":
		return r.Collection, nil
	case "Brief Description":
		return r.Description, nil
	case "Object URI":
		return r.ObjectURI, nil
	case "Collection URI":
		return r.CollectionURI, nil
	}
	return "", fmt.Errorf("unknown ledger column %q", field)
}

func (r Record) row() []string {
	return []string{
		r.SystemUUID,
		r.LocalID,
		r.Department,
		r.Person,
		r.Collection,
		r.Description,
		r.ObjectURI,
		r.CollectionURI,
	}
}

func fromRow(row []string) Record {
	return Record{
		SystemUUID:    row[0],
		LocalID:       row[1],
		Department:    row[2],
		Person:        row[3],
		Collection:    row[4],
		Description:   row[5],
		ObjectURI:     row[6],
		CollectionURI: row[7],
	}
}

// ReadLedger parses the master ledger at path. The header must equal Fields
// exactly; on mismatch zero rows are returned along with a validation error,
// so no partial processing can happen downstream.
func ReadLedger(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrPrecondition, "ledger", "open", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Fields)

	header, err := reader.Read()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "ledger", "read header", path, err)
	}
	if !headerMatches(header) {
		return nil, services.Wrap(services.ErrValidation, "ledger", "verify header",
			fmt.Sprintf("%s is not formatted correctly: header must be exactly %v", filepath.Base(path), Fields), nil)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "ledger", "read row", path, err)
		}
		records = append(records, fromRow(row))
	}
	return records, nil
}

// Load reads a single per-object record file (header plus one data row).
func Load(path string) (Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return Record{}, services.Wrap(services.ErrPrecondition, "record", "open", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Fields)

	header, err := reader.Read()
	if err != nil {
		return Record{}, services.Wrap(services.ErrValidation, "record", "read header", path, err)
	}
	if !headerMatches(header) {
		return Record{}, services.Wrap(services.ErrValidation, "record", "verify header", path, nil)
	}
	row, err := reader.Read()
	if err != nil {
		return Record{}, services.Wrap(services.ErrValidation, "record", "read data row", path, err)
	}
	return fromRow(row), nil
}

// Write persists the record as header plus one data row at path.
func (r Record) Write(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return services.Wrap(services.ErrIO, "record", "create", path, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(Fields); err != nil {
		file.Close()
		return services.Wrap(services.ErrIO, "record", "write header", path, err)
	}
	if err := writer.Write(r.row()); err != nil {
		file.Close()
		return services.Wrap(services.ErrIO, "record", "write row", path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return services.Wrap(services.ErrIO, "record", "flush", path, err)
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrIO, "record", "close", path, err)
	}
	return nil
}

// Exists reports whether dir already holds a metadata record.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

func headerMatches(header []string) bool {
	if len(header) != len(Fields) {
		return false
	}
	for i, want := range Fields {
		if header[i] != want {
			return false
		}
	}
	return true
}
