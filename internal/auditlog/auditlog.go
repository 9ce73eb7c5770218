package auditlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// FileName is the per-batch registration log kept in the batch root.
const FileName = "log4preservation.csv"

// TimeFormat matches the registration timestamp format used across the
// packer's CSV artifacts.
const TimeFormat = "2006.01.02 15:04:05"

var header = []string{"SysUID", "LocalID", "RegisDateTime", "RegisPerson"}

// Entry is one identifier-assignment event.
type Entry struct {
	SystemUUID string
	LocalID    string
	When       time.Time
	Person     string
}

// Log is an append-only ledger of registration events. Existing content is
// never truncated or rewritten.
type Log struct {
	path string
}

// Open ensures the log at path exists, creating it with its header when
// absent, and returns a handle for appending.
func Open(path string) (*Log, error) {
	if _, err := os.Stat(path); err == nil {
		return &Log{path: path}, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat audit log %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create audit log %s: %w", path, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("write audit log header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("flush audit log header: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close audit log: %w", err)
	}
	return &Log{path: path}, nil
}

// Append writes one registration row. Each call opens the file in append
// mode so a crash between objects never leaves a partially buffered ledger.
func (l *Log) Append(e Entry) error {
	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log for append: %w", err)
	}
	writer := csv.NewWriter(file)
	row := []string{e.SystemUUID, e.LocalID, e.When.Format(TimeFormat), e.Person}
	if err := writer.Write(row); err != nil {
		file.Close()
		return fmt.Errorf("append audit entry: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush audit entry: %w", err)
	}
	return file.Close()
}

// Path returns the on-disk location of the log.
func (l *Log) Path() string { return l.path }

// Entries reads back every logged event, oldest first.
func (l *Log) Entries() ([]Entry, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(header)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read audit log header: %w", err)
	}

	var entries []Entry
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read audit entry: %w", err)
		}
		when, err := time.ParseInLocation(TimeFormat, row[2], time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse audit timestamp %q: %w", row[2], err)
		}
		entries = append(entries, Entry{SystemUUID: row[0], LocalID: row[1], When: when, Person: row[3]})
	}
	return entries, nil
}
