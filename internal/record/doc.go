// Package record reads and writes descriptive metadata records: the master
// batch ledger (one row per object) and the per-object metadata.csv files.
// The required field list is fixed; a ledger whose header deviates from it
// is rejected before any record is written.
package record
