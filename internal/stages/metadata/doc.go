// Package metadata implements the record-writing stage: one metadata.csv
// plus linked-data renderings per master ledger row, with skip policies for
// missing directories, packaged objects, and existing records.
package metadata
