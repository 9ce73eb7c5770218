// Package register implements the identifier-assignment stage: each recorded
// object gets a fresh system identifier written through its record,
// renderings, the batch audit log, and finally its directory name.
package register
