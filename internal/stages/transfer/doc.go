// Package transfer implements the transfer-ledger stage: a timestamped CSV
// of filename and strong digest for every file under a directory of
// finished archives.
package transfer
