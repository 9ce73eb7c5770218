// Package checksum streams files through one or more digest accumulators in
// a single pass. Every file is read in fixed-size chunks, so arbitrarily
// large payloads hash without whole-file buffering.
package checksum
