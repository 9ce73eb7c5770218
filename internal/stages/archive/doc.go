// Package archive implements the archiving stage: one tar (optionally
// gzipped) per object directory, written to a sibling -archived directory,
// never overwriting an existing archive.
package archive
