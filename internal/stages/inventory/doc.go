// Package inventory implements the fixity-manifest stage: per-object
// manifest.csv files listing every payload file with its checksums and
// filesystem attributes, written atomically via temp-file-then-rename.
package inventory
