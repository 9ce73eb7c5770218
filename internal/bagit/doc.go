// Package bagit is the fixity packaging collaborator: it converts an object
// directory into a payload/tag-manifest package (BagIt layout) with the
// requested checksum algorithms and exposes a validity predicate that
// re-derives everything from disk.
package bagit
