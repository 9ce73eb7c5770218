// Package prepack implements the optional pre-pack restructuring stage:
// each object's contents move into a nested directory named after the
// object, keeping metadata-marker files at the top level.
package prepack
