// Package packing implements the fixity-packaging stage: each object is
// bagged through the packaging collaborator and the result is validated.
package packing
