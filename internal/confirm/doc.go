// Package confirm isolates operator interaction from the pipeline. Stages
// ask questions through the Confirmer interface; the interactive
// implementation blocks on terminal input while the batch implementation
// applies fixed defaults, so the core never touches UI concerns. Decisions
// adds the per-run "ask once, apply everywhere" cache.
package confirm
