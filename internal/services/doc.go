// Package services defines the error taxonomy shared by every pipeline
// stage: precondition, validation, i/o, and configuration sentinels plus a
// Wrap helper that tags errors with stage and operation context so the
// orchestrator can decide between skipping an object and aborting the batch.
package services
