// Package testsupport holds shared fixtures for stage and pipeline tests:
// object/ledger builders and a scripted confirmation collaborator.
package testsupport
