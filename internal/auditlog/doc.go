// Package auditlog maintains the append-only ledger of identifier
// assignments, one row per successful registration.
package auditlog
