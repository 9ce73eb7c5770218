// Package identifier mints namespaced system identifiers. Generation is
// pluggable: local 128-bit random identifiers by default, or a remote naming
// authority call when one is configured.
package identifier
