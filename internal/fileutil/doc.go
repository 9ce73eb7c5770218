// Package fileutil provides verified file and tree copies used where the
// pipeline must not destroy an original before a good copy exists.
package fileutil
