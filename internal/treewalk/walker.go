package treewalk

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Entry describes one file encountered during traversal, with a snapshot of
// its filesystem attributes taken at enumeration time.
type Entry struct {
	// Name is the file's base name.
	Name string
	// Path is the absolute (or caller-relative) path on disk.
	Path string
	// RelPath is the slash-separated, NFC-normalized path relative to the
	// traversal's relBase (the batch root, not the object root).
	RelPath string
	// MIME is a best-effort content type guess from the file extension.
	MIME string

	Size  int64
	Mode  uint32
	Inode uint64
	// Device is the raw device number of the filesystem holding the file.
	Device uint64
	Nlink  uint64
	UID    uint32
	GID    uint32

	CTime time.Time
	MTime time.Time
	ATime time.Time
}

// Walk recursively enumerates every file beneath root in deterministic
// lexical order. Files whose base name appears in artifacts are deleted from
// disk and not emitted. Symbolic links are never followed: linked
// directories are not descended into and linked files are snapshotted with
// lstat semantics. Relative paths are computed against relBase.
func Walk(root, relBase string, artifacts []string, fn func(Entry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if slices.Contains(artifacts, name) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove artifact %s: %w", path, err)
			}
			return nil
		}

		entry := Entry{
			Name: name,
			Path: path,
			MIME: guessMIME(name),
		}
		rel, err := filepath.Rel(relBase, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		entry.RelPath = norm.NFC.String(filepath.ToSlash(rel))

		if err := statEntry(path, &entry); err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		return fn(entry)
	})
}

func guessMIME(name string) string {
	guess := mime.TypeByExtension(filepath.Ext(name))
	if guess == "" {
		return "unknown"
	}
	return guess
}
