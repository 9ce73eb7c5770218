package bagit

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/limenVTech/UDCS-Packer/internal/checksum"
)

const (
	payloadDir  = "data"
	declName    = "bagit.txt"
	infoName    = "bag-info.txt"
	declaration = "BagIt-Version: 0.97\nTag-File-Character-Encoding: UTF-8\n"
)

// Package is the result of fixity-packaging one object.
type Package interface {
	// Path is the bag's root directory.
	Path() string
	// IsValid reports whether the package passes full fixity validation.
	IsValid(ctx context.Context) bool
	// Validate explains why a package is invalid.
	Validate(ctx context.Context) error
}

// Packager converts an object directory into a payload/tag-manifest package
// in place, computing the requested checksum algorithms over the payload.
type Packager interface {
	Pack(ctx context.Context, path string, algs []checksum.Algorithm) (Package, error)
}

// New returns the in-tree BagIt packager.
func New() Packager { return packer{} }

// LooksPackaged reports the marker the skip policies use: a data/
// subdirectory, the payload layout every finished package has.
func LooksPackaged(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, payloadDir))
	return err == nil && info.IsDir()
}

// IsBag reports a complete bag: payload directory plus declaration.
func IsBag(dir string) bool {
	if !LooksPackaged(dir) {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, declName))
	return err == nil && !info.IsDir()
}

type packer struct{}

// Pack restructures path into a bag: the current contents move under data/,
// then payload manifests, the declaration, bag metadata, and tag manifests
// are written for every requested algorithm.
func (packer) Pack(ctx context.Context, path string, algs []checksum.Algorithm) (Package, error) {
	if len(algs) == 0 {
		return nil, fmt.Errorf("bagit: no checksum algorithms requested")
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("bagit: read %s: %w", path, err)
	}

	// Stage the payload move through a temp dir so a crash cannot leave a
	// half-moved object that merely looks bagged.
	staging, err := os.MkdirTemp(path, ".bagit-staging-")
	if err != nil {
		return nil, fmt.Errorf("bagit: create staging dir: %w", err)
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := os.Rename(filepath.Join(path, entry.Name()), filepath.Join(staging, entry.Name())); err != nil {
			return nil, fmt.Errorf("bagit: stage payload %s: %w", entry.Name(), err)
		}
	}
	if err := os.Rename(staging, filepath.Join(path, payloadDir)); err != nil {
		return nil, fmt.Errorf("bagit: commit payload dir: %w", err)
	}

	manifests, oxumBytes, oxumCount, err := payloadManifests(ctx, path, algs)
	if err != nil {
		return nil, err
	}
	for _, alg := range algs {
		if err := writeManifest(filepath.Join(path, manifestName(alg)), manifests[alg]); err != nil {
			return nil, err
		}
	}

	if err := os.WriteFile(filepath.Join(path, declName), []byte(declaration), 0o644); err != nil {
		return nil, fmt.Errorf("bagit: write declaration: %w", err)
	}
	info := fmt.Sprintf("Bagging-Date: %s\nPayload-Oxum: %d.%d\n", time.Now().Format("2006-01-02"), oxumBytes, oxumCount)
	if err := os.WriteFile(filepath.Join(path, infoName), []byte(info), 0o644); err != nil {
		return nil, fmt.Errorf("bagit: write bag info: %w", err)
	}

	if err := writeTagManifests(ctx, path, algs); err != nil {
		return nil, err
	}
	return &bag{path: path, algs: algs}, nil
}

// payloadManifests hashes every payload file once per requested algorithm
// set (single read per file) and accumulates the payload oxum.
func payloadManifests(ctx context.Context, bagPath string, algs []checksum.Algorithm) (map[checksum.Algorithm][]manifestLine, int64, int, error) {
	manifests := make(map[checksum.Algorithm][]manifestLine, len(algs))
	var oxumBytes int64
	var oxumCount int

	root := filepath.Join(bagPath, payloadDir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sums, err := checksum.Sums(path, algs)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(bagPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, alg := range algs {
			manifests[alg] = append(manifests[alg], manifestLine{sum: sums[alg], path: rel})
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		oxumBytes += info.Size()
		oxumCount++
		return nil
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("bagit: hash payload: %w", err)
	}
	return manifests, oxumBytes, oxumCount, nil
}

func writeTagManifests(ctx context.Context, bagPath string, algs []checksum.Algorithm) error {
	tagFiles := []string{declName, infoName}
	for _, alg := range algs {
		tagFiles = append(tagFiles, manifestName(alg))
	}
	sort.Strings(tagFiles)

	for _, alg := range algs {
		var lines []manifestLine
		for _, name := range tagFiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := checksum.Sum(filepath.Join(bagPath, name), alg)
			if err != nil {
				return fmt.Errorf("bagit: hash tag file %s: %w", name, err)
			}
			lines = append(lines, manifestLine{sum: sum, path: name})
		}
		if err := writeManifest(filepath.Join(bagPath, tagManifestName(alg)), lines); err != nil {
			return err
		}
	}
	return nil
}

type manifestLine struct {
	sum  string
	path string
}

func writeManifest(path string, lines []manifestLine) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line.sum)
		b.WriteString("  ")
		b.WriteString(line.path)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("bagit: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// manifestName maps an algorithm to its payload manifest filename, using the
// dashless lowercase names the packaging convention registers.
func manifestName(alg checksum.Algorithm) string {
	return "manifest-" + algTag(alg) + ".txt"
}

func tagManifestName(alg checksum.Algorithm) string {
	return "tagmanifest-" + algTag(alg) + ".txt"
}

func algTag(alg checksum.Algorithm) string {
	return strings.ReplaceAll(string(alg), "-", "")
}

func algFromTag(tag string) (checksum.Algorithm, bool) {
	switch tag {
	case "md5":
		return checksum.MD5, true
	case "sha256":
		return checksum.SHA256, true
	case "sha512":
		return checksum.SHA512, true
	case "sha3256":
		return checksum.SHA3256, true
	}
	return "", false
}
