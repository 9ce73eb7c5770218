package bagit

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limenVTech/UDCS-Packer/internal/checksum"
)

type bag struct {
	path string
	algs []checksum.Algorithm
}

func (b *bag) Path() string { return b.path }

func (b *bag) IsValid(ctx context.Context) bool {
	return b.Validate(ctx) == nil
}

// Validate re-derives everything from disk: the declaration must exist,
// every payload manifest line must match a recomputed digest, every payload
// file must appear in every payload manifest, tag manifests must match, and
// the recorded Payload-Oxum must agree with the payload.
func (b *bag) Validate(ctx context.Context) error {
	if !IsBag(b.path) {
		return fmt.Errorf("bagit: %s lacks a payload directory or declaration", b.path)
	}

	manifests, err := findManifests(b.path, "manifest-")
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		return fmt.Errorf("bagit: %s has no payload manifests", b.path)
	}

	payload, oxumBytes, err := payloadFiles(b.path)
	if err != nil {
		return err
	}

	for alg, manifestPath := range manifests {
		lines, err := readManifest(manifestPath)
		if err != nil {
			return err
		}
		listed := make(map[string]struct{}, len(lines))
		for _, line := range lines {
			if err := ctx.Err(); err != nil {
				return err
			}
			listed[line.path] = struct{}{}
			sum, err := checksum.Sum(filepath.Join(b.path, filepath.FromSlash(line.path)), alg)
			if err != nil {
				return fmt.Errorf("bagit: listed payload file unreadable: %w", err)
			}
			if sum != line.sum {
				return fmt.Errorf("bagit: %s digest mismatch for %s", alg, line.path)
			}
		}
		for _, rel := range payload {
			if _, ok := listed[rel]; !ok {
				return fmt.Errorf("bagit: payload file %s missing from %s", rel, filepath.Base(manifestPath))
			}
		}
		if len(lines) != len(payload) {
			return fmt.Errorf("bagit: %s lists %d files but payload holds %d", filepath.Base(manifestPath), len(lines), len(payload))
		}
	}

	if err := b.validateOxum(oxumBytes, len(payload)); err != nil {
		return err
	}
	return b.validateTagManifests(ctx)
}

func (b *bag) validateOxum(gotBytes int64, gotCount int) error {
	file, err := os.Open(filepath.Join(b.path, infoName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("bagit: open bag info: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		value, ok := strings.CutPrefix(line, "Payload-Oxum: ")
		if !ok {
			continue
		}
		parts := strings.SplitN(strings.TrimSpace(value), ".", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bagit: malformed Payload-Oxum %q", value)
		}
		wantBytes, err1 := strconv.ParseInt(parts[0], 10, 64)
		wantCount, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("bagit: malformed Payload-Oxum %q", value)
		}
		if wantBytes != gotBytes || wantCount != gotCount {
			return fmt.Errorf("bagit: payload oxum mismatch: recorded %d.%d, found %d.%d",
				wantBytes, wantCount, gotBytes, gotCount)
		}
	}
	return scanner.Err()
}

func (b *bag) validateTagManifests(ctx context.Context) error {
	tagManifests, err := findManifests(b.path, "tagmanifest-")
	if err != nil {
		return err
	}
	for alg, manifestPath := range tagManifests {
		lines, err := readManifest(manifestPath)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := checksum.Sum(filepath.Join(b.path, filepath.FromSlash(line.path)), alg)
			if err != nil {
				return fmt.Errorf("bagit: tag file unreadable: %w", err)
			}
			if sum != line.sum {
				return fmt.Errorf("bagit: %s digest mismatch for tag file %s", alg, line.path)
			}
		}
	}
	return nil
}

// Open reconstructs a Package handle for an existing bag on disk so validity
// can be re-queried in a later run.
func Open(path string) (Package, error) {
	if !IsBag(path) {
		return nil, fmt.Errorf("bagit: %s is not a bag", path)
	}
	return &bag{path: path}, nil
}

func findManifests(bagPath, prefix string) (map[checksum.Algorithm]string, error) {
	entries, err := os.ReadDir(bagPath)
	if err != nil {
		return nil, fmt.Errorf("bagit: read %s: %w", bagPath, err)
	}
	found := make(map[checksum.Algorithm]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".txt") {
			continue
		}
		tag := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".txt")
		alg, ok := algFromTag(tag)
		if !ok {
			return nil, fmt.Errorf("bagit: unrecognized manifest algorithm in %s", name)
		}
		found[alg] = filepath.Join(bagPath, name)
	}
	return found, nil
}

func readManifest(path string) ([]manifestLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bagit: open manifest: %w", err)
	}
	defer file.Close()

	var lines []manifestLine
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		sum, rel, ok := strings.Cut(raw, "  ")
		if !ok {
			return nil, fmt.Errorf("bagit: malformed manifest line %q in %s", raw, filepath.Base(path))
		}
		lines = append(lines, manifestLine{sum: sum, path: strings.TrimSpace(rel)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("bagit: read manifest %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}

func payloadFiles(bagPath string) ([]string, int64, error) {
	var files []string
	var total int64
	root := filepath.Join(bagPath, payloadDir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(bagPath, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("bagit: enumerate payload: %w", err)
	}
	return files, total, nil
}
