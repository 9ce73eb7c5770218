package checksum

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm names a supported digest algorithm.
type Algorithm string

const (
	MD5     Algorithm = "md5"
	SHA256  Algorithm = "sha256"
	SHA512  Algorithm = "sha512"
	SHA3256 Algorithm = "sha3-256"
)

// chunkSize is the fixed read size used while streaming files through the
// digest accumulators. Files of any size are hashed in a single pass without
// whole-file buffering.
const chunkSize = 32 * 1024

// Parse maps a configuration string onto an Algorithm.
func Parse(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case MD5:
		return MD5, nil
	case SHA256:
		return SHA256, nil
	case SHA512:
		return SHA512, nil
	case SHA3256, "sha3_256", "sha3":
		return SHA3256, nil
	}
	return "", fmt.Errorf("unsupported digest algorithm %q", name)
}

// Label returns the manifest column title used for the algorithm.
func (a Algorithm) Label() string {
	switch a {
	case MD5:
		return "MD5_Sum"
	case SHA256:
		return "SHA2_256"
	case SHA512:
		return "SHA2_512"
	case SHA3256:
		return "SHA3_256"
	}
	return strings.ToUpper(string(a))
}

// New returns a fresh accumulator for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3256:
		return sha3.New256(), nil
	}
	return nil, fmt.Errorf("unsupported digest algorithm %q", a)
}

// Sums reads the file at path exactly once in fixed-size chunks, feeding
// every requested digest accumulator per chunk, and returns the lowercase
// hexadecimal encoding of each digest. An unreadable path returns the error
// to the caller; it is never silently skipped.
func Sums(path string, algs []Algorithm) (map[Algorithm]string, error) {
	if len(algs) == 0 {
		return map[Algorithm]string{}, nil
	}
	hashes := make([]hash.Hash, 0, len(algs))
	writers := make([]io.Writer, 0, len(algs))
	for _, alg := range algs {
		h, err := alg.New()
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
		writers = append(writers, h)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(io.MultiWriter(writers...), file, buf); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}

	result := make(map[Algorithm]string, len(algs))
	for i, alg := range algs {
		result[alg] = hex.EncodeToString(hashes[i].Sum(nil))
	}
	return result, nil
}

// Sum computes a single digest over the file at path.
func Sum(path string, alg Algorithm) (string, error) {
	sums, err := Sums(path, []Algorithm{alg})
	if err != nil {
		return "", err
	}
	return sums[alg], nil
}
