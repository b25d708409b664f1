package incremental

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HashBytes returns the xxHash64 of data as 16 hex digits.
func HashBytes(data []byte) string {
	return hexDigest(xxhash.Sum64(data))
}

// HashFile streams path through xxHash64. Equal content hashes the same as
// HashBytes.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	d := xxhash.New()
	if _, err := io.Copy(d, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hexDigest(d.Sum64()), nil
}

// Fingerprint hashes parts in order. Parts are NUL separated, so moving a
// byte across a boundary changes the result.
func Fingerprint(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return hexDigest(d.Sum64())
}

func hexDigest(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
