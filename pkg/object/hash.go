package object

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"sort"
)

// DigestLen is the length of a hex-encoded digest.
const DigestLen = 40

// EmptyDigest is the HEAD value of a repository without commits.
const EmptyDigest Digest = "0000000000000000000000000000000000000000"

// Digest is a 40-character lowercase hex-encoded SHA-1 sum.
type Digest string

// Valid reports whether d is 40 lowercase hex characters.
func (d Digest) Valid() bool {
	if len(d) != DigestLen {
		return false
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// IsEmpty reports whether d is the no-commit sentinel.
func (d Digest) IsEmpty() bool {
	return d == EmptyDigest
}

// Short returns the first 8 characters of d.
func (d Digest) Short() string {
	if len(d) > 8 {
		return string(d[:8])
	}
	return string(d)
}

func (d Digest) String() string {
	return string(d)
}

// HashBytes computes the digest of raw data.
func HashBytes(data []byte) Digest {
	sum := sha1.Sum(data)
	return Digest(hex.EncodeToString(sum[:]))
}

// HashContent sorts lines in place and digests them, each followed by a
// newline, then folds props in as raw bytes in the given order. Sorting
// makes the result independent of directory listing order.
func HashContent(lines []string, props ...string) Digest {
	sort.Strings(lines)

	h := sha1.New()
	for _, line := range lines {
		writeString(h, line)
		writeString(h, "\n")
	}
	for _, p := range props {
		writeString(h, p)
	}
	return Digest(hex.EncodeToString(h.Sum(nil)))
}

func writeString(h hash.Hash, s string) {
	// hash.Hash.Write never returns an error.
	_, _ = h.Write([]byte(s))
}
