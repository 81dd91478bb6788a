// Package idhash derives deterministic run identifiers from input file
// content. Two byte-identical instrument files always map to the same
// fingerprint and run id, which is what the batch cache and the write-once
// summary stores key on.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/mr-tron/base58"
)

// Fingerprint returns the hex SHA-256 of data (64 characters).
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FileFingerprint streams the file at path through SHA-256 and returns the
// hex digest.
func FileFingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for fingerprint: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RunID shortens a hex fingerprint into a base58 identifier built from its
// first 16 bytes. Used for output file names and store keys where the full
// digest is unwieldy.
func RunID(fingerprint string) (string, error) {
	raw, err := hex.DecodeString(fingerprint)
	if err != nil {
		return "", fmt.Errorf("decode fingerprint: %w", err)
	}
	if len(raw) < 16 {
		return "", fmt.Errorf("fingerprint too short: %d bytes", len(raw))
	}
	return base58.Encode(raw[:16]), nil
}
