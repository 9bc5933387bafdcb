// Package fingerprint computes a fast, non-cryptographic digest of a raw
// header block, used only for the archive facade's duplicate-header
// diagnostic (never for a correctness decision the decoder makes).
//
// This mirrors internal/fileid's use of xxhash.Digest to build a cheap
// identity out of a small, fixed-size byte record.
package fingerprint

import "github.com/cespare/xxhash/v2"

// Block is a 64-bit fingerprint of a raw header block's bytes.
type Block uint64

// OfBlock hashes a raw 512-byte header record.
func OfBlock(raw []byte) Block {
	var h xxhash.Digest
	h.Write(raw)
	return Block(h.Sum64())
}
