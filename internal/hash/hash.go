package hash

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/kase1111-hash/RRA-Module-sub002/internal/params"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the number of bytes returned by Sum.
const DigestLengthBytes = params.HashBytes

// Hash is the one hash function used across the core, for price
// commitment hashing, generator derivation and share verification.
//
// Internally this is a wrapper around blake3, but any hash function
// with an easily extendable output would work as well.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash whose state is initialized with the given domain tag.
func New(domain string) *Hash {
	hash := &Hash{h: blake3.New()}
	_ = writeWithDomain(hash.h, BytesWithDomain{
		TheDomain: "Domain Tag",
		Bytes:     []byte(domain),
	})
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - string
//   - uint64
//   - *saferith.Nat
//   - hash.WriterToWithDomain
//
// The first four get a domain tag derived from their type. The last
// already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var err error
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "[]byte",
				Bytes:     t,
			})
		case string:
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "string",
				Bytes:     []byte(t),
			})
		case uint64:
			var buf [8]byte
			for i := 0; i < 8; i++ {
				buf[i] = byte(t >> (56 - 8*i))
			}
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "uint64",
				Bytes:     buf[:],
			})
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "Nat",
				Bytes:     t.Bytes(),
			})
		case WriterToWithDomain:
			err = writeWithDomain(hash.h, t)
		default:
			panic("hash.Hash: unsupported type")
		}
		if err != nil {
			return fmt.Errorf("hash.Hash: write: %w", err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
