package field

import (
	"encoding/hex"
	"io"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/sample"
)

type Error string

func (e Error) Error() string { return "field: " + string(e) }

const (
	// ErrNotPrime is returned when the candidate modulus fails the
	// primality check. It is fatal: no field is handed out.
	ErrNotPrime Error = "modulus failed primality check"
	// ErrZeroInverse is returned when inverting an element ≡ 0.
	ErrZeroInverse Error = "zero has no inverse"
)

// PrimalityRounds is the number of Miller-Rabin rounds run on a
// candidate modulus before a field is handed out. 20 is the same
// number that Go uses internally.
const PrimalityRounds = 20

// PrimeField is arithmetic modulo a verified prime p. All operations
// are safe for concurrent use; the field holds no mutable state.
type PrimeField struct {
	p     *saferith.Modulus
	bytes int
}

// NewPrimeField verifies that b encodes a prime (big-endian) and
// returns the corresponding field. A composite modulus yields
// ErrNotPrime; callers must treat this as fatal.
func NewPrimeField(b []byte) (*PrimeField, error) {
	candidate := new(big.Int).SetBytes(b)
	if candidate.BitLen() < 2 || !candidate.ProbablyPrime(PrimalityRounds) {
		return nil, ErrNotPrime
	}
	p := saferith.ModulusFromBytes(b)
	return &PrimeField{
		p:     p,
		bytes: (p.BitLen() + 7) / 8,
	}, nil
}

// secp256k1N is the order of the secp256k1 group. Sharing the Shamir
// field with the commitment group lets Feldman share commitments live
// in that group.
const secp256k1N = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"

var (
	defaultOnce  sync.Once
	defaultField *PrimeField
)

// Default returns the default sharing field, the secp256k1 group order.
// The constant is re-verified on first use; a failure means the binary
// is corrupted, so it panics rather than returning a broken field.
func Default() *PrimeField {
	defaultOnce.Do(func() {
		raw, err := hex.DecodeString(secp256k1N)
		if err != nil {
			panic("field: bad default modulus constant: " + err.Error())
		}
		defaultField, err = NewPrimeField(raw)
		if err != nil {
			panic("field: default modulus rejected: " + err.Error())
		}
	})
	return defaultField
}

// Modulus returns the underlying modulus p.
func (f *PrimeField) Modulus() *saferith.Modulus { return f.p }

// Bytes returns the fixed byte width of a serialized field element.
func (f *PrimeField) Bytes() int { return f.bytes }

// Reduce returns x mod p.
func (f *PrimeField) Reduce(x *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Mod(x, f.p)
}

// InRange reports whether x < p.
func (f *PrimeField) InRange(x *saferith.Nat) bool {
	_, _, lt := x.CmpMod(f.p)
	return lt == 1
}

// IsZero reports whether x ≡ 0 mod p.
func (f *PrimeField) IsZero(x *saferith.Nat) bool {
	return f.Reduce(x).Eq(new(saferith.Nat).SetUint64(0)) == 1
}

// Add returns x + y mod p.
func (f *PrimeField) Add(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModAdd(x, y, f.p)
}

// Sub returns x - y mod p.
func (f *PrimeField) Sub(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModSub(x, y, f.p)
}

// Neg returns -x mod p.
func (f *PrimeField) Neg(x *saferith.Nat) *saferith.Nat {
	return f.Sub(new(saferith.Nat).SetUint64(0), x)
}

// Mul returns x ⋅ y mod p.
func (f *PrimeField) Mul(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModMul(x, y, f.p)
}

// Exp returns x^e mod p.
func (f *PrimeField) Exp(x, e *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Exp(x, e, f.p)
}

// Invert returns x⁻¹ mod p.
func (f *PrimeField) Invert(x *saferith.Nat) (*saferith.Nat, error) {
	if f.IsZero(x) {
		return nil, ErrZeroInverse
	}
	return new(saferith.Nat).ModInverse(x, f.p), nil
}

// BatchInvert inverts all values with a single modular inversion plus
// O(n) multiplications (Montgomery's trick). Any value ≡ 0 yields
// ErrZeroInverse.
func (f *PrimeField) BatchInvert(xs []*saferith.Nat) ([]*saferith.Nat, error) {
	n := len(xs)
	if n == 0 {
		return nil, nil
	}
	// prefix[i] = x₀ ⋅⋅⋅ xᵢ
	prefix := make([]*saferith.Nat, n)
	acc := new(saferith.Nat).SetUint64(1)
	for i, x := range xs {
		if f.IsZero(x) {
			return nil, ErrZeroInverse
		}
		acc = f.Mul(acc, x)
		prefix[i] = acc
	}

	// One inversion of the full product…
	inv, err := f.Invert(prefix[n-1])
	if err != nil {
		return nil, err
	}

	// …then peel off one factor at a time:
	// inv = (x₀ ⋅⋅⋅ xᵢ)⁻¹, so out[i] = inv ⋅ prefix[i-1].
	out := make([]*saferith.Nat, n)
	for i := n - 1; i > 0; i-- {
		out[i] = f.Mul(inv, prefix[i-1])
		inv = f.Mul(inv, xs[i])
	}
	out[0] = inv
	return out, nil
}

// Sample draws a uniform element of [0, p) from rand.
func (f *PrimeField) Sample(rand io.Reader) *saferith.Nat {
	return sample.ModN(rand, f.p)
}

// FillBytes returns x as a fixed-width big-endian byte string.
func (f *PrimeField) FillBytes(x *saferith.Nat) []byte {
	buf := make([]byte, f.bytes)
	x.FillBytes(buf)
	return buf
}
