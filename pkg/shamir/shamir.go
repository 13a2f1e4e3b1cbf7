// Package shamir implements (t,n)-threshold secret sharing over a
// verified prime field, with optional Feldman-style share verification
// against public commitments.
package shamir

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/curve"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/field"
)

type Error string

func (e Error) Error() string { return "shamir: " + string(e) }

const (
	ErrThreshold          Error = "threshold must satisfy 1 ≤ t ≤ n"
	ErrTooManyShares      Error = "too many shares requested"
	ErrSecretRange        Error = "secret does not fit in the sharing field"
	ErrInsufficientShares Error = "not enough shares to reconstruct"
	ErrDuplicateShare     Error = "duplicate share index"
	ErrInvalidShare       Error = "share has zero index or out-of-range value"
	ErrFieldMismatch      Error = "sharing field does not match the group order"
)

// MaxShares is the largest n accepted by Split.
const MaxShares = 1<<16 - 1

// Index identifies a share within one sharing session. Indices are
// 1..n; index 0 would evaluate the polynomial at the secret itself and
// is always rejected.
type Index uint16

// Nat returns the index as a field element.
func (i Index) Nat() *saferith.Nat {
	return new(saferith.Nat).SetUint64(uint64(i))
}

// Scalar returns the index as a scalar of the given group.
func (i Index) Scalar(group curve.Curve) curve.Scalar {
	return group.NewScalar().SetUInt32(uint32(i))
}

// Share is one custodian's piece of a split secret. Value is an
// element of the sharing field.
type Share struct {
	Index Index
	Value *saferith.Nat
}

// Split shares secret among n custodians so that any threshold of them
// can reconstruct it. It builds a random polynomial of degree
// threshold-1 whose constant term is the secret, evaluates it at the
// indices 1..n, and discards the polynomial.
//
// The secret is interpreted as a big-endian integer and must be less
// than the field modulus.
func Split(rand io.Reader, f *field.PrimeField, secret []byte, threshold, n int) ([]Share, error) {
	_, shares, err := split(rand, f, secret, threshold, n)
	return shares, err
}

func split(rand io.Reader, f *field.PrimeField, secret []byte, threshold, n int) (*polynomial, []Share, error) {
	if threshold < 1 || threshold > n {
		return nil, nil, ErrThreshold
	}
	if n > MaxShares {
		return nil, nil, ErrTooManyShares
	}
	s := new(saferith.Nat).SetBytes(secret)
	if !f.InRange(s) {
		return nil, nil, ErrSecretRange
	}
	poly := newPolynomial(rand, f, s, threshold-1)
	shares := make([]Share, n)
	for i := range shares {
		index := Index(i + 1)
		shares[i] = Share{Index: index, Value: poly.evaluate(index.Nat())}
	}
	return poly, shares, nil
}

// Reconstruct recovers the secret from at least threshold shares with
// pairwise-distinct indices, by Lagrange interpolation at x = 0. The
// secret is returned as a fixed-width big-endian byte string of
// f.Bytes() bytes.
func Reconstruct(f *field.PrimeField, shares []Share, threshold int) ([]byte, error) {
	if threshold < 1 {
		return nil, ErrThreshold
	}
	if len(shares) < threshold {
		return nil, ErrInsufficientShares
	}
	seen := make(map[Index]struct{}, len(shares))
	for _, share := range shares {
		if share.Index == 0 || share.Value == nil || !f.InRange(share.Value) {
			return nil, ErrInvalidShare
		}
		if _, ok := seen[share.Index]; ok {
			return nil, ErrDuplicateShare
		}
		seen[share.Index] = struct{}{}
	}

	xs := make([]*saferith.Nat, len(shares))
	for i, share := range shares {
		xs[i] = share.Index.Nat()
	}

	// denominator dⱼ = Π_{i≠j} (xᵢ - xⱼ); all inverted at once with
	// Montgomery's trick instead of one inversion per share.
	denominators := make([]*saferith.Nat, len(shares))
	for j := range shares {
		d := new(saferith.Nat).SetUint64(1)
		for i := range shares {
			if i == j {
				continue
			}
			d = f.Mul(d, f.Sub(xs[i], xs[j]))
		}
		denominators[j] = d
	}
	inverted, err := f.BatchInvert(denominators)
	if err != nil {
		return nil, ErrDuplicateShare
	}

	// secret = Σ yⱼ ⋅ lⱼ(0), with lⱼ(0) = Π_{i≠j} xᵢ / (xᵢ - xⱼ).
	secret := new(saferith.Nat).SetUint64(0)
	for j, share := range shares {
		numerator := new(saferith.Nat).SetUint64(1)
		for i := range shares {
			if i == j {
				continue
			}
			numerator = f.Mul(numerator, xs[i])
		}
		term := f.Mul(share.Value, f.Mul(numerator, inverted[j]))
		secret = f.Add(secret, term)
	}
	return f.FillBytes(secret), nil
}
