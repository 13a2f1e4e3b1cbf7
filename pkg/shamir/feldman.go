package shamir

import (
	"crypto/subtle"
	"io"

	"github.com/kase1111-hash/RRA-Module-sub002/internal/pool"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/curve"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/field"
)

// VerifyResult is the outcome of checking a share against public
// commitments. The zero value is ShareError, so an unset result can
// never open a share by accident.
type VerifyResult int

const (
	// ShareError means verification could not be completed. Callers
	// must treat it exactly like ShareInvalid.
	ShareError VerifyResult = iota
	ShareValid
	ShareInvalid
)

// Ok reports whether the share verified. ShareError and ShareInvalid
// both report false.
func (r VerifyResult) Ok() bool { return r == ShareValid }

func (r VerifyResult) String() string {
	switch r {
	case ShareValid:
		return "valid"
	case ShareInvalid:
		return "invalid"
	default:
		return "error"
	}
}

// SplitVerifiable is Split plus Feldman commitments: alongside the
// shares it returns the points [aᵢ]G for each polynomial coefficient,
// which custodians can use to verify their shares without learning the
// secret. The sharing field must be the group's scalar field.
func SplitVerifiable(rand io.Reader, group curve.Curve, f *field.PrimeField, secret []byte, threshold, n int) ([]Share, []curve.Point, error) {
	if f.Modulus().Nat().Eq(group.Order().Nat()) != 1 {
		return nil, nil, ErrFieldMismatch
	}
	poly, shares, err := split(rand, f, secret, threshold, n)
	if err != nil {
		return nil, nil, err
	}
	commitments := make([]curve.Point, len(poly.coefficients))
	for i, a := range poly.coefficients {
		commitments[i] = group.NewScalar().SetNat(a).ActOnBase()
	}
	return shares, commitments, nil
}

// VerifyShare checks [share.Value]G == Σ [indexⁱ]Cᵢ, evaluating the
// commitment polynomial with Horner's method in the exponent. It fails
// closed: malformed inputs, invalid commitment points, and
// serialization failures all yield ShareError, which callers treat as
// ShareInvalid.
func VerifyShare(group curve.Curve, share Share, commitments []curve.Point) VerifyResult {
	if len(commitments) == 0 || share.Index == 0 || share.Value == nil {
		return ShareError
	}
	for _, c := range commitments {
		if c == nil || !c.IsValid() {
			return ShareError
		}
	}

	lhs := group.NewScalar().SetNat(share.Value).ActOnBase()

	x := share.Index.Scalar(group)
	rhs := group.NewPoint()
	for i := len(commitments) - 1; i >= 0; i-- {
		rhs = x.Act(rhs).Add(commitments[i])
	}

	lhsBytes, err := lhs.MarshalBinary()
	if err != nil {
		return ShareError
	}
	rhsBytes, err := rhs.MarshalBinary()
	if err != nil {
		return ShareError
	}
	if subtle.ConstantTimeCompare(lhsBytes, rhsBytes) == 1 {
		return ShareValid
	}
	return ShareInvalid
}

// VerifyShares checks every share against the same commitments,
// distributing the work over pl. A nil pool verifies on the current
// goroutine.
func VerifyShares(pl *pool.Pool, group curve.Curve, shares []Share, commitments []curve.Point) []VerifyResult {
	results := pl.Parallelize(len(shares), func(i int) interface{} {
		return VerifyShare(group, shares[i], commitments)
	})
	out := make([]VerifyResult, len(results))
	for i, r := range results {
		res, ok := r.(VerifyResult)
		if !ok {
			res = ShareError
		}
		out[i] = res
	}
	return out
}
