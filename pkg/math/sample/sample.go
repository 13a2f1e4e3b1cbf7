package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/curve"
)

const maxIterations = 255

// ErrMaxIterations is returned (via panic on the random source, or as
// an error from callers) when sampling fails repeatedly. A healthy
// CSPRNG never gets near this bound.
var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ by rejection sampling.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// Scalar returns a new Scalar, sampled uniformly in [0, order), from
// the given source of randomness.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	return group.NewScalar().SetNat(ModN(rand, group.Order()))
}

// UnitScalar returns a new non-zero Scalar, suitable for use as a
// blinding factor.
func UnitScalar(rand io.Reader, group curve.Curve) curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		s := Scalar(rand, group)
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a new Scalar, and its corresponding point on
// the base.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	s := Scalar(rand, group)
	return s, s.ActOnBase()
}
