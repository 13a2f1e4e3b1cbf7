package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the starting point for working with an elliptic curve
// group. A Curve is only handed out after its parameters have been
// verified against reference values, see Secp256k1Group.
type Curve interface {
	NewPoint() Point
	NewBasePoint() Point
	NewScalar() Scalar
	Name() string
	// ScalarBytes returns the number of bytes needed to store a scalar.
	ScalarBytes() int
	// PointBytes returns the number of bytes of a serialized point (x‖y).
	PointBytes() int
	Order() *saferith.Modulus
}

// Scalar represents an element of the prime-order scalar field
// associated with a Curve. Operations mutate the receiver and return
// it, to allow chaining.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Negate() Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	SetUInt32(uint32) Scalar
	// Act acts on a Point with this Scalar, returning a new Point.
	Act(Point) Point
	// ActOnBase acts on the designated base Point with this Scalar.
	ActOnBase() Point
}

// Point represents an element of our Curve.
//
// Deserializing a Point checks the curve equation, the subgroup, and
// rejects the point at infinity; see UnmarshalBinary on implementors.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Set(Point) Point
	Equal(Point) bool
	IsIdentity() bool
	// IsValid reports whether the point is on the curve, lies in the
	// designated prime-order subgroup, and is not the point at infinity.
	IsValid() bool
}

// FromHash converts a hash digest to a Scalar.
//
// There is some disagreement about how this should be done.
// [NSA] suggests that this is done in the obvious
// manner, but [SECG] truncates the hash to the bit-length of the curve order
// first. We follow [SECG] because that's what OpenSSL does. Additionally,
// OpenSSL right shifts excess bits from the number if the hash is too large
// and we mirror that too.
func FromHash(group Curve, h []byte) Scalar {
	order := group.Order()
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return group.NewScalar().SetNat(s)
}
