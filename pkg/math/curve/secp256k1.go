package curve

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

type Error string

func (e Error) Error() string { return "curve: " + string(e) }

const (
	// ErrInvalidPoint is returned when deserializing bytes that do not
	// encode a usable group element.
	ErrInvalidPoint Error = "invalid curve point"
	// ErrParameterVerification is returned by Secp256k1Group when the
	// curve constants do not match their reference values. It is fatal:
	// no Curve is handed out.
	ErrParameterVerification Error = "parameter verification failed"
)

// Reference values for the secp256k1 domain parameters, taken from SEC 2.
// Secp256k1Group checks the linked library against these before handing
// out a group.
const (
	secp256k1P  = "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"
	secp256k1N  = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	secp256k1Gx = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	secp256k1Gy = "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
)

// primalityRounds is the number of Miller-Rabin rounds used when
// re-checking the field prime and group order. 20 is the same number
// that Go uses internally.
const primalityRounds = 20

var (
	secp256k1BaseX, secp256k1BaseY secp256k1.FieldVal

	secp256k1VerifyOnce sync.Once
	secp256k1VerifyErr  error

	secp256k1OrderOnce sync.Once
	secp256k1OrderMod  *saferith.Modulus
)

func init() {
	gx, _ := hex.DecodeString(secp256k1Gx)
	gy, _ := hex.DecodeString(secp256k1Gy)
	secp256k1BaseX.SetByteSlice(gx)
	secp256k1BaseY.SetByteSlice(gy)
}

// Secp256k1Group verifies the secp256k1 constants against their
// reference values and returns the group. Verification runs once per
// process; on mismatch every call returns ErrParameterVerification and
// callers must treat this as fatal.
func Secp256k1Group() (Curve, error) {
	secp256k1VerifyOnce.Do(func() {
		secp256k1VerifyErr = verifySecp256k1Parameters()
	})
	if secp256k1VerifyErr != nil {
		return nil, secp256k1VerifyErr
	}
	return Secp256k1{}, nil
}

func verifySecp256k1Parameters() error {
	params := secp256k1.S256().Params()
	for _, c := range []struct {
		name string
		ref  string
		got  *big.Int
	}{
		{"field prime", secp256k1P, params.P},
		{"group order", secp256k1N, params.N},
		{"generator x", secp256k1Gx, params.Gx},
		{"generator y", secp256k1Gy, params.Gy},
	} {
		ref, ok := new(big.Int).SetString(c.ref, 16)
		if !ok {
			return fmt.Errorf("%w: bad reference constant for %s", ErrParameterVerification, c.name)
		}
		if ref.Cmp(c.got) != 0 {
			return fmt.Errorf("%w: %s mismatch", ErrParameterVerification, c.name)
		}
	}
	if params.B.Cmp(big.NewInt(7)) != 0 {
		return fmt.Errorf("%w: curve coefficient mismatch", ErrParameterVerification)
	}
	if !params.P.ProbablyPrime(primalityRounds) {
		return fmt.Errorf("%w: field prime failed primality check", ErrParameterVerification)
	}
	if !params.N.ProbablyPrime(primalityRounds) {
		return fmt.Errorf("%w: group order failed primality check", ErrParameterVerification)
	}
	if !secp256k1.S256().IsOnCurve(params.Gx, params.Gy) {
		return fmt.Errorf("%w: generator not on curve", ErrParameterVerification)
	}

	// The base point must be a valid group element, which includes
	// order·G = ∞, and must serialize to the reference coordinates.
	base := Secp256k1{}.NewBasePoint()
	if !base.IsValid() {
		return fmt.Errorf("%w: generator failed subgroup check", ErrParameterVerification)
	}
	raw, err := base.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: generator serialization: %v", ErrParameterVerification, err)
	}
	if hex.EncodeToString(raw) != secp256k1Gx+secp256k1Gy {
		return fmt.Errorf("%w: generator serialization mismatch", ErrParameterVerification)
	}
	return nil
}

func secp256k1Order() *saferith.Modulus {
	secp256k1OrderOnce.Do(func() {
		bytes, _ := hex.DecodeString(secp256k1N)
		secp256k1OrderMod = saferith.ModulusFromBytes(bytes)
	})
	return secp256k1OrderMod
}

// Secp256k1 is the group over the secp256k1 curve. Obtain it through
// Secp256k1Group so that parameter verification has run.
type Secp256k1 struct{}

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) ScalarBytes() int { return 32 }

func (Secp256k1) PointBytes() int { return 64 }

func (Secp256k1) Order() *saferith.Modulus { return secp256k1Order() }

func (Secp256k1) NewScalar() Scalar { return new(secp256k1Scalar) }

func (Secp256k1) NewPoint() Point { return new(secp256k1Point) }

func (Secp256k1) NewBasePoint() Point {
	out := new(secp256k1Point)
	out.value.X.Set(&secp256k1BaseX)
	out.value.Y.Set(&secp256k1BaseY)
	out.value.Z.SetInt(1)
	return out
}

type secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *secp256k1Scalar {
	out, ok := generic.(*secp256k1Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Scalar: %v", generic))
	}
	return out
}

func (*secp256k1Scalar) Curve() Curve { return Secp256k1{} }

func (s *secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	return data[:], nil
}

func (s *secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for secp256k1 scalar: %d", len(data))
	}
	var exactData [32]byte
	copy(exactData[:], data)
	if s.value.SetBytes(&exactData) != 0 {
		return fmt.Errorf("%w: scalar out of range", ErrInvalidPoint)
	}
	return nil
}

func (s *secp256k1Scalar) Add(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Add(&other.value)
	return s
}

func (s *secp256k1Scalar) Sub(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	neg := other.value
	neg.Negate()
	s.value.Add(&neg)
	return s
}

func (s *secp256k1Scalar) Mul(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value.Mul(&other.value)
	return s
}

func (s *secp256k1Scalar) Invert() Scalar {
	s.value.InverseNonConst()
	return s
}

func (s *secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *secp256k1Scalar) Equal(that Scalar) bool {
	other := secp256k1CastScalar(that)

	return s.value.Equals(&other.value)
}

func (s *secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *secp256k1Scalar) Set(that Scalar) Scalar {
	other := secp256k1CastScalar(that)

	s.value = other.value
	return s
}

func (s *secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order())
	buf := make([]byte, 32)
	reduced.FillBytes(buf)
	s.value.SetByteSlice(buf)
	return s
}

func (s *secp256k1Scalar) SetUInt32(x uint32) Scalar {
	s.value.SetInt(x)
	return s
}

func (s *secp256k1Scalar) Act(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	return out
}

func (s *secp256k1Scalar) ActOnBase() Point {
	out := new(secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	return out
}

type secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *secp256k1Point {
	out, ok := generic.(*secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Point: %v", generic))
	}
	return out
}

func (*secp256k1Point) Curve() Curve { return Secp256k1{} }

// MarshalBinary serializes the point as 64 bytes x‖y. The point at
// infinity has no affine encoding and is refused.
func (p *secp256k1Point) MarshalBinary() ([]byte, error) {
	if p.IsIdentity() {
		return nil, fmt.Errorf("%w: cannot serialize the point at infinity", ErrInvalidPoint)
	}
	// This will modify p, but still return an equivalent value.
	p.value.ToAffine()
	out := make([]byte, 64)
	x := p.value.X.Bytes()
	y := p.value.Y.Bytes()
	copy(out[:32], x[:])
	copy(out[32:], y[:])
	return out, nil
}

// UnmarshalBinary deserializes a 64-byte x‖y encoding, rejecting
// out-of-range coordinates, points off the curve, the point at
// infinity, and points outside the prime-order subgroup.
func (p *secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != 64 {
		return fmt.Errorf("%w: invalid length %d", ErrInvalidPoint, len(data))
	}
	x := new(big.Int).SetBytes(data[:32])
	y := new(big.Int).SetBytes(data[32:])
	params := secp256k1.S256().Params()
	if x.Cmp(params.P) >= 0 || y.Cmp(params.P) >= 0 {
		return fmt.Errorf("%w: coordinate out of range", ErrInvalidPoint)
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		return fmt.Errorf("%w: point at infinity", ErrInvalidPoint)
	}
	if !secp256k1.S256().IsOnCurve(x, y) {
		return fmt.Errorf("%w: point not on curve", ErrInvalidPoint)
	}
	var decoded secp256k1Point
	decoded.value.X.SetByteSlice(data[:32])
	decoded.value.Y.SetByteSlice(data[32:])
	decoded.value.Z.SetInt(1)
	if !decoded.inSubgroup() {
		return fmt.Errorf("%w: point failed subgroup check", ErrInvalidPoint)
	}
	p.value = decoded.value
	return nil
}

func (p *secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)

	// AddNonConst handles doubling and identity operands.
	out := new(secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	return out
}

func (p *secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *secp256k1Point) Negate() Point {
	out := new(secp256k1Point)
	out.value.Set(&p.value)
	out.value.Y.Negate(1)
	out.value.Y.Normalize()
	return out
}

func (p *secp256k1Point) Set(that Point) Point {
	other := secp256k1CastPoint(that)

	p.value.Set(&other.value)
	return p
}

func (p *secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)

	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() && other.IsIdentity()
	}
	p.value.ToAffine()
	other.value.ToAffine()
	return p.value.X.Equals(&other.value.X) && p.value.Y.Equals(&other.value.Y)
}

func (p *secp256k1Point) IsIdentity() bool {
	return (p.value.X.IsZero() && p.value.Y.IsZero()) || p.value.Z.IsZero()
}

// IsValid reports whether p is on the curve, inside the prime-order
// subgroup, and not the point at infinity. The identity is rejected as
// a usable value: a commitment to it would leak that value·G = -blinding·H.
func (p *secp256k1Point) IsValid() bool {
	if p.IsIdentity() {
		return false
	}
	affine := p.value
	affine.ToAffine()
	x := new(big.Int).SetBytes(affineBytes(&affine.X))
	y := new(big.Int).SetBytes(affineBytes(&affine.Y))
	if !secp256k1.S256().IsOnCurve(x, y) {
		return false
	}
	return p.inSubgroup()
}

// inSubgroup checks order·p == ∞ using (order-1)·p + p, since the
// scalar type cannot represent the order itself.
func (p *secp256k1Point) inSubgroup() bool {
	var orderMinusOne secp256k1.ModNScalar
	orderMinusOne.SetInt(1)
	orderMinusOne.Negate()

	var partial, sum secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&orderMinusOne, &p.value, &partial)
	secp256k1.AddNonConst(&partial, &p.value, &sum)
	return (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero()
}

func affineBytes(v *secp256k1.FieldVal) []byte {
	b := v.Bytes()
	return b[:]
}
