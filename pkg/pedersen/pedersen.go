package pedersen

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/kase1111-hash/RRA-Module-sub002/internal/pool"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/curve"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/sample"
)

type Error string

func (e Error) Error() string { return "pedersen: " + string(e) }

const (
	ErrNilFields            Error = "contains nil field"
	ErrInvalidCommitment    Error = "malformed commitment"
	ErrDegenerateCommitment Error = "commitment is the point at infinity"
)

// Commitment is a serialized curve point x‖y, opaque to callers.
type Commitment []byte

// Validate checks the length of the commitment. Point validity is
// checked when the commitment is deserialized.
func (c Commitment) Validate(group curve.Curve) error {
	if l := len(c); l != group.PointBytes() {
		return fmt.Errorf("%w: incorrect length (got %d, expected %d)", ErrInvalidCommitment, l, group.PointBytes())
	}
	return nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (c Commitment) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (Commitment) Domain() string { return "Pedersen Commitment" }

// Parameters hold the two generators of a Pedersen commitment scheme:
// the group's base point G, and a second generator H derived from a
// seed. Parameters are stateless and safe for concurrent use.
type Parameters struct {
	group curve.Curve
	h     curve.Point
}

// New derives the second generator from seed and returns the scheme
// parameters. Distinct seeds yield independent generators; the same
// seed always yields the same parameters.
func New(group curve.Curve, seed []byte) (*Parameters, error) {
	h, err := DeriveGenerator(group, seed)
	if err != nil {
		return nil, err
	}
	return &Parameters{group: group, h: h}, nil
}

// Group returns the curve group the parameters operate on.
func (p *Parameters) Group() curve.Curve { return p.group }

// H returns a copy of the second generator.
func (p *Parameters) H() curve.Point {
	return p.group.NewPoint().Set(p.h)
}

func (p *Parameters) valueScalar(value *saferith.Int) curve.Scalar {
	return p.group.NewScalar().SetNat(value.Mod(p.group.Order()))
}

// Commit computes C = value·G + blinding·H.
//
// value and blinding are reduced mod the group order. The blinding
// factor must be kept by the caller to open the commitment later, and
// must not be reused.
func (p *Parameters) Commit(value *saferith.Int, blinding curve.Scalar) (Commitment, error) {
	if value == nil || blinding == nil {
		return nil, ErrNilFields
	}
	c := p.valueScalar(value).ActOnBase().Add(blinding.Act(p.h))
	if c.IsIdentity() {
		return nil, ErrDegenerateCommitment
	}
	out, err := c.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("pedersen: %w", err)
	}
	return out, nil
}

// CommitNew commits to value under a fresh blinding factor drawn from
// rand, returning both. rand must be a cryptographically secure source.
func (p *Parameters) CommitNew(rand io.Reader, value *saferith.Int) (Commitment, curve.Scalar, error) {
	blinding := sample.UnitScalar(rand, p.group)
	c, err := p.Commit(value, blinding)
	if err != nil {
		return nil, nil, err
	}
	return c, blinding, nil
}

// Verify recomputes the commitment for (value, blinding) and compares
// it to c. Malformed commitments, points off the curve or outside the
// subgroup, and any internal failure all report false; verification
// never opens by accident.
func (p *Parameters) Verify(c Commitment, value *saferith.Int, blinding curve.Scalar) bool {
	if value == nil || blinding == nil {
		return false
	}
	if c.Validate(p.group) != nil {
		return false
	}
	if p.group.NewPoint().UnmarshalBinary(c) != nil {
		return false
	}
	expected, err := p.Commit(value, blinding)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(expected, c) == 1
}

// Add returns a commitment to the sum of the two committed values,
// under the sum of their blinding factors.
func (p *Parameters) Add(c1, c2 Commitment) (Commitment, error) {
	p1 := p.group.NewPoint()
	if err := p1.UnmarshalBinary(c1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommitment, err)
	}
	p2 := p.group.NewPoint()
	if err := p2.UnmarshalBinary(c2); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommitment, err)
	}
	sum := p1.Add(p2)
	if sum.IsIdentity() {
		return nil, ErrDegenerateCommitment
	}
	out, err := sum.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("pedersen: %w", err)
	}
	return out, nil
}

// VerifyBatch verifies commitments[i] against (values[i], blindings[i])
// for all i, distributing the work over pl. A nil pool verifies on the
// current goroutine.
func (p *Parameters) VerifyBatch(pl *pool.Pool, commitments []Commitment, values []*saferith.Int, blindings []curve.Scalar) bool {
	if len(commitments) != len(values) || len(commitments) != len(blindings) {
		return false
	}
	results := pl.Parallelize(len(commitments), func(i int) interface{} {
		return p.Verify(commitments[i], values[i], blindings[i])
	})
	for _, r := range results {
		if ok, _ := r.(bool); !ok {
			return false
		}
	}
	return true
}
