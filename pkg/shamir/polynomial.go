package shamir

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/field"
)

// polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ over a prime field.
// It only lives for the duration of a single split; nothing retains it
// once the shares are produced.
type polynomial struct {
	field        *field.PrimeField
	coefficients []*saferith.Nat
}

// newPolynomial generates f(X) = constant + a₁⋅X + … + a_degree⋅X^degree,
// with the non-constant coefficients drawn uniformly from [0, p).
func newPolynomial(rand io.Reader, f *field.PrimeField, constant *saferith.Nat, degree int) *polynomial {
	coefficients := make([]*saferith.Nat, degree+1)
	coefficients[0] = f.Reduce(constant)
	for i := 1; i <= degree; i++ {
		coefficients[i] = f.Sample(rand)
	}
	return &polynomial{field: f, coefficients: coefficients}
}

// evaluate evaluates the polynomial at x using Horner's method:
// bₙ₋₁ = bₙ⋅x + aₙ₋₁. The operation sequence is the same for every
// input, so evaluation does not branch on share values.
func (p *polynomial) evaluate(x *saferith.Nat) *saferith.Nat {
	if p.field.IsZero(x) {
		panic("attempt to leak secret")
	}
	result := new(saferith.Nat).SetUint64(0)
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = p.field.Add(p.field.Mul(result, x), p.coefficients[i])
	}
	return result
}
