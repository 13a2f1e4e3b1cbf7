package pedersen

import (
	"io"

	"github.com/kase1111-hash/RRA-Module-sub002/internal/hash"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/curve"
)

// GeneratorIterations bounds the hash-and-test loop in DeriveGenerator.
// With a prime-order group essentially every candidate is usable, so
// exhausting 1000 attempts is astronomically unlikely; the bound exists
// so that the loop is provably finite.
const GeneratorIterations = 1000

// ErrGeneratorExhausted is returned when no valid generator was found
// within GeneratorIterations attempts.
const ErrGeneratorExhausted Error = "generator derivation exhausted"

// DeriveGenerator derives a second generator from seed by hashing
// seed‖counter, mapping the digest to a scalar, and multiplying the
// base point. Candidates that are zero or fail the point validity
// check are skipped. The result is deterministic for a given seed.
func DeriveGenerator(group curve.Curve, seed []byte) (curve.Point, error) {
	for counter := uint64(0); counter < GeneratorIterations; counter++ {
		h := hash.New("Pedersen Generator")
		if err := h.WriteAny(seed, counter); err != nil {
			return nil, Error(err.Error())
		}
		digest := make([]byte, group.ScalarBytes())
		if _, err := io.ReadFull(h.Digest(), digest); err != nil {
			return nil, Error(err.Error())
		}
		k := curve.FromHash(group, digest)
		if k.IsZero() {
			continue
		}
		candidate := k.ActOnBase()
		if candidate.IsValid() {
			return candidate, nil
		}
	}
	return nil, ErrGeneratorExhausted
}
