// Package pricecommit binds a price to a currency, timestamp and nonce
// through a hash commitment. A commitment is immutable: any price
// change requires a brand-new commitment, which is what makes
// post-agreement tampering detectable.
package pricecommit

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"time"

	"github.com/kase1111-hash/RRA-Module-sub002/internal/hash"
	"github.com/kase1111-hash/RRA-Module-sub002/internal/params"
	"github.com/shopspring/decimal"
)

type Error string

func (e Error) Error() string { return "pricecommit: " + string(e) }

const (
	ErrEmptyCurrency  Error = "currency must not be empty"
	ErrNegativeAmount Error = "amount must not be negative"
)

// AmountPrecision is the number of decimal places in the canonical
// amount representation fed into the hash. Amounts are committed as
// fixed-precision decimal strings, never as binary floating point, so
// the representation is identical on every platform.
const AmountPrecision = 18

// PriceCommitment is an immutable hash binding of
// (amount, currency, timestamp, nonce).
type PriceCommitment struct {
	amount    decimal.Decimal
	currency  string
	timestamp time.Time
	nonce     [params.NonceBytes]byte
	hash      []byte
}

// Amount returns the committed amount.
func (pc *PriceCommitment) Amount() decimal.Decimal { return pc.amount }

// Currency returns the committed currency code.
func (pc *PriceCommitment) Currency() string { return pc.currency }

// Timestamp returns the creation time captured in the commitment.
func (pc *PriceCommitment) Timestamp() time.Time { return pc.timestamp }

// Nonce returns a copy of the 32-byte commitment nonce.
func (pc *PriceCommitment) Nonce() []byte {
	out := make([]byte, len(pc.nonce))
	copy(out, pc.nonce[:])
	return out
}

// Hash returns a copy of the opaque commitment hash.
func (pc *PriceCommitment) Hash() []byte {
	out := make([]byte, len(pc.hash))
	copy(out, pc.hash)
	return out
}

// Verify recomputes the hash for the candidate price using the stored
// timestamp and nonce, and compares it to the stored hash in constant
// time.
func (pc *PriceCommitment) Verify(candidateAmount decimal.Decimal, candidateCurrency string) bool {
	if pc == nil || len(pc.hash) == 0 {
		return false
	}
	recomputed := commitmentHash(candidateAmount, candidateCurrency, pc.timestamp, pc.nonce[:])
	return subtle.ConstantTimeCompare(recomputed, pc.hash) == 1
}

// Engine creates price commitments from an injected clock and random
// source. It is stateless and safe for concurrent use.
type Engine struct {
	rand io.Reader
	now  func() time.Time
}

// New returns an Engine backed by crypto/rand and the system clock.
func New() *Engine {
	return NewWithSources(nil, nil)
}

// NewWithSources returns an Engine with an explicit random source and
// clock. Nil arguments fall back to crypto/rand and time.Now.
func NewWithSources(random io.Reader, now func() time.Time) *Engine {
	if random == nil {
		random = rand.Reader
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{rand: random, now: now}
}

// Create commits to (amount, currency) at the current time under a
// fresh 32-byte nonce.
func (e *Engine) Create(amount decimal.Decimal, currency string) (*PriceCommitment, error) {
	if currency == "" {
		return nil, ErrEmptyCurrency
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	pc := &PriceCommitment{
		amount:    amount,
		currency:  currency,
		timestamp: e.now().UTC(),
	}
	if _, err := io.ReadFull(e.rand, pc.nonce[:]); err != nil {
		return nil, fmt.Errorf("pricecommit: nonce generation: %w", err)
	}
	pc.hash = commitmentHash(pc.amount, pc.currency, pc.timestamp, pc.nonce[:])
	return pc, nil
}

// commitmentHash computes H(amountRepr‖currency‖timestampISO‖nonce)
// with domain separation between the fields.
func commitmentHash(amount decimal.Decimal, currency string, timestamp time.Time, nonce []byte) []byte {
	h := hash.New("Price Commitment")
	_ = h.WriteAny(
		amount.StringFixed(AmountPrecision),
		currency,
		timestamp.UTC().Format(time.RFC3339Nano),
		nonce,
	)
	out := make([]byte, params.SecBytes)
	if _, err := io.ReadFull(h.Digest(), out); err != nil {
		panic(fmt.Sprintf("pricecommit: internal hash failure: %v", err))
	}
	return out
}
