package pricecommit

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/kase1111-hash/RRA-Module-sub002/internal/params"
	"github.com/shopspring/decimal"
)

// ErrTampered is returned when a deserialized commitment's hash does
// not match its fields.
const ErrTampered Error = "commitment hash does not match its fields"

// priceWire is the portable encoding of a PriceCommitment. The
// timestamp travels as an RFC 3339 nanosecond string so that the exact
// value fed into the hash survives the round trip.
type priceWire struct {
	Amount    string `cbor:"1,keyasint"`
	Currency  string `cbor:"2,keyasint"`
	Timestamp string `cbor:"3,keyasint"`
	Nonce     []byte `cbor:"4,keyasint"`
	Hash      []byte `cbor:"5,keyasint"`
}

// MarshalCBOR implements cbor.Marshaler.
func (pc *PriceCommitment) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(priceWire{
		Amount:    pc.amount.String(),
		Currency:  pc.currency,
		Timestamp: pc.timestamp.UTC().Format(time.RFC3339Nano),
		Nonce:     pc.nonce[:],
		Hash:      pc.hash,
	})
}

// UnmarshalCBOR implements cbor.Unmarshaler. The stored hash is
// recomputed from the decoded fields; a mismatch is rejected as
// ErrTampered rather than loaded.
func (pc *PriceCommitment) UnmarshalCBOR(data []byte) error {
	var wire priceWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(wire.Amount)
	if err != nil {
		return fmt.Errorf("pricecommit: amount: %w", err)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, wire.Timestamp)
	if err != nil {
		return fmt.Errorf("pricecommit: timestamp: %w", err)
	}
	if wire.Currency == "" {
		return ErrEmptyCurrency
	}
	if len(wire.Nonce) != params.NonceBytes {
		return fmt.Errorf("pricecommit: nonce: incorrect length %d", len(wire.Nonce))
	}
	decoded := PriceCommitment{
		amount:    amount,
		currency:  wire.Currency,
		timestamp: timestamp.UTC(),
		hash:      wire.Hash,
	}
	copy(decoded.nonce[:], wire.Nonce)
	recomputed := commitmentHash(decoded.amount, decoded.currency, decoded.timestamp, decoded.nonce[:])
	if subtle.ConstantTimeCompare(recomputed, decoded.hash) != 1 {
		return ErrTampered
	}
	*pc = decoded
	return nil
}
