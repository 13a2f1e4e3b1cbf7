package confirm

import (
	"time"

	"github.com/kase1111-hash/RRA-Module-sub002/pkg/pricecommit"
	"github.com/shopspring/decimal"
)

// PendingTransaction is owned exclusively by the Registry for its
// lifetime: created on request, mutated only through the defined
// transitions, pruned after reaching a terminal state.
type pendingTransaction struct {
	id       string
	buyer    string
	seller   string
	price    *pricecommit.PriceCommitment
	floor    decimal.Decimal
	target   decimal.Decimal
	level    Level
	required int

	createdAt time.Time
	expiresAt time.Time

	status        Status
	confirmations int
	failReason    string
	doneAt        time.Time
}

// Snapshot is a read-only copy of a transaction's state, for display.
type Snapshot struct {
	ID                    string          `cbor:"1,keyasint"`
	Buyer                 string          `cbor:"2,keyasint"`
	Seller                string          `cbor:"3,keyasint"`
	Amount                decimal.Decimal `cbor:"4,keyasint"`
	Currency              string          `cbor:"5,keyasint"`
	Floor                 decimal.Decimal `cbor:"6,keyasint"`
	Target                decimal.Decimal `cbor:"7,keyasint"`
	PriceHash             []byte          `cbor:"8,keyasint"`
	Level                 Level           `cbor:"9,keyasint"`
	Status                Status          `cbor:"10,keyasint"`
	Confirmations         int             `cbor:"11,keyasint"`
	RequiredConfirmations int             `cbor:"12,keyasint"`
	CreatedAt             time.Time       `cbor:"13,keyasint"`
	ExpiresAt             time.Time       `cbor:"14,keyasint"`
	FailReason            string          `cbor:"15,keyasint,omitempty"`
}

func (t *pendingTransaction) snapshot() Snapshot {
	return Snapshot{
		ID:                    t.id,
		Buyer:                 t.buyer,
		Seller:                t.seller,
		Amount:                t.price.Amount(),
		Currency:              t.price.Currency(),
		Floor:                 t.floor,
		Target:                t.target,
		PriceHash:             t.price.Hash(),
		Level:                 t.level,
		Status:                t.status,
		Confirmations:         t.confirmations,
		RequiredConfirmations: t.required,
		CreatedAt:             t.createdAt,
		ExpiresAt:             t.expiresAt,
		FailReason:            t.failReason,
	}
}
