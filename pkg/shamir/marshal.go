package shamir

import (
	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
)

// shareWire is the portable encoding of a Share.
type shareWire struct {
	Index uint16 `cbor:"1,keyasint"`
	Value []byte `cbor:"2,keyasint"`
}

// MarshalCBOR implements cbor.Marshaler.
func (s Share) MarshalCBOR() ([]byte, error) {
	if s.Index == 0 || s.Value == nil {
		return nil, ErrInvalidShare
	}
	return cbor.Marshal(shareWire{
		Index: uint16(s.Index),
		Value: s.Value.Bytes(),
	})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (s *Share) UnmarshalCBOR(data []byte) error {
	var wire shareWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Index == 0 {
		return ErrInvalidShare
	}
	s.Index = Index(wire.Index)
	s.Value = new(saferith.Nat).SetBytes(wire.Value)
	return nil
}
