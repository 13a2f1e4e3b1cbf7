package params

const (
	// SecParam is the bit strength the core is calibrated for.
	SecParam = 256
	// SecBytes is the byte length of secrets, nonces and scalars.
	SecBytes = SecParam / 8
	// HashBytes is the default digest length produced by hash.Sum.
	HashBytes = 2 * SecBytes
	// PointBytes is the length of an uncompressed x‖y curve point.
	PointBytes = 2 * SecBytes
	// NonceBytes is the length of the nonce bound into a price commitment.
	NonceBytes = SecBytes
)
