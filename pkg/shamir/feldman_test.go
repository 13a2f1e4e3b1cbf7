package shamir_test

import (
	"crypto/rand"
	"testing"

	"github.com/kase1111-hash/RRA-Module-sub002/internal/pool"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/curve"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/math/field"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGroup(t *testing.T) curve.Curve {
	t.Helper()
	group, err := curve.Secp256k1Group()
	require.NoError(t, err)
	return group
}

func TestSplitVerifiable(t *testing.T) {
	group := mustGroup(t)
	f := field.Default()
	secret := testSecret(t)

	shares, commitments, err := shamir.SplitVerifiable(rand.Reader, group, f, secret, 3, 5)
	require.NoError(t, err)
	require.Len(t, shares, 5)
	require.Len(t, commitments, 3, "one commitment per polynomial coefficient")

	for _, share := range shares {
		assert.True(t, shamir.VerifyShare(group, share, commitments).Ok())
	}

	// The shares still reconstruct.
	got, err := shamir.Reconstruct(f, shares[:3], 3)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestSplitVerifiableFieldMismatch(t *testing.T) {
	group := mustGroup(t)
	small, err := field.NewPrimeField([]byte{0xfb})
	require.NoError(t, err)

	_, _, err = shamir.SplitVerifiable(rand.Reader, group, small, []byte{7}, 2, 3)
	assert.ErrorIs(t, err, shamir.ErrFieldMismatch)
}

func TestVerifyShareTampered(t *testing.T) {
	group := mustGroup(t)
	f := field.Default()

	shares, commitments, err := shamir.SplitVerifiable(rand.Reader, group, f, testSecret(t), 2, 3)
	require.NoError(t, err)

	tampered := shares[0]
	tampered.Value = f.Add(tampered.Value, f.Sample(rand.Reader))
	result := shamir.VerifyShare(group, tampered, commitments)
	assert.Equal(t, shamir.ShareInvalid, result)
	assert.False(t, result.Ok())

	swapped := shares[0]
	swapped.Index = shares[1].Index
	assert.Equal(t, shamir.ShareInvalid, shamir.VerifyShare(group, swapped, commitments))
}

func TestVerifyShareFailsClosed(t *testing.T) {
	group := mustGroup(t)
	f := field.Default()

	shares, commitments, err := shamir.SplitVerifiable(rand.Reader, group, f, testSecret(t), 2, 3)
	require.NoError(t, err)

	t.Run("no commitments", func(t *testing.T) {
		result := shamir.VerifyShare(group, shares[0], nil)
		assert.Equal(t, shamir.ShareError, result)
		assert.False(t, result.Ok())
	})

	t.Run("nil commitment point", func(t *testing.T) {
		bad := []curve.Point{commitments[0], nil}
		assert.Equal(t, shamir.ShareError, shamir.VerifyShare(group, shares[0], bad))
	})

	t.Run("identity commitment point", func(t *testing.T) {
		bad := []curve.Point{commitments[0], group.NewPoint()}
		assert.Equal(t, shamir.ShareError, shamir.VerifyShare(group, shares[0], bad))
	})

	t.Run("zero index", func(t *testing.T) {
		bad := shares[0]
		bad.Index = 0
		assert.Equal(t, shamir.ShareError, shamir.VerifyShare(group, bad, commitments))
	})

	t.Run("nil value", func(t *testing.T) {
		bad := shares[0]
		bad.Value = nil
		assert.Equal(t, shamir.ShareError, shamir.VerifyShare(group, bad, commitments))
	})
}

func TestVerifyResultZeroValue(t *testing.T) {
	var r shamir.VerifyResult
	assert.Equal(t, shamir.ShareError, r)
	assert.False(t, r.Ok())
	assert.Equal(t, "error", r.String())
}

func TestVerifyShares(t *testing.T) {
	group := mustGroup(t)
	f := field.Default()

	shares, commitments, err := shamir.SplitVerifiable(rand.Reader, group, f, testSecret(t), 3, 6)
	require.NoError(t, err)

	shares[2].Value = f.Add(shares[2].Value, f.Sample(rand.Reader))

	pl := pool.NewPool(0)
	defer pl.TearDown()

	for _, p := range []*pool.Pool{pl, nil} {
		results := shamir.VerifyShares(p, group, shares, commitments)
		require.Len(t, results, len(shares))
		for i, r := range results {
			if i == 2 {
				assert.Equal(t, shamir.ShareInvalid, r)
			} else {
				assert.Equal(t, shamir.ShareValid, r)
			}
		}
	}
}
