package field

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrimeField(t *testing.T) {
	t.Run("accepts a prime", func(t *testing.T) {
		f, err := NewPrimeField([]byte{0xfb}) // 251
		require.NoError(t, err)
		assert.Equal(t, 1, f.Bytes())
	})

	t.Run("rejects a composite", func(t *testing.T) {
		_, err := NewPrimeField([]byte{0xff}) // 255 = 3 ⋅ 5 ⋅ 17
		assert.ErrorIs(t, err, ErrNotPrime)
	})

	t.Run("rejects zero and one", func(t *testing.T) {
		_, err := NewPrimeField([]byte{0})
		assert.ErrorIs(t, err, ErrNotPrime)
		_, err = NewPrimeField([]byte{1})
		assert.ErrorIs(t, err, ErrNotPrime)
	})
}

func TestDefault(t *testing.T) {
	f := Default()
	require.NotNil(t, f)
	assert.Equal(t, 32, f.Bytes())
	assert.Same(t, f, Default())
}

func TestInvert(t *testing.T) {
	f := Default()
	x := f.Sample(rand.Reader)
	inv, err := f.Invert(x)
	require.NoError(t, err)

	one := new(saferith.Nat).SetUint64(1)
	assert.EqualValues(t, 1, f.Mul(x, inv).Eq(one))

	_, err = f.Invert(new(saferith.Nat).SetUint64(0))
	assert.ErrorIs(t, err, ErrZeroInverse)
}

func TestBatchInvert(t *testing.T) {
	f := Default()

	xs := make([]*saferith.Nat, 10)
	for i := range xs {
		xs[i] = f.Sample(rand.Reader)
	}
	inverted, err := f.BatchInvert(xs)
	require.NoError(t, err)
	require.Len(t, inverted, len(xs))

	for i, x := range xs {
		expected, err := f.Invert(x)
		require.NoError(t, err)
		assert.EqualValues(t, 1, inverted[i].Eq(expected), "batch result %d differs from serial inversion", i)
	}
}

func TestBatchInvertZero(t *testing.T) {
	f := Default()
	xs := []*saferith.Nat{
		f.Sample(rand.Reader),
		new(saferith.Nat).SetUint64(0),
		f.Sample(rand.Reader),
	}
	_, err := f.BatchInvert(xs)
	assert.ErrorIs(t, err, ErrZeroInverse)
}

func TestBatchInvertEmpty(t *testing.T) {
	f := Default()
	out, err := f.BatchInvert(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExp(t *testing.T) {
	f := Default()
	x := f.Sample(rand.Reader)
	three := new(saferith.Nat).SetUint64(3)
	expected := f.Mul(f.Mul(x, x), x)
	assert.EqualValues(t, 1, f.Exp(x, three).Eq(expected))
}

func TestSampleInRange(t *testing.T) {
	f := Default()
	for i := 0; i < 32; i++ {
		assert.True(t, f.InRange(f.Sample(rand.Reader)))
	}
}

func TestFillBytesWidth(t *testing.T) {
	f := Default()
	b := f.FillBytes(new(saferith.Nat).SetUint64(7))
	require.Len(t, b, f.Bytes())
	assert.Equal(t, byte(7), b[len(b)-1])
}

func TestSubWrapsAround(t *testing.T) {
	f := Default()
	two := new(saferith.Nat).SetUint64(2)
	five := new(saferith.Nat).SetUint64(5)
	got := f.Add(f.Sub(two, five), new(saferith.Nat).SetUint64(3))
	assert.True(t, f.IsZero(got))
}
