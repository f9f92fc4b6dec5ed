package primitives

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eggo/internal/value"
)

func TestIntegerDispatch(t *testing.T) {
	r := NewRegistry()
	prim, known, err := r.Lookup(value.Intern("+"), []value.Value{value.IntValue(1), value.IntValue(2)})
	require.True(t, known)
	require.NoError(t, err)
	assert.Equal(t, int64(3), prim.Apply([]value.Value{value.IntValue(1), value.IntValue(2)}).I)
}

func TestRationalDispatch(t *testing.T) {
	r := NewRegistry()
	a := value.RationalValue(big.NewRat(1, 2))
	b := value.RationalValue(big.NewRat(1, 3))
	prim, known, err := r.Lookup(value.Intern("+"), []value.Value{a, b})
	require.True(t, known)
	require.NoError(t, err)
	out := prim.Apply([]value.Value{a, b})
	assert.Equal(t, "5/6", out.R.RatString())
}

func TestUnknownPrimitiveNotAnError(t *testing.T) {
	r := NewRegistry()
	_, known, err := r.Lookup(value.Intern("frobnicate"), nil)
	assert.False(t, known)
	assert.NoError(t, err)
}

func TestMismatchedArgsIsNotFound(t *testing.T) {
	r := NewRegistry()
	_, known, err := r.Lookup(value.Intern("+"), []value.Value{value.IntValue(1), value.UnitValue()})
	assert.True(t, known)
	require.Error(t, err)
}

func TestMaxMin(t *testing.T) {
	r := NewRegistry()
	maxPrim, _, err := r.Lookup(value.Intern("max"), []value.Value{value.IntValue(3), value.IntValue(7)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), maxPrim.Apply([]value.Value{value.IntValue(3), value.IntValue(7)}).I)

	minPrim, _, err := r.Lookup(value.Intern("min"), []value.Value{value.IntValue(3), value.IntValue(7)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), minPrim.Apply([]value.Value{value.IntValue(3), value.IntValue(7)}).I)
}
