package value

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternIsStable(t *testing.T) {
	a := Intern("foo")
	b := Intern("foo")
	c := Intern("bar")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "foo", a.String())
}

func TestValueEquality(t *testing.T) {
	assert.True(t, IntValue(3).Equal(IntValue(3)))
	assert.False(t, IntValue(3).Equal(IntValue(4)))
	assert.False(t, IntValue(3).Equal(UnitValue()))

	r1 := RationalValue(big.NewRat(1, 2))
	r2 := RationalValue(big.NewRat(2, 4))
	assert.True(t, r1.Equal(r2), "rationals should compare by reduced value")

	assert.True(t, IdValue(5).Equal(IdValue(5)))
	assert.False(t, IdValue(5).Equal(IdValue(6)))
}

func TestEncodeTupleCanonical(t *testing.T) {
	a := EncodeTuple([]Value{IntValue(1), IdValue(2)})
	b := EncodeTuple([]Value{IntValue(1), IdValue(2)})
	c := EncodeTuple([]Value{IntValue(1), IdValue(3)})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestTypeIsSortLike(t *testing.T) {
	s := SortType(Intern("Math"))
	assert.True(t, s.IsSortLike())
	assert.False(t, Unit().IsSortLike())
	assert.False(t, IntType().IsSortLike())
}
