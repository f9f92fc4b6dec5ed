package unionfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eggo/internal/value"
)

func TestMakeSetFindIsStable(t *testing.T) {
	u := New()
	a := u.MakeSet()
	b := u.MakeSet()
	assert.Equal(t, a, u.Find(a))
	assert.NotEqual(t, u.Find(a), u.Find(b))
}

func TestUnionMergesSets(t *testing.T) {
	u := New()
	a := u.MakeSet()
	b := u.MakeSet()
	c := u.MakeSet()

	rep := u.Union(a, b)
	assert.Equal(t, u.Find(a), u.Find(b))
	assert.Equal(t, rep, u.Find(a))
	assert.NotEqual(t, u.Find(a), u.Find(c))
	assert.Equal(t, uint64(1), u.NUnions())

	u.Union(b, c)
	assert.Equal(t, u.Find(a), u.Find(c))
	assert.Equal(t, uint64(2), u.NUnions())
}

func TestUnionIdempotentOnSameSet(t *testing.T) {
	u := New()
	a := u.MakeSet()
	b := u.MakeSet()
	u.Union(a, b)
	before := u.NUnions()
	u.Union(a, b)
	assert.Equal(t, before, u.NUnions(), "unioning an already-merged pair must not count as a new union")
}

func TestUnionValuesRequiresIdVariant(t *testing.T) {
	u := New()
	a := u.MakeSet()
	_, err := u.UnionValues(value.IdValue(a), value.IntValue(3))
	require.Error(t, err)
}

func TestUnionValuesMergesRepresentatives(t *testing.T) {
	u := New()
	a := u.MakeSet()
	b := u.MakeSet()
	rep, err := u.UnionValues(value.IdValue(a), value.IdValue(b))
	require.NoError(t, err)
	assert.Equal(t, value.KId, rep.Kind)
	assert.Equal(t, u.Find(a), u.Find(b))
}

func TestNumClassesMonotoneNonIncreasing(t *testing.T) {
	u := New()
	ids := make([]value.ClassId, 5)
	for i := range ids {
		ids[i] = u.MakeSet()
	}
	before := u.NumClasses()
	u.Union(ids[0], ids[1])
	after := u.NumClasses()
	assert.Less(t, after, before)
}
