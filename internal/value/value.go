package value

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ClassId is a dense integer allocated monotonically by the UnionFind.
// Invariant U1 (spec.md §3): once produced, a ClassId is never freed.
type ClassId int64

// Kind tags the four Value variants.
type Kind int

const (
	KUnit Kind = iota
	KInt
	KRational
	KId
)

// Value is the tagged scalar union of spec.md §3. Two values are equal iff
// same tag and same payload; Id payloads compare by raw id, not canonical
// representative — callers that need canonical equality must Find first.
type Value struct {
	Kind Kind
	I    int64
	R    *big.Rat
	Id   ClassId
}

func UnitValue() Value            { return Value{Kind: KUnit} }
func IntValue(i int64) Value      { return Value{Kind: KInt, I: i} }
func IdValue(id ClassId) Value    { return Value{Kind: KId, Id: id} }

// RationalValue copies r so the stored value is never aliased by the caller.
func RationalValue(r *big.Rat) Value {
	return Value{Kind: KRational, R: new(big.Rat).Set(r)}
}

func (v Value) IsSortLike() bool { return v.Kind == KId }

// NumKind reports the numeric kind of v, if it has one.
func (v Value) NumKind() (NumKind, bool) {
	switch v.Kind {
	case KInt:
		return KindInt, true
	case KRational:
		return KindRational, true
	default:
		return 0, false
	}
}

// Equal implements the raw (non-canonicalising) equality of spec.md §3.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KUnit:
		return true
	case KInt:
		return v.I == o.I
	case KRational:
		return v.R.Cmp(o.R) == 0
	case KId:
		return v.Id == o.Id
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KUnit:
		return "()"
	case KInt:
		return strconv.FormatInt(v.I, 10)
	case KRational:
		return v.R.RatString()
	case KId:
		return fmt.Sprintf("#%d", v.Id)
	default:
		return "<bad-value>"
	}
}

// key returns a canonical, comparable encoding used as a map key component;
// two Values that Equal each other always produce the same key.
func (v Value) key() string {
	switch v.Kind {
	case KUnit:
		return "u"
	case KInt:
		return "i" + strconv.FormatInt(v.I, 10)
	case KRational:
		return "r" + v.R.RatString()
	case KId:
		return "c" + strconv.FormatInt(int64(v.Id), 10)
	default:
		return "?"
	}
}

// EncodeValue exposes the canonical per-Value key to other packages (the
// query compiler uses it to identify literal constants as disjoint-set
// elements distinct from variables).
func EncodeValue(v Value) string { return v.key() }

// EncodeTuple builds a canonical map key for a tuple of Values, used by
// FunctionTable to key its node map on argument tuples (spec.md §4.1).
func EncodeTuple(args []Value) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.key())
		b.WriteByte('\x1f')
	}
	return b.String()
}
