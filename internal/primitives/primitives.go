// Package primitives registers the fixed numeric primitive set of spec.md
// §6, playing the role the teacher's internal/stdlib module registry plays
// for std::evm/std::ascii: a lookup table from operator symbol to the set of
// concrete implementations dispatched on by runtime argument type.
package primitives

import (
	"math/big"

	"eggo/internal/errors"
	"eggo/internal/value"
)

// Fn applies a primitive to already-evaluated argument values.
type Fn func(args []value.Value) value.Value

// Primitive is one concrete implementation of an operator symbol for a
// specific tuple of numeric input kinds.
type Primitive struct {
	Input  []value.NumKind
	Output value.NumKind
	Apply  Fn
}

// Accepts reports whether args' runtime numeric kinds match this
// implementation's declared input kinds, positionally.
func (p Primitive) Accepts(args []value.Value) bool {
	if len(args) != len(p.Input) {
		return false
	}
	for i, want := range p.Input {
		got, ok := args[i].NumKind()
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Registry maps an operator symbol to its candidate implementations.
type Registry struct {
	prims map[value.Symbol][]Primitive
}

// NewRegistry returns a registry pre-loaded with the fixed primitive set:
// binary +, -, *, max, min over Int->Int and Rational->Rational.
func NewRegistry() *Registry {
	r := &Registry{prims: make(map[value.Symbol][]Primitive)}
	r.register("+", intBinary(func(a, b int64) int64 { return a + b }), ratBinary(func(a, b *big.Rat) *big.Rat {
		return new(big.Rat).Add(a, b)
	}))
	r.register("-", intBinary(func(a, b int64) int64 { return a - b }), ratBinary(func(a, b *big.Rat) *big.Rat {
		return new(big.Rat).Sub(a, b)
	}))
	r.register("*", intBinary(func(a, b int64) int64 { return a * b }), ratBinary(func(a, b *big.Rat) *big.Rat {
		return new(big.Rat).Mul(a, b)
	}))
	r.register("max", intBinary(func(a, b int64) int64 {
		if a > b {
			return a
		}
		return b
	}), ratBinary(func(a, b *big.Rat) *big.Rat {
		if a.Cmp(b) >= 0 {
			return a
		}
		return b
	}))
	r.register("min", intBinary(func(a, b int64) int64 {
		if a < b {
			return a
		}
		return b
	}), ratBinary(func(a, b *big.Rat) *big.Rat {
		if a.Cmp(b) <= 0 {
			return a
		}
		return b
	}))
	return r
}

func (r *Registry) register(name string, intImpl, ratImpl Primitive) {
	sym := value.Intern(name)
	r.prims[sym] = []Primitive{intImpl, ratImpl}
}

func intBinary(op func(a, b int64) int64) Primitive {
	return Primitive{
		Input:  []value.NumKind{value.KindInt, value.KindInt},
		Output: value.KindInt,
		Apply: func(args []value.Value) value.Value {
			return value.IntValue(op(args[0].I, args[1].I))
		},
	}
}

func ratBinary(op func(a, b *big.Rat) *big.Rat) Primitive {
	return Primitive{
		Input:  []value.NumKind{value.KindRational, value.KindRational},
		Output: value.KindRational,
		Apply: func(args []value.Value) value.Value {
			return value.RationalValue(op(args[0].R, args[1].R))
		},
	}
}

// Lookup finds the unique primitive implementation of op whose declared
// input kinds match args' runtime kinds (spec.md §4.3). Zero or more than
// one match is an error.
func (r *Registry) Lookup(op value.Symbol, args []value.Value) (Primitive, bool, error) {
	candidates, ok := r.prims[op]
	if !ok {
		return Primitive{}, false, nil
	}
	var match *Primitive
	for i := range candidates {
		if candidates[i].Accepts(args) {
			if match != nil {
				return Primitive{}, true, errors.PrimitiveAmbiguityf(nil, "multiple implementations of primitive %q match the given argument types", op)
			}
			match = &candidates[i]
		}
	}
	if match == nil {
		return Primitive{}, true, errors.NotFoundf(nil, "no implementation of primitive %q matches the given argument types", op)
	}
	return *match, true, nil
}

// Has reports whether op names a registered primitive at all (regardless of
// whether any overload matches a particular call).
func (r *Registry) Has(op value.Symbol) bool {
	_, ok := r.prims[op]
	return ok
}
