package value

// NumKind distinguishes the two numeric value representations.
type NumKind int

const (
	KindInt NumKind = iota
	KindRational
)

func (k NumKind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindRational:
		return "Rational"
	default:
		return "<bad-num-kind>"
	}
}

// TypeTag is the shape of a Type: Unit, a declared Sort, or a Num kind.
type TypeTag int

const (
	TagUnit TypeTag = iota
	TagSort
	TagNum
)

// Type is `Unit | Sort(Symbol) | Num(NumKind)` from spec.md §3.
type Type struct {
	Tag  TypeTag
	Sort Symbol
	Num  NumKind
}

func Unit() Type              { return Type{Tag: TagUnit} }
func SortType(s Symbol) Type  { return Type{Tag: TagSort, Sort: s} }
func NumType(k NumKind) Type  { return Type{Tag: TagNum, Num: k} }
func IntType() Type           { return NumType(KindInt) }
func RationalType() Type      { return NumType(KindRational) }

// IsSortLike reports whether t is Sort(_), per spec.md §3.
func (t Type) IsSortLike() bool { return t.Tag == TagSort }

func (t Type) Equal(o Type) bool {
	if t.Tag != o.Tag {
		return false
	}
	switch t.Tag {
	case TagSort:
		return t.Sort == o.Sort
	case TagNum:
		return t.Num == o.Num
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Tag {
	case TagUnit:
		return "Unit"
	case TagSort:
		return t.Sort.String()
	case TagNum:
		return t.Num.String()
	default:
		return "<bad-type>"
	}
}
