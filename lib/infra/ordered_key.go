package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
// If future releases of Go add new predeclared unsigned integer types,
// this constraint will be modified to include them.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
// If future releases of Go add new predeclared integer types,
// this constraint will be modified to include them.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// If future releases of Go add new predeclared floating-point types,
// this constraint will be modified to include them.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedComparator is a ready-made Comparator for any ordered key type.
// Assume i is the stored item and j is the incoming one.
//  1. i == j (return 0)
//  2. i > j (return 1)
//  3. i < j (return -1)
func OrderedComparator[K OrderedKey](i, j K) int64 {
	switch {
	case i < j:
		return -1
	case i > j:
		return 1
	default:
		return 0
	}
}
