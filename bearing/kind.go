package bearing

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind identifies the access pattern a bearing performs on its target.
type Kind int

const (
	KindUnknown Kind = iota

	// KindItem subscripts the target with the bearing name (map key or
	// slice/array index).
	KindItem
	// KindAttr reads or writes an exported struct field.
	KindAttr
	// KindCall invokes a zero-argument method and uses its first return.
	KindCall
	// KindFallback dispatches through an ordered list of other variants.
	KindFallback

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// rank is the primary sort key of a bearing. Registered custom variants sort
// between the built-in kinds and the fallback kind.
func rank(b Bearing) int {
	switch b.Kind() {
	case KindItem:
		return 0
	case KindAttr:
		return 1
	case KindCall:
		return 2
	case KindFallback:
		return 4
	default:
		return 3
	}
}
