// Package bearing implements single-step typed addresses into nested Go data.
//
// A bearing couples an access kind (map/slice item, struct field, zero-arg
// method call, or ordered fallback dispatch) with a name, and knows how to
// fetch and place values through that access. Bearings are the primitive that
// courses, compasses and surveyors are built from.
package bearing

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrFormat reports a shorthand string that matches no variant pattern.
	ErrFormat = errors.New("text does not match bearing shorthand")
	// ErrTypeMismatch reports a name or target whose type the variant disallows.
	ErrTypeMismatch = errors.New("type not allowed for bearing")
	// ErrNullAddress reports an address that does not exist on the target.
	ErrNullAddress = errors.New("bearing not found on target")
	// ErrUnsupported reports an operation the bearing kind has no semantics for.
	ErrUnsupported = errors.New("operation not supported by bearing")
)

// Factory builds an empty container. A bearing that carries a factory can
// materialize missing structure during a place walk.
type Factory func() any

// Bearing is a one-step address with fetch and place semantics.
//
// Implementations are immutable values; every operation on a target leaves the
// bearing itself unchanged. Custom variants implement this interface and are
// registered through a Variant (see Resolve).
type Bearing interface {
	// Kind reports the access pattern of the variant.
	Kind() Kind
	// Name is the key, index, field or method name the bearing acts on.
	Name() any
	// Factory returns the container factory, or nil when none was attached.
	Factory() Factory
	// Fetch reads the addressed value from target. A missing address fails
	// with ErrNullAddress.
	Fetch(target any) (any, error)
	// Place writes value at the address on target.
	Place(target, value any) error
	// String renders the canonical shorthand of the bearing.
	String() string
}

// Equal reports whether two bearings address the same location.
//
// Names must always match. Matching kinds are equal; otherwise a fallback
// bearing equals any bearing whose kind appears in its own dispatch list. The
// relation is asymmetric by configuration: two fallbacks with different lists
// may disagree, and a fallback with an empty list equals nothing but itself.
func Equal(a, b Bearing) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !nameEqual(a.Name(), b.Name()) {
		return false
	}
	if a.Kind() == b.Kind() {
		return true
	}
	if fa, ok := a.(Fallback); ok && fa.equates(b.Kind()) {
		return true
	}
	if fb, ok := b.(Fallback); ok && fb.equates(a.Kind()) {
		return true
	}
	return false
}

// Compare is a total order over bearings for deterministic iteration.
//
// Primary key is the variant rank (item < attr < call < custom < fallback),
// then the variant's own type name (orders custom variants among themselves),
// then the name's dynamic type name, then the name's natural ordering within
// that type.
func Compare(a, b Bearing) int {
	if c := cmp.Compare(rank(a), rank(b)); c != 0 {
		return c
	}
	if c := strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)); c != 0 {
		return c
	}
	an, bn := a.Name(), b.Name()
	if c := strings.Compare(typeName(an), typeName(bn)); c != 0 {
		return c
	}
	return compareNames(an, bn)
}

func nameEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func typeName(name any) string {
	if name == nil {
		return ""
	}
	return reflect.TypeOf(name).String()
}

// compareNames orders two names of the same dynamic type.
func compareNames(a, b any) int {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// New is the generic constructor. It enforces the variant's legal name types:
// item and fallback accept any name, attr and call require a string.
//
// The typed constructors (NewItem, NewAttr, NewCall, NewFallback) are
// preferred when the kind is known at compile time.
func New(kind Kind, name any) (Bearing, error) {
	switch kind {
	case KindItem:
		return NewItem(name), nil
	case KindAttr:
		s, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("attr name must be a string, got %T: %w", name, ErrTypeMismatch)
		}
		return NewAttr(s), nil
	case KindCall:
		s, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("call name must be a string, got %T: %w", name, ErrTypeMismatch)
		}
		return NewCall(s), nil
	case KindFallback:
		return NewFallback(name), nil
	default:
		return nil, fmt.Errorf("unknown bearing kind %v: %w", kind, ErrTypeMismatch)
	}
}

// deref unwraps pointers until a non-pointer value or a nil pointer is hit.
func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return deref(v.Elem())
	}
	return v
}

// conv adapts value for assignment into a slot of type t. Assignable values
// pass through, numeric values convert between numeric kinds, everything else
// is a type mismatch.
func conv(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot store nil into %s: %w", t, ErrTypeMismatch)
		}
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		return rv.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot store %T into %s: %w", value, t, ErrTypeMismatch)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
}

// toIndex extracts an integer index from a bearing name.
func toIndex(name any) (int, bool) {
	switch n := name.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}
