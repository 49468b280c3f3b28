package bearing

import (
	"fmt"
	"reflect"
)

// Item addresses one entry of an indexed or keyed container: a map entry by
// key, or a slice/array element by integer index. The name may be any value a
// map can key on.
type Item struct {
	name    any
	factory Factory
}

// NewItem returns an item bearing for the given key or index.
func NewItem(name any) Item {
	return Item{name: name}
}

// WithFactory returns a copy of the bearing carrying a container factory.
func (i Item) WithFactory(f Factory) Item {
	i.factory = f
	return i
}

func (i Item) Kind() Kind       { return KindItem }
func (i Item) Name() any        { return i.name }
func (i Item) Factory() Factory { return i.factory }

func (i Item) String() string { return fmt.Sprintf("[%v]", i.name) }

// Fetch subscripts target with the bearing name. Missing keys and
// out-of-range indexes fail with ErrNullAddress; targets that cannot be
// subscripted at all fail with ErrTypeMismatch.
func (i Item) Fetch(target any) (any, error) {
	v := deref(reflect.ValueOf(target))

	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return nil, fmt.Errorf("%s: %w", i, ErrNullAddress)
		}
		key, err := conv(i.name, v.Type().Key())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", i, ErrNullAddress)
		}
		mv := v.MapIndex(key)
		if !mv.IsValid() {
			return nil, fmt.Errorf("%s: %w", i, ErrNullAddress)
		}
		return mv.Interface(), nil

	case reflect.Slice, reflect.Array:
		idx, ok := toIndex(i.name)
		if !ok {
			return nil, fmt.Errorf("%s: index must be an integer, got %T: %w", i, i.name, ErrTypeMismatch)
		}
		if idx < 0 || idx >= v.Len() {
			return nil, fmt.Errorf("%s: %w", i, ErrNullAddress)
		}
		return v.Index(idx).Interface(), nil

	default:
		return nil, fmt.Errorf("%s: cannot subscript %T: %w", i, target, ErrTypeMismatch)
	}
}

// Place writes value under the bearing name.
//
// Map entries are created or overwritten. Slice elements are overwritten in
// place; an index past the end grows the slice only when target is a pointer
// to the slice (missing elements are filled with zero values), because a
// grown header on a bare slice would be invisible to the caller.
func (i Item) Place(target, value any) error {
	rv := reflect.ValueOf(target)

	// A pointer to a slice allows growth past the current length.
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Slice {
		return i.placeSlice(rv.Elem(), value, true)
	}

	v := deref(rv)
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return fmt.Errorf("%s: nil map: %w", i, ErrNullAddress)
		}
		key, err := conv(i.name, v.Type().Key())
		if err != nil {
			return fmt.Errorf("%s: %w", i, ErrNullAddress)
		}
		val, err := conv(value, v.Type().Elem())
		if err != nil {
			return fmt.Errorf("%s: %w", i, err)
		}
		v.SetMapIndex(key, val)
		return nil

	case reflect.Slice:
		return i.placeSlice(v, value, false)

	case reflect.Array:
		idx, ok := toIndex(i.name)
		if !ok {
			return fmt.Errorf("%s: index must be an integer, got %T: %w", i, i.name, ErrTypeMismatch)
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("%s: %w", i, ErrNullAddress)
		}
		if !v.Index(idx).CanSet() {
			return fmt.Errorf("%s: array is not addressable: %w", i, ErrUnsupported)
		}
		val, err := conv(value, v.Type().Elem())
		if err != nil {
			return fmt.Errorf("%s: %w", i, err)
		}
		v.Index(idx).Set(val)
		return nil

	default:
		return fmt.Errorf("%s: cannot subscript %T: %w", i, target, ErrTypeMismatch)
	}
}

// placeSlice writes into a slice value. growable marks a settable slice
// reached through a pointer, which may be reallocated past its end.
func (i Item) placeSlice(v reflect.Value, value any, growable bool) error {
	idx, ok := toIndex(i.name)
	if !ok {
		return fmt.Errorf("%s: index must be an integer, got %T: %w", i, i.name, ErrTypeMismatch)
	}
	if idx < 0 {
		return fmt.Errorf("%s: %w", i, ErrNullAddress)
	}

	val, err := conv(value, v.Type().Elem())
	if err != nil {
		return fmt.Errorf("%s: %w", i, err)
	}

	if idx < v.Len() {
		v.Index(idx).Set(val)
		return nil
	}

	if !growable {
		return fmt.Errorf("%s: %w", i, ErrNullAddress)
	}

	grown := v
	zero := reflect.Zero(v.Type().Elem())
	for grown.Len() <= idx {
		grown = reflect.Append(grown, zero)
	}
	grown.Index(idx).Set(val)
	v.Set(grown)
	return nil
}
