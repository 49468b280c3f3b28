package bearing

import (
	"fmt"
	"reflect"
)

// Attr addresses an exported struct field by name.
type Attr struct {
	name    string
	factory Factory
}

// NewAttr returns an attribute bearing for the given field name.
func NewAttr(name string) Attr {
	return Attr{name: name}
}

// WithFactory returns a copy of the bearing carrying a container factory.
func (a Attr) WithFactory(f Factory) Attr {
	a.factory = f
	return a
}

func (a Attr) Kind() Kind       { return KindAttr }
func (a Attr) Name() any        { return a.name }
func (a Attr) Factory() Factory { return a.factory }

func (a Attr) String() string { return "@" + a.name }

// Fetch reads the field from a struct or struct pointer. Unknown and
// unexported fields fail with ErrNullAddress.
func (a Attr) Fetch(target any) (any, error) {
	v := deref(reflect.ValueOf(target))
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s: %T has no fields: %w", a, target, ErrTypeMismatch)
	}

	field, ok := v.Type().FieldByName(a.name)
	if !ok || !field.IsExported() {
		return nil, fmt.Errorf("%s: %w", a, ErrNullAddress)
	}
	return v.FieldByIndex(field.Index).Interface(), nil
}

// Place writes the field on a struct pointer. Fields cannot be declared
// through a place: an unknown field fails with ErrNullAddress, and a
// function-typed field refuses the write.
func (a Attr) Place(target, value any) error {
	v := deref(reflect.ValueOf(target))
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%s: %T has no fields: %w", a, target, ErrTypeMismatch)
	}
	if !v.CanSet() {
		return fmt.Errorf("%s: %T is not addressable, pass a pointer: %w", a, target, ErrUnsupported)
	}

	field, ok := v.Type().FieldByName(a.name)
	if !ok || !field.IsExported() {
		return fmt.Errorf("%s: %w", a, ErrNullAddress)
	}
	slot := v.FieldByIndex(field.Index)
	if slot.Kind() == reflect.Func {
		return fmt.Errorf("%s: field is callable: %w", a, ErrUnsupported)
	}

	val, err := conv(value, slot.Type())
	if err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	slot.Set(val)
	return nil
}
