package bearing

import (
	"fmt"
	"reflect"
)

// Call addresses the result of a zero-argument method. The method is invoked
// only when a call bearing is explicitly walked, never during generic
// enumeration, so traversal cannot trigger side effects by accident.
type Call struct {
	name string
}

// NewCall returns a call bearing for the given method name.
func NewCall(name string) Call {
	return Call{name: name}
}

func (c Call) Kind() Kind       { return KindCall }
func (c Call) Name() any        { return c.name }
func (c Call) Factory() Factory { return nil }

func (c Call) String() string { return c.name + "()" }

// Fetch invokes the named method on target and returns its first result. A
// trailing error result, when non-nil, is propagated instead. Methods taking
// arguments are rejected.
func (c Call) Fetch(target any) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("%s: %w", c, ErrNullAddress)
	}

	m := reflect.ValueOf(target).MethodByName(c.name)
	if !m.IsValid() {
		return nil, fmt.Errorf("%s: %w", c, ErrNullAddress)
	}
	if m.Type().NumIn() != 0 {
		return nil, fmt.Errorf("%s: method takes arguments: %w", c, ErrUnsupported)
	}

	out := m.Call(nil)
	if len(out) == 0 {
		return nil, nil
	}
	if last := out[len(out)-1]; len(out) > 1 && last.Type() == errType && !last.IsNil() {
		return nil, fmt.Errorf("%s: %w", c, last.Interface().(error))
	}
	return out[0].Interface(), nil
}

// Place fails: a method call has no generic write semantics.
func (c Call) Place(target, value any) error {
	return fmt.Errorf("%s: cannot place through a call: %w", c, ErrUnsupported)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()
