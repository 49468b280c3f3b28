// Package compass implements per-object navigation strategies.
//
// A compass decides whether one object can be navigated and, if so,
// enumerates every (bearing, value) child reachable from it in a single
// step. Compasses hold only their own configuration and are safe to reuse
// across any number of traversals.
package compass

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"cartograph/bearing"
)

// ErrNonNavigable reports a target no compass configuration accepts.
var ErrNonNavigable = errors.New("target cannot be navigated")

// Pair is one enumerated child: the bearing that reaches it and its value.
type Pair struct {
	Bearing bearing.Bearing
	Value   any
}

// Compass enumerates the one-step children of objects it accepts.
//
// Three categories can be exposed, each independently configurable: map and
// slice entries as item bearings, exported non-callable struct fields as attr
// bearings, and explicitly named zero-argument methods as call bearings.
// Methods are invoked only when allow-listed by name, never discovered, so
// enumeration cannot run arbitrary side effects.
type Compass struct {
	targetTypes []reflect.Type
	targetKinds []reflect.Kind
	predicate   func(target any) bool

	items rule
	attrs rule
	calls rule
}

// rule configures one enumeration category. With no names and no globs every
// name passes.
type rule struct {
	enabled bool
	names   []any
	globs   []string
}

func (r rule) allows(name any) bool {
	if len(r.names) == 0 && len(r.globs) == 0 {
		return true
	}
	if slices.ContainsFunc(r.names, func(n any) bool { return reflect.DeepEqual(n, name) }) {
		return true
	}
	if s, ok := name.(string); ok {
		for _, g := range r.globs {
			if ok, err := doublestar.Match(g, s); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Option configures a Compass.
type Option func(*Compass)

// New returns a compass. Without options it accepts every target and exposes
// all items and attrs; calls are off until allow-listed.
func New(opts ...Option) *Compass {
	c := &Compass{
		items: rule{enabled: true},
		attrs: rule{enabled: true},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TargetTypes restricts the compass to exact runtime types.
func TargetTypes(types ...reflect.Type) Option {
	return func(c *Compass) { c.targetTypes = append(c.targetTypes, types...) }
}

// TargetKinds restricts the compass to reflect kinds (e.g. reflect.Map
// accepts every map type).
func TargetKinds(kinds ...reflect.Kind) Option {
	return func(c *Compass) { c.targetKinds = append(c.targetKinds, kinds...) }
}

// Predicate adds an arbitrary acceptance check on top of the type filter.
func Predicate(fn func(target any) bool) Option {
	return func(c *Compass) { c.predicate = fn }
}

// Items toggles enumeration of map entries and slice elements.
func Items(enabled bool) Option {
	return func(c *Compass) { c.items.enabled = enabled }
}

// ItemNames allow-lists the item names to expose.
func ItemNames(names ...any) Option {
	return func(c *Compass) { c.items.names = append(c.items.names, names...) }
}

// ItemGlobs allow-lists string item names by doublestar pattern.
func ItemGlobs(patterns ...string) Option {
	return func(c *Compass) { c.items.globs = append(c.items.globs, patterns...) }
}

// Attrs toggles enumeration of exported struct fields.
func Attrs(enabled bool) Option {
	return func(c *Compass) { c.attrs.enabled = enabled }
}

// AttrNames allow-lists the field names to expose.
func AttrNames(names ...string) Option {
	return func(c *Compass) {
		for _, n := range names {
			c.attrs.names = append(c.attrs.names, n)
		}
	}
}

// AttrGlobs allow-lists field names by doublestar pattern.
func AttrGlobs(patterns ...string) Option {
	return func(c *Compass) { c.attrs.globs = append(c.attrs.globs, patterns...) }
}

// Calls allow-lists zero-argument methods to invoke and expose. Naming a
// method is the only way to enumerate it.
func Calls(names ...string) Option {
	return func(c *Compass) {
		c.calls.enabled = true
		for _, n := range names {
			c.calls.names = append(c.calls.names, n)
		}
	}
}

// Navigable reports whether the compass accepts target: non-nil, passing the
// type and kind filters (an empty filter accepts everything) and the extra
// predicate.
func (c *Compass) Navigable(target any) bool {
	if target == nil {
		return false
	}
	if len(c.targetTypes) > 0 || len(c.targetKinds) > 0 {
		t := reflect.TypeOf(target)
		if !slices.Contains(c.targetTypes, t) && !slices.Contains(c.targetKinds, t.Kind()) {
			return false
		}
	}
	if c.predicate != nil && !c.predicate(target) {
		return false
	}
	return true
}

// Bearings enumerates all children of target eagerly, in enumeration order:
// items, then attrs, then calls.
func (c *Compass) Bearings(target any) ([]Pair, error) {
	seq, err := c.BearingsSeq(target)
	if err != nil {
		return nil, err
	}
	var out []Pair
	for b, v := range seq {
		out = append(out, Pair{Bearing: b, Value: v})
	}
	return out, nil
}

// BearingsSeq is the lazy form of Bearings. Every call returns a fresh,
// restartable single-pass iterator. The navigability check happens up front.
func (c *Compass) BearingsSeq(target any) (iter.Seq2[bearing.Bearing, any], error) {
	if !c.Navigable(target) {
		return nil, fmt.Errorf("%T: %w", target, ErrNonNavigable)
	}
	return func(yield func(bearing.Bearing, any) bool) {
		if !c.yieldItems(target, yield) {
			return
		}
		if !c.yieldAttrs(target, yield) {
			return
		}
		c.yieldCalls(target, yield)
	}, nil
}

// yieldItems walks map entries (keys sorted with the bearing order, Go maps
// iterate randomly) and slice/array elements positionally.
func (c *Compass) yieldItems(target any, yield func(bearing.Bearing, any) bool) bool {
	if !c.items.enabled {
		return true
	}

	v := indirect(reflect.ValueOf(target))
	switch v.Kind() {
	case reflect.Map:
		items := make([]bearing.Item, 0, v.Len())
		for _, key := range v.MapKeys() {
			items = append(items, bearing.NewItem(key.Interface()))
		}
		slices.SortStableFunc(items, func(a, b bearing.Item) int { return bearing.Compare(a, b) })
		for _, it := range items {
			if !c.items.allows(it.Name()) {
				continue
			}
			val, err := it.Fetch(target)
			if err != nil {
				continue
			}
			if !yield(it, val) {
				return false
			}
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !c.items.allows(i) {
				continue
			}
			if !yield(bearing.NewItem(i), v.Index(i).Interface()) {
				return false
			}
		}
	}
	return true
}

// yieldAttrs walks exported, non-callable struct fields in declaration order.
func (c *Compass) yieldAttrs(target any, yield func(bearing.Bearing, any) bool) bool {
	if !c.attrs.enabled {
		return true
	}

	v := indirect(reflect.ValueOf(target))
	if v.Kind() != reflect.Struct {
		return true
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type.Kind() == reflect.Func {
			continue
		}
		if !c.attrs.allows(field.Name) {
			continue
		}
		if !yield(bearing.NewAttr(field.Name), v.Field(i).Interface()) {
			return false
		}
	}
	return true
}

// yieldCalls invokes each allow-listed zero-argument method present on the
// target and yields its result.
func (c *Compass) yieldCalls(target any, yield func(bearing.Bearing, any) bool) bool {
	if !c.calls.enabled {
		return true
	}

	for _, n := range c.calls.names {
		name, ok := n.(string)
		if !ok {
			continue
		}
		call := bearing.NewCall(name)
		val, err := call.Fetch(target)
		if err != nil {
			continue
		}
		if !yield(call, val) {
			return false
		}
	}
	return true
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	return v
}
