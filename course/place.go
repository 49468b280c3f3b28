package course

import (
	"errors"
	"reflect"

	"cartograph/bearing"
)

// Place walks all bearings but the last to reach the container under the end
// point, then writes value there unconditionally.
//
// Intermediate bearings that carry a factory materialize missing structure:
// when the fetch fails with a missing address, or the existing value's type
// differs from what the factory produces, a fresh instance is built and
// placed before descending into it. A missing address on a factory-less
// bearing propagates.
//
// Slices reached along the walk are tracked through pointers so that an
// element write past the end can grow them; the grown headers are written
// back into their parents after the final place.
func (c *Course) Place(root, value any) error {
	if len(c.bearings) == 0 {
		return c.err(errEmpty)
	}

	type hop struct {
		parent any
		br     bearing.Bearing
		slice  reflect.Value // pointer to the child slice, when tracked
	}

	target := root
	var hops []hop

	for _, b := range c.bearings[:len(c.bearings)-1] {
		child, err := b.Fetch(target)
		missing := err != nil && errors.Is(err, bearing.ErrNullAddress)
		if err != nil && !missing {
			return err
		}
		if missing && b.Factory() == nil {
			return err
		}

		next, created := materialize(b, child, missing)
		if created {
			if err := b.Place(target, next); err != nil {
				return err
			}
		}

		if rv := reflect.ValueOf(next); rv.Kind() == reflect.Slice {
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			hops = append(hops, hop{parent: target, br: b, slice: ptr})
			target = ptr.Interface()
			continue
		}

		hops = append(hops, hop{parent: target, br: b})
		target = next
	}

	if err := c.EndPoint().Place(target, value); err != nil {
		return err
	}

	// Write grown slice headers back up the chain, deepest first.
	for i := len(hops) - 1; i >= 0; i-- {
		h := hops[i]
		if !h.slice.IsValid() {
			continue
		}
		if err := h.br.Place(h.parent, h.slice.Elem().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// materialize decides what to descend into during a place walk: the fetched
// value as-is, or a fresh factory instance when the address was missing or
// the existing value's type is not what the factory produces.
func materialize(b bearing.Bearing, existing any, missing bool) (next any, created bool) {
	f := b.Factory()
	if missing {
		return f(), true
	}
	if f == nil {
		return existing, false
	}

	fresh := f()
	if existing == nil || reflect.TypeOf(existing) != reflect.TypeOf(fresh) {
		return fresh, true
	}
	return existing, false
}
