package bearing

import (
	"fmt"
)

// Fallback addresses a location without committing to an access kind. It
// carries an ordered dispatch list of variants and tries each in turn,
// returning the first success. The list is explicit per-bearing
// configuration: it doubles as the bearing's equivalence class for Equal.
type Fallback struct {
	name any
	via  []Variant
}

// NewFallback returns a fallback bearing routed through the default dispatch
// list (item, call, attr).
func NewFallback(name any) Fallback {
	return Fallback{name: name, via: DefaultDispatch()}
}

// NewFallbackVia returns a fallback routed through an explicit variant list.
// Fallback variants in the list are ignored.
func NewFallbackVia(name any, via []Variant) Fallback {
	return Fallback{name: name, via: withoutFallbacks(via)}
}

func (f Fallback) Kind() Kind       { return KindFallback }
func (f Fallback) Name() any        { return f.name }
func (f Fallback) Factory() Factory { return nil }

func (f Fallback) String() string { return fmt.Sprint(f.name) }

// equates reports whether k belongs to the bearing's dispatch list.
func (f Fallback) equates(k Kind) bool {
	for _, v := range f.via {
		if v.Kind == k {
			return true
		}
	}
	return false
}

// Fetch tries each variant in dispatch order. A variant that rejects the name
// is skipped; a variant whose fetch fails for any reason advances to the
// next. When every candidate fails the result is ErrNullAddress.
func (f Fallback) Fetch(target any) (any, error) {
	for _, v := range f.via {
		if v.FromName == nil {
			continue
		}
		b, err := v.FromName(f.name)
		if err != nil {
			continue
		}
		if out, err := b.Fetch(target); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", f, ErrNullAddress)
}

// Place mirrors Fetch: the first variant whose place succeeds wins.
func (f Fallback) Place(target, value any) error {
	for _, v := range f.via {
		if v.FromName == nil {
			continue
		}
		b, err := v.FromName(f.name)
		if err != nil {
			continue
		}
		if err := b.Place(target, value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", f, ErrNullAddress)
}

func withoutFallbacks(via []Variant) []Variant {
	out := make([]Variant, 0, len(via))
	for _, v := range via {
		if v.Kind == KindFallback {
			continue
		}
		out = append(out, v)
	}
	return out
}
