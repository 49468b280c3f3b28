package bearing

import (
	"fmt"
	"regexp"
	"strconv"
)

// Variant describes one bearing kind for resolution: how to recognize its
// shorthand, how to construct it from a raw name, and how to wrap a name
// without validation. Custom bearing implementations register themselves by
// supplying a Variant in the candidate lists passed to Resolve, courses and
// fallbacks.
type Variant struct {
	// Kind identifies the variant in dispatch lists and equivalence checks.
	Kind Kind
	// FromString parses the variant's shorthand, failing with ErrFormat when
	// the text does not match.
	FromString func(text string) (Bearing, error)
	// FromName constructs a bearing from a raw name, failing with
	// ErrTypeMismatch when the name's type is not in the variant's legal set.
	FromName func(name any) (Bearing, error)
	// Wrap constructs a bearing without validating the name. Resolution uses
	// the last candidate's Wrap when nothing else matched.
	Wrap func(name any) Bearing
}

var (
	itemPattern = regexp.MustCompile(`^\[(.+)\]$`)
	callPattern = regexp.MustCompile(`^(.+?)\(\)$`)
	attrPattern = regexp.MustCompile(`^@(.+)$`)
)

// ItemVariant describes the index/key kind. Shorthand: "[name]". All-digit
// names parse as integers so that parsed courses can index slices. This
// makes the shorthand lossy for numeric strings: NewItem("3") prints as
// "[3]", which parses back to NewItem(3).
func ItemVariant() Variant {
	return Variant{
		Kind: KindItem,
		FromString: func(text string) (Bearing, error) {
			m := itemPattern.FindStringSubmatch(text)
			if m == nil {
				return nil, fmt.Errorf("%q is not an item: %w", text, ErrFormat)
			}
			if idx, err := strconv.Atoi(m[1]); err == nil {
				return NewItem(idx), nil
			}
			return NewItem(m[1]), nil
		},
		FromName: func(name any) (Bearing, error) { return NewItem(name), nil },
		Wrap:     func(name any) Bearing { return NewItem(name) },
	}
}

// AttrVariant describes the struct-field kind. Shorthand: "@name".
func AttrVariant() Variant {
	return Variant{
		Kind: KindAttr,
		FromString: func(text string) (Bearing, error) {
			m := attrPattern.FindStringSubmatch(text)
			if m == nil {
				return nil, fmt.Errorf("%q is not an attr: %w", text, ErrFormat)
			}
			return NewAttr(m[1]), nil
		},
		FromName: func(name any) (Bearing, error) {
			s, ok := name.(string)
			if !ok {
				return nil, fmt.Errorf("attr name must be a string, got %T: %w", name, ErrTypeMismatch)
			}
			return NewAttr(s), nil
		},
		Wrap: func(name any) Bearing { return NewAttr(fmt.Sprint(name)) },
	}
}

// CallVariant describes the zero-argument method kind. Shorthand: "name()".
func CallVariant() Variant {
	return Variant{
		Kind: KindCall,
		FromString: func(text string) (Bearing, error) {
			m := callPattern.FindStringSubmatch(text)
			if m == nil {
				return nil, fmt.Errorf("%q is not a call: %w", text, ErrFormat)
			}
			return NewCall(m[1]), nil
		},
		FromName: func(name any) (Bearing, error) {
			s, ok := name.(string)
			if !ok {
				return nil, fmt.Errorf("call name must be a string, got %T: %w", name, ErrTypeMismatch)
			}
			return NewCall(s), nil
		},
		Wrap: func(name any) Bearing { return NewCall(fmt.Sprint(name)) },
	}
}

// FallbackVariant describes the catch-all kind. Its shorthand is any
// non-empty text, so it matches last in the default candidate order.
func FallbackVariant() Variant {
	return Variant{
		Kind: KindFallback,
		FromString: func(text string) (Bearing, error) {
			if text == "" {
				return nil, fmt.Errorf("empty text: %w", ErrFormat)
			}
			return NewFallback(text), nil
		},
		FromName: func(name any) (Bearing, error) { return NewFallback(name), nil },
		Wrap:     func(name any) Bearing { return NewFallback(name) },
	}
}

// DefaultVariants is the default resolution order: item, call, attr,
// fallback. The fallback must come last, its shorthand matches everything.
func DefaultVariants() []Variant {
	return []Variant{ItemVariant(), CallVariant(), AttrVariant(), FallbackVariant()}
}

// DefaultDispatch is the default fallback dispatch order: item, call, attr.
func DefaultDispatch() []Variant {
	return []Variant{ItemVariant(), CallVariant(), AttrVariant()}
}

// Resolve turns raw input into a concrete bearing using an ordered candidate
// list (nil means DefaultVariants).
//
// An existing bearing contributes its name and is re-resolved. A string is
// matched against each candidate's shorthand in order. Any other value goes
// to the first candidate whose name-type set accepts it. When nothing
// matches, the last candidate wraps the value unchecked.
//
// A resolved fallback is routed through the remaining candidates of the same
// list, so custom variants in the list extend fallback dispatch for free.
func Resolve(raw any, variants []Variant) Bearing {
	if len(variants) == 0 {
		variants = DefaultVariants()
	}
	if b, ok := raw.(Bearing); ok {
		raw = b.Name()
	}

	if text, ok := raw.(string); ok {
		for _, v := range variants {
			if v.FromString == nil {
				continue
			}
			if b, err := v.FromString(text); err == nil {
				return rewire(b, variants)
			}
		}
	} else {
		for _, v := range variants {
			if v.FromName == nil {
				continue
			}
			if b, err := v.FromName(raw); err == nil {
				return rewire(b, variants)
			}
		}
	}

	last := variants[len(variants)-1]
	if last.Wrap != nil {
		return rewire(last.Wrap(raw), variants)
	}
	return NewFallbackVia(raw, variants)
}

// Parse converts canonical shorthand into a bearing using the default
// variants. Empty text is the only input no default pattern accepts.
func Parse(text string) (Bearing, error) {
	return ParseVia(text, DefaultVariants())
}

// ParseVia converts shorthand using an explicit candidate list.
func ParseVia(text string, variants []Variant) (Bearing, error) {
	for _, v := range variants {
		if v.FromString == nil {
			continue
		}
		if b, err := v.FromString(text); err == nil {
			return rewire(b, variants), nil
		}
	}
	return nil, fmt.Errorf("%q: %w", text, ErrFormat)
}

// rewire points a freshly resolved fallback at the candidate list it came
// from, minus fallback variants.
func rewire(b Bearing, variants []Variant) Bearing {
	f, ok := b.(Fallback)
	if !ok {
		return b
	}
	return NewFallbackVia(f.name, variants)
}
