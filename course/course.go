// Package course implements immutable paths through nested data.
//
// A course is an ordered sequence of bearings leading from a root object to a
// nested value. Courses are values: every composing operation returns a new
// course and never touches the receiver.
package course

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"cartograph/bearing"
)

// Course is an immutable ordered sequence of bearings.
//
// The zero value is unusable; build courses with New or NewVia. Raw elements
// are converted through the course's candidate variant list, so a course
// built with custom variants keeps recognizing their shorthand as it grows.
type Course struct {
	bearings []bearing.Bearing
	variants []bearing.Variant
}

// New builds a course from raw parts using the default bearing variants.
//
// Each part may be a bearing (kept as-is), another course (spliced in), a
// string (split on "/" and each piece resolved through the shorthand
// grammar), or any other value (resolved through the variants' name rules).
func New(parts ...any) *Course {
	return NewVia(nil, parts...)
}

// NewVia builds a course with an explicit candidate variant list. The list
// is carried to every course derived from this one.
func NewVia(variants []bearing.Variant, parts ...any) *Course {
	if len(variants) == 0 {
		variants = bearing.DefaultVariants()
	}
	c := &Course{variants: variants}
	c.bearings = appendParts(nil, variants, parts)
	return c
}

func appendParts(dst []bearing.Bearing, variants []bearing.Variant, parts []any) []bearing.Bearing {
	for _, part := range parts {
		switch p := part.(type) {
		case *Course:
			dst = append(dst, p.bearings...)
		case bearing.Bearing:
			dst = append(dst, p)
		case string:
			for _, piece := range strings.Split(p, "/") {
				if piece == "" {
					continue
				}
				dst = append(dst, bearing.Resolve(piece, variants))
			}
		default:
			dst = append(dst, bearing.Resolve(part, variants))
		}
	}
	return dst
}

// Append returns a new course extended with the given parts. The receiver is
// unchanged.
func (c *Course) Append(parts ...any) *Course {
	out := &Course{variants: c.variants}
	out.bearings = append(out.bearings, c.bearings...)
	out.bearings = appendParts(out.bearings, c.variants, parts)
	return out
}

// Len reports the number of bearings.
func (c *Course) Len() int { return len(c.bearings) }

// At returns the bearing at index i.
func (c *Course) At(i int) bearing.Bearing { return c.bearings[i] }

// Slice returns a new course over bearings [i, j).
func (c *Course) Slice(i, j int) *Course {
	out := &Course{variants: c.variants}
	out.bearings = append(out.bearings, c.bearings[i:j]...)
	return out
}

// Parent returns the course without its end point. The parent of an empty
// course is an empty course.
func (c *Course) Parent() *Course {
	if len(c.bearings) == 0 {
		return c.Slice(0, 0)
	}
	return c.Slice(0, len(c.bearings)-1)
}

// EndPoint returns the last bearing, or nil for an empty course.
func (c *Course) EndPoint() bearing.Bearing {
	if len(c.bearings) == 0 {
		return nil
	}
	return c.bearings[len(c.bearings)-1]
}

// WithEndPoint returns a course whose last bearing is replaced by part.
func (c *Course) WithEndPoint(part any) *Course {
	return c.Parent().Append(part)
}

// Replace returns a course with the bearing at index i replaced by part.
func (c *Course) Replace(i int, part any) *Course {
	out := &Course{variants: c.variants}
	out.bearings = append(out.bearings, c.bearings[:i]...)
	out.bearings = appendParts(out.bearings, c.variants, []any{part})
	out.bearings = append(out.bearings, c.bearings[i+1:]...)
	return out
}

// Bearings iterates over the bearings in order. Each call starts a fresh
// iteration.
func (c *Course) Bearings() iter.Seq[bearing.Bearing] {
	return func(yield func(bearing.Bearing) bool) {
		for _, b := range c.bearings {
			if !yield(b) {
				return
			}
		}
	}
}

// Equal reports whether both courses have the same length and pairwise-equal
// bearings, fallback equivalence included.
func (c *Course) Equal(other *Course) bool {
	if other == nil || len(c.bearings) != len(other.bearings) {
		return false
	}
	for i, b := range c.bearings {
		if !bearing.Equal(b, other.bearings[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether part (a bearing, course, or raw path) occurs as a
// contiguous subsequence.
func (c *Course) Contains(part any) bool {
	sub := c.cast(part)
	if sub.Len() == 0 || sub.Len() > c.Len() {
		return false
	}
	for i := 0; i+sub.Len() <= c.Len(); i++ {
		if c.Slice(i, i+sub.Len()).Equal(sub) {
			return true
		}
	}
	return false
}

// StartsWith reports whether the course begins with part.
func (c *Course) StartsWith(part any) bool {
	sub := c.cast(part)
	if sub.Len() == 0 || sub.Len() > c.Len() {
		return false
	}
	return c.Slice(0, sub.Len()).Equal(sub)
}

// EndsWith reports whether the course ends with part.
func (c *Course) EndsWith(part any) bool {
	sub := c.cast(part)
	if sub.Len() == 0 || sub.Len() > c.Len() {
		return false
	}
	return c.Slice(c.Len()-sub.Len(), c.Len()).Equal(sub)
}

func (c *Course) cast(part any) *Course {
	if other, ok := part.(*Course); ok {
		return other
	}
	return NewVia(c.variants, part)
}

// String renders the canonical shorthand of the course, bearings joined by
// "/".
func (c *Course) String() string {
	parts := make([]string, len(c.bearings))
	for i, b := range c.bearings {
		parts[i] = b.String()
	}
	return strings.Join(parts, "/")
}

// Fetch walks the bearings left to right against root, returning the value
// at the end point. The first missing address aborts with ErrNullAddress.
func (c *Course) Fetch(root any) (any, error) {
	target := root
	for _, b := range c.bearings {
		next, err := b.Fetch(target)
		if err != nil {
			return nil, err
		}
		target = next
	}
	return target, nil
}

// FetchOr is Fetch with a default: a missing address anywhere along the walk
// yields def instead of failing. Other failures still propagate.
func (c *Course) FetchOr(root, def any) (any, error) {
	v, err := c.Fetch(root)
	if err != nil {
		if errors.Is(err, bearing.ErrNullAddress) {
			return def, nil
		}
		return nil, err
	}
	return v, nil
}

// errEmpty is returned when placing through a course with no end point.
var errEmpty = errors.New("cannot place through an empty course")

func (c *Course) err(err error) error {
	return fmt.Errorf("course %q: %w", c, err)
}
