// Package surveyor provides exhaustive traversal of nested data.
//
// A surveyor walks a root object depth first, consulting its compasses at
// every node, and yields a (course, value) entry for every node it reaches,
// descending until it hits an end point. The walk is pre-order and
// deterministic for deterministic inputs.
package surveyor

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"cartograph/compass"
	"cartograph/course"
)

// Entry is one surveyed node: the course that reaches it from the root and
// the value found there.
type Entry struct {
	Course *course.Course
	Value  any
}

// Config assembles a Surveyor. Compasses replaces the default compass list
// while CompassesExtra is consulted ahead of it; EndPoints replaces the
// default end-point types while EndPointsExtra appends.
type Config struct {
	Compasses      []*compass.Compass
	CompassesExtra []*compass.Compass
	EndPoints      []reflect.Type
	EndPointsExtra []reflect.Type
}

// Surveyor charts nested data into flat (course, value) entries. A zero
// Config gives a surveyor with one default compass and the default scalar
// end points.
type Surveyor struct {
	compasses   []*compass.Compass
	endPoints   []reflect.Type
	useDefaults bool
}

// New builds a surveyor from cfg.
func New(cfg Config) *Surveyor {
	s := &Surveyor{
		compasses:   cfg.Compasses,
		useDefaults: len(cfg.EndPoints) == 0,
	}
	if len(s.compasses) == 0 {
		s.compasses = []*compass.Compass{compass.New()}
	}
	// Extras go first so they can override the defaults for the targets
	// they accept.
	s.compasses = append(append([]*compass.Compass{}, cfg.CompassesExtra...), s.compasses...)
	s.endPoints = append(s.endPoints, cfg.EndPoints...)
	s.endPoints = append(s.endPoints, cfg.EndPointsExtra...)
	return s
}

// EndPoint reports whether value terminates the walk: nil, scalars (strings,
// booleans, all integer and float widths), reflect.Type values, and any
// explicitly configured type. Configuring Config.EndPoints suppresses the
// scalar defaults; nil always terminates.
func (s *Surveyor) EndPoint(value any) bool {
	if value == nil {
		return true
	}
	t := reflect.TypeOf(value)
	for _, et := range s.endPoints {
		if t == et {
			return true
		}
	}
	if !s.useDefaults {
		return false
	}
	if _, ok := value.(reflect.Type); ok {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// frame is one pending node of the walk. When terminal is set the node is
// yielded without being expanded.
type frame struct {
	course   *course.Course
	value    any
	terminal bool
}

// ChartSeq walks root lazily, yielding every reachable node in pre-order: an
// interior node is yielded once a compass accepts it, then its children
// follow in enumeration order. End points and nil values terminate descent.
// A root that is itself an end point yields a single entry with an empty
// course; otherwise the root is expanded but not yielded. A node no compass
// accepts yields its course with an error wrapping compass.ErrNonNavigable
// instead of an entry; the caller decides whether to stop.
func (s *Surveyor) ChartSeq(root any) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		origin := course.New()
		// A nil root is reported non-navigable rather than charted.
		if root != nil && s.EndPoint(root) {
			yield(Entry{Course: origin, Value: root}, nil)
			return
		}

		stack := []frame{{course: origin, value: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.terminal {
				if !yield(Entry{Course: f.course, Value: f.value}, nil) {
					return
				}
				continue
			}

			pairs, err := s.bearings(f.value)
			if err != nil {
				if !yield(Entry{Course: f.course}, fmt.Errorf("%s: %w", courseText(f.course), err)) {
					return
				}
				continue
			}

			// Interior nodes surface only after a compass accepted them,
			// so a non-navigable node leaves no entry behind. The root was
			// handled above.
			if f.course.Len() > 0 {
				if !yield(Entry{Course: f.course, Value: f.value}, nil) {
					return
				}
			}

			// Children push in reverse so the stack pops them in
			// enumeration order.
			children := make([]frame, 0, len(pairs))
			for _, p := range pairs {
				child := frame{course: f.course.Append(p.Bearing), value: p.Value}
				if s.EndPoint(p.Value) {
					child.terminal = true
				}
				children = append(children, child)
			}
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}

// bearings asks each compass in order; the first that accepts the target
// enumerates it.
func (s *Surveyor) bearings(target any) ([]compass.Pair, error) {
	for _, c := range s.compasses {
		if c.Navigable(target) {
			return c.Bearings(target)
		}
	}
	return nil, fmt.Errorf("%T: %w", target, compass.ErrNonNavigable)
}

// Chart walks root eagerly and aborts on the first error.
func (s *Surveyor) Chart(root any) ([]Entry, error) {
	var out []Entry
	for e, err := range s.ChartSeq(root) {
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ChartAll walks root eagerly, skipping non-navigable branches. When any
// branch failed the collected entries come back alongside a
// *SuppressedErrors carrying both the failures and the partial result.
func (s *Surveyor) ChartAll(root any) ([]Entry, error) {
	var (
		out  []Entry
		errs []error
	)
	for e, err := range s.ChartSeq(root) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, e)
	}
	if len(errs) > 0 {
		return out, &SuppressedErrors{Errors: errs, Partial: out}
	}
	return out, nil
}

// SuppressedErrors aggregates the failures of a tolerant operation together
// with whatever it still managed to produce.
type SuppressedErrors struct {
	Errors  []error
	Partial []Entry
}

func (e *SuppressedErrors) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d suppressed error(s)", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n\t")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the suppressed errors to errors.Is and errors.As.
func (e *SuppressedErrors) Unwrap() []error { return e.Errors }

// Has reports whether any suppressed error matches target.
func (e *SuppressedErrors) Has(target error) bool {
	for _, err := range e.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func courseText(c *course.Course) string {
	if c.Len() == 0 {
		return "<root>"
	}
	return c.String()
}
