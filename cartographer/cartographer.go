// Package cartographer applies declarative mappings between two nested data
// structures.
//
// A mapping is a list of coordinates. Each coordinate names one or more
// origin courses to read from, zero or more destination courses to write to,
// and optional cleaning hooks that rewrite courses or values mid-flight. A
// cartographer executes the whole list against an (origin, destination) pair,
// optionally augmented with implicit coordinates derived from a survey of the
// origin.
package cartographer

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"cartograph/bearing"
	"cartograph/course"
	"cartograph/surveyor"
)

// ErrCoordinate reports a structurally invalid coordinate.
var ErrCoordinate = errors.New("invalid coordinate")

// NoDefault marks an origin slot that has no fallback value. Fetching such a
// slot propagates the fetch error instead of substituting a default.
var NoDefault = noDefault{}

type noDefault struct{}

// Cache is per-Map scratch shared by every cleaning hook of one run. Hooks
// use it to pass state between coordinates; the cartographer itself never
// reads it.
type Cache map[string]any

// CourseCleaner rewrites a course before it is used. Returning a nil course
// drops that slot from the coordinate.
type CourseCleaner func(c *course.Course, coord *Coordinate, cache Cache) (*course.Course, error)

// ValueCleaner rewrites the fetched value before it is placed.
type ValueCleaner func(value any, coord *Coordinate, cache Cache) (any, error)

// Coordinate is one mapping rule.
//
// With several origins the fetched value is a []any in origin order. With no
// destinations the first cleaned origin is mirrored into the destination as
// fallback bearings, so plain key paths transfer between differently shaped
// containers. Default supplies a per-origin fallback value, positionally;
// use NoDefault to leave a slot strict. Coordinate-level cleaners override
// the cartographer-level ones.
type Coordinate struct {
	Org []*course.Course
	Dst []*course.Course

	CleanOrg   CourseCleaner
	CleanDst   CourseCleaner
	CleanValue ValueCleaner

	Default []any
}

func (c *Coordinate) validate() error {
	if len(c.Org) == 0 {
		return fmt.Errorf("%w: no origin course", ErrCoordinate)
	}
	if len(c.Default) != 0 && len(c.Default) != len(c.Org) {
		return fmt.Errorf("%w: %d default(s) for %d origin(s)",
			ErrCoordinate, len(c.Default), len(c.Org))
	}
	return nil
}

// Cartographer holds run-wide cleaning hooks. Nil hooks are identities. The
// zero value is ready to use.
type Cartographer struct {
	CleanOrg   CourseCleaner
	CleanDst   CourseCleaner
	CleanValue ValueCleaner
}

// Option configures a single Map or MapAll run.
type Option func(*run)

// WithSurveyor derives an implicit coordinate for every charted course of
// the origin that no explicit coordinate already covers. Deeper courses are
// attempted first.
func WithSurveyor(s *surveyor.Surveyor) Option {
	return func(r *run) { r.surveyor = s }
}

// run is the per-call state of one mapping execution.
type run struct {
	cart     *Cartographer
	origin   any
	dst      any
	cache    Cache
	mapped   []*course.Course
	surveyor *surveyor.Surveyor
	tolerant bool
	errs     []error
}

// Map executes coords against (origin, dst), aborting on the first failure.
func (c *Cartographer) Map(origin, dst any, coords []*Coordinate, opts ...Option) error {
	return c.exec(origin, dst, coords, false, opts)
}

// MapAll is the tolerant form of Map: failing coordinates are skipped and
// the rest still apply. When anything failed the returned error is a
// *surveyor.SuppressedErrors listing every failure.
func (c *Cartographer) MapAll(origin, dst any, coords []*Coordinate, opts ...Option) error {
	return c.exec(origin, dst, coords, true, opts)
}

func (c *Cartographer) exec(origin, dst any, coords []*Coordinate, tolerant bool, opts []Option) error {
	r := &run{
		cart:     c,
		origin:   origin,
		dst:      dst,
		cache:    Cache{},
		tolerant: tolerant,
	}
	for _, o := range opts {
		o(r)
	}

	for _, coord := range coords {
		if err := r.apply(coord, false); err != nil {
			return err
		}
	}
	if r.surveyor != nil {
		if err := r.derived(); err != nil {
			return err
		}
	}

	if len(r.errs) > 0 {
		return &surveyor.SuppressedErrors{Errors: r.errs}
	}
	return nil
}

// apply runs one coordinate. In tolerant mode a failure is recorded instead
// of returned. Derived coordinates mark their origin as mapped even on
// failure so one broken branch is not retried through containment.
func (r *run) apply(coord *Coordinate, derived bool) error {
	orgs, err := r.mapOne(coord)
	if derived {
		r.mapped = append(r.mapped, coord.Org...)
	} else if err == nil {
		r.mapped = append(r.mapped, orgs...)
	}
	if err == nil {
		return nil
	}
	if !r.tolerant {
		return err
	}
	r.errs = append(r.errs, err)
	return nil
}

// derived surveys the origin and maps every uncovered charted course onto
// its mirrored counterpart.
func (r *run) derived() error {
	var entries []surveyor.Entry
	if r.tolerant {
		var (
			serr *surveyor.SuppressedErrors
			err  error
		)
		entries, err = r.surveyor.ChartAll(r.origin)
		if err != nil && errors.As(err, &serr) {
			r.errs = append(r.errs, serr.Errors...)
		}
	} else {
		var err error
		entries, err = r.surveyor.Chart(r.origin)
		if err != nil {
			return err
		}
	}

	// Deeper courses first: once a subtree's leaves transfer, the
	// containment check skips every enclosing entry, while childless
	// containers and nil values still transfer whole.
	slices.SortStableFunc(entries, func(a, b surveyor.Entry) int {
		return b.Course.Len() - a.Course.Len()
	})

	for _, e := range entries {
		if r.covered(e.Course) {
			continue
		}
		if err := r.apply(&Coordinate{Org: []*course.Course{e.Course}}, true); err != nil {
			return err
		}
	}
	return nil
}

// covered reports whether c lies on an already-mapped course, in either
// direction: a mapped prefix of c means its subtree was transferred whole,
// and a mapped extension of c means c's interior was already written into.
func (r *run) covered(c *course.Course) bool {
	for _, m := range r.mapped {
		if m.Contains(c) || c.Contains(m) {
			return true
		}
	}
	return false
}

// mapOne fetches, cleans, and places a single coordinate. It returns the
// cleaned origin courses actually used, for coverage tracking.
func (r *run) mapOne(coord *Coordinate) ([]*course.Course, error) {
	if err := coord.validate(); err != nil {
		return nil, err
	}

	cleanOrg := coord.CleanOrg
	if cleanOrg == nil {
		cleanOrg = r.cart.CleanOrg
	}
	orgs, err := r.cleanCourses(coord.Org, cleanOrg, coord)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, nil
	}

	value, err := r.fetch(coord, orgs)
	if err != nil {
		return orgs, err
	}
	cleanValue := coord.CleanValue
	if cleanValue == nil {
		cleanValue = r.cart.CleanValue
	}
	if cleanValue != nil {
		value, err = cleanValue(value, coord, r.cache)
		if err != nil {
			return orgs, fmt.Errorf("clean value: %w", err)
		}
	}

	dsts := coord.Dst
	if len(dsts) == 0 {
		dsts = []*course.Course{mirror(orgs[0])}
	}
	cleanDst := coord.CleanDst
	if cleanDst == nil {
		cleanDst = r.cart.CleanDst
	}
	dsts, err = r.cleanCourses(dsts, cleanDst, coord)
	if err != nil {
		return orgs, err
	}

	return orgs, r.place(dsts, value)
}

// fetch reads every origin slot, honoring its positional default. A single
// origin yields the bare value, several yield a []any in origin order.
func (r *run) fetch(coord *Coordinate, orgs []*course.Course) (any, error) {
	values := make([]any, 0, len(orgs))
	for i, oc := range orgs {
		def := any(NoDefault)
		if i < len(coord.Default) {
			def = coord.Default[i]
		}

		var (
			v   any
			err error
		)
		if _, strict := def.(noDefault); strict {
			v, err = oc.Fetch(r.origin)
		} else {
			v, err = oc.FetchOr(r.origin, def)
		}
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return values, nil
}

// place writes value through every destination. Several destinations expect
// a slice or array value and zip positionally over the shorter of the two.
func (r *run) place(dsts []*course.Course, value any) error {
	switch len(dsts) {
	case 0:
		return nil
	case 1:
		return dsts[0].Place(r.dst, value)
	}

	parts := reflect.ValueOf(value)
	if !parts.IsValid() || (parts.Kind() != reflect.Slice && parts.Kind() != reflect.Array) {
		return fmt.Errorf("%w: %d destination(s) for non-sequence value %T",
			ErrCoordinate, len(dsts), value)
	}
	for i, dc := range dsts {
		if i >= parts.Len() {
			break
		}
		if err := dc.Place(r.dst, parts.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) cleanCourses(cs []*course.Course, clean CourseCleaner, coord *Coordinate) ([]*course.Course, error) {
	if clean == nil {
		return cs, nil
	}
	out := make([]*course.Course, 0, len(cs))
	for _, c := range cs {
		cleaned, err := clean(c, coord, r.cache)
		if err != nil {
			return nil, fmt.Errorf("clean course %s: %w", c, err)
		}
		if cleaned != nil {
			out = append(out, cleaned)
		}
	}
	return out, nil
}

// mirror rebuilds c with every bearing replaced by a fallback over the same
// name, so the destination side resolves each step against whatever shape it
// actually finds there.
func mirror(c *course.Course) *course.Course {
	parts := make([]any, 0, c.Len())
	for b := range c.Bearings() {
		parts = append(parts, bearing.NewFallback(b.Name()))
	}
	return course.New(parts...)
}
