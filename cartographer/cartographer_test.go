package cartographer_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartograph/bearing"
	"cartograph/cartographer"
	"cartograph/compass"
	"cartograph/course"
	"cartograph/surveyor"
)

func TestMapSingleCoordinate(t *testing.T) {
	t.Parallel()

	src := map[string]any{"user": map[string]any{"name": "amy"}}
	dst := map[string]any{}

	coords := []*cartographer.Coordinate{{
		Org: []*course.Course{course.New("user/name")},
		Dst: []*course.Course{course.New("owner")},
	}}

	cart := &cartographer.Cartographer{}
	require.NoError(t, cart.Map(src, dst, coords))
	assert.Equal(t, "amy", dst["owner"])
}

func TestMapCombinesOrigins(t *testing.T) {
	t.Parallel()

	src := map[string]any{"width": 1920, "height": 1080}
	dst := map[string]any{}

	coords := []*cartographer.Coordinate{{
		Org: []*course.Course{course.New("width"), course.New("height")},
		Dst: []*course.Course{course.New("resolution")},
		CleanValue: func(v any, _ *cartographer.Coordinate, _ cartographer.Cache) (any, error) {
			parts := v.([]any)
			return fmt.Sprintf("%vx%v", parts[0], parts[1]), nil
		},
	}}

	cart := &cartographer.Cartographer{}
	require.NoError(t, cart.Map(src, dst, coords))
	assert.Equal(t, "1920x1080", dst["resolution"])
}

func TestMapSplitsDestinations(t *testing.T) {
	t.Parallel()

	src := map[string]any{"width": 1920, "height": 1080}
	dst := map[string]any{}

	coords := []*cartographer.Coordinate{{
		Org: []*course.Course{course.New("width"), course.New("height")},
		Dst: []*course.Course{course.New("w"), course.New("h")},
	}}

	cart := &cartographer.Cartographer{}
	require.NoError(t, cart.Map(src, dst, coords))
	assert.Equal(t, 1920, dst["w"])
	assert.Equal(t, 1080, dst["h"])

	t.Run("any slice kind splits", func(t *testing.T) {
		t.Parallel()

		out := map[string]any{}
		typed := []*cartographer.Coordinate{{
			Org: []*course.Course{course.New("width"), course.New("height")},
			Dst: []*course.Course{course.New("w"), course.New("h")},
			CleanValue: func(v any, _ *cartographer.Coordinate, _ cartographer.Cache) (any, error) {
				parts := v.([]any)
				return []string{fmt.Sprint(parts[0]), fmt.Sprint(parts[1])}, nil
			},
		}}
		require.NoError(t, cart.Map(src, out, typed))
		assert.Equal(t, "1920", out["w"])
		assert.Equal(t, "1080", out["h"])
	})

	t.Run("non-sequence value fails", func(t *testing.T) {
		t.Parallel()

		bad := []*cartographer.Coordinate{{
			Org: []*course.Course{course.New("width")},
			Dst: []*course.Course{course.New("w"), course.New("h")},
		}}
		err := cart.Map(src, map[string]any{}, bad)
		assert.ErrorIs(t, err, cartographer.ErrCoordinate)
	})
}

func TestMapMirrorsDestination(t *testing.T) {
	t.Parallel()

	src := map[string]any{"user": map[string]any{"name": "amy"}}
	dst := map[string]any{"user": map[string]any{}}

	coords := []*cartographer.Coordinate{{
		Org: []*course.Course{course.New("user/name")},
	}}

	cart := &cartographer.Cartographer{}
	require.NoError(t, cart.Map(src, dst, coords))
	assert.Equal(t, "amy", dst["user"].(map[string]any)["name"])
}

func TestMapDefaults(t *testing.T) {
	t.Parallel()

	src := map[string]any{"width": 1920}
	cart := &cartographer.Cartographer{}

	t.Run("default fills missing origin", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		coords := []*cartographer.Coordinate{{
			Org:     []*course.Course{course.New("depth")},
			Dst:     []*course.Course{course.New("depth")},
			Default: []any{0},
		}}
		require.NoError(t, cart.Map(src, dst, coords))
		assert.Equal(t, 0, dst["depth"])
	})

	t.Run("NoDefault keeps the slot strict", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		coords := []*cartographer.Coordinate{{
			Org:     []*course.Course{course.New("width"), course.New("depth")},
			Dst:     []*course.Course{course.New("w"), course.New("d")},
			Default: []any{cartographer.NoDefault, cartographer.NoDefault},
		}}
		err := cart.Map(src, dst, coords)
		assert.ErrorIs(t, err, bearing.ErrNullAddress)
	})

	t.Run("mixed defaults", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		coords := []*cartographer.Coordinate{{
			Org:     []*course.Course{course.New("width"), course.New("depth")},
			Dst:     []*course.Course{course.New("w"), course.New("d")},
			Default: []any{cartographer.NoDefault, 0},
		}}
		require.NoError(t, cart.Map(src, dst, coords))
		assert.Equal(t, 1920, dst["w"])
		assert.Equal(t, 0, dst["d"])
	})
}

func TestCoordinateValidation(t *testing.T) {
	t.Parallel()

	cart := &cartographer.Cartographer{}
	src := map[string]any{}

	t.Run("no origin", func(t *testing.T) {
		t.Parallel()

		err := cart.Map(src, map[string]any{}, []*cartographer.Coordinate{{}})
		assert.ErrorIs(t, err, cartographer.ErrCoordinate)
	})

	t.Run("default count mismatch", func(t *testing.T) {
		t.Parallel()

		coords := []*cartographer.Coordinate{{
			Org:     []*course.Course{course.New("a")},
			Default: []any{1, 2},
		}}
		err := cart.Map(src, map[string]any{}, coords)
		assert.ErrorIs(t, err, cartographer.ErrCoordinate)
	})
}

func TestCleaners(t *testing.T) {
	t.Parallel()

	src := map[string]any{"prefixed_name": "amy", "skip_me": "x"}

	t.Run("org cleaner rewrites courses and uses the cache", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		cart := &cartographer.Cartographer{
			CleanOrg: func(c *course.Course, _ *cartographer.Coordinate, cache cartographer.Cache) (*course.Course, error) {
				cache["seen"] = true
				return course.New("prefixed_" + c.String()), nil
			},
		}
		coords := []*cartographer.Coordinate{{
			Org: []*course.Course{course.New("name")},
			Dst: []*course.Course{course.New("name")},
		}}
		require.NoError(t, cart.Map(src, dst, coords))
		assert.Equal(t, "amy", dst["name"])
	})

	t.Run("nil course drops the slot", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		cart := &cartographer.Cartographer{
			CleanOrg: func(c *course.Course, _ *cartographer.Coordinate, _ cartographer.Cache) (*course.Course, error) {
				if c.String() == "skip_me" {
					return nil, nil
				}
				return c, nil
			},
		}
		coords := []*cartographer.Coordinate{
			{Org: []*course.Course{course.New("skip_me")}, Dst: []*course.Course{course.New("out")}},
		}
		require.NoError(t, cart.Map(src, dst, coords))
		assert.NotContains(t, dst, "out")
	})

	t.Run("coordinate cleaner overrides cartographer cleaner", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		cart := &cartographer.Cartographer{
			CleanValue: func(any, *cartographer.Coordinate, cartographer.Cache) (any, error) {
				return "cartographer", nil
			},
		}
		coords := []*cartographer.Coordinate{{
			Org: []*course.Course{course.New("prefixed_name")},
			Dst: []*course.Course{course.New("out")},
			CleanValue: func(any, *cartographer.Coordinate, cartographer.Cache) (any, error) {
				return "coordinate", nil
			},
		}}
		require.NoError(t, cart.Map(src, dst, coords))
		assert.Equal(t, "coordinate", dst["out"])
	})
}

func TestMapWithSurveyor(t *testing.T) {
	t.Parallel()

	src := map[string]any{
		"a":      1,
		"nested": map[string]any{"x": 2},
	}

	t.Run("derives uncovered coordinates", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{"nested": map[string]any{}}
		cart := &cartographer.Cartographer{}

		err := cart.Map(src, dst, nil,
			cartographer.WithSurveyor(surveyor.New(surveyor.Config{})))
		require.NoError(t, err)
		assert.Equal(t, 1, dst["a"])
		assert.Equal(t, 2, dst["nested"].(map[string]any)["x"])
	})

	t.Run("explicit coordinates suppress derived ones", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{"nested": map[string]any{}}
		cart := &cartographer.Cartographer{}

		coords := []*cartographer.Coordinate{{
			Org: []*course.Course{course.New("a")},
			Dst: []*course.Course{course.New("renamed")},
		}}
		err := cart.Map(src, dst, coords,
			cartographer.WithSurveyor(surveyor.New(surveyor.Config{})))
		require.NoError(t, err)

		assert.Equal(t, 1, dst["renamed"])
		assert.NotContains(t, dst, "a", "covered course must not be re-mapped")
		assert.Equal(t, 2, dst["nested"].(map[string]any)["x"])
	})

	t.Run("childless containers and nil values transfer", func(t *testing.T) {
		t.Parallel()

		src := map[string]any{"a": 1, "empty": map[string]any{}, "none": nil}
		dst := map[string]any{}
		cart := &cartographer.Cartographer{}

		err := cart.Map(src, dst, nil,
			cartographer.WithSurveyor(surveyor.New(surveyor.Config{})))
		require.NoError(t, err)

		assert.Equal(t, 1, dst["a"])
		assert.Equal(t, map[string]any{}, dst["empty"])
		assert.Contains(t, dst, "none")
		assert.Nil(t, dst["none"])
	})

	t.Run("parent coverage suppresses children", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		cart := &cartographer.Cartographer{}

		coords := []*cartographer.Coordinate{{
			Org: []*course.Course{course.New("nested")},
			Dst: []*course.Course{course.New("copy")},
		}}
		err := cart.Map(src, dst, coords,
			cartographer.WithSurveyor(surveyor.New(surveyor.Config{})))
		require.NoError(t, err)

		assert.Equal(t, src["nested"], dst["copy"])
		assert.NotContains(t, dst, "nested", "children of a mapped course are covered")
		assert.Equal(t, 1, dst["a"])
	})
}

func TestMapAllTolerant(t *testing.T) {
	t.Parallel()

	src := map[string]any{"a": 1}
	cart := &cartographer.Cartographer{}

	coords := []*cartographer.Coordinate{
		{
			Org: []*course.Course{course.New("missing")},
			Dst: []*course.Course{course.New("never")},
		},
		{
			Org: []*course.Course{course.New("a")},
			Dst: []*course.Course{course.New("copied")},
		},
	}

	t.Run("strict aborts before later coordinates", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		err := cart.Map(src, dst, coords)
		assert.ErrorIs(t, err, bearing.ErrNullAddress)
		assert.NotContains(t, dst, "copied")
	})

	t.Run("tolerant applies the rest", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		err := cart.MapAll(src, dst, coords)

		var serr *surveyor.SuppressedErrors
		require.ErrorAs(t, err, &serr)
		assert.Len(t, serr.Errors, 1)
		assert.True(t, serr.Has(bearing.ErrNullAddress))
		assert.Equal(t, 1, dst["copied"])
	})

	t.Run("tolerant reruns are idempotent", func(t *testing.T) {
		t.Parallel()

		dst := map[string]any{}
		_ = cart.MapAll(src, dst, coords)
		first := fmt.Sprintf("%v", dst)

		_ = cart.MapAll(src, dst, coords)
		assert.Equal(t, first, fmt.Sprintf("%v", dst))
	})

	t.Run("tolerant survey skips blocked branches", func(t *testing.T) {
		t.Parallel()

		mapsOnly := surveyor.New(surveyor.Config{
			Compasses: []*compass.Compass{compass.New(compass.TargetKinds(reflect.Map))},
		})
		blocked := map[string]any{"a": 1, "bad": []any{1}}

		dst := map[string]any{}
		err := cart.MapAll(blocked, dst, nil, cartographer.WithSurveyor(mapsOnly))

		var serr *surveyor.SuppressedErrors
		require.ErrorAs(t, err, &serr)
		assert.True(t, serr.Has(compass.ErrNonNavigable))
		assert.Equal(t, 1, dst["a"])
	})
}
