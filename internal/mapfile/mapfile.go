// Package mapfile defines the YAML schema for coordinate files and builds
// cartographer coordinates from them.
package mapfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cartograph/cartographer"
	"cartograph/course"
)

// ErrMapFile reports a structurally invalid coordinate file.
var ErrMapFile = errors.New("invalid map file")

// File is one parsed coordinate file.
type File struct {
	Version     string  `yaml:"version,omitempty"`
	Coordinates []Entry `yaml:"coordinates"`
}

// Entry is one coordinate in file form. Org and Dst accept a single path or
// a list of paths; Default values pair positionally with Org.
type Entry struct {
	Org     StringOrArray `yaml:"org"`
	Dst     StringOrArray `yaml:"dst,omitempty"`
	Default []any         `yaml:"default,omitempty"`
}

// StringOrArray unmarshals either a single YAML string or a sequence of
// strings into a slice.
type StringOrArray []string

// UnmarshalYAML accepts either a single path or a sequence of paths. An
// empty scalar decodes to an empty slice, not to one empty path.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var path string
		if err := node.Decode(&path); err != nil {
			return err
		}

		*s = StringOrArray{}
		if path != "" {
			*s = append(*s, path)
		}

		return nil

	case yaml.SequenceNode:
		var paths []string
		if err := node.Decode(&paths); err != nil {
			return err
		}

		*s = paths

		return nil
	}

	return fmt.Errorf("expected path or list of paths, got %v", node.Kind)
}

// MarshalYAML renders a single path bare, anything else as a sequence.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// Load reads and parses a coordinate file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File and validates it.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse map file YAML: %w", err)
	}

	if f.Version == "" {
		f.Version = "1"
	}

	if err := f.validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

func (f *File) validate() error {
	if len(f.Coordinates) == 0 {
		return fmt.Errorf("%w: no coordinates", ErrMapFile)
	}

	for i, e := range f.Coordinates {
		if len(e.Org) == 0 {
			return fmt.Errorf("%w: coordinate %d has no org path", ErrMapFile, i)
		}

		if len(e.Default) != 0 && len(e.Default) != len(e.Org) {
			return fmt.Errorf("%w: coordinate %d has %d default(s) for %d org path(s)",
				ErrMapFile, i, len(e.Default), len(e.Org))
		}
	}

	return nil
}

// Marshal serializes a File back to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Build converts the file into cartographer coordinates. Paths parse with
// the default shorthand grammar, so "user/name" resolves each step against
// whatever the data actually holds.
func (f *File) Build() ([]*cartographer.Coordinate, error) {
	coords := make([]*cartographer.Coordinate, 0, len(f.Coordinates))

	for i, e := range f.Coordinates {
		coord := &cartographer.Coordinate{Default: e.Default}

		for _, p := range e.Org {
			coord.Org = append(coord.Org, course.New(p))
		}

		for _, p := range e.Dst {
			coord.Dst = append(coord.Dst, course.New(p))
		}

		if err := VetCoordinate(coord); err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}

		coords = append(coords, coord)
	}

	return coords, nil
}

// VetCoordinate rejects coordinates whose courses came out empty, which
// happens when a path string was only separators.
func VetCoordinate(c *cartographer.Coordinate) error {
	for _, oc := range c.Org {
		if oc.Len() == 0 {
			return fmt.Errorf("%w: empty org course", ErrMapFile)
		}
	}

	for _, dc := range c.Dst {
		if dc.Len() == 0 {
			return fmt.Errorf("%w: empty dst course", ErrMapFile)
		}
	}

	return nil
}
