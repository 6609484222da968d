package graph

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/attractor/color"
	"gopkg.in/yaml.v3"
)

// ErrInvalidModel is returned for model files that cannot describe a graph.
var ErrInvalidModel = errors.New("invalid model file")

// File is the YAML model description.
type File struct {
	// Bounds is the parameter domain [low, high].
	Bounds [2]float64 `yaml:"bounds"`
	// States is the number of states.
	States int `yaml:"states"`
	// Edges lists the colored transitions.
	Edges []EdgeSpec `yaml:"edges"`
}

// EdgeSpec is one transition of a model file. An empty Color means the whole domain.
type EdgeSpec struct {
	From  int          `yaml:"from"`
	To    int          `yaml:"to"`
	Color [][2]float64 `yaml:"color,omitempty"`
}

// IntervalModel is a Table over interval colors together with its domain.
type IntervalModel struct {
	*Table[color.Params]
	Domain *color.Interval
}

// Load parses a YAML model description.
func Load(r io.Reader) (*IntervalModel, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	return f.Model()
}

// LoadFile parses the YAML model description at path.
func LoadFile(path string) (*IntervalModel, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	m, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Model validates the description and builds the graph.
func (f *File) Model() (*IntervalModel, error) {
	if f.States <= 0 {
		return nil, fmt.Errorf("%w: states must be positive, got %d", ErrInvalidModel, f.States)
	}
	alg, err := color.NewInterval(f.Bounds[0], f.Bounds[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	b := NewBuilder[color.Params](alg, f.States)
	for i, e := range f.Edges {
		c := alg.One()
		if len(e.Color) > 0 {
			parts := make([]color.Params, 0, len(e.Color))
			for _, iv := range e.Color {
				if iv[0] > iv[1] {
					return nil, fmt.Errorf("%w: edge %d: interval [%v, %v] is reversed", ErrInvalidModel, i, iv[0], iv[1])
				}
				parts = append(parts, alg.Range(iv[0], iv[1]))
			}
			c = color.Merge(parts, alg.Zero(), alg.Or)
		}
		if err := b.AddEdge(e.From, e.To, c); err != nil {
			return nil, fmt.Errorf("%w: edge %d: %w", ErrInvalidModel, i, err)
		}
	}
	return &IntervalModel{Table: b.Build(), Domain: alg}, nil
}
