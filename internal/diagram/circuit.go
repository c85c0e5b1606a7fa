package diagram

import (
	"fmt"
	"os"

	"github.com/ecruz165/circuitkit/internal/schema"
	"go.yaml.in/yaml/v3"
)

// DefaultFile is the circuit description read from a project directory.
const DefaultFile = "circuit.yaml"

// Kind is the type of a circuit element.
type Kind string

const (
	Resistor  Kind = "resistor"
	Capacitor Kind = "capacitor"
	Inductor  Kind = "inductor"
	Diode     Kind = "diode"
	Source    Kind = "source"
	Ground    Kind = "ground"
)

// Element is one component in the chain.
type Element struct {
	Kind  Kind   `yaml:"kind"`
	Label string `yaml:"label,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// Circuit is a titled series chain of elements.
type Circuit struct {
	Title    string    `yaml:"title,omitempty"`
	Elements []Element `yaml:"elements"`
}

// Parse validates data against the circuit schema and decodes it.
func Parse(data []byte) (*Circuit, error) {
	result, err := schema.Validate(schema.Circuit, data)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}

	var c Circuit
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing circuit: %w", err)
	}
	return &c, nil
}

// LoadFile reads and parses a circuit description.
func LoadFile(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading circuit %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
