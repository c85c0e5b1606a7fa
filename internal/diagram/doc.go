// Package diagram turns a circuit description (circuit.yaml in a project)
// into a PNG schematic. Elements are drawn left to right as a single series
// chain, each with its label above and value below.
package diagram
