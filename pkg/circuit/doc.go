// Package circuit defines the logic circuit graph for logica.
//
// A Circuit is an arena of nodes (gates, inputs, outputs, displays) plus a
// set of connection records that reference nodes by ID. Every successful
// mutation settles the circuit by fixed-point evaluation before returning,
// so callers never observe a partially propagated state.
package circuit
