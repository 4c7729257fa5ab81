// Package aggregates declares the case aggregate contract: its inputs,
// results, section names and coded errors. It has no storage or transport
// dependencies.
package aggregates
