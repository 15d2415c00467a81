// ABOUTME: Main shadowgc package providing version information and package documentation
// ABOUTME: This is the root package for the shadow-graph garbage collector

// Package shadowgc provides a concurrent mark-sweep garbage collector
// for graphs of managed objects. Mutator goroutines describe graph
// edits through root and edge handles; the collector maintains a
// shadow copy of the object graph, fed by a lock-free event channel,
// and reclaims every object it has seen that is no longer reachable
// from a root. Snapshots of the shadow graph feed the analysis
// algorithms in the graph package: paths-to-roots, dominator trees,
// retained counts, and cycle detection.
package shadowgc

// Version is the semantic version of the shadowgc library
const Version = "0.1.0-dev"
