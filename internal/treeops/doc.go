// Package treeops implements recursive operations over directory trees.
//
// The engine copies, moves, deletes, clears, lists and archives whole
// trees while delegating every single-entry primitive to a host
// filesystem and every archive format to an archiver. Operations keep
// going past individual child failures and report them in a Report;
// only a failed top-level check returns an error with an empty result.
//
// Child paths are formed as parent + "/" + name without normalization,
// so output paths keep exactly the prefix the caller supplied.
package treeops
