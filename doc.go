// Package clipattern implements the pattern tree and backtracking matcher
// behind a usage-description-driven argument parser (the docopt family).
//
// A usage description such as
//
//	Usage: prog [-v]... <file>...
//
// is, somewhere upstream of this package, lexed and parsed into a tree of
// [Node] values. This package does not do that parsing; it takes the tree
// as given (see [Build]), fixes it up into matching-ready shape, and then
// matches a concrete argument vector against it (see [Match]), producing a
// name-to-value mapping.
//
// Differences from docopt.py and its ports:
//
//  1. There is one Node struct with a Kind tag instead of a class
//     hierarchy. Operations that were virtual methods (match, get_value,
//     fix, reset, dump/load, merge) are ordinary functions that switch on
//     Kind.
//  2. Shared Option identity (the same instance referenced from a usage
//     line and from the options table) is realized with a [Registry]
//     arena: every Option node is owned by exactly one Registry slot, and
//     every other reference to it — including an [OptionsShortcut]'s
//     hide-filtered view — is a pointer into that slot.
//  3. Backtracking never unwinds through a panic. Failure is a plain bool
//     return; rollback is explicit through a [Saver].
package clipattern
