package clipattern

import "fmt"

// GrammarError reports that a usage tree could not be fixed into a
// consistent shape — for example, an option's inline value spelling in the
// usage line disagreed with its description-section declaration. It is
// raised during Build/fixOptional, is non-recoverable, and surfaces to the
// embedder as a configuration bug in the usage text, not a user mistake.
type GrammarError struct {
	Option string
	Reason string
}

func (e GrammarError) Error() string {
	return fmt.Sprintf("usage grammar error for %s: %s", e.Option, e.Reason)
}

// UsageError reports that an argument vector failed to match the pattern,
// or that a matched option's value ref did not fully consume an attached
// value. Usage is a slot for the printable usage string the embedder should
// show the user; Match has no usage text and returns UsageError with Usage
// empty. The process conventionally exits 1 on this error.
type UsageError struct {
	Usage string
	Msg   string
}

func (e UsageError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "arguments did not match usage"
}

// InvariantError reports a programming error inside the core itself — for
// example requesting a merge on an Either with no matched branch. It is
// always a bug in this package or in the tree handed to it, never a user or
// grammar mistake.
type InvariantError struct {
	Reason string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Reason)
}

// recoverInvariant converts a panic raised by an internal assertion (see
// assertf) into an InvariantError returned through errp. Any other panic
// (including a runtime panic) is re-raised unchanged.
func recoverInvariant(errp *error) {
	if r := recover(); r != nil {
		if ie, ok := r.(InvariantError); ok {
			*errp = ie
			return
		}
		panic(r)
	}
}

// assertf panics with an InvariantError when cond is false. Only used for
// conditions spec.md documents as "asserted, fatal" internal invariants.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(InvariantError{Reason: fmt.Sprintf(format, args...)})
	}
}
