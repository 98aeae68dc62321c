package clipattern

import (
	"strings"

	"github.com/rkennedy/clipattern/matchcfg"
)

// Argv is the consumable argument vector the matcher walks. It supports
// lookahead, short-option cluster splitting, and a status token
// used by multi-pass matchers (Required/Optional's match_oneline, Either's
// repeat loop) to detect "no progress" and stop.
type Argv struct {
	tokens []string
	dash   bool // a bare "-" token has been consumed
	dashes bool // a "--" token has been consumed
	cfg    matchcfg.Config

	gen int // bumped on every mutation; Status() reads it
}

// NewArgv wraps tokens (not including the program name) into a cursor
// governed by cfg (spec.md §4.1's stdopt/attachopt/attachvalue and §6's
// auto_dashes).
func NewArgv(tokens []string, cfg matchcfg.Config) *Argv {
	return &Argv{tokens: append([]string(nil), tokens...), cfg: cfg}
}

// Empty reports whether no tokens remain.
func (a *Argv) Empty() bool { return len(a.tokens) == 0 }

// Len returns the count of remaining tokens.
func (a *Argv) Len() int { return len(a.tokens) }

// Current returns the token k positions ahead of the cursor, or ("", false)
// if that position is past the end.
func (a *Argv) Current(k int) (string, bool) {
	if k < 0 || k >= len(a.tokens) {
		return "", false
	}
	return a.tokens[k], true
}

// Next advances the cursor by 1+k tokens.
func (a *Argv) Next(k int) {
	n := 1 + k
	if n > len(a.tokens) {
		n = len(a.tokens)
	}
	a.tokens = a.tokens[n:]
	a.gen++
}

// Status returns an opaque token that changes iff the cursor has mutated
// since the last call observed it. A Saver rollback restores the token
// recorded at the save point, so a change that is fully undone reads as no
// change. Callers compare two Status() results for equality only; the
// numeric value carries no other meaning.
func (a *Argv) Status() int { return a.gen }

// Clone makes an independent deep copy for speculative matching (Either
// tries each branch against its own clone before committing).
func (a *Argv) Clone() *Argv {
	cp := *a
	cp.tokens = append([]string(nil), a.tokens...)
	return &cp
}

// SetBy replaces this cursor's state with other's, used after a speculative
// Either branch wins and its clone's progress must be adopted.
func (a *Argv) SetBy(other *Argv) {
	a.tokens = append([]string(nil), other.tokens...)
	a.dash = other.dash
	a.dashes = other.dashes
	a.cfg = other.cfg
	a.gen++
}

// snapshot/restore back the Saver's cursor half of a save point. Unlike
// Status, this captures enough state to actually roll back, not merely
// detect change.
type argvState struct {
	tokens []string
	dash   bool
	dashes bool
	gen    int
}

func (a *Argv) snapshot() argvState {
	return argvState{tokens: append([]string(nil), a.tokens...), dash: a.dash, dashes: a.dashes, gen: a.gen}
}

func (a *Argv) restore(s argvState) {
	a.tokens = append([]string(nil), s.tokens...)
	a.dash = s.dash
	a.dashes = s.dashes
	a.gen = s.gen
}

// Prepend pushes a literal token back onto the front of the stream, used
// when an Option's match spliced an unconsumed short-option cluster
// remainder (e.g. matching "-r" out of "-rf" puts back "-f").
func (a *Argv) Prepend(tok string) {
	a.tokens = append([]string{tok}, a.tokens...)
	a.gen++
}

// PopLiteral consumes the current token if it equals want exactly ("-" or
// "--"), returning whether it did.
func (a *Argv) PopLiteral(want string) bool {
	if len(a.tokens) > 0 && a.tokens[0] == want {
		a.tokens = a.tokens[1:]
		a.gen++
		return true
	}
	return false
}

// IndexOf returns the position of the first occurrence of tok, or -1.
func (a *Argv) IndexOf(tok string) int {
	for i, t := range a.tokens {
		if t == tok {
			return i
		}
	}
	return -1
}

// InDashesMode reports whether a "--" has already been consumed and
// auto_dashes is honored, meaning every subsequent token is forced to be an
// argument rather than an option or command name.
func (a *Argv) InDashesMode() bool { return a.cfg.AutoDashes && a.dashes }

// AutoDashes reports the cursor's configured auto_dashes policy.
func (a *Argv) AutoDashes() bool { return a.cfg.AutoDashes }

// classify mirrors Atom.get_class: is tok shaped like an option spelling?
// A bare "-" is never classified as an option.
func classify(tok string) bool {
	return len(tok) > 1 && strings.HasPrefix(tok, "-")
}

// BreakForOption looks for an occurrence of any of names at the front of
// the stream, consuming it on success. names belongs to a single Option
// instance; takesArg tells BreakForOption whether that option has a value
// ref, which determines whether leftover cluster/attached text is even
// eligible to be treated as an attached value (spec.md §6: "-xval binds val
// iff attachvalue and -x takes an argument"; long "--opt=val" always
// attaches regardless of attachvalue).
//
// Returns found (an alias matched), rest (any leftover text — an attached
// value for a long "=" spelling or a short option's trailing cluster
// characters), and hasRest (whether rest is meaningful: false for "-xyz"
// consumed down to nothing, or for a bare "--opt").
func (a *Argv) BreakForOption(names []string, takesArg bool) (found bool, rest string, hasRest bool) {
	cur, ok := a.Current(0)
	if !ok || cur == "-" || cur == "--" {
		return false, "", false
	}

	if strings.HasPrefix(cur, "--") {
		name, eq, val := partitionEq(cur)
		for _, n := range names {
			if n == name {
				a.Next(0)
				return true, val, eq
			}
		}
		return false, "", false
	}

	if !strings.HasPrefix(cur, "-") {
		return false, "", false
	}

	if !a.cfg.StdOpt {
		// Long options may spell with a single dash; treat like "--" form.
		name, eq, val := partitionEq(cur)
		for _, n := range names {
			if n == name {
				a.Next(0)
				return true, val, eq
			}
		}
		return false, "", false
	}

	for _, n := range names {
		if len(n) == 2 && n[0] == '-' && strings.HasPrefix(cur, n) {
			rest := cur[2:]
			if rest == "" {
				a.Next(0)
				return true, "", false
			}
			if takesArg && !a.cfg.AttachValue {
				// This alias can't bind the trailing text; not a match.
				continue
			}
			a.Next(0)
			return true, rest, true
		}
	}
	return false, "", false
}

// partitionEq splits "name=value" into (name, true, value), or returns
// (tok, false, "") when there is no '='.
func partitionEq(tok string) (name string, hasEq bool, value string) {
	if i := strings.IndexByte(tok, '='); i >= 0 {
		return tok[:i], true, tok[i+1:]
	}
	return tok, false, ""
}
