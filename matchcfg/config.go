// Package matchcfg holds the small set of matching-policy flags spec.md
// §4.1 and §6 describe as configuration bits threaded through the Argv
// cursor, promoted here to a validated, optionally file-loadable struct —
// the same shape of ambient configuration any CLI embedder built on top of
// the core matcher would keep next to its usage text.
package matchcfg

import "fmt"

// Config carries the four booleans that change how an Argv cursor
// recognizes options:
//
//   - StdOpt: long options must begin with "--"; when false, a single dash
//     can also introduce a long-named option ("-flag").
//   - AttachOpt: short options may cluster, e.g. "-rf" meaning "-r -f".
//   - AttachValue: a short option's argument may be glued to it without a
//     space, e.g. "-xval" meaning "-x val".
//   - AutoDashes: a literal "--" token ends option parsing; every token
//     after it is forced to be an argument, never an option or command.
type Config struct {
	StdOpt      bool `toml:"stdopt"`
	AttachOpt   bool `toml:"attachopt"`
	AttachValue bool `toml:"attachvalue"`
	AutoDashes  bool `toml:"auto_dashes"`
}

// Default returns the conventional docopt-style policy: standard long
// options, short-option clustering, attached short values, and "--"
// honored.
func Default() Config {
	return Config{StdOpt: true, AttachOpt: true, AttachValue: true, AutoDashes: true}
}

// Validate rejects self-contradictory configurations. Per spec.md §6,
// short-option clustering ("-rf" ≡ "-r -f") requires both StdOpt and
// AttachOpt; AttachValue without StdOpt has no short-option notion of
// "cluster" to attach a value inside, so it is likewise rejected.
func (c Config) Validate() error {
	if c.AttachOpt && !c.StdOpt {
		return fmt.Errorf("matchcfg: attachopt requires stdopt")
	}
	if c.AttachValue && !c.StdOpt {
		return fmt.Errorf("matchcfg: attachvalue requires stdopt")
	}
	return nil
}
