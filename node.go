package clipattern

// Kind tags the sum type that replaces the Atom/Unit class hierarchy of the
// Python original: Option, Argument, and Command are the leaves; Required,
// Optional, and Either are the composites; OptionsShortcut is the
// placeholder for "every known option not already named on this line."
type Kind int

const (
	KindOption Kind = iota
	KindArgument
	KindCommand
	KindRequired
	KindOptional
	KindEither
	KindOptionsShortcut
)

func (k Kind) String() string {
	switch k {
	case KindOption:
		return "Option"
	case KindArgument:
		return "Argument"
	case KindCommand:
		return "Command"
	case KindRequired:
		return "Required"
	case KindOptional:
		return "Optional"
	case KindEither:
		return "Either"
	case KindOptionsShortcut:
		return "OptionsShortcut"
	default:
		return "Unknown"
	}
}

// Node is the single struct behind every member of the pattern tree. Per
// spec.md §9, the inheritance hierarchy collapses to one tagged union with
// per-variant fields rather than per-class struct types; match, fix, reset,
// and value extraction are ordinary functions over Kind instead of virtual
// methods.
type Node struct {
	Kind Kind

	// Atom fields (Option, Argument, Command).
	Names   []string // alias set; Names[0] is the canonical display name
	Default Value
	value   Value // current bound value, mutated only under Saver guard

	// Option only: the sub-pattern describing its value position(s), or nil
	// for a flag-only option.
	Ref *Node

	// Composite fields (Required, Optional, Either).
	Children []*Node
	Repeat   bool

	// Either only. -1 means no branch has committed yet.
	MatchedBranch int

	// OptionsShortcut only.
	Hide     map[string]struct{}
	Registry *Registry
}

// HasName reports whether any of the given spellings names this node. Used
// both for alias lookups and for the docpie-derived equality rule: two
// Option/Argument/Command nodes are equal iff their name sets intersect.
func (n *Node) HasName(names ...string) bool {
	for _, want := range names {
		for _, have := range n.Names {
			if have == want {
				return true
			}
		}
	}
	return false
}

// NewOption builds a flag or value-taking Option node. ref may be nil.
func NewOption(ref *Node, names ...string) *Node {
	return &Node{Kind: KindOption, Names: append([]string(nil), names...), Ref: ref, value: BoolValue(false)}
}

// NewArgument builds an Argument node (name is the `<angled>` or `UPPER`
// spelling; additional aliases accrue when Either collapses same-kind
// single-Argument branches).
func NewArgument(names ...string) *Node {
	return &Node{Kind: KindArgument, Names: append([]string(nil), names...)}
}

// NewCommand builds a Command node matching one literal word.
func NewCommand(names ...string) *Node {
	return &Node{Kind: KindCommand, Names: append([]string(nil), names...), value: BoolValue(false)}
}

// NewRequired builds a Required composite: a group that must match in full.
func NewRequired(repeat bool, children ...*Node) *Node {
	return &Node{Kind: KindRequired, Children: children, Repeat: repeat}
}

// NewOptional builds an Optional composite: a group whose absence is fine.
func NewOptional(repeat bool, children ...*Node) *Node {
	return &Node{Kind: KindOptional, Children: children, Repeat: repeat}
}

// NewEither builds an Either composite over ordered alternative branches.
// Each branch must be a Required or Optional node (spec.md §3.2). repeat
// marks an Either directly followed by "..." in the usage line ("(-a |
// -b)..."), which commits to one branch and then retries only that branch
// on further iterations (see DESIGN.md's Either.match_repeat resolution).
func NewEither(repeat bool, branches ...*Node) *Node {
	return &Node{Kind: KindEither, Children: branches, MatchedBranch: -1, Repeat: repeat}
}

// NewOptionsShortcut builds the "[options]" placeholder, sharing reg as its
// global options table.
func NewOptionsShortcut(reg *Registry) *Node {
	return &Node{Kind: KindOptionsShortcut, Hide: map[string]struct{}{}, Registry: reg}
}

// Registry is the arena owning every Option instance exactly once. Usage-
// tree Option nodes and OptionsShortcut nodes both hold pointers into this
// arena (spec.md §3.4) rather than private copies, so a match against one
// occurrence is visible at every other occurrence of the same option.
type Registry struct {
	Options []*Node
}

// NewRegistry builds an empty options table.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers opt (which must be a KindOption node) in the table and
// returns it, for convenient chaining at usage-tree construction time.
func (r *Registry) Add(opt *Node) *Node {
	r.Options = append(r.Options, opt)
	return opt
}

// Find returns the registered option sharing any alias with names, or nil.
func (r *Registry) Find(names ...string) *Node {
	for _, opt := range r.Options {
		if opt.HasName(names...) {
			return opt
		}
	}
	return nil
}

// Reset restores every node in the tree rooted at n to its pristine,
// unmatched state: Option/Command -> false/0, Argument -> unset/empty,
// Either -> unselected branch. Matches spec.md §3.3's lifecycle contract
// (idempotent: calling Reset twice in a row is the same as calling it once).
func Reset(n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindOption:
		if n.value.Kind == Int {
			n.value = IntValue(0)
		} else {
			n.value = BoolValue(false)
		}
		Reset(n.Ref)
	case KindCommand:
		n.value = BoolValue(false)
	case KindArgument:
		if n.value.Kind == List {
			n.value = ListValue(nil)
		} else {
			n.value = Value{}
		}
	case KindRequired, KindOptional:
		for _, c := range n.Children {
			Reset(c)
		}
	case KindEither:
		for _, c := range n.Children {
			Reset(c)
		}
		n.MatchedBranch = -1
	case KindOptionsShortcut:
		// The shared Registry is reset exactly once by the caller, not once
		// per shortcut occurrence; see ResetRegistry.
	}
}

// ResetRegistry resets every option owned by the table. Call once per
// independent match attempt, alongside Reset(root), since Options reachable
// only through an OptionsShortcut are not children of the usage tree.
func ResetRegistry(r *Registry) {
	for _, opt := range r.Options {
		Reset(opt)
	}
}
