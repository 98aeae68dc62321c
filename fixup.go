package clipattern

// Unbounded stands in for "as many as the argument vector can supply,"
// returned by ArgRange for any node under a repeating group.
const Unbounded = 1 << 30

// Build finalizes a hand-assembled pattern tree into one ready for Match:
// it collapses single-child Required/Optional wrappers and same-shape
// Either/Argument branches (fix), reconciles every Option occurrence's
// value arity against its siblings and its Registry entry (fixOptional),
// and validates the result. Callers assemble trees with the New* Node
// constructors, register every Option with a Registry, then call Build
// exactly once before the first Match.
func Build(root *Node, reg *Registry) (*Node, error) {
	fixed := fix(root)
	if err := fixOptional(fixed, reg); err != nil {
		return nil, err
	}
	return fixed, nil
}

// fix recursively simplifies composite nodes: a non-repeating Required
// with exactly one child collapses into that child, a non-repeating
// Optional with exactly one child collapses only when that child is itself
// Optional (so "[x]" never becomes a bare, required x), and a repeating
// wrapper is kept so it can carry its repeat flag (spec.md's resolved Open
// Question on fix/fix_nest); an Either whose
// every branch is a single bare Argument collapses into one Argument node
// carrying the union of their names (docpie's fix_identical, supplemented
// here since the distilled spec dropped it), and an Either with exactly
// one branch collapses into that branch outright (spec.md §3.2/§4.9) —
// there's no choice left to make, so unlike the Required/Optional case
// this collapse happens even when the Either repeats; a repeating Either
// is folded away by pushing its Repeat onto the surviving branch instead.
func fix(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindRequired, KindOptional:
		for i, c := range n.Children {
			n.Children[i] = fix(c)
		}
		if len(n.Children) == 1 && !n.Repeat {
			c := n.Children[0]
			if n.Kind == KindRequired || (c != nil && c.Kind == KindOptional) {
				return c
			}
		}
		return n
	case KindEither:
		for i, c := range n.Children {
			n.Children[i] = fix(c)
		}
		if arg := collapseArgumentBranches(n.Children); arg != nil {
			return promoteSoleBranch(arg, n.Repeat)
		}
		if len(n.Children) == 1 {
			return promoteSoleBranch(n.Children[0], n.Repeat)
		}
		return n
	default:
		return n
	}
}

// promoteSoleBranch returns branch in place of a one-branch Either,
// carrying forward repeat if the Either itself repeated. When branch
// already has a Repeat field of its own (Required/Optional), repeat is
// folded into it directly; otherwise branch is wrapped in a repeating
// Required so the repetition isn't lost.
func promoteSoleBranch(branch *Node, repeat bool) *Node {
	if !repeat {
		return branch
	}
	switch branch.Kind {
	case KindRequired, KindOptional:
		branch.Repeat = true
		return branch
	default:
		return NewRequired(true, branch)
	}
}

// collapseArgumentBranches implements the Either-of-bare-Arguments
// collapse: if unwrapping every branch (through any single-child
// Required/Optional shell) bottoms out at a KindArgument, the whole Either
// is semantically "one positional with several acceptable spellings," so
// it becomes a single Argument node with the union of their Names. Returns
// nil when the branches aren't uniformly shaped this way.
func collapseArgumentBranches(branches []*Node) *Node {
	var names []string
	for _, b := range branches {
		leaf := unwrapSingleton(b)
		if leaf == nil || leaf.Kind != KindArgument {
			return nil
		}
		names = append(names, leaf.Names...)
	}
	return NewArgument(names...)
}

func unwrapSingleton(n *Node) *Node {
	for (n.Kind == KindRequired || n.Kind == KindOptional) && len(n.Children) == 1 {
		n = n.Children[0]
	}
	return n
}

// fixOptional reconciles every Option occurrence sharing a name — whether
// that's two spots in the usage tree, or a usage-tree occurrence and its
// Registry entry — onto one agreed Ref and Default. It is the one place a
// usage-text inconsistency (one spelling declared to take a value, another
// declared bare) surfaces as a GrammarError rather than a silent bug.
func fixOptional(root *Node, reg *Registry) error {
	groups := map[string][]*Node{}
	var order []string

	add := func(n *Node) {
		name := canonicalName(n)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], n)
	}

	collectOptions(root, add)
	for _, opt := range reg.Options {
		add(opt)
	}

	for _, name := range order {
		members := groups[name]
		var ref *Node
		var def Value
		defSet := false
		for _, m := range members {
			if m.Ref != nil {
				if ref == nil {
					ref = m.Ref
				} else if !sameShape(ref, m.Ref) {
					return GrammarError{Option: name, Reason: "conflicting value arity across occurrences"}
				}
			}
			if m.Default.Kind != Unset {
				if !defSet {
					def, defSet = m.Default, true
				} else if !sameValue(def, m.Default) {
					return GrammarError{Option: name, Reason: "conflicting default values across occurrences"}
				}
			}
		}
		for _, m := range members {
			if ref != nil {
				m.Ref = ref
			}
			if defSet {
				m.Default = def
			}
		}
	}
	return nil
}

// collectOptions finds every Option node reachable from n, including ones
// sitting under another Option's Ref (an option whose value position is
// itself an option-bearing group is unusual but not forbidden). Unlike
// walkAtoms, this visits Option nodes themselves, since fixOptional's job
// is specifically to reconcile distinct Option instances that happen to
// share a name.
func collectOptions(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindOption:
		visit(n)
		collectOptions(n.Ref, visit)
	case KindRequired, KindOptional, KindEither:
		for _, c := range n.Children {
			collectOptions(c, visit)
		}
	}
}

func sameShape(a, b *Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	return a.HasName(b.Names...) || (len(a.Names) == 0 && len(b.Names) == 0)
}

func sameValue(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Bool:
		return a.B == b.B
	case Int:
		return a.N == b.N
	case Str:
		return a.S == b.S
	case List:
		if len(a.L) != len(b.L) {
			return false
		}
		for i := range a.L {
			if a.L[i] != b.L[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// ArgRange reports the minimum and maximum number of positional tokens
// (Arguments and Commands; an Option's attached value doesn't count, it
// rides along with the option itself) that n could possibly consume. A
// repeating node reports Unbounded for its maximum. Embedders use this to
// sanity-check a usage tree or to decide whether a leftover argv tail could
// ever have matched.
func ArgRange(n *Node) (min, max int) {
	if n == nil {
		return 0, 0
	}
	switch n.Kind {
	case KindArgument, KindCommand:
		return 1, 1
	case KindOption:
		return 0, 0
	case KindOptionsShortcut:
		return 0, 0
	case KindRequired:
		min, max = sumRange(n.Children)
		if n.Repeat {
			max = Unbounded
		}
		return min, max
	case KindOptional:
		_, max = sumRange(n.Children)
		if n.Repeat {
			max = Unbounded
		}
		return 0, max
	case KindEither:
		min, max = -1, 0
		for _, c := range n.Children {
			cmin, cmax := ArgRange(c)
			if min == -1 || cmin < min {
				min = cmin
			}
			if cmax > max {
				max = cmax
			}
		}
		if min == -1 {
			min = 0
		}
		return min, max
	default:
		return 0, 0
	}
}

func sumRange(children []*Node) (min, max int) {
	for _, c := range children {
		cmin, cmax := ArgRange(c)
		min = addSaturating(min, cmin)
		max = addSaturating(max, cmax)
	}
	return min, max
}

func addSaturating(a, b int) int {
	if a >= Unbounded || b >= Unbounded {
		return Unbounded
	}
	return a + b
}
