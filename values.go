package clipattern

// ExtractValues walks the tree rooted at root together with reg's options
// table and builds the final name -> Value mapping a caller sees after a
// successful Match. Every distinct canonical name (Names[0]) contributes
// exactly one entry; when more than one tree node shares a name — two
// Either branches each declaring their own <file> argument, for instance —
// the touched one wins, and an untouched contender only supplies its
// Default as a last resort (spec.md's Either.get_value three-way merge:
// matched value, sibling default, zero value, in that order).
func ExtractValues(root *Node, reg *Registry) map[string]Value {
	out := map[string]Value{}

	record := func(n *Node) {
		name := canonicalName(n)
		v := getValue(n)
		existing, seen := out[name]
		if !seen {
			out[name] = v
			return
		}
		out[name] = mergeContenders(existing, v)
	}

	walkAtoms(root, record)
	for _, opt := range reg.Options {
		record(opt)
	}

	return out
}

func canonicalName(n *Node) string {
	if len(n.Names) == 0 {
		return ""
	}
	return n.Names[0]
}

// getValue reads a single atom's bound value, falling back to its declared
// Default when the matcher never touched it, per spec.md §4.3/4.5's
// get_value contract. An Option with a Ref never reports its own presence
// flag here — it reports the ref's flattened value instead (see
// flatRefValue), mirroring docpie's Option.get_value deferring to
// ref.get_flat_list_value().
func getValue(n *Node) Value {
	if n.Kind == KindOption && n.Ref != nil {
		return flatRefValue(n.Ref)
	}
	if n.value.Truthy() {
		return n.value
	}
	if n.Default.Kind != Unset {
		return n.Default
	}
	return n.value
}

// flatRefValue flattens an Option's value-position sub-pattern into the
// single scalar or list spec.md §4.3 says the option itself reports: a
// scalar when ref can bind at most one token (ArgRange's max == 1), a list
// otherwise (repeated ref, or a ref wide enough to bind more than one
// token). An unmatched, default-less ref reports null (Unset) in the
// scalar case and an empty list in the list case.
func flatRefValue(ref *Node) Value {
	_, max := ArgRange(ref)
	v := getValue(ref)
	if ref.Kind != KindArgument && ref.Kind != KindCommand {
		// A group ref has no value of its own; gather its positionals.
		var parts []Value
		walkAtoms(ref, func(a *Node) { parts = append(parts, getValue(a)) })
		v = mergeList(parts...)
	}

	if max <= 1 {
		switch v.Kind {
		case List:
			if len(v.L) > 0 {
				return StrValue(v.L[len(v.L)-1])
			}
			return Value{}
		case Str, Bool, Int:
			return v
		default:
			return Value{}
		}
	}

	switch v.Kind {
	case List:
		return v
	case Str:
		return ListValue([]string{v.S})
	default:
		return ListValue(nil)
	}
}

// mergeContenders resolves two candidate values for the same name, seen at
// different tree nodes (most commonly two Either branches). A touched value
// always wins over an untouched one; between two untouched values, the
// first-declared Default wins; otherwise either (they're equal) works.
func mergeContenders(a, b Value) Value {
	aTruthy, bTruthy := a.Truthy(), b.Truthy()
	switch {
	case aTruthy && !bTruthy:
		return a
	case bTruthy && !aTruthy:
		return b
	case aTruthy && bTruthy:
		return mergeOptionValues([]Value{a, b})
	default:
		if a.Kind != Unset {
			return a
		}
		return b
	}
}

// walkAtoms visits every Argument/Command leaf reachable from n, invoking
// visit once per leaf, for the positionals that stand on their own in the
// tree. It does not descend into an Option's Ref: a ref argument is not an
// independent name in the result map, it is folded into its owning
// option's own value by getValue/flatRefValue. Option nodes themselves are
// skipped too — an Option's value is always reachable through the
// Registry (every Option is owned by exactly one Registry slot, and
// usage-tree occurrences are pointers into that same slot), so
// ExtractValues reads Option values from the Registry instead.
func walkAtoms(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindArgument, KindCommand:
		visit(n)
	case KindRequired, KindOptional, KindEither:
		for _, c := range n.Children {
			walkAtoms(c, visit)
		}
	case KindOption, KindOptionsShortcut:
		// Option: its value (including any Ref) is read from the
		// Registry. OptionsShortcut: no state of its own.
	}
}
