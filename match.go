package clipattern

import (
	"github.com/rkennedy/clipattern/matchcfg"
)

// fatalUsage is how Option.match's "ref must fully consume an attached
// value" case (spec.md §4.3 step 6, §7 kind 2) escapes back to Match: it is
// not an ordinary backtrackable failure, it is a fatal usage-exit, so it
// unwinds past every Saver.Rollback in flight rather than being absorbed by
// match_oneline the way a regular child failure is.
type fatalUsage struct {
	msg string
}

// Match walks argv against the tree rooted at root, owned by reg, under
// cfg's matching policy. It returns the bound values on success. On
// failure it returns a UsageError; on an internal assertion violation it
// returns an InvariantError (both as values, not pointers). Callers must Reset(root) and ResetRegistry
// (or rebuild the tree) before reusing it for a second, independent Match.
func Match(root *Node, reg *Registry, argv []string, cfg matchcfg.Config) (matched bool, values map[string]Value, err error) {
	defer recoverInvariant(&err)
	defer func() {
		if r := recover(); r != nil {
			if fu, ok := r.(fatalUsage); ok {
				matched, values, err = false, nil, UsageError{Msg: fu.msg}
				return
			}
			panic(r)
		}
	}()

	cursor := NewArgv(argv, cfg)
	saver := NewSaver()

	ok := matchNode(root, cursor, saver, false)
	if !ok || !cursor.Empty() {
		return false, nil, UsageError{Msg: "arguments did not match usage"}
	}
	return true, ExtractValues(root, reg), nil
}

// matchNode dispatches to the per-Kind matching rule. repeat is true when
// the enclosing scope is iterating this node again (either because it sits
// directly under a repeating group, or because an ancestor explicitly asked
// for another repetition).
func matchNode(n *Node, argv *Argv, saver *Saver, repeat bool) bool {
	switch n.Kind {
	case KindOption:
		return matchOption(n, argv, saver, repeat)
	case KindCommand:
		return matchCommand(n, argv, saver, repeat)
	case KindArgument:
		return matchArgument(n, argv, saver, repeat)
	case KindRequired:
		if !repeat && !n.Repeat {
			return matchOneline(n, argv, saver)
		}
		return matchRepeat(n, argv, saver) > 0
	case KindOptional:
		r := repeat || n.Repeat
		if r {
			matchRepeat(n, argv, saver)
		} else {
			matchOneline(n, argv, saver)
		}
		return true
	case KindEither:
		return matchEither(n, argv, saver, repeat || n.Repeat)
	case KindOptionsShortcut:
		return matchOptionsShortcut(n, argv, saver, repeat)
	default:
		assertf(false, "unknown node kind %v", n.Kind)
		return false
	}
}

// bumpAtomValue advances an Option/Command's own match marker: a running
// count under repetition, or a flat "true" for a single-shot match.
func bumpAtomValue(n *Node, repeat bool) {
	if repeat {
		if n.value.Kind != Int {
			n.value = IntValue(0)
		}
		n.value = IntValue(n.value.N + 1)
	} else {
		n.value = BoolValue(true)
	}
}

// matchOption implements spec.md §4.3.
func matchOption(n *Node, argv *Argv, saver *Saver, repeat bool) bool {
	if argv.Empty() {
		return false
	}
	if !repeat && n.value.Truthy() {
		return true
	}

	saver.Save(n, argv)

	cur, _ := argv.Current(0)

	if cur == "-" && n.HasName("-") && !argv.InDashesMode() {
		bumpAtomValue(n, repeat)
		argv.Next(0)
		argv.dash = true
		return true
	}
	if cur == "--" && n.HasName("--") && !argv.AutoDashes() {
		bumpAtomValue(n, repeat)
		argv.Next(0)
		argv.dashes = true
		return true
	}

	found, rest, hasRest := argv.BreakForOption(n.Names, n.Ref != nil)
	if !found {
		saver.Rollback(n, argv)
		return false
	}

	bumpAtomValue(n, repeat)

	if n.Ref == nil {
		if hasRest {
			if argv.cfg.StdOpt && argv.cfg.AttachOpt {
				argv.Prepend("-" + rest)
				return true
			}
			saver.Rollback(n, argv)
			return false
		}
		return true
	}

	if hasRest {
		sub := NewArgv([]string{rest}, argv.cfg)
		result := matchNode(n.Ref, sub, saver, repeat)
		if !result || !sub.Empty() {
			panic(fatalUsage{msg: "option " + n.Names[0] + " takes exactly one value"})
		}
		return true
	}

	result := matchNode(n.Ref, argv, saver, repeat)
	if !result {
		saver.Rollback(n, argv)
		return false
	}
	return true
}

// matchCommand implements spec.md §4.4.
func matchCommand(n *Node, argv *Argv, saver *Saver, repeat bool) bool {
	cur, ok := argv.Current(0)
	if !ok || cur == "-" {
		return false
	}
	if !repeat && n.value.Truthy() {
		return true
	}

	skip := 0
	if cur == "--" {
		if argv.AutoDashes() && argv.dashes {
			cur, ok = argv.Current(1)
			if !ok {
				return false
			}
			skip = 1
		} else {
			return false
		}
	}

	if classify(cur) || !n.HasName(cur) {
		return false
	}

	saver.Save(n, argv)
	bumpAtomValue(n, repeat)
	argv.Next(skip)
	return true
}

// matchArgument implements spec.md §4.5.
func matchArgument(n *Node, argv *Argv, saver *Saver, repeat bool) bool {
	cur, ok := argv.Current(0)
	if !ok || cur == "-" {
		return false
	}
	if !repeat && n.value.Truthy() {
		return true
	}

	if cur == "--" {
		if argv.AutoDashes() && argv.dashes {
			next, ok := argv.Current(1)
			if !ok {
				return false
			}
			saver.Save(n, argv)
			appendArgumentValue(n, next, repeat)
			argv.Next(1)
			return true
		}
		return false
	}

	if classify(cur) {
		return false
	}

	saver.Save(n, argv)
	appendArgumentValue(n, cur, repeat)
	argv.Next(0)
	return true
}

func appendArgumentValue(n *Node, tok string, repeat bool) {
	if repeat {
		if n.value.Kind != List {
			n.value = ListValue(nil)
		}
		n.value.L = append(n.value.L, tok)
	} else {
		n.value = StrValue(tok)
	}
}

// matchOneline implements spec.md §4.6's match_oneline: repeated sweeps
// across a group's children so options and positionals can interleave in
// any order, stopping once a sweep makes no progress.
func matchOneline(group *Node, argv *Argv, saver *Saver) bool {
	saver.Save(group, argv)

	done := make([]bool, len(group.Children))
	for i, c := range group.Children {
		done[i] = c.Kind == KindOptional || c.Kind == KindOptionsShortcut
	}

	oldStatus := -1
	newStatus := argv.Status()
	for oldStatus != newStatus && !argv.Empty() {
		oldStatus = newStatus
		for i, c := range group.Children {
			if argv.Empty() {
				break
			}
			saver.Save(c, argv)
			if matchNode(c, argv, saver, false) {
				done[i] = true
			}
		}
		newStatus = argv.Status()
	}

	for _, ok := range done {
		if !ok {
			saver.Rollback(group, argv)
			return false
		}
	}
	return true
}

// matchRepeat implements spec.md §4.6's match_repeat: reset-match-dump in a
// loop while the cursor keeps advancing, then merge the per-iteration
// dumps. Returns the number of successful iterations (0 means failure and
// the group has been rolled back).
func matchRepeat(group *Node, argv *Argv, saver *Saver) int {
	saver.Save(group, argv)

	oldStatus := -1
	newStatus := argv.Status()
	count := 0
	var history [][]nodeSnapshot
	for oldStatus != newStatus && !argv.Empty() {
		Reset(group)
		oldStatus = newStatus
		if !matchOneline(group, argv, saver) {
			break
		}
		count++
		history = append(history, dumpGroupValue(group))
		newStatus = argv.Status()
	}

	if count == 0 {
		saver.Rollback(group, argv)
		return 0
	}
	loadGroupValue(group, mergeGroupHistory(group, history))
	return count
}

// dumpGroupValue/loadGroupValue/mergeGroupHistory are the Required/
// Optional analog of dump_value/load_value/merge_value: a positional list
// of each child's own snapshot, merged child-by-child.
func dumpGroupValue(group *Node) []nodeSnapshot {
	out := make([]nodeSnapshot, len(group.Children))
	for i, c := range group.Children {
		out[i] = dumpValue(c)
	}
	return out
}

func loadGroupValue(group *Node, snaps []nodeSnapshot) {
	for i, c := range group.Children {
		loadValue(c, snaps[i])
	}
}

func mergeGroupHistory(group *Node, history [][]nodeSnapshot) []nodeSnapshot {
	if len(history) == 1 {
		return history[0]
	}
	result := make([]nodeSnapshot, len(group.Children))
	for i, c := range group.Children {
		perIter := make([]nodeSnapshot, len(history))
		for j := range history {
			perIter[j] = history[j][i]
		}
		result[i] = mergeSnapshots(c, perIter)
	}
	return result
}

// mergeSnapshots merges one child's per-iteration value snapshots under the
// rules in spec.md §4.6: strings become lists, integers sum, lists
// concatenate, unset values drop out. An Option or Command that matched
// (true) in an iteration counts as 1, so booleans sum into an integer count.
func mergeSnapshots(n *Node, snaps []nodeSnapshot) nodeSnapshot {
	if len(snaps) == 1 {
		return snaps[0]
	}
	switch n.Kind {
	case KindOption:
		result := nodeSnapshot{matchedBranch: -1}
		values := make([]Value, len(snaps))
		for i, s := range snaps {
			values[i] = s.value
		}
		result.value = mergeOptionValues(values)
		if n.Ref != nil {
			refSnaps := make([]nodeSnapshot, len(snaps))
			anySet := false
			for i, s := range snaps {
				if s.refSnapshot != nil {
					refSnaps[i] = *s.refSnapshot
					anySet = true
				}
			}
			if anySet {
				merged := mergeSnapshots(n.Ref, refSnaps)
				result.refSnapshot = &merged
			}
		}
		return result
	case KindCommand:
		total := 0
		for _, s := range snaps {
			if s.value.Kind == Int {
				total += s.value.N
			} else if s.value.B {
				total++
			}
		}
		return nodeSnapshot{value: IntValue(total), matchedBranch: -1}
	case KindArgument:
		values := make([]Value, len(snaps))
		for i, s := range snaps {
			values[i] = s.value
		}
		return nodeSnapshot{value: mergeList(values...), matchedBranch: -1}
	case KindRequired, KindOptional:
		result := nodeSnapshot{matchedBranch: -1, children: make([]nodeSnapshot, len(n.Children))}
		for i, c := range n.Children {
			perIter := make([]nodeSnapshot, len(snaps))
			for j, s := range snaps {
				if i < len(s.children) {
					perIter[j] = s.children[i]
				}
			}
			result.children[i] = mergeSnapshots(c, perIter)
		}
		return result
	case KindEither:
		// An unresolved repeat only ever commits once; later iterations all
		// match the same branch, so the last iteration's state wins.
		return snaps[len(snaps)-1]
	default:
		return snaps[len(snaps)-1]
	}
}

func mergeOptionValues(values []Value) Value {
	hasInt, hasBool := false, false
	for _, v := range values {
		if v.Kind == Int {
			hasInt = true
		}
		if v.Kind == Bool {
			hasBool = true
		}
	}
	if hasInt || hasBool {
		total := 0
		for _, v := range values {
			if v.Kind == Int {
				total += v.N
			} else if v.B {
				total++
			}
		}
		return IntValue(total)
	}
	return mergeList(values...)
}

// matchEither implements spec.md §4.7.
func matchEither(n *Node, argv *Argv, saver *Saver, repeat bool) bool {
	if !repeat {
		return matchEitherOneline(n, argv, saver)
	}
	return matchEitherRepeat(n, argv, saver)
}

func matchEitherOneline(n *Node, argv *Argv, saver *Saver) bool {
	if n.MatchedBranch != -1 {
		branch := n.Children[n.MatchedBranch]
		return matchNode(branch, argv, saver, false)
	}

	scratch := NewSaver()
	for i, branch := range n.Children {
		clone := argv.Clone()
		if matchNode(branch, clone, scratch, false) {
			n.MatchedBranch = i
			argv.SetBy(clone)
			return true
		}
	}
	Reset(n)
	return false
}

// matchEitherRepeat implements the resolved Open Question on Either.
// match_repeat: the first call commits a branch via an ordinary oneline
// match; every call after that (including further calls reached by this
// same loop) retries only the committed branch, for as long as it keeps
// matching and keeps advancing the cursor. The whole repeated match
// succeeds if at least one iteration — the initial commit or a retry —
// matched, even if a later retry fails outright.
func matchEitherRepeat(n *Node, argv *Argv, saver *Saver) bool {
	atLeastOnce := false
	if n.MatchedBranch == -1 {
		if !matchEitherOneline(n, argv, saver) {
			return false
		}
		atLeastOnce = true
	}
	branch := n.Children[n.MatchedBranch]
	for {
		before := argv.Status()
		if !matchNode(branch, argv, saver, true) {
			break
		}
		atLeastOnce = true
		if argv.Status() == before {
			break
		}
	}
	return atLeastOnce
}

// matchOptionsShortcut implements spec.md §4.8: every visible option in the
// global table gets one non-fatal chance to consume from argv; this node
// itself never fails.
func matchOptionsShortcut(n *Node, argv *Argv, saver *Saver, repeat bool) bool {
	for _, opt := range n.Registry.Options {
		if hidden(n, opt) {
			continue
		}
		if argv.Empty() {
			break
		}
		matchNode(opt, argv, saver, repeat)
	}
	return true
}

func hidden(shortcut *Node, opt *Node) bool {
	for _, name := range opt.Names {
		if _, ok := shortcut.Hide[name]; ok {
			return true
		}
	}
	return false
}
