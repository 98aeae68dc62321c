package clipattern

// Saver is the transactional snapshot stack backing the matcher's
// backtracking. save(node, argv) captures a node's current value and the
// cursor's current state; rollback(node, argv) restores the most recent
// snapshot for that node and discards (undoing, LIFO) every snapshot taken
// after it. Nothing in this package unwinds through panic/recover for
// ordinary match failure — it's always a plain bool return plus an explicit
// Rollback call.
type Saver struct {
	entries []saverEntry
}

type saverEntry struct {
	node    *Node
	value   nodeSnapshot
	cursor  argvState
	isGroup bool // Required/Optional/OptionsShortcut save points carry no value
}

// nodeSnapshot is the small per-kind payload dump_value/load_value exchange
// in the original: an Option also snapshots its ref, an Either snapshots
// which branch it has committed to, and a Required/Optional group snapshots
// its children recursively so that a group nested inside a repeating group
// round-trips through match_repeat's per-iteration dump/merge/load cycle.
type nodeSnapshot struct {
	value         Value
	refSnapshot   *nodeSnapshot
	matchedBranch int
	children      []nodeSnapshot
}

// NewSaver returns an empty snapshot stack.
func NewSaver() *Saver {
	return &Saver{}
}

func dumpValue(n *Node) nodeSnapshot {
	switch n.Kind {
	case KindOption:
		snap := nodeSnapshot{value: n.value.Clone(), matchedBranch: -1}
		if n.Ref != nil {
			rs := dumpValue(n.Ref)
			snap.refSnapshot = &rs
		}
		return snap
	case KindArgument, KindCommand:
		return nodeSnapshot{value: n.value.Clone(), matchedBranch: -1}
	case KindEither:
		snap := nodeSnapshot{matchedBranch: n.MatchedBranch, children: make([]nodeSnapshot, len(n.Children))}
		for i, c := range n.Children {
			snap.children[i] = dumpValue(c)
		}
		return snap
	case KindRequired, KindOptional:
		snap := nodeSnapshot{matchedBranch: -1, children: make([]nodeSnapshot, len(n.Children))}
		for i, c := range n.Children {
			snap.children[i] = dumpValue(c)
		}
		return snap
	default:
		return nodeSnapshot{matchedBranch: -1}
	}
}

func loadValue(n *Node, snap nodeSnapshot) {
	switch n.Kind {
	case KindOption:
		n.value = snap.value
		if n.Ref != nil && snap.refSnapshot != nil {
			loadValue(n.Ref, *snap.refSnapshot)
		}
	case KindArgument, KindCommand:
		n.value = snap.value
	case KindEither:
		n.MatchedBranch = snap.matchedBranch
		for i, c := range n.Children {
			if i < len(snap.children) {
				loadValue(c, snap.children[i])
			}
		}
	case KindRequired, KindOptional:
		for i, c := range n.Children {
			if i < len(snap.children) {
				loadValue(c, snap.children[i])
			}
		}
	}
}

// Save captures node's value and argv's cursor position onto the stack.
func (s *Saver) Save(node *Node, argv *Argv) {
	s.entries = append(s.entries, saverEntry{
		node:   node,
		value:  dumpValue(node),
		cursor: argv.snapshot(),
	})
}

// Rollback restores node to the value it had at its most recent Save, and
// restores argv to the cursor position recorded at that same Save,
// discarding every entry pushed after it. If node was never saved, this is
// a no-op.
func (s *Saver) Rollback(node *Node, argv *Argv) {
	idx := -1
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].node == node {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	for i := len(s.entries) - 1; i >= idx; i-- {
		e := s.entries[i]
		loadValue(e.node, e.value)
		argv.restore(e.cursor)
	}
	s.entries = s.entries[:idx]
}
