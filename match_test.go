package clipattern_test

import (
	"testing"

	. "github.com/onsi/gomega"

	. "github.com/rkennedy/clipattern"
	"github.com/rkennedy/clipattern/matchcfg"
)

type scenario struct {
	label   string
	build   func(reg *Registry) *Node
	argv    []string
	matched bool
	check   func(g *WithT, values map[string]Value)
}

var scenarios = []scenario{
	{
		label: "repeated flag counts its occurrences",
		build: func(reg *Registry) *Node {
			v := reg.Add(NewOption(nil, "-v"))
			return NewRequired(false, NewOptional(true, v))
		},
		argv:    []string{"-v", "-v", "-v"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["-v"]).To(Equal(IntValue(3)))
		},
	},
	{
		label: "either picks the branch that matches",
		build: func(reg *Registry) *Node {
			a := reg.Add(NewOption(nil, "-a"))
			b := reg.Add(NewOption(nil, "-b"))
			return NewRequired(false, NewEither(false, NewRequired(false, a), NewRequired(false, b)))
		},
		argv:    []string{"-b"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["-b"]).To(Equal(BoolValue(true)))
			g.Expect(values["-a"]).To(Equal(BoolValue(false)))
		},
	},
	{
		label: "repeated positional accumulates a list",
		build: func(reg *Registry) *Node {
			file := NewArgument("<file>")
			return NewRequired(false, NewRequired(true, file))
		},
		argv:    []string{"a.txt", "b.txt", "c.txt"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["<file>"]).To(Equal(ListValue([]string{"a.txt", "b.txt", "c.txt"})))
		},
	},
	{
		label: "attached long value",
		build: func(reg *Registry) *Node {
			out := NewArgument("<path>")
			opt := reg.Add(NewOption(out, "--output"))
			return NewRequired(false, opt)
		},
		argv:    []string{"--output=/tmp/x"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["--output"]).To(Equal(StrValue("/tmp/x")))
			_, ok := values["<path>"]
			g.Expect(ok).To(BeFalse())
		},
	},
	{
		label: "attached short value",
		build: func(reg *Registry) *Node {
			val := NewArgument("<v>")
			opt := reg.Add(NewOption(val, "-x"))
			return NewRequired(false, opt)
		},
		argv:    []string{"-xval"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["-x"]).To(Equal(StrValue("val")))
			_, ok := values["<v>"]
			g.Expect(ok).To(BeFalse())
		},
	},
	{
		label: "space-separated long value",
		build: func(reg *Registry) *Node {
			val := NewArgument("<v>")
			opt := reg.Add(NewOption(val, "--opt"))
			return NewRequired(false, opt)
		},
		argv:    []string{"--opt", "val"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["--opt"]).To(Equal(StrValue("val")))
			_, ok := values["<v>"]
			g.Expect(ok).To(BeFalse())
		},
	},
	{
		label: "short cluster with attachopt splits into its members",
		build: func(reg *Registry) *Node {
			r := reg.Add(NewOption(nil, "-r"))
			f := reg.Add(NewOption(nil, "-f"))
			return NewRequired(false, NewOptional(false, r), NewOptional(false, f))
		},
		argv:    []string{"-rf"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["-r"]).To(Equal(BoolValue(true)))
			g.Expect(values["-f"]).To(Equal(BoolValue(true)))
		},
	},
	{
		label: "command plus positional",
		build: func(reg *Registry) *Node {
			mv := NewCommand("mv")
			src := NewArgument("<src>")
			dst := NewArgument("<dst>")
			return NewRequired(false, mv, src, dst)
		},
		argv:    []string{"mv", "a.txt", "b.txt"},
		matched: true,
		check: func(g *WithT, values map[string]Value) {
			g.Expect(values["mv"]).To(Equal(BoolValue(true)))
			g.Expect(values["<src>"]).To(Equal(StrValue("a.txt")))
			g.Expect(values["<dst>"]).To(Equal(StrValue("b.txt")))
		},
	},
}

func TestMatchScenarios(t *testing.T) {
	t.Parallel()
	for _, tc := range scenarios {
		tc := tc
		t.Run(tc.label, func(t *testing.T) {
			g := NewWithT(t)
			reg := NewRegistry()
			root := tc.build(reg)
			built, err := Build(root, reg)
			g.Expect(err).NotTo(HaveOccurred())

			ok, values, err := Match(built, reg, tc.argv, matchcfg.Default())
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(ok).To(Equal(tc.matched))
			if tc.check != nil {
				tc.check(g, values)
			}
		})
	}
}

func TestMatchFailsOnLeftoverTokens(t *testing.T) {
	g := NewWithT(t)
	reg := NewRegistry()
	a := reg.Add(NewOption(nil, "-a"))
	root, err := Build(NewRequired(false, a), reg)
	g.Expect(err).NotTo(HaveOccurred())

	ok, _, err := Match(root, reg, []string{"-a", "-b"}, matchcfg.Default())
	g.Expect(ok).To(BeFalse())
	g.Expect(err).To(HaveOccurred())
}

func TestResetIsIdempotent(t *testing.T) {
	g := NewWithT(t)
	reg := NewRegistry()
	v := reg.Add(NewOption(nil, "-v"))
	root, err := Build(NewRequired(false, NewOptional(true, v)), reg)
	g.Expect(err).NotTo(HaveOccurred())

	_, _, err = Match(root, reg, []string{"-v", "-v"}, matchcfg.Default())
	g.Expect(err).NotTo(HaveOccurred())

	Reset(root)
	ResetRegistry(reg)
	Reset(root)
	ResetRegistry(reg)

	ok, values, err := Match(root, reg, []string{}, matchcfg.Default())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(values["-v"]).To(Equal(IntValue(0)))
}

func TestOptionHasNameIntersection(t *testing.T) {
	g := NewWithT(t)
	opt := NewOption(nil, "-v", "--verbose")
	g.Expect(opt.HasName("--verbose")).To(BeTrue())
	g.Expect(opt.HasName("-x", "--verbose")).To(BeTrue())
	g.Expect(opt.HasName("--quiet")).To(BeFalse())
}

func TestArgRange(t *testing.T) {
	g := NewWithT(t)
	file := NewArgument("<file>")
	root := NewRequired(false, NewRequired(true, file))
	min, max := ArgRange(root)
	g.Expect(min).To(Equal(1))
	g.Expect(max).To(Equal(Unbounded))

	opt := NewOptional(false, NewArgument("<name>"))
	min, max = ArgRange(opt)
	g.Expect(min).To(Equal(0))
	g.Expect(max).To(Equal(1))
}

func TestEitherRepeatRetriesCommittedBranch(t *testing.T) {
	g := NewWithT(t)
	reg := NewRegistry()
	a := reg.Add(NewOption(nil, "-a"))
	b := reg.Add(NewOption(nil, "-b"))
	either := NewEither(true, NewRequired(false, a), NewRequired(false, b))
	root, err := Build(NewRequired(false, either), reg)
	g.Expect(err).NotTo(HaveOccurred())

	ok, values, err := Match(root, reg, []string{"-a", "-a", "-a"}, matchcfg.Default())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(values["-a"].Truthy()).To(BeTrue())
	g.Expect(values["-b"]).To(Equal(BoolValue(false)))
}

