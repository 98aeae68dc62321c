package clipattern

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/rkennedy/clipattern/matchcfg"
)

func TestSaverRollbackRestoresEverythingSincePush(t *testing.T) {
	g := NewWithT(t)
	a := NewOption(nil, "-a")
	b := NewOption(nil, "-b")

	argv := NewArgv([]string{"-a", "-c"}, matchcfg.Default())
	saver := NewSaver()

	saver.Save(a, argv)
	a.value = BoolValue(true)
	argv.Next(0)

	saver.Save(b, argv)
	b.value = BoolValue(true)

	saver.Rollback(a, argv)

	g.Expect(a.value).To(Equal(BoolValue(false)))
	g.Expect(b.value).To(Equal(BoolValue(false)))
	cur, ok := argv.Current(0)
	g.Expect(ok).To(BeTrue())
	g.Expect(cur).To(Equal("-a"))
}

func TestSaverRollbackOnUnsavedNodeIsNoop(t *testing.T) {
	g := NewWithT(t)
	a := NewOption(nil, "-a")
	argv := NewArgv([]string{"-a"}, matchcfg.Default())
	saver := NewSaver()

	saver.Rollback(a, argv)

	g.Expect(a.value).To(Equal(BoolValue(false)))
	cur, ok := argv.Current(0)
	g.Expect(ok).To(BeTrue())
	g.Expect(cur).To(Equal("-a"))
}

func TestDumpLoadValueRoundTripsThroughOptionRef(t *testing.T) {
	g := NewWithT(t)
	ref := NewArgument("<path>")
	opt := NewOption(ref, "--output")
	opt.value = BoolValue(true)
	ref.value = StrValue("/tmp/x")

	snap := dumpValue(opt)

	opt.value = BoolValue(false)
	ref.value = StrValue("")

	loadValue(opt, snap)

	g.Expect(opt.value).To(Equal(BoolValue(true)))
	g.Expect(ref.value).To(Equal(StrValue("/tmp/x")))
}

func TestBreakForOptionShortClusterRemainderIsAttachedValue(t *testing.T) {
	g := NewWithT(t)
	argv := NewArgv([]string{"-xval"}, matchcfg.Default())

	found, rest, hasRest := argv.BreakForOption([]string{"-x"}, true)

	g.Expect(found).To(BeTrue())
	g.Expect(hasRest).To(BeTrue())
	g.Expect(rest).To(Equal("val"))
	g.Expect(argv.Empty()).To(BeTrue())
}

func TestBreakForOptionRejectsAttachedValueWithoutConfig(t *testing.T) {
	g := NewWithT(t)
	cfg := matchcfg.Default()
	cfg.AttachValue = false
	argv := NewArgv([]string{"-xval"}, cfg)

	found, _, _ := argv.BreakForOption([]string{"-x"}, true)

	g.Expect(found).To(BeFalse())
}
