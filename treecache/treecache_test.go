package treecache_test

import (
	"testing"

	. "github.com/onsi/gomega"

	. "github.com/rkennedy/clipattern"
	"github.com/rkennedy/clipattern/matchcfg"
	"github.com/rkennedy/clipattern/treecache"
)

func TestEncodeDecodeRoundTripsShape(t *testing.T) {
	g := NewWithT(t)

	reg := NewRegistry()
	out := NewArgument("<path>")
	opt := reg.Add(NewOption(out, "--output"))
	shortcut := NewOptionsShortcut(reg)
	shortcut.Hide["--output"] = struct{}{}
	root := NewRequired(false, opt, shortcut)

	encoded, err := treecache.Encode(root)
	g.Expect(err).NotTo(HaveOccurred())

	reg2 := NewRegistry()
	decoded, err := treecache.Decode(encoded, reg2)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(decoded.Kind).To(Equal(KindRequired))
	g.Expect(decoded.Children).To(HaveLen(2))

	decodedOpt := decoded.Children[0]
	g.Expect(decodedOpt.Kind).To(Equal(KindOption))
	g.Expect(decodedOpt.Names).To(Equal([]string{"--output"}))
	g.Expect(decodedOpt.Ref).NotTo(BeNil())
	g.Expect(decodedOpt.Ref.Names).To(Equal([]string{"<path>"}))

	decodedShortcut := decoded.Children[1]
	g.Expect(decodedShortcut.Kind).To(Equal(KindOptionsShortcut))
	_, hidden := decodedShortcut.Hide["--output"]
	g.Expect(hidden).To(BeTrue())

	g.Expect(reg2.Find("--output")).To(BeIdenticalTo(decodedOpt))
}

func TestDecodeSharesOptionIdentityAcrossOccurrences(t *testing.T) {
	g := NewWithT(t)

	reg := NewRegistry()
	opt := reg.Add(NewOption(nil, "-v"))
	shortcut := NewOptionsShortcut(reg)
	root := NewRequired(false, opt, shortcut)

	encoded, err := treecache.Encode(root)
	g.Expect(err).NotTo(HaveOccurred())

	reg2 := NewRegistry()
	decoded, err := treecache.Decode(encoded, reg2)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(reg2.Options).To(HaveLen(1))
	g.Expect(decoded.Children[0]).To(BeIdenticalTo(reg2.Options[0]))

	built, err := Build(decoded, reg2)
	g.Expect(err).NotTo(HaveOccurred())
	ok, values, err := Match(built, reg2, []string{"-v"}, matchcfg.Default())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(values["-v"]).To(Equal(BoolValue(true)))
}
