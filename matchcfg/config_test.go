package matchcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	. "github.com/rkennedy/clipattern/matchcfg"
)

func TestDefaultIsInternallyConsistent(t *testing.T) {
	g := NewWithT(t)
	cfg := Default()
	g.Expect(cfg.Validate()).NotTo(HaveOccurred())
	g.Expect(cfg.StdOpt).To(BeTrue())
	g.Expect(cfg.AttachOpt).To(BeTrue())
	g.Expect(cfg.AttachValue).To(BeTrue())
	g.Expect(cfg.AutoDashes).To(BeTrue())
}

func TestValidateRejectsAttachWithoutStdOpt(t *testing.T) {
	g := NewWithT(t)

	cfg := Config{StdOpt: false, AttachOpt: true}
	g.Expect(cfg.Validate()).To(HaveOccurred())

	cfg = Config{StdOpt: false, AttachValue: true}
	g.Expect(cfg.Validate()).To(HaveOccurred())

	cfg = Config{StdOpt: false}
	g.Expect(cfg.Validate()).NotTo(HaveOccurred())
}

func TestLoadDecodesTOMLAndValidates(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "matchcfg.toml")
	g.Expect(os.WriteFile(path, []byte("stdopt = true\nattachopt = false\nattachvalue = false\nauto_dashes = true\n"), 0o600)).To(Succeed())

	cfg, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg).To(Equal(Config{StdOpt: true, AttachOpt: false, AttachValue: false, AutoDashes: true}))
}

func TestLoadRejectsInconsistentTOML(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "matchcfg.toml")
	g.Expect(os.WriteFile(path, []byte("stdopt = false\nattachopt = true\n"), 0o600)).To(Succeed())

	_, err := Load(path)
	g.Expect(err).To(HaveOccurred())
}

func TestLoadReportsMissingFile(t *testing.T) {
	g := NewWithT(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	g.Expect(err).To(HaveOccurred())
}
