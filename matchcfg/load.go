package matchcfg

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load decodes a Config from a TOML file at path, validating the result.
// This is the one piece of this module's ambient stack with file I/O; the
// matcher itself never touches disk (spec.md §5).
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("matchcfg: loading %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
