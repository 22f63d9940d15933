// Package settings loads the core's two temporary-column limits (§7's
// TOO_MANY_TEMPORARY_COLUMNS / TOO_MANY_TEMPORARY_NON_CONST_COLUMNS
// thresholds; the first is checked at linearize time, the second at
// execution time) the way the teacher's cmd/tester loads its run
// configuration: a static BurntSushi/toml file as the base, overlaid by
// spf13/viper so environment variables can override it without a config
// file present at all. No command-line flags are bound.
package settings

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/ArtCorp/exprdag/pkg/program"
)

// Settings bounds the linearizer's and the executor's temporary-column checks.
type Settings struct {
	MaxTemporaryColumns         int `toml:"max_temporary_columns"`
	MaxTemporaryNonConstColumns int `toml:"max_temporary_non_const_columns"`
}

// Default matches the teacher's habit of shipping a sane built-in
// configuration rather than requiring a file to exist at all.
func Default() Settings {
	return Settings{
		MaxTemporaryColumns:         1000,
		MaxTemporaryNonConstColumns: 1000,
	}
}

// Load reads path (if non-empty and present) as the toml base, then lets
// viper layer EXPRDAG_-prefixed environment variables on top.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &s); err != nil {
				return Settings{}, fmt.Errorf("settings: decoding %s: %w", path, err)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix("EXPRDAG")
	v.AutomaticEnv()
	if v.IsSet("max_temporary_columns") {
		s.MaxTemporaryColumns = v.GetInt("max_temporary_columns")
	}
	if v.IsSet("max_temporary_non_const_columns") {
		s.MaxTemporaryNonConstColumns = v.GetInt("max_temporary_non_const_columns")
	}
	return s, nil
}

// Limits adapts Settings to program.Limits, so callers never need to
// import both packages just to linearize.
func (s Settings) Limits() program.Limits {
	return program.Limits{
		MaxTemporaryColumns:         s.MaxTemporaryColumns,
		MaxTemporaryNonConstColumns: s.MaxTemporaryNonConstColumns,
	}
}
