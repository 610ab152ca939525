package decompiler

import (
	"os"
	"path/filepath"

	"github.com/xyproto/env/v2"

	"github.com/daios-ai/decompiler/internal/names"
)

// Config is the process-level configuration. Every field has an environment
// variable; command-line flags override them.
type Config struct {
	Debug       bool   // DECOMPILE_DEBUG: verify every definition and trace stages
	NamesPath   string // DECOMPILE_NAMES: dictionary JSON; empty means the embedded one
	MaxStackMB  int    // DECOMPILE_MAX_STACK_MB: goroutine stack ceiling
	HistoryPath string // DECOMPILE_HISTORY: REPL history file
}

const defaultMaxStackMB = 1024

// LoadConfig reads Config from the environment as it is now. The env package
// caches variables on first use, so the cache is refreshed first.
func LoadConfig() Config {
	env.Load()
	return Config{
		Debug:       env.Bool("DECOMPILE_DEBUG"),
		NamesPath:   env.Str("DECOMPILE_NAMES"),
		MaxStackMB:  env.Int("DECOMPILE_MAX_STACK_MB", defaultMaxStackMB),
		HistoryPath: env.Str("DECOMPILE_HISTORY", defaultHistoryPath()),
	}
}

// Dictionary loads NamesPath, or returns the embedded dictionary.
func (c Config) Dictionary() (*names.Dictionary, error) {
	if c.NamesPath == "" {
		return names.Default(), nil
	}
	return names.LoadFile(c.NamesPath)
}

// MaxStackBytes is MaxStackMB in bytes, falling back to the default for
// non-positive values.
func (c Config) MaxStackBytes() int {
	mb := c.MaxStackMB
	if mb <= 0 {
		mb = defaultMaxStackMB
	}
	return mb << 20
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".decompile_history"
	}
	return filepath.Join(home, ".decompile_history")
}
