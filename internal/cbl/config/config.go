// Package config loads the optional cbl-lsp configuration file. The file
// extends the static indentation rule table and the highlighting vocabulary;
// it is read once at startup and the resulting tables stay immutable for the
// process lifetime.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/GaloisInc/crucibler-mode/internal/cbl/indent"
	"github.com/GaloisInc/crucibler-mode/internal/cbl/syntax"
)

// Config mirrors the TOML configuration file.
type Config struct {
	Indent     IndentConfig     `toml:"indent"`
	Vocabulary VocabularyConfig `toml:"vocabulary"`
}

// IndentConfig adds indentation rules for user-defined special forms.
type IndentConfig struct {
	// Aliases maps a keyword to another keyword whose rule it shares.
	Aliases map[string]string `toml:"aliases"`

	// Forms maps a keyword to its count of special sub-forms. Forms with
	// two or more special sub-forms indent their body like a procedure
	// definition (three columns); the rest indent one column.
	Forms map[string]int `toml:"forms"`
}

// VocabularyConfig adds words to the highlighting and completion tables.
type VocabularyConfig struct {
	Statements   []string `toml:"statements"`
	MiscKeywords []string `toml:"misc-keywords"`
	Operators    []string `toml:"operators"`
	Types        []string `toml:"types"`
}

// DefaultPath returns the conventional location of the configuration file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cbl-lsp", "config.toml"), nil
}

// Load reads the configuration file at path. A missing file is not an
// error; it simply means the builtin tables apply unchanged.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes TOML configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Apply installs the configured rules and vocabulary into the language
// tables. Call once during startup, before serving requests.
func (c *Config) Apply() {
	if c == nil {
		return
	}

	rules := make(map[string]indent.Policy)
	for name, target := range c.Indent.Aliases {
		rules[name] = indent.Alias(target)
	}
	for name, count := range c.Indent.Forms {
		body := 1
		if count >= 2 {
			body = 3
		}
		rules[name] = indent.Special(count, body)
	}
	if len(rules) > 0 {
		indent.SetCustomRules(rules)
	}

	words := make(map[syntax.Category][]string)
	if len(c.Vocabulary.Statements) > 0 {
		words[syntax.Statement] = c.Vocabulary.Statements
	}
	if len(c.Vocabulary.MiscKeywords) > 0 {
		words[syntax.MiscKeyword] = c.Vocabulary.MiscKeywords
	}
	if len(c.Vocabulary.Operators) > 0 {
		words[syntax.Operator] = c.Vocabulary.Operators
	}
	if len(c.Vocabulary.Types) > 0 {
		words[syntax.TypeConstructor] = c.Vocabulary.Types
	}
	if len(words) > 0 {
		syntax.SetCustomVocabulary(words)
	}
}
