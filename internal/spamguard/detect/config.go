package detect

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultMinLength = 5
	DefaultMaxLength = 50000
)

// DefaultPatterns is the denylist used when no rules file overrides it.
var DefaultPatterns = []string{
	`(DROP|DELETE|INSERT|UPDATE|SELECT)\s+.*\bFROM\b`,
	`<script.*?>`,
	`<[^>]*javascript:[^>]*>`,
	`\$\{.*?\}|\$\(.*?\)`,
	`\\x[0-9a-fA-F]{2}`,
}

// DefaultKeyboardWalks are adjacent-key runs on a QWERTY layout.
var DefaultKeyboardWalks = []string{"qwert", "asdfg", "zxcvb", "qay", "wsx", "edc"}

// Config is the tunable part of the rule set. It maps onto a TOML file:
//
//	min_length = 5
//	max_length = 50000
//	patterns = ['<script.*?>']
//	keyboard_walks = ["qwert"]
type Config struct {
	MinLength     int      `toml:"min_length"`
	MaxLength     int      `toml:"max_length"`
	Patterns      []string `toml:"patterns"`
	KeyboardWalks []string `toml:"keyboard_walks"`
}

// DefaultConfig returns the built in rule configuration.
func DefaultConfig() Config {
	return Config{
		MinLength:     DefaultMinLength,
		MaxLength:     DefaultMaxLength,
		Patterns:      append([]string(nil), DefaultPatterns...),
		KeyboardWalks: append([]string(nil), DefaultKeyboardWalks...),
	}
}

var ErrInvalidConfig = errors.New("detect: invalid rule configuration")

// LoadRules reads a TOML rules file on top of the defaults. Keys missing from
// the file keep their default value, unknown keys are rejected.
func LoadRules(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Build compiles the configuration into the ordered rule list.
func (c Config) Build() ([]Rule, error) {
	if c.MinLength < 0 || c.MaxLength <= 0 || c.MinLength > c.MaxLength {
		return nil, fmt.Errorf("%w: length bounds [%d, %d]", ErrInvalidConfig, c.MinLength, c.MaxLength)
	}

	patterns := make([]*regexp.Regexp, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", ErrInvalidConfig, p, err)
		}
		patterns = append(patterns, re)
	}

	return []Rule{
		LengthRule(c.MinLength, c.MaxLength),
		PatternRule(patterns),
		EntropyRule(),
		RunLengthRule(),
		AlternatingRule(),
		KeyboardRule(c.KeyboardWalks),
		NumericRule(),
		SpecialCharRule(),
		UniquenessRule(),
		RepetitionRule(),
	}, nil
}

// DefaultRules is the rule list built from DefaultConfig.
func DefaultRules() []Rule {
	rules, err := DefaultConfig().Build()
	if err != nil {
		panic(err)
	}
	return rules
}
