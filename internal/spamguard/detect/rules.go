package detect

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
)

// Rule names, also used as security event types.
const (
	RuleOversized        = "oversized_input"
	RuleUndersized       = "undersized_input"
	RuleSuspiciousPat    = "suspicious_pattern"
	RuleUnusualEntropy   = "unusual_entropy"
	RuleRepeatedChars    = "repeated_characters"
	RuleAlternating      = "alternating_pattern"
	RuleKeyboard         = "keyboard_pattern"
	RuleSuspiciousNum    = "suspicious_numeric"
	RuleSpecialChars     = "high_special_char_ratio"
	RuleRandom           = "random_distribution"
	RuleRepeatingSubseq  = "repeating_subsequence"
	RuleIdenticalHalves  = "identical_halves"
	RuleIdenticalSegment = "identical_segments"
)

// Finding describes why a rule fired.
type Finding struct {
	Rule     string
	Reason   string
	Severity domain.Severity
}

// Input is a submission prepared once for every rule.
type Input struct {
	Text  string
	Runes []rune
	Lower string
}

// NewInput splits text into runes; all lengths are counted in characters.
func NewInput(text string) Input {
	return Input{Text: text, Runes: []rune(text), Lower: strings.ToLower(text)}
}

// Rule inspects an input and reports a finding when it matches.
type Rule interface {
	Check(in Input) (Finding, bool)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(in Input) (Finding, bool)

func (f RuleFunc) Check(in Input) (Finding, bool) { return f(in) }

func medium(rule, reason string) (Finding, bool) {
	return Finding{Rule: rule, Reason: reason, Severity: domain.SeverityMedium}, true
}

// LengthRule rejects inputs outside [minLen, maxLen].
func LengthRule(minLen, maxLen int) Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		n := len(in.Runes)
		if n > maxLen {
			return medium(RuleOversized, fmt.Sprintf("Input length: %d", n))
		}
		if n < minLen {
			return Finding{
				Rule:     RuleUndersized,
				Reason:   fmt.Sprintf("Input length: %d", n),
				Severity: domain.SeverityLow,
			}, true
		}
		return Finding{}, false
	})
}

// PatternRule rejects inputs matching any of the denylist expressions.
func PatternRule(patterns []*regexp.Regexp) Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		for _, re := range patterns {
			if re.MatchString(in.Text) {
				return Finding{
					Rule:     RuleSuspiciousPat,
					Reason:   "Pattern detected: " + strings.TrimPrefix(re.String(), "(?i)"),
					Severity: domain.SeverityHigh,
				}, true
			}
		}
		return Finding{}, false
	})
}

// Entropy is the Shannon entropy in bits of the character histogram.
func Entropy(runes []rune) float64 {
	if len(runes) == 0 {
		return 0
	}
	counts := make(map[rune]int)
	for _, r := range runes {
		counts[r]++
	}

	total := float64(len(runes))
	var h float64
	for _, c := range counts {
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

// EntropyRule rejects long inputs with a degenerate character distribution.
func EntropyRule() Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		if len(in.Runes) <= 10 {
			return Finding{}, false
		}
		if h := Entropy(in.Runes); h < 2.0 {
			return medium(RuleUnusualEntropy, fmt.Sprintf("Input entropy: %.4f", h))
		}
		return Finding{}, false
	})
}

// RunLengthRule rejects any character repeated 4 or more times in a row.
func RunLengthRule() Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		run := 1
		for i := 1; i < len(in.Runes); i++ {
			if in.Runes[i] == in.Runes[i-1] {
				run++
				if run >= 4 {
					return medium(RuleRepeatedChars, "Repeated character sequence detected")
				}
				continue
			}
			run = 1
		}
		return Finding{}, false
	})
}

// AlternatingRule rejects a two character unit repeated 3 or more times in
// a row, like "ababab".
func AlternatingRule() Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		rs := in.Runes
		for i := 0; i+6 <= len(rs); i++ {
			a, b := rs[i], rs[i+1]
			if rs[i+2] == a && rs[i+3] == b && rs[i+4] == a && rs[i+5] == b {
				return medium(RuleAlternating, "Alternating character pattern detected")
			}
		}
		return Finding{}, false
	})
}

// KeyboardRule rejects inputs containing an adjacent-key walk.
func KeyboardRule(walks []string) Rule {
	lowered := make([]string, 0, len(walks))
	for _, w := range walks {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			lowered = append(lowered, w)
		}
	}

	return RuleFunc(func(in Input) (Finding, bool) {
		for _, w := range lowered {
			if strings.Contains(in.Lower, w) {
				return medium(RuleKeyboard, "Keyboard pattern detected: "+w)
			}
		}
		return Finding{}, false
	})
}

var (
	digitsOnly     = regexp.MustCompile(`^[0-9]+$`)
	numericAllowed = []*regexp.Regexp{
		regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`), // phone
		regexp.MustCompile(`^\d{5}(-\d{4})?$`),    // ZIP
		regexp.MustCompile(`^\d{1,3}$`),           // short number
	}
)

// NumericRule rejects digit-only inputs longer than 4 characters that do not
// look like a phone number, ZIP code or short number.
func NumericRule() Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		if len(in.Runes) <= 4 || !digitsOnly.MatchString(in.Text) {
			return Finding{}, false
		}
		for _, re := range numericAllowed {
			if re.MatchString(in.Text) {
				return Finding{}, false
			}
		}
		return medium(RuleSuspiciousNum, "Suspicious numeric sequence")
	})
}

// SpecialCharRule rejects inputs where fewer than 70% of characters are
// letters or digits.
func SpecialCharRule() Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		n := len(in.Runes)
		if n <= 5 {
			return Finding{}, false
		}
		alnum := 0
		for _, r := range in.Runes {
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				alnum++
			}
		}
		if float64(alnum)/float64(n) < 0.7 {
			return medium(RuleSpecialChars, "High ratio of special characters")
		}
		return Finding{}, false
	})
}

// UniquenessRule rejects inputs where more than 80% of characters are
// distinct, which is typical of random strings.
func UniquenessRule() Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		n := len(in.Runes)
		if n <= 8 {
			return Finding{}, false
		}
		seen := make(map[rune]struct{}, n)
		for _, r := range in.Runes {
			seen[r] = struct{}{}
		}
		if float64(len(seen))/float64(n) > 0.8 {
			return medium(RuleRandom, "Random character distribution detected")
		}
		return Finding{}, false
	})
}

// RepetitionRule covers three structural checks on inputs of 8 or more
// characters: the whole text tiled by a shorter period, two identical
// halves, and any 4+ character segment occurring again later without
// overlapping itself.
func RepetitionRule() Rule {
	return RuleFunc(func(in Input) (Finding, bool) {
		rs := in.Runes
		n := len(rs)
		if n < 8 {
			return Finding{}, false
		}

		if p := smallestPeriod(rs); p <= n/2 {
			p = max(p, 2)
			return medium(RuleRepeatingSubseq, "Repeating pattern detected: "+string(rs[:p]))
		}

		half := n / 2
		if half >= 4 && string(rs[:half]) == string(rs[half:2*half]) {
			return medium(RuleIdenticalHalves, "String contains identical halves")
		}

		if seg, ok := repeatedSegment(rs, 4); ok {
			return medium(RuleIdenticalSegment, "Identical segments detected: "+seg)
		}

		return Finding{}, false
	})
}

// smallestPeriod returns the smallest p such that rs[i] == rs[i-p] for all
// i >= p, computed from the prefix function.
func smallestPeriod(rs []rune) int {
	pi := make([]int, len(rs))
	for i := 1; i < len(rs); i++ {
		k := pi[i-1]
		for k > 0 && rs[i] != rs[k] {
			k = pi[k-1]
		}
		if rs[i] == rs[k] {
			k++
		}
		pi[i] = k
	}
	return len(rs) - pi[len(rs)-1]
}

// repeatedSegment reports whether some segment of length size occurs again
// starting at least size characters later. A longer repeated segment always
// implies one of this length, so only this length is checked.
func repeatedSegment(rs []rune, size int) (string, bool) {
	first := make(map[string]int, len(rs))
	for i := 0; i+size <= len(rs); i++ {
		gram := string(rs[i : i+size])
		j, ok := first[gram]
		if !ok {
			first[gram] = i
			continue
		}
		if i-j >= size {
			return gram, true
		}
	}
	return "", false
}
