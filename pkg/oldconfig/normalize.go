package oldconfig

import (
	"strconv"
	"strings"

	"github.com/Bibi40k/kconfig-oldconfig/pkg/kconfig"
)

// tristateTokens are the only answers a bool or tristate prompt accepts.
// Matching is case-sensitive.
var tristateTokens = map[string]int{
	"n": kconfig.No,
	"m": kconfig.Mod,
	"y": kconfig.Yes,
}

// ParseTristate maps an answer to a tristate level.
func ParseTristate(s string) (int, bool) {
	level, ok := tristateTokens[s]
	return level, ok
}

// NormalizeHex adds the 0x prefix hex prompts accept without. Values read
// from .config files never go through here.
func NormalizeHex(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}

// TrimAnswer strips surrounding whitespace from answers to every prompt
// except string ones, where it is part of the value.
func TrimAnswer(answer string, typ kconfig.Type) string {
	if typ == kconfig.String {
		return answer
	}
	return strings.TrimSpace(answer)
}

// OrDefault substitutes a blank answer with the current value.
func OrDefault(answer, current string) string {
	if answer == "" {
		return current
	}
	return answer
}

// TristateHint renders the assignable levels as "n/M/y", uppercasing the
// level equal to current.
func TristateHint(assignable []int, current int) string {
	parts := make([]string, 0, len(assignable))
	for _, level := range assignable {
		letter := kconfig.TriToStr[level]
		if level == current {
			letter = strings.ToUpper(letter)
		}
		parts = append(parts, letter)
	}
	return strings.Join(parts, "/")
}

// ParseIndex parses a 1-based menu index and returns it 0-based. Anything
// that is not an integer in [1, count] is rejected.
func ParseIndex(s string, count int) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}
