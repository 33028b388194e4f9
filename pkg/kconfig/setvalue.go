package kconfig

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SetValue validates value against the symbol's type and current state and
// assigns it as the user value. Bool and tristate symbols take "n", "m" or
// "y"; int symbols take decimal numbers; hex symbols take 0x-prefixed
// numbers. On rejection a warning is logged and false returned; the symbol
// is left untouched.
func (s *Symbol) SetValue(value string) bool {
	if s.typ == Bool || s.typ == Tristate {
		tri, ok := StrToTri[value]
		if !ok {
			s.warnInvalid(value)
			return false
		}
		return s.SetTriValue(tri)
	}
	if !s.validFormat(value) {
		s.warnInvalid(value)
		return false
	}
	if s.typ == Int || s.typ == Hex {
		if low, high, ok := s.activeRange(); ok {
			n, _ := s.parseNumber(value)
			if n < low || n > high {
				s.cfg.warn("the value %s is outside the range [%s, %s] of %s (defined at %s). Assignment ignored.",
					value, s.formatNumber(low), s.formatNumber(high), s.Name, s.Locations())
				return false
			}
		}
	}
	s.assign(No, value)
	return true
}

// SetTriValue assigns a tristate level to a bool or tristate symbol. The
// level must be one of Assignable().
func (s *Symbol) SetTriValue(level int) bool {
	if s.typ != Bool && s.typ != Tristate {
		s.warnInvalid(strconv.Itoa(level))
		return false
	}
	if level < No || level > Yes {
		s.warnInvalid(strconv.Itoa(level))
		return false
	}
	// m is a type error for a declared bool, not an assignability one.
	if s.typ == Bool && level == Mod {
		s.warnInvalid(TriToStr[level])
		return false
	}
	assignable := s.Assignable()
	if !slices.Contains(assignable, level) {
		s.cfg.warn("the value %s is not assignable to %s (defined at %s), which can currently be set to %s. Assignment ignored.",
			TriToStr[level], s.Name, s.Locations(), formatLevels(assignable))
		return false
	}
	s.assign(level, "")
	return true
}

// validFormat checks value against the declared type only, ignoring ranges
// and dependencies. Hex values must carry a 0x prefix.
func (s *Symbol) validFormat(value string) bool {
	switch s.typ {
	case Bool:
		return value == "n" || value == "y"
	case Tristate:
		_, ok := StrToTri[value]
		return ok
	case String:
		return true
	case Int:
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case Hex:
		if !hasHexPrefix(value) {
			return false
		}
		_, ok := parseHex(value)
		return ok
	}
	return false
}

func (s *Symbol) warnInvalid(value string) {
	s.cfg.warn("the value '%s' is invalid for %s (defined at %s), which has type %s. Assignment ignored.",
		value, s.Name, s.Locations(), s.typ)
}

func (s *Symbol) assign(tri int, str string) {
	s.userSet = true
	s.userTri = tri
	s.userStr = str
	if s.Choice != nil && tri == Yes && (s.typ == Bool || s.typ == Tristate) {
		s.Choice.userSelection = s
	}
	s.cfg.invalidate()
}

// UnsetValue removes the user value, so the symbol falls back on its
// defaults.
func (s *Symbol) UnsetValue() {
	if !s.userSet {
		return
	}
	s.userSet = false
	s.userTri = No
	s.userStr = ""
	if s.Choice != nil && s.Choice.userSelection == s {
		s.Choice.userSelection = nil
	}
	s.cfg.invalidate()
}

// setMode sets the user mode of a choice, as loading a member assignment
// from .config does.
func (c *Choice) setMode(level int) {
	c.userSet = true
	c.userMode = level
	c.cfg.invalidate()
}

func formatLevels(levels []int) string {
	if len(levels) == 0 {
		return "nothing"
	}
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, TriToStr[l])
	}
	return strings.Join(out, "/")
}

// ResetUserValues drops every user value and choice selection.
func (c *Config) ResetUserValues() {
	for _, s := range c.Defined {
		s.userSet, s.userTri, s.userStr = false, No, ""
	}
	for _, ch := range c.Choices {
		ch.userSet, ch.userMode, ch.userSelection = false, No, nil
	}
	c.invalidate()
}

// String describes the symbol for diagnostics.
func (s *Symbol) String() string {
	if len(s.Nodes) == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s (defined at %s)", s.Name, s.Locations())
}
