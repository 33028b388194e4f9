package kconfig

import (
	"strconv"
)

// symbolCache memoizes evaluations until the next assignment. A stamp of
// zero means "not computed"; valid stamps are gen+1.
type symbolCache struct {
	visStamp uint64
	vis      int

	valStamp uint64
	tri      int
	str      string
	write    bool

	evaluating bool
}

func (c *Config) stamp() uint64 { return c.gen + 1 }

// Type returns the effective type. Tristate symbols act as bool when
// module support is off or when they sit in a choice in y mode.
func (s *Symbol) Type() Type {
	if s.typ == Tristate {
		if s.Choice != nil && s.Choice.TriValue() == Yes {
			return Bool
		}
		if s.cfg.modulesOff() {
			return Bool
		}
	}
	return s.typ
}

func (c *Config) modulesOff() bool {
	return c.Modules == nil || c.Modules.TriValue() == No
}

// Visibility returns the highest level the user may set the symbol to,
// derived from its prompts and their conditions.
func (s *Symbol) Visibility() int {
	if s.IsConst || s.cfg == nil {
		return No
	}
	st := s.cfg.stamp()
	if s.cache.visStamp == st {
		return s.cache.vis
	}
	vis := promptVisibility(s.cfg, s.Nodes)
	if ch := s.Choice; ch != nil {
		mode := ch.TriValue()
		switch {
		case ch.typ == Tristate && s.typ != Tristate && mode != Yes:
			vis = No
		case s.typ == Tristate && vis == Mod && mode == Yes:
			vis = No
		default:
			vis = min(vis, ch.Visibility())
		}
	}
	if vis == Mod && s.Type() != Tristate {
		vis = Yes
	}
	s.cache.visStamp, s.cache.vis = st, vis
	return vis
}

func promptVisibility(c *Config, nodes []*MenuNode) int {
	vis := No
	for _, n := range nodes {
		if n.Prompt != "" {
			vis = max(vis, c.eval(n.PromptCond))
		}
	}
	return vis
}

// TriValue returns the tristate value: 0 (n), 1 (m) or 2 (y). Symbols that
// are not bool or tristate always report n.
func (s *Symbol) TriValue() int {
	if s.IsConst {
		return StrToTri[s.Name]
	}
	s.compute()
	return s.cache.tri
}

// StrValue returns the value as written to .config: "n"/"m"/"y" for bool
// and tristate symbols, the string/number text otherwise. Undefined
// symbols evaluate to their own name, which is how numeric and string
// literals in expressions get their value.
func (s *Symbol) StrValue() string {
	if s.IsConst || s.typ == Unknown {
		return s.Name
	}
	s.compute()
	return s.cache.str
}

// writesToConfig reports whether the symbol produces a line in .config.
func (s *Symbol) writesToConfig() bool {
	if s.IsConst || s.typ == Unknown {
		return false
	}
	s.compute()
	return s.cache.write
}

func (s *Symbol) compute() {
	c := s.cfg
	if c == nil || s.typ == Unknown {
		return
	}
	st := c.stamp()
	if s.cache.valStamp == st {
		return
	}
	if s.cache.evaluating {
		// Dependency loop. Kconfig forbids these; report n rather than recurse.
		c.logger.Debug("dependency loop", "symbol", s.Name)
		return
	}
	s.cache.evaluating = true
	defer func() { s.cache.evaluating = false }()

	switch s.typ {
	case Bool, Tristate:
		s.computeTristate()
	case Int, Hex:
		s.computeNumber()
	case String:
		s.computeString()
	}
	s.cache.valStamp = c.stamp()
}

func (s *Symbol) computeTristate() {
	c := s.cfg
	vis := s.Visibility()
	write := vis != No
	val := No

	switch {
	case s.Choice == nil:
		if vis != No && s.userSet {
			val = min(s.userTri, vis)
		} else {
			for _, d := range s.defaults {
				if dep := c.eval(d.cond); dep != No {
					val = min(c.eval(d.value), dep)
					if val != No {
						write = true
					}
					break
				}
			}
			if dep := c.evalRev(s.weakRevDep); dep != No && c.eval(s.directDep) != No {
				val = max(val, dep)
				write = true
			}
		}
		if dep := c.evalRev(s.revDep); dep != No {
			if c.eval(s.directDep) < dep {
				c.logger.Debug("symbol selected despite unmet direct dependencies",
					"symbol", s.Name, "depends", s.directDep.String())
			}
			val = max(val, dep)
			write = true
		}
		if val == Mod && (s.Type() == Bool || c.evalRev(s.weakRevDep) == Yes) {
			val = Yes
		}
	case vis == Yes:
		if s.Choice.Selection() == s {
			val = Yes
		}
	case vis != No && s.userSet && s.userTri != No:
		val = Mod
	}

	s.cache.tri = val
	s.cache.str = TriToStr[val]
	s.cache.write = write
}

func (s *Symbol) computeString() {
	c := s.cfg
	vis := s.Visibility()
	write := vis != No
	val := ""
	if vis != No && s.userSet {
		val = s.userStr
	} else {
		for _, d := range s.defaults {
			if c.eval(d.cond) != No {
				val = c.exprStr(d.value)
				write = true
				break
			}
		}
	}
	s.cache.tri = No
	s.cache.str = val
	s.cache.write = write
}

func (s *Symbol) computeNumber() {
	c := s.cfg
	vis := s.Visibility()
	write := vis != No
	val := ""

	low, high, hasRange := s.activeRange()

	useDefaults := true
	if vis != No && s.userSet {
		n, _ := s.parseNumber(s.userStr)
		if hasRange && (n < low || n > high) {
			c.logger.Debug("user value outside the active range, falling back on defaults",
				"symbol", s.Name, "value", s.userStr, "low", s.formatNumber(low), "high", s.formatNumber(high))
		} else {
			val = s.userStr
			useDefaults = false
		}
	}

	if useDefaults {
		hasDefault := false
		var num int64
		for _, d := range s.defaults {
			if c.eval(d.cond) != No {
				hasDefault = true
				write = true
				val = c.exprStr(d.value)
				num, _ = s.parseNumber(val)
				break
			}
		}
		// Clamping applies even without a default, in which case the
		// value reads as 0.
		if hasRange && (num < low || num > high) {
			clamped := min(max(num, low), high)
			if hasDefault {
				c.logger.Debug("default value clamped to the active range",
					"symbol", s.Name, "default", val, "value", s.formatNumber(clamped))
			}
			val = s.formatNumber(clamped)
		}
	}

	s.cache.tri = No
	s.cache.str = val
	s.cache.write = write
}

// activeRange returns the first range whose condition holds.
func (s *Symbol) activeRange() (low, high int64, ok bool) {
	for _, r := range s.ranges {
		if s.cfg.eval(r.cond) == No {
			continue
		}
		low, _ = s.parseNumber(r.low.StrValue())
		high, _ = s.parseNumber(r.high.StrValue())
		return low, high, true
	}
	return 0, 0, false
}

func (s *Symbol) parseNumber(v string) (int64, bool) {
	if s.typ == Hex {
		return parseHex(v)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

func (s *Symbol) formatNumber(n int64) string {
	if s.typ == Hex {
		return "0x" + strconv.FormatInt(n, 16)
	}
	return strconv.FormatInt(n, 10)
}

// Assignable returns the tristate levels the user may currently pick, in
// ascending order. It is empty for invisible and non-bool/tristate symbols.
func (s *Symbol) Assignable() []int {
	if s.typ != Bool && s.typ != Tristate {
		return nil
	}
	vis := s.Visibility()
	if vis == No {
		return nil
	}
	c := s.cfg
	rev := c.evalRev(s.revDep)
	boolish := s.Type() == Bool || c.evalRev(s.weakRevDep) == Yes

	if vis == Yes {
		if s.Choice != nil {
			return []int{Yes}
		}
		switch {
		case rev == No && boolish:
			return []int{No, Yes}
		case rev == No:
			return []int{No, Mod, Yes}
		case rev == Yes, boolish:
			return []int{Yes}
		}
		return []int{Mod, Yes}
	}

	// vis == Mod, so the symbol is a tristate
	switch {
	case rev == No && c.evalRev(s.weakRevDep) == Yes:
		return []int{No, Yes}
	case rev == No:
		return []int{No, Mod}
	case rev == Yes:
		return []int{Yes}
	}
	return []int{Mod}
}

// Type returns the effective type of the choice: tristate choices act as
// bool when module support is off.
func (c *Choice) Type() Type {
	if c.typ == Tristate && c.cfg.modulesOff() {
		return Bool
	}
	return c.typ
}

// Visibility returns the highest mode the choice can be put in.
func (c *Choice) Visibility() int {
	vis := promptVisibility(c.cfg, c.Nodes)
	if vis == Mod && c.Type() != Tristate {
		vis = Yes
	}
	return vis
}

// TriValue returns the mode of the choice: y means exactly one member is
// selected, m means members may be set to m individually, n means off.
func (c *Choice) TriValue() int {
	val := Mod
	if c.Optional {
		val = No
	}
	if c.userSet {
		val = max(val, c.userMode)
	}
	val = min(val, c.Visibility())
	if val == Mod && c.Type() == Bool {
		val = Yes
	}
	return val
}

// Selection returns the selected member when the choice is in y mode:
// the user selection if it is visible, the first visible default, or the
// first visible member. It returns nil in any other mode.
func (c *Choice) Selection() *Symbol {
	if c.TriValue() != Yes {
		return nil
	}
	if c.userSelection != nil && c.userSelection.Visibility() != No {
		return c.userSelection
	}
	return c.selectionFromDefaults()
}

func (c *Choice) selectionFromDefaults() *Symbol {
	for _, d := range c.defaults {
		if c.cfg.eval(d.cond) != No && d.sym.Visibility() != No {
			return d.sym
		}
	}
	for _, s := range c.Syms {
		if s.Visibility() != No {
			return s
		}
	}
	return nil
}

// exprStr returns the string value of a default. Plain symbols and
// literals give their own value; anything else gives its tristate value.
func (c *Config) exprStr(e *Expr) string {
	if e != nil && e.op == opSym {
		return e.sym.StrValue()
	}
	return TriToStr[c.eval(e)]
}
