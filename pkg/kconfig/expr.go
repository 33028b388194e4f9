package kconfig

import (
	"strconv"
	"strings"
)

type exprOp int

const (
	opSym exprOp = iota
	opNot
	opAnd
	opOr
	opEq
	opNeq
	opLt
	opLte
	opGt
	opGte
	opChoice
)

// Expr is a dependency expression. A nil *Expr evaluates to y.
type Expr struct {
	op          exprOp
	sym         *Symbol // opSym and relations
	choice      *Choice // opChoice
	rsym        *Symbol // right-hand side of relations
	left, right *Expr
}

func symExpr(s *Symbol) *Expr { return &Expr{op: opSym, sym: s} }

func choiceExpr(c *Choice) *Expr { return &Expr{op: opChoice, choice: c} }

func notExpr(e *Expr) *Expr { return &Expr{op: opNot, left: e} }

// andExpr combines two conditions, treating nil as y.
func andExpr(a, b *Expr) *Expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Expr{op: opAnd, left: a, right: b}
}

// orExpr combines two conditions. Unlike andExpr, nil here means "no term"
// so reverse dependencies can be accumulated from nothing.
func orExpr(a, b *Expr) *Expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Expr{op: opOr, left: a, right: b}
}

// evalRev evaluates a reverse dependency. Unlike a condition, a missing
// reverse dependency means nothing selects the symbol.
func (c *Config) evalRev(e *Expr) int {
	if e == nil {
		return No
	}
	return c.eval(e)
}

// eval returns the tristate value of e. A nil condition holds.
func (c *Config) eval(e *Expr) int {
	if e == nil {
		return Yes
	}
	switch e.op {
	case opSym:
		return e.sym.TriValue()
	case opNot:
		return Yes - c.eval(e.left)
	case opAnd:
		return min(c.eval(e.left), c.eval(e.right))
	case opOr:
		return max(c.eval(e.left), c.eval(e.right))
	case opChoice:
		return e.choice.TriValue()
	}

	cmp := compareSyms(e.sym, e.rsym)
	var ok bool
	switch e.op {
	case opEq:
		ok = cmp == 0
	case opNeq:
		ok = cmp != 0
	case opLt:
		ok = cmp < 0
	case opLte:
		ok = cmp <= 0
	case opGt:
		ok = cmp > 0
	case opGte:
		ok = cmp >= 0
	}
	if ok {
		return Yes
	}
	return No
}

// compareSyms compares two operands numerically when both have a numeric
// reading and as strings otherwise.
func compareSyms(a, b *Symbol) int {
	if a.typ != String && b.typ != String {
		an, aok := symToNum(a)
		bn, bok := symToNum(b)
		if aok && bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(a.StrValue(), b.StrValue())
}

func symToNum(s *Symbol) (int64, bool) {
	switch s.typ {
	case Bool, Tristate:
		return int64(s.TriValue()), true
	case Hex:
		return parseHex(s.StrValue())
	case Int:
		n, err := strconv.ParseInt(s.StrValue(), 10, 64)
		return n, err == nil
	}
	n, err := strconv.ParseInt(s.StrValue(), 0, 64)
	return n, err == nil
}

// parseHex accepts hex digits with or without a 0x/0X prefix.
func parseHex(s string) (int64, bool) {
	digits := s
	if hasHexPrefix(s) {
		digits = s[2:]
	}
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 16, 64)
	return n, err == nil
}

func hasHexPrefix(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// String renders the expression in Kconfig syntax.
func (e *Expr) String() string {
	if e == nil {
		return "y"
	}
	switch e.op {
	case opSym:
		return symString(e.sym)
	case opNot:
		return "!" + parenthesize(e.left)
	case opAnd:
		return parenthesize(e.left) + " && " + parenthesize(e.right)
	case opOr:
		return parenthesize(e.left) + " || " + parenthesize(e.right)
	case opChoice:
		if e.choice.Name != "" {
			return e.choice.Name
		}
		return "<choice>"
	}
	ops := map[exprOp]string{opEq: "=", opNeq: "!=", opLt: "<", opLte: "<=", opGt: ">", opGte: ">="}
	return symString(e.sym) + " " + ops[e.op] + " " + symString(e.rsym)
}

func parenthesize(e *Expr) string {
	if e != nil && (e.op == opAnd || e.op == opOr) {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func symString(s *Symbol) string {
	if s.IsConst && StrToTri[s.Name] == 0 && s.Name != "n" {
		return strconv.Quote(s.Name)
	}
	return s.Name
}

// mapConstM rewrites every bare m in e into "m && <modules>", so that
// "depends on m" turns off together with module support.
func (c *Config) mapConstM(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	switch e.op {
	case opSym:
		if e.sym == c.constSym("m") {
			return andExpr(e, c.modulesExpr())
		}
		return e
	case opNot:
		return notExpr(c.mapConstM(e.left))
	case opAnd, opOr:
		return &Expr{op: e.op, left: c.mapConstM(e.left), right: c.mapConstM(e.right)}
	}
	return e
}

// modulesExpr returns a reference to the modules symbol. The symbol may be
// declared after the reference is parsed, so it is bound in finalize.
func (c *Config) modulesExpr() *Expr {
	e := &Expr{op: opSym}
	c.modulesRefs = append(c.modulesRefs, e)
	return e
}
