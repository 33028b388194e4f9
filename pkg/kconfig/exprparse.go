package kconfig

// exprParser is a recursive descent parser over the tokens of one
// expression. Precedence from loosest: ||, &&, !, relations.
type exprParser struct {
	p    *parser
	toks []token
	pos  int
}

var relOps = map[string]exprOp{
	"=":  opEq,
	"!=": opNeq,
	"<":  opLt,
	"<=": opLte,
	">":  opGt,
	">=": opGte,
}

func (ep *exprParser) peek() (token, bool) {
	if ep.pos >= len(ep.toks) {
		return token{}, false
	}
	return ep.toks[ep.pos], true
}

func (ep *exprParser) acceptOp(op string) bool {
	t, ok := ep.peek()
	if ok && t.kind == tokOp && t.text == op {
		ep.pos++
		return true
	}
	return false
}

func (ep *exprParser) parseOr() (*Expr, error) {
	left, err := ep.parseAnd()
	if err != nil {
		return nil, err
	}
	for ep.acceptOp("||") {
		right, err := ep.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Expr{op: opOr, left: left, right: right}
	}
	return left, nil
}

func (ep *exprParser) parseAnd() (*Expr, error) {
	left, err := ep.parseFactor()
	if err != nil {
		return nil, err
	}
	for ep.acceptOp("&&") {
		right, err := ep.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &Expr{op: opAnd, left: left, right: right}
	}
	return left, nil
}

func (ep *exprParser) parseFactor() (*Expr, error) {
	t, ok := ep.peek()
	if !ok {
		return nil, ep.p.errorf("unexpected end of expression")
	}
	if t.kind == tokOp {
		switch t.text {
		case "!":
			ep.pos++
			e, err := ep.parseFactor()
			if err != nil {
				return nil, err
			}
			return notExpr(e), nil
		case "(":
			ep.pos++
			e, err := ep.parseOr()
			if err != nil {
				return nil, err
			}
			if !ep.acceptOp(")") {
				return nil, ep.p.errorf("missing ')' in expression")
			}
			return e, nil
		}
		return nil, ep.p.errorf("unexpected %q in expression", t.text)
	}

	ep.pos++
	sym := ep.p.operand(t)
	next, ok := ep.peek()
	if !ok || next.kind != tokOp {
		return symExpr(sym), nil
	}
	op, isRel := relOps[next.text]
	if !isRel {
		return symExpr(sym), nil
	}
	ep.pos++
	rt, ok := ep.peek()
	if !ok || rt.kind == tokOp {
		return nil, ep.p.errorf("expected operand after %q", next.text)
	}
	ep.pos++
	return &Expr{op: op, sym: sym, rsym: ep.p.operand(rt)}, nil
}
