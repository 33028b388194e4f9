package kconfig

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bibi40k/kconfig-oldconfig/configs"
)

// ParseError reports a malformed Kconfig line.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// Load parses the Kconfig tree rooted at filename.
func Load(filename string, opts Options) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()
	if opts.Srctree == "" {
		opts.Srctree = filepath.Dir(filename)
	}
	return Parse(filename, f, opts)
}

// Parse parses Kconfig source read from r. name is used in locations and
// error messages.
func Parse(name string, r io.Reader, opts Options) (*Config, error) {
	c := newConfig(name, opts)
	p := &parser{c: c, srctree: opts.Srctree}
	if err := p.pushSource(name, r); err != nil {
		return nil, err
	}
	top := &nodeList{parent: c.Top}
	if err := p.parseBlock(&block{list: top}, ""); err != nil {
		return nil, err
	}
	c.finalize()
	return c, nil
}

func newConfig(name string, opts Options) *Config {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = configs.Defaults.DotConfig.SymbolPrefix()
	}
	header := opts.Header
	if header == "" {
		header = configs.Defaults.DotConfig.Header
	}
	return &Config{
		Top:       &MenuNode{Kind: KindMenu, Prompt: "Main menu", File: name, Line: 1},
		Syms:      make(map[string]*Symbol),
		Prefix:    prefix,
		Header:    header,
		logger:    logger,
		constSyms: make(map[string]*Symbol),
	}
}

// lookup returns the symbol called name, creating an undefined one if needed.
func (c *Config) lookup(name string) *Symbol {
	if s, ok := c.Syms[name]; ok {
		return s
	}
	s := &Symbol{Name: name, cfg: c}
	c.Syms[name] = s
	return s
}

// constSym returns the constant symbol for y, m, n or a quoted string.
func (c *Config) constSym(name string) *Symbol {
	if s, ok := c.constSyms[name]; ok {
		return s
	}
	s := &Symbol{Name: name, IsConst: true, cfg: c}
	c.constSyms[name] = s
	return s
}

type source struct {
	name  string
	lines []string
	pos   int // index of the next unread line
}

type parser struct {
	c       *Config
	srctree string
	src     *source

	lineNo int // line number of the statement being parsed
}

func (p *parser) pushSource(name string, r io.Reader) error {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	p.src = &source{name: name, lines: lines}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{File: p.src.name, Line: p.lineNo, Msg: fmt.Sprintf(format, args...)}
}

// nextTokens returns the tokens of the next logical line, joining lines
// that end in a backslash. ok is false at end of input.
func (p *parser) nextTokens() (toks []token, ok bool, err error) {
	src := p.src
	if src.pos >= len(src.lines) {
		return nil, false, nil
	}
	p.lineNo = src.pos + 1
	line := src.lines[src.pos]
	src.pos++
	for strings.HasSuffix(line, "\\") && src.pos < len(src.lines) {
		line = strings.TrimSuffix(line, "\\") + src.lines[src.pos]
		src.pos++
	}
	toks, err = tokenize(line)
	if err != nil {
		return nil, true, p.errorf("%v", err)
	}
	return toks, true, nil
}

// peekTokens looks at the next logical line without consuming it.
func (p *parser) peekTokens() ([]token, bool, error) {
	pos, lineNo := p.src.pos, p.lineNo
	toks, ok, err := p.nextTokens()
	p.src.pos, p.lineNo = pos, lineNo
	return toks, ok, err
}

// nodeList appends nodes to the child list of parent. If-blocks share the
// list of the enclosing entry, which flattens them out of the tree.
type nodeList struct {
	parent *MenuNode
	tail   *MenuNode
}

func (l *nodeList) add(n *MenuNode) {
	n.Parent = l.parent
	if l.tail == nil {
		l.parent.List = n
	} else {
		l.tail.Next = n
	}
	l.tail = n
}

// block is the context statements are parsed in.
type block struct {
	list    *nodeList
	dep     *Expr   // inherited dependencies
	visible *Expr   // inherited "visible if" conditions
	choice  *Choice // enclosing choice, if any
}

func (p *parser) parseBlock(b *block, end string) error {
	for {
		toks, ok, err := p.nextTokens()
		if err != nil {
			return err
		}
		if !ok {
			if end != "" {
				return p.errorf("missing %s", end)
			}
			return nil
		}
		if len(toks) == 0 {
			continue
		}
		kw := toks[0]
		if kw.kind != tokName {
			return p.errorf("unexpected %q", kw.text)
		}
		switch kw.text {
		case "endmenu", "endchoice", "endif":
			if kw.text != end {
				return p.errorf("unexpected %s", kw.text)
			}
			return nil
		case "mainmenu":
			s, err := p.expectString(toks[1:])
			if err != nil {
				return err
			}
			p.c.Top.Prompt = s
		case "config", "menuconfig":
			if err := p.parseConfig(b, toks[1:]); err != nil {
				return err
			}
		case "choice":
			if err := p.parseChoice(b, toks[1:]); err != nil {
				return err
			}
		case "menu":
			if err := p.parseMenu(b, toks[1:]); err != nil {
				return err
			}
		case "comment":
			if err := p.parseComment(b, toks[1:]); err != nil {
				return err
			}
		case "if":
			cond, err := p.parseCond(toks[1:])
			if err != nil {
				return err
			}
			inner := &block{list: b.list, dep: andExpr(b.dep, cond), visible: b.visible, choice: b.choice}
			if err := p.parseBlock(inner, "endif"); err != nil {
				return err
			}
		case "source", "rsource", "osource", "orsource":
			if err := p.parseSource(b, kw.text, toks[1:]); err != nil {
				return err
			}
		default:
			return p.errorf("unknown statement %q", kw.text)
		}
	}
}

func (p *parser) parseSource(b *block, kw string, toks []token) error {
	name, err := p.expectString(toks)
	if err != nil {
		return err
	}
	path := filepath.Join(p.srctree, name)
	if strings.HasPrefix(kw, "r") || strings.HasPrefix(kw, "or") {
		path = filepath.Join(filepath.Dir(p.src.name), name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if strings.HasPrefix(kw, "o") {
			return nil
		}
		return p.errorf("source %s: %v", name, err)
	}
	saved, savedLine := p.src, p.lineNo
	if err := p.pushSource(path, strings.NewReader(string(data))); err != nil {
		return err
	}
	err = p.parseBlock(b, "")
	p.src, p.lineNo = saved, savedLine
	return err
}

// props collects the properties of one entry at one location. They are
// merged into the item once the entry's dependencies are known.
type props struct {
	typ        Type
	prompt     string
	hasPrompt  bool
	promptCond *Expr
	dep        *Expr
	visibleIf  *Expr
	defaults   []defaultProp
	selects    []selectProp
	implies    []selectProp
	ranges     []rangeProp
	help       string
	optional   bool
	modules    bool
}

var typeKeywords = map[string]Type{
	"bool": Bool, "boolean": Bool, "tristate": Tristate,
	"string": String, "int": Int, "hex": Hex,
}

var defTypeKeywords = map[string]Type{
	"def_bool": Bool, "def_tristate": Tristate, "def_string": String,
	"def_int": Int, "def_hex": Hex,
}

// parseProps consumes property lines following an entry.
func (p *parser) parseProps(pr *props) error {
	for {
		toks, ok, err := p.peekTokens()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if len(toks) == 0 {
			_, _, _ = p.nextTokens()
			continue
		}
		kw := toks[0].text
		if toks[0].kind != tokName {
			return nil
		}
		if typ, isType := typeKeywords[kw]; isType {
			_, _, _ = p.nextTokens()
			pr.typ = typ
			if len(toks) > 1 {
				if err := p.parsePrompt(pr, toks[1:]); err != nil {
					return err
				}
			}
			continue
		}
		if typ, isDef := defTypeKeywords[kw]; isDef {
			_, _, _ = p.nextTokens()
			pr.typ = typ
			d, err := p.parseDefault(toks[1:])
			if err != nil {
				return err
			}
			pr.defaults = append(pr.defaults, d)
			continue
		}

		switch kw {
		case "prompt":
			_, _, _ = p.nextTokens()
			if err := p.parsePrompt(pr, toks[1:]); err != nil {
				return err
			}
		case "default":
			_, _, _ = p.nextTokens()
			d, err := p.parseDefault(toks[1:])
			if err != nil {
				return err
			}
			pr.defaults = append(pr.defaults, d)
		case "depends":
			_, _, _ = p.nextTokens()
			if len(toks) < 2 || !toks[1].is(tokName, "on") {
				return p.errorf("expected \"on\" after \"depends\"")
			}
			cond, err := p.parseCond(toks[2:])
			if err != nil {
				return err
			}
			pr.dep = andExpr(pr.dep, cond)
		case "visible":
			_, _, _ = p.nextTokens()
			if len(toks) < 2 || !toks[1].is(tokName, "if") {
				return p.errorf("expected \"if\" after \"visible\"")
			}
			cond, err := p.parseCond(toks[2:])
			if err != nil {
				return err
			}
			pr.visibleIf = andExpr(pr.visibleIf, cond)
		case "select", "imply":
			_, _, _ = p.nextTokens()
			if len(toks) < 2 || toks[1].kind != tokName {
				return p.errorf("expected symbol after %q", kw)
			}
			sp := selectProp{target: p.c.lookup(toks[1].text)}
			if sp.cond, err = p.parseIfSuffix(toks[2:]); err != nil {
				return err
			}
			if kw == "select" {
				pr.selects = append(pr.selects, sp)
			} else {
				pr.implies = append(pr.implies, sp)
			}
		case "range":
			_, _, _ = p.nextTokens()
			if len(toks) < 3 {
				return p.errorf("expected two bounds after \"range\"")
			}
			rp := rangeProp{low: p.operand(toks[1]), high: p.operand(toks[2])}
			if rp.cond, err = p.parseIfSuffix(toks[3:]); err != nil {
				return err
			}
			pr.ranges = append(pr.ranges, rp)
		case "help", "---help---":
			_, _, _ = p.nextTokens()
			pr.help = p.readHelp()
		case "option":
			_, _, _ = p.nextTokens()
			if len(toks) > 1 && toks[1].text == "modules" {
				pr.modules = true
			} else {
				p.c.logger.Debug("ignoring option", "file", p.src.name, "line", p.lineNo)
			}
		case "modules":
			_, _, _ = p.nextTokens()
			pr.modules = true
		case "optional":
			_, _, _ = p.nextTokens()
			pr.optional = true
		case "transitional", "allnoconfig_y", "defconfig_list":
			_, _, _ = p.nextTokens()
		default:
			return nil
		}
	}
}

func (p *parser) parsePrompt(pr *props, toks []token) error {
	if len(toks) == 0 {
		return p.errorf("expected prompt text")
	}
	text, err := p.expectString(toks[:1])
	if err != nil {
		return err
	}
	cond, err := p.parseIfSuffix(toks[1:])
	if err != nil {
		return err
	}
	pr.prompt, pr.hasPrompt, pr.promptCond = text, true, cond
	return nil
}

func (p *parser) parseDefault(toks []token) (defaultProp, error) {
	end := len(toks)
	for i, t := range toks {
		if t.is(tokName, "if") {
			end = i
			break
		}
	}
	if end == 0 {
		return defaultProp{}, p.errorf("expected value after default")
	}
	value, err := p.parseExprTokens(toks[:end], false)
	if err != nil {
		return defaultProp{}, err
	}
	cond, err := p.parseIfSuffix(toks[end:])
	if err != nil {
		return defaultProp{}, err
	}
	return defaultProp{value: value, cond: cond}, nil
}

// parseIfSuffix parses an optional trailing "if <expr>".
func (p *parser) parseIfSuffix(toks []token) (*Expr, error) {
	if len(toks) == 0 {
		return nil, nil
	}
	if !toks[0].is(tokName, "if") {
		return nil, p.errorf("unexpected %q", toks[0].text)
	}
	return p.parseCond(toks[1:])
}

// parseCond parses a condition. A bare m in a condition only holds while
// module support is enabled.
func (p *parser) parseCond(toks []token) (*Expr, error) {
	return p.parseExprTokens(toks, true)
}

func (p *parser) parseExprTokens(toks []token, cond bool) (*Expr, error) {
	if len(toks) == 0 {
		return nil, p.errorf("expected expression")
	}
	ep := &exprParser{p: p, toks: toks}
	e, err := ep.parseOr()
	if err != nil {
		return nil, err
	}
	if ep.pos != len(toks) {
		return nil, p.errorf("unexpected %q in expression", toks[ep.pos].text)
	}
	if cond {
		e = p.c.mapConstM(e)
	}
	return e, nil
}

func (p *parser) expectString(toks []token) (string, error) {
	if len(toks) != 1 || toks[0].kind != tokString {
		return "", p.errorf("expected a quoted string")
	}
	return toks[0].text, nil
}

// operand maps a token to the symbol it denotes in an expression.
func (p *parser) operand(t token) *Symbol {
	if t.kind == tokString {
		return p.c.constSym(t.text)
	}
	switch t.text {
	case "y", "m", "n":
		return p.c.constSym(t.text)
	}
	return p.c.lookup(t.text)
}

// readHelp consumes the indented help text following a help keyword.
func (p *parser) readHelp() string {
	src := p.src
	for src.pos < len(src.lines) && strings.TrimSpace(src.lines[src.pos]) == "" {
		src.pos++
	}
	if src.pos >= len(src.lines) {
		return ""
	}
	indent := indentation(src.lines[src.pos])
	if indent == 0 {
		return ""
	}
	var lines []string
	for src.pos < len(src.lines) {
		line := src.lines[src.pos]
		if strings.TrimSpace(line) != "" && indentation(line) < indent {
			break
		}
		lines = append(lines, strings.TrimSpace(line))
		src.pos++
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (p *parser) newNode(b *block, kind NodeKind, item Item) *MenuNode {
	n := &MenuNode{Kind: kind, Item: item, File: p.src.name, Line: p.lineNo}
	b.list.add(n)
	return n
}

func (p *parser) parseConfig(b *block, toks []token) error {
	if len(toks) != 1 || toks[0].kind != tokName {
		return p.errorf("expected symbol name")
	}
	sym := p.c.lookup(toks[0].text)
	if sym.IsConst {
		return p.errorf("cannot define constant symbol %s", sym.Name)
	}
	node := p.newNode(b, KindSymbol, sym)
	if len(sym.Nodes) == 0 {
		p.c.Defined = append(p.c.Defined, sym)
	}
	sym.Nodes = append(sym.Nodes, node)

	var pr props
	if err := p.parseProps(&pr); err != nil {
		return err
	}

	node.Dep = andExpr(pr.dep, b.dep)
	node.Help = pr.help
	if pr.hasPrompt {
		node.Prompt = pr.prompt
		node.PromptCond = andExpr(andExpr(pr.promptCond, node.Dep), b.visible)
	}
	if pr.typ != Unknown {
		if sym.typ != Unknown && sym.typ != pr.typ {
			p.c.warn("%s (defined at %s) redefined with type %s, was %s", sym.Name, node.Location(), pr.typ, sym.typ)
		}
		sym.typ = pr.typ
	}
	for _, d := range pr.defaults {
		sym.defaults = append(sym.defaults, defaultProp{value: d.value, cond: andExpr(d.cond, node.Dep)})
	}
	for _, s := range pr.selects {
		sym.selects = append(sym.selects, selectProp{target: s.target, cond: andExpr(s.cond, node.Dep)})
	}
	for _, s := range pr.implies {
		sym.implies = append(sym.implies, selectProp{target: s.target, cond: andExpr(s.cond, node.Dep)})
	}
	for _, r := range pr.ranges {
		sym.ranges = append(sym.ranges, rangeProp{low: r.low, high: r.high, cond: andExpr(r.cond, node.Dep)})
	}
	depTerm := node.Dep
	if depTerm == nil {
		depTerm = symExpr(p.c.constSym("y"))
	}
	sym.directDep = orExpr(sym.directDep, depTerm)
	if pr.modules {
		p.c.Modules = sym
	}

	if ch := b.choice; ch != nil && sym.Choice == nil {
		sym.Choice = ch
		ch.Syms = append(ch.Syms, sym)
	}
	return nil
}

func (p *parser) parseChoice(b *block, toks []token) error {
	ch := &Choice{cfg: p.c}
	if len(toks) > 0 {
		ch.Name = toks[0].text
	}
	p.c.Choices = append(p.c.Choices, ch)
	node := p.newNode(b, KindChoice, ch)
	ch.Nodes = append(ch.Nodes, node)

	var pr props
	if err := p.parseProps(&pr); err != nil {
		return err
	}
	node.Dep = andExpr(pr.dep, b.dep)
	node.Help = pr.help
	if pr.hasPrompt {
		node.Prompt = pr.prompt
		node.PromptCond = andExpr(andExpr(pr.promptCond, node.Dep), b.visible)
	}
	ch.typ = pr.typ
	ch.Optional = pr.optional
	for _, d := range pr.defaults {
		if d.value == nil || d.value.op != opSym {
			return p.errorf("choice default must name a symbol")
		}
		ch.defaults = append(ch.defaults, choiceDefault{sym: d.value.sym, cond: andExpr(d.cond, node.Dep)})
	}

	children := &block{
		list:    &nodeList{parent: node},
		dep:     choiceExpr(ch),
		visible: b.visible,
		choice:  ch,
	}
	return p.parseBlock(children, "endchoice")
}

func (p *parser) parseMenu(b *block, toks []token) error {
	title, err := p.expectString(toks)
	if err != nil {
		return err
	}
	node := p.newNode(b, KindMenu, nil)
	node.Prompt = title

	var pr props
	if err := p.parseProps(&pr); err != nil {
		return err
	}
	node.Dep = andExpr(pr.dep, b.dep)
	node.visibleIf = pr.visibleIf
	node.PromptCond = andExpr(node.Dep, b.visible)

	children := &block{
		list:    &nodeList{parent: node},
		dep:     node.Dep,
		visible: andExpr(b.visible, pr.visibleIf),
	}
	return p.parseBlock(children, "endmenu")
}

func (p *parser) parseComment(b *block, toks []token) error {
	text, err := p.expectString(toks)
	if err != nil {
		return err
	}
	node := p.newNode(b, KindComment, nil)
	node.Prompt = text

	var pr props
	if err := p.parseProps(&pr); err != nil {
		return err
	}
	node.Dep = andExpr(pr.dep, b.dep)
	node.PromptCond = andExpr(node.Dep, b.visible)
	return nil
}

// finalize resolves everything that needs the whole tree: reverse
// dependencies, choice types and the modules symbol.
func (c *Config) finalize() {
	if c.Modules == nil {
		c.Modules = c.lookup("MODULES")
	}
	for _, e := range c.modulesRefs {
		e.sym = c.Modules
	}

	for _, s := range c.Defined {
		for _, sel := range s.selects {
			sel.target.revDep = orExpr(sel.target.revDep, andExpr(symExpr(s), sel.cond))
		}
		for _, imp := range s.implies {
			imp.target.weakRevDep = orExpr(imp.target.weakRevDep, andExpr(symExpr(s), imp.cond))
		}
	}

	for _, ch := range c.Choices {
		if ch.typ == Unknown {
			for _, s := range ch.Syms {
				if s.typ != Unknown {
					ch.typ = s.typ
					break
				}
			}
		}
		if ch.typ == Unknown {
			ch.typ = Bool
		}
		for _, s := range ch.Syms {
			if s.typ == Unknown {
				s.typ = ch.typ
			}
		}
	}

	for _, s := range c.Defined {
		if s.typ == Unknown {
			c.warn("%s (defined at %s) defined without a type", s.Name, s.Locations())
		}
	}
	c.invalidate()
}
