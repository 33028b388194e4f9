// Package kconfig implements a compact Kconfig configuration model: parsing
// of the configuration-definition language, dependency evaluation, and
// loading/writing of .config files.
package kconfig

import (
	"fmt"
	"log/slog"
	"strings"
)

// Type is the declared value type of a symbol or choice.
type Type int

const (
	Unknown Type = iota
	Bool
	Tristate
	String
	Int
	Hex
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Tristate:
		return "tristate"
	case String:
		return "string"
	case Int:
		return "int"
	case Hex:
		return "hex"
	}
	return "unknown"
}

// Tristate levels.
const (
	No  = 0
	Mod = 1
	Yes = 2
)

// TriToStr maps a tristate level to its .config spelling.
var TriToStr = [3]string{"n", "m", "y"}

// StrToTri maps the .config spelling of a tristate level to the level.
var StrToTri = map[string]int{"n": No, "m": Mod, "y": Yes}

// Item is the configurable thing a menu node represents: *Symbol or *Choice.
// Menus and comments carry a nil Item.
type Item interface {
	isItem()
}

// NodeKind tells what kind of entry a menu node was declared as.
type NodeKind int

const (
	KindMenu NodeKind = iota // menu, mainmenu and the top node
	KindComment
	KindSymbol
	KindChoice
)

// MenuNode is one position in the menu tree. Children hang off List,
// siblings off Next; walking List before Next yields document order.
type MenuNode struct {
	Kind   NodeKind
	Item   Item   // *Symbol, *Choice or nil
	Prompt string // empty when the entry has no prompt at this location
	File   string
	Line   int
	Help   string

	Parent *MenuNode
	List   *MenuNode // first child
	Next   *MenuNode // next sibling

	// Dep is the full dependency of the node: its own "depends on" combined
	// with the menus, choices and if-blocks enclosing it.
	Dep *Expr
	// PromptCond is the condition under which Prompt is shown, Dep included.
	PromptCond *Expr

	visibleIf *Expr // menus only
}

// Location renders the node position as "file:line".
func (n *MenuNode) Location() string {
	return fmt.Sprintf("%s:%d", n.File, n.Line)
}

type defaultProp struct {
	value *Expr
	cond  *Expr
}

type selectProp struct {
	target *Symbol
	cond   *Expr
}

type rangeProp struct {
	low, high *Symbol
	cond      *Expr
}

// Symbol is a configuration symbol.
type Symbol struct {
	Name    string
	Nodes   []*MenuNode // every location the symbol is defined at
	Choice  *Choice     // non-nil for choice members
	IsConst bool

	typ      Type
	defaults []defaultProp
	selects  []selectProp
	implies  []selectProp
	ranges   []rangeProp

	revDep     *Expr // from select
	weakRevDep *Expr // from imply
	directDep  *Expr

	userSet bool
	userTri int
	userStr string

	cfg   *Config
	cache symbolCache
}

func (*Symbol) isItem() {}

// OrigType returns the declared type, ignoring modules and choice demotion.
func (s *Symbol) OrigType() Type { return s.typ }

// Locations returns "file:line" for every definition, joined with ", ".
func (s *Symbol) Locations() string {
	locs := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		locs = append(locs, n.Location())
	}
	return strings.Join(locs, ", ")
}

// UserValue returns the user-assigned value in its textual form.
// The bool is false when the symbol has no user value.
func (s *Symbol) UserValue() (string, bool) {
	if !s.userSet {
		return "", false
	}
	if s.typ == Bool || s.typ == Tristate {
		return TriToStr[s.userTri], true
	}
	return s.userStr, true
}

// Choice is a choice group.
type Choice struct {
	Name     string // usually empty
	Nodes    []*MenuNode
	Syms     []*Symbol // members in definition order
	Optional bool

	typ      Type
	defaults []choiceDefault

	userSet       bool
	userMode      int
	userSelection *Symbol

	cfg *Config
}

type choiceDefault struct {
	sym  *Symbol
	cond *Expr
}

func (*Choice) isItem() {}

// OrigType returns the declared (or inferred) type of the choice.
func (c *Choice) OrigType() Type { return c.typ }

// UserSelection returns the member the user picked, or nil.
func (c *Choice) UserSelection() *Symbol { return c.userSelection }

// Config is a parsed Kconfig tree together with its symbol table.
type Config struct {
	Top     *MenuNode
	Syms    map[string]*Symbol
	Defined []*Symbol // defined symbols in definition order
	Choices []*Choice
	Modules *Symbol

	Prefix string // symbol prefix used in .config files, e.g. "CONFIG_"
	Header string // first comment line written to .config files

	logger *slog.Logger
	gen    uint64

	constSyms   map[string]*Symbol
	modulesRefs []*Expr
}

// Options tunes Load and Parse.
type Options struct {
	Prefix string
	Header string
	// Srctree is the directory "source" statements are resolved against.
	// Defaults to the directory of the top-level Kconfig file.
	Srctree string
	Logger  *slog.Logger
}

// Logger returns the logger used for model diagnostics.
func (c *Config) Logger() *slog.Logger { return c.logger }

func (c *Config) warn(format string, args ...any) {
	c.logger.Warn(fmt.Sprintf(format, args...))
}

// invalidate drops every cached evaluation. Called after each assignment,
// since one assignment may change the visibility and values of others.
func (c *Config) invalidate() { c.gen++ }
