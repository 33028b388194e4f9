// Package oldconfig prompts for every configuration symbol and choice that
// a saved configuration leaves open, walking the menu tree in document
// order.
package oldconfig

import (
	"io"
	"log/slog"

	"github.com/Bibi40k/kconfig-oldconfig/pkg/kconfig"
)

// Walker drives the prompts over a menu tree.
type Walker struct {
	In  LineReader
	Out io.Writer // choice listings
	Err io.Writer // rejected answers ("Invalid tristate value", "Bad index")

	// Selector, when set, replaces the numbered choice listing.
	Selector Selector
	Logger   *slog.Logger
}

// NewWalker creates a walker reading answers from in.
func NewWalker(in LineReader, out, errOut io.Writer) *Walker {
	return &Walker{
		In:     in,
		Out:    out,
		Err:    errOut,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Walk visits node and its following siblings. Each node is prompted for
// before its children, and the children before the next sibling.
// It only fails when reading input fails.
func (w *Walker) Walk(node *kconfig.MenuNode) error {
	for ; node != nil; node = node.Next {
		if err := w.promptNode(node); err != nil {
			return err
		}
		if node.List != nil {
			if err := w.Walk(node.List); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) promptNode(node *kconfig.MenuNode) error {
	switch item := node.Item.(type) {
	case *kconfig.Symbol:
		if item.Visibility() == kconfig.No || node.Prompt == "" {
			return nil
		}
		if reason := symbolSkipReason(item); reason != "" {
			w.Logger.Debug("skipping symbol", "symbol", item.Name, "reason", reason)
			return nil
		}
		return w.promptSymbol(node, item)
	case *kconfig.Choice:
		if item.Visibility() == kconfig.No || node.Prompt == "" {
			return nil
		}
		return w.promptChoice(node, item)
	}
	return nil
}

// symbolSkipReason explains why a visible, prompted symbol needs no answer,
// or returns "" when it does.
func symbolSkipReason(sym *kconfig.Symbol) string {
	if _, ok := sym.UserValue(); ok {
		return "already set"
	}
	if len(sym.Assignable()) == 1 {
		return "only one assignable value"
	}
	if sym.Choice != nil && sym.Choice.TriValue() == kconfig.Yes {
		return "asked for through its choice"
	}
	return ""
}
