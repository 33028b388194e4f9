package oldconfig

import (
	"fmt"
	"strings"

	"github.com/Bibi40k/kconfig-oldconfig/pkg/kconfig"
)

const (
	msgBadIndex    = "Bad index"
	selectedMarker = ">"
)

// promptChoice asks which member of a y-mode choice to select, unless the
// user already picked a fully visible one.
func (w *Walker) promptChoice(node *kconfig.MenuNode, ch *kconfig.Choice) error {
	if sel := ch.UserSelection(); sel != nil && sel.Visibility() == kconfig.Yes {
		return nil
	}

	// Choices in n or m mode limit member visibility below y, so they end
	// up with no options here.
	options := selectableMembers(ch)
	if len(options) == 0 {
		return nil
	}

	if w.Selector != nil {
		return w.selectChoice(node, ch, options)
	}

	for {
		fmt.Fprintf(w.Out, "%s (defined at %s)\n", node.Prompt, node.Location())
		current := ch.Selection()
		for i, sym := range options {
			marker := " "
			if sym == current {
				marker = selectedMarker
			}
			fmt.Fprintf(w.Out, "%s %d. %s\n", marker, i+1, memberLabel(sym))
		}

		answer, err := w.In.ReadLine(fmt.Sprintf("choice[1-%d]: ", len(options)))
		if err != nil {
			return fmt.Errorf("read selection for %s: %w", choiceName(node), err)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			w.acceptSelection(ch, options)
			return nil
		}
		idx, ok := ParseIndex(answer, len(options))
		if !ok {
			fmt.Fprintln(w.Err, msgBadIndex)
			continue
		}
		w.selectMember(options[idx])
		return nil
	}
}

// selectChoice is promptChoice for an arrow-key selector.
func (w *Walker) selectChoice(node *kconfig.MenuNode, ch *kconfig.Choice, options []*kconfig.Symbol) error {
	labels := make([]string, len(options))
	current := 0
	sel := ch.Selection()
	for i, sym := range options {
		labels[i] = memberLabel(sym)
		if sym == sel {
			current = i
		}
	}
	message := fmt.Sprintf("%s (defined at %s)", node.Prompt, node.Location())
	for {
		idx, err := w.Selector.Select(message, labels, current)
		if err != nil {
			return fmt.Errorf("read selection for %s: %w", choiceName(node), err)
		}
		if idx < 0 || idx >= len(options) {
			fmt.Fprintln(w.Err, msgBadIndex)
			continue
		}
		w.selectMember(options[idx])
		return nil
	}
}

// acceptSelection confirms the selection the choice currently has, which
// is the member carrying the marker in the listing.
func (w *Walker) acceptSelection(ch *kconfig.Choice, options []*kconfig.Symbol) {
	sel := ch.Selection()
	if sel == nil {
		sel = options[0]
		w.Logger.Debug("choice has no selection, taking first option", "symbol", sel.Name)
	}
	w.selectMember(sel)
}

// selectMember assigns y to a choice member. A refusal ends the prompt all
// the same; the model has already logged why.
func (w *Walker) selectMember(sym *kconfig.Symbol) {
	if !sym.SetTriValue(kconfig.Yes) {
		w.Logger.Debug("choice member refused selection", "symbol", sym.Name)
		return
	}
	w.Logger.Debug("choice member selected", "symbol", sym.Name)
}

func selectableMembers(ch *kconfig.Choice) []*kconfig.Symbol {
	var out []*kconfig.Symbol
	for _, sym := range ch.Syms {
		if sym.Visibility() == kconfig.Yes {
			out = append(out, sym)
		}
	}
	return out
}

// memberLabel renders "<prompt> (<name>)", using the prompt of the member's
// first definition.
func memberLabel(sym *kconfig.Symbol) string {
	prompt := ""
	if len(sym.Nodes) > 0 {
		prompt = sym.Nodes[0].Prompt
	}
	return fmt.Sprintf("%s (%s)", prompt, sym.Name)
}

func choiceName(node *kconfig.MenuNode) string {
	if ch, ok := node.Item.(*kconfig.Choice); ok && ch.Name != "" {
		return ch.Name
	}
	return "choice at " + node.Location()
}
