package oldconfig

import (
	"fmt"

	"github.com/Bibi40k/kconfig-oldconfig/pkg/kconfig"
)

const msgInvalidTristate = "Invalid tristate value"

// promptSymbol asks for a value until the model accepts one. A blank
// answer takes the current value.
func (w *Walker) promptSymbol(node *kconfig.MenuNode, sym *kconfig.Symbol) error {
	for {
		answer, err := w.In.ReadLine(symbolPrompt(node, sym))
		if err != nil {
			return fmt.Errorf("read value for %s: %w", sym.Name, err)
		}
		val := OrDefault(TrimAnswer(answer, sym.OrigType()), sym.StrValue())

		switch sym.OrigType() {
		case kconfig.Bool, kconfig.Tristate:
			level, ok := ParseTristate(val)
			if !ok {
				fmt.Fprintln(w.Err, msgInvalidTristate)
				continue
			}
			// The model logs why a level was refused.
			if sym.SetTriValue(level) {
				w.Logger.Debug("symbol set", "symbol", sym.Name, "value", val)
				return nil
			}
			continue
		case kconfig.Hex:
			val = NormalizeHex(val)
		}

		if sym.SetValue(val) {
			w.Logger.Debug("symbol set", "symbol", sym.Name, "value", val)
			return nil
		}
	}
}

// symbolPrompt renders
//
//	TRISTATE_SYM prompt (TRISTATE_SYM, defined at Kconfig:9) [n/M/y]
func symbolPrompt(node *kconfig.MenuNode, sym *kconfig.Symbol) string {
	return fmt.Sprintf("%s (%s, defined at %s) [%s] ",
		node.Prompt, sym.Name, sym.Locations(), defaultHint(sym))
}

func defaultHint(sym *kconfig.Symbol) string {
	switch sym.OrigType() {
	case kconfig.Bool, kconfig.Tristate:
		return TristateHint(sym.Assignable(), sym.TriValue())
	}
	return sym.StrValue()
}
