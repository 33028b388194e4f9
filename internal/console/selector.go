package console

import (
	"errors"
	"fmt"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/Bibi40k/kconfig-oldconfig/pkg/oldconfig"
)

// compile-time interface compliance check
var _ oldconfig.Selector = SurveySelector{}

// SurveySelector shows choice groups as an arrow-key list.
type SurveySelector struct {
	// PageSize is the number of options shown at once. Zero means survey's
	// default.
	PageSize int
}

// Select wraps survey.AskOne for a Select prompt and drains stdin
// afterwards, discarding the cursor-position reports (\033[row;colR) the
// terminal queues in reply to survey's \033[6n queries. Left in place they
// show up as garbage in the next ReadLine.
func (s SurveySelector) Select(message string, options []string, current int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("select %q: no options", message)
	}
	if current < 0 || current >= len(options) {
		current = 0
	}
	var idx int
	err := survey.AskOne(&survey.Select{
		Message:  message,
		Options:  options,
		Default:  current,
		PageSize: s.PageSize,
	}, &idx)
	drainStdin()
	if errors.Is(err, terminal.InterruptErr) {
		return 0, ErrInterrupted
	}
	if err != nil {
		return 0, fmt.Errorf("select %q: %w", message, err)
	}
	return idx, nil
}
