package oldconfig

import (
	"github.com/Bibi40k/kconfig-oldconfig/pkg/kconfig"
)

// Step defines one stage of a run.
type Step struct {
	Name string
	Run  func() error
}

// RunSteps executes steps in order and reports transitions through
// onStepStart and onStepDone. The first failing step stops the run.
func RunSteps(steps []Step, onStepStart func(index, total int, name string), onStepDone func(index, total int)) error {
	total := len(steps)
	for i, step := range steps {
		if onStepStart != nil {
			onStepStart(i+1, total, step.Name)
		}
		if step.Run != nil {
			if err := step.Run(); err != nil {
				return err
			}
		}
		if onStepDone != nil {
			onStepDone(i+1, total)
		}
	}
	return nil
}

// Run loads the saved configuration at path, prompts for everything it
// leaves open, and writes the result back to path. Nothing is written
// unless the whole tree was walked.
func Run(cfg *kconfig.Config, path string, w *Walker) error {
	steps := []Step{
		{Name: "load " + path, Run: func() error { return cfg.LoadConfig(path) }},
		{Name: "prompt for unset symbols", Run: func() error { return w.Walk(cfg.Top) }},
		{Name: "write " + path, Run: func() error { return cfg.WriteConfig(path) }},
	}
	return RunSteps(steps,
		func(index, total int, name string) {
			w.Logger.Debug("step started", "step", index, "of", total, "name", name)
		},
		func(index, total int) {
			w.Logger.Debug("step done", "step", index, "of", total)
		},
	)
}
