package oldconfig

// LineReader abstracts operator input. The real implementation uses
// readline on a terminal and a plain buffered reader otherwise; tests
// inject a mock.
type LineReader interface {
	// ReadLine shows prompt and returns one line of input without its line
	// terminator. io.EOF means the input is exhausted.
	ReadLine(prompt string) (string, error)
}

// Selector picks one entry from a list, for choice groups shown as an
// arrow-key menu instead of a numbered list.
type Selector interface {
	// Select returns the index of the chosen option. current is the index
	// highlighted initially.
	Select(message string, options []string, current int) (int, error)
}
